package connectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"unifeed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subredditFeed(sub string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>%[1]s subreddit</title>
  <entry>
    <id>t3_first</id>
    <title>First post in %[1]s</title>
    <link href="https://www.reddit.com/r/%[1]s/comments/first"/>
    <published>2024-01-02T00:00:00+00:00</published>
    <content type="html">A first post</content>
  </entry>
  <entry>
    <id>t3_second</id>
    <title>Second post in %[1]s</title>
    <link href="https://www.reddit.com/r/%[1]s/comments/second"/>
    <published>2024-01-01T00:00:00+00:00</published>
    <content type="html">A second post</content>
  </entry>
</feed>`, sub)
}

func testOptions() Options {
	return Options{Timeout: 5 * time.Second, Retries: 1}
}

func TestRedditFetch(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/r/golang/.rss":
			fmt.Fprint(w, subredditFeed("golang"))
		case "/r/python/.rss":
			fmt.Fprint(w, subredditFeed("python"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	reddit := NewReddit(testOptions())
	reddit.baseURL = upstream.URL

	posts, err := reddit.Fetch(context.Background(), []string{"golang", "python"})
	require.NoError(t, err)
	require.Len(t, posts, 4)

	// Per-identifier order preserved
	assert.Equal(t, "t3_first", posts[0].ID)
	assert.Equal(t, "r/golang", posts[0].Source)
	assert.Equal(t, models.PlatformReddit, posts[0].Platform)
	assert.Equal(t, "2024-01-02T00:00:00Z", posts[0].Date)
	assert.Equal(t, "A first post", posts[0].Description)
	assert.Equal(t, "r/python", posts[2].Source)
}

func TestRedditFetchContentOnlyDescription(t *testing.T) {
	body := strings.Repeat("a", 250)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>golang subreddit</title>
  <entry>
    <id>t3_long</id>
    <title>A long post</title>
    <link href="https://www.reddit.com/r/golang/comments/long"/>
    <published>2024-01-02T00:00:00+00:00</published>
    <content type="html">%s</content>
  </entry>
</feed>`, body)
	}))
	defer upstream.Close()

	reddit := NewReddit(testOptions())
	reddit.baseURL = upstream.URL

	posts, err := reddit.Fetch(context.Background(), []string{"golang"})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// Entries without a summary still carry a clipped description
	require.NotEmpty(t, posts[0].Description)
	assert.Equal(t, strings.Repeat("a", 200), posts[0].Description)
}

func TestRedditFetchPartialFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r/golang/.rss" {
			fmt.Fprint(w, subredditFeed("golang"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	reddit := NewReddit(testOptions())
	reddit.baseURL = upstream.URL

	// The broken subreddit is skipped, the rest still fetched
	posts, err := reddit.Fetch(context.Background(), []string{"doesnotexist", "golang"})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "r/golang", posts[0].Source)
}

func TestRedditFetchEmptyIdentifiers(t *testing.T) {
	reddit := NewReddit(testOptions())

	posts, err := reddit.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

package connectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"unifeed/models"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
  <title>Uploads</title>
  <entry>
    <id>yt:video:dQw4w9WgXcQ</id>
    <yt:videoId>dQw4w9WgXcQ</yt:videoId>
    <title>A video</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=dQw4w9WgXcQ"/>
    <author>
      <name>Google Developers</name>
    </author>
    <published>2024-03-01T10:00:00+00:00</published>
    <media:group>
      <media:title>A video</media:title>
      <media:description>An in-depth look at something</media:description>
    </media:group>
  </entry>
</feed>`

func TestYouTubeFetch(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UC_x5XG1OV2P6uZZ5FSM9Ttw", r.URL.Query().Get("channel_id"))
		fmt.Fprint(w, channelFeed)
	}))
	defer upstream.Close()

	youtube := NewYouTube(testOptions())
	youtube.feedURL = upstream.URL + "/feeds/videos.xml?channel_id=%s"

	posts, err := youtube.Fetch(context.Background(), []string{"UC_x5XG1OV2P6uZZ5FSM9Ttw"})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// The yt:videoId extension wins over the generic entry id
	assert.Equal(t, "dQw4w9WgXcQ", posts[0].ID)
	assert.Equal(t, models.PlatformYouTube, posts[0].Platform)
	assert.Equal(t, "Google Developers", posts[0].Source)
	assert.Equal(t, "2024-03-01T10:00:00Z", posts[0].Date)

	// Upload entries have no summary; the media:group description is used
	assert.Equal(t, "An in-depth look at something", posts[0].Description)
}

func TestVideoDescription(t *testing.T) {
	t.Run("direct media description", func(t *testing.T) {
		item := &gofeed.Item{Extensions: ext.Extensions{
			"media": {"description": []ext.Extension{{Name: "description", Value: "direct"}}},
		}}
		assert.Equal(t, "direct", videoDescription(item))
	})

	t.Run("nested inside media group", func(t *testing.T) {
		item := &gofeed.Item{Extensions: ext.Extensions{
			"media": {"group": []ext.Extension{{
				Name: "group",
				Children: map[string][]ext.Extension{
					"description": {{Name: "description", Value: "nested"}},
				},
			}}},
		}}
		assert.Equal(t, "nested", videoDescription(item))
	})

	t.Run("empty without media extensions", func(t *testing.T) {
		assert.Equal(t, "", videoDescription(&gofeed.Item{}))
	})
}

func TestYouTubeFetchUnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	youtube := NewYouTube(testOptions())
	youtube.feedURL = upstream.URL + "/feeds/videos.xml?channel_id=%s"

	// Every channel failing still yields an empty result, not an error
	posts, err := youtube.Fetch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

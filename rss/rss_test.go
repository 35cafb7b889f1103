package rss_test

import (
	"encoding/xml"
	"strings"
	"testing"

	"unifeed/models"
	"unifeed/rss"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parsedDocument struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel struct {
		Title       string `xml:"title"`
		Description string `xml:"description"`
		Link        string `xml:"link"`
		Items       []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
			Category    string `xml:"category"`
			Source      string `xml:"source"`
		} `xml:"item"`
	} `xml:"channel"`
}

func parse(t *testing.T, body []byte) parsedDocument {
	t.Helper()
	var doc parsedDocument
	require.NoError(t, xml.Unmarshal(body, &doc))
	return doc
}

func TestRenderRoundTrip(t *testing.T) {
	posts := []models.Post{
		{
			ID:          "a",
			Title:       "First post",
			Link:        "https://example.com/a",
			Platform:    models.PlatformReddit,
			Source:      "r/golang",
			Date:        "2024-01-02T00:00:00Z",
			Description: "first",
		},
		{
			ID:       "b",
			Title:    "Second post",
			Link:     "https://example.com/b",
			Platform: models.PlatformYouTube,
			Source:   "Some Channel",
			Date:     "2024-01-01T00:00:00Z",
		},
	}

	body, err := rss.Render(posts, "My Unified Feed", "Combined social media feed")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), `<?xml version="1.0" encoding="UTF-8"?>`))

	doc := parse(t, body)
	assert.Equal(t, "2.0", doc.Version)
	assert.Equal(t, "My Unified Feed", doc.Channel.Title)
	assert.Equal(t, "Combined social media feed", doc.Channel.Description)
	assert.Equal(t, rss.ChannelLink, doc.Channel.Link)

	// One item per post, input order and links preserved
	require.Len(t, doc.Channel.Items, len(posts))
	for i, post := range posts {
		assert.Equal(t, post.Link, doc.Channel.Items[i].Link)
	}

	first := doc.Channel.Items[0]
	assert.Equal(t, "[Reddit] First post", first.Title)
	assert.Equal(t, "first", first.Description)
	assert.Equal(t, "Tue, 02 Jan 2024 00:00:00 GMT", first.PubDate)
	assert.Equal(t, "Reddit", first.Category)
	assert.Equal(t, "r/golang", first.Source)
}

func TestRenderEmptyFeed(t *testing.T) {
	body, err := rss.Render(nil, "My Unified Feed", "Combined social media feed")
	require.NoError(t, err)

	// Still a valid, parseable document with an empty channel
	doc := parse(t, body)
	assert.Equal(t, "2.0", doc.Version)
	assert.Equal(t, "My Unified Feed", doc.Channel.Title)
	assert.Empty(t, doc.Channel.Items)
}

func TestRenderPubDateFallsBackToNow(t *testing.T) {
	posts := []models.Post{
		{
			Title:    "Broken date",
			Link:     "https://example.com/broken",
			Platform: models.PlatformTwitter,
			Source:   "@someone",
			Date:     "not-a-date",
		},
	}

	body, err := rss.Render(posts, "t", "d")
	require.NoError(t, err)

	doc := parse(t, body)
	require.Len(t, doc.Channel.Items, 1)
	assert.NotEmpty(t, doc.Channel.Items[0].PubDate)
	assert.True(t, strings.HasSuffix(doc.Channel.Items[0].PubDate, "GMT"))
}

func TestRenderNaiveISODate(t *testing.T) {
	posts := []models.Post{
		{
			Title:    "Naive timestamp",
			Link:     "https://example.com/naive",
			Platform: models.PlatformInstagram,
			Source:   "@natgeo",
			Date:     "2024-05-06T07:08:09",
		},
	}

	body, err := rss.Render(posts, "t", "d")
	require.NoError(t, err)

	doc := parse(t, body)
	require.Len(t, doc.Channel.Items, 1)
	assert.Equal(t, "Mon, 06 May 2024 07:08:09 GMT", doc.Channel.Items[0].PubDate)
}

func TestRenderSourceFallsBackToPlatform(t *testing.T) {
	posts := []models.Post{
		{
			Title:    "No source",
			Link:     "https://example.com/nosource",
			Platform: models.PlatformReddit,
			Date:     "2024-01-01T00:00:00Z",
		},
	}

	body, err := rss.Render(posts, "t", "d")
	require.NoError(t, err)

	doc := parse(t, body)
	require.Len(t, doc.Channel.Items, 1)
	assert.Equal(t, "Reddit", doc.Channel.Items[0].Source)
}

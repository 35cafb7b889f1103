// Package rss renders canonical posts as an RSS 2.0 document, independent of
// transport. Callers pre-sort and pre-filter; items are emitted in input order.
package rss

import (
	"encoding/xml"
	"fmt"
	"time"

	"unifeed/models"
)

const (
	// ChannelLink identifies the aggregated channel itself; individual items
	// link to their origin.
	ChannelLink = "https://unified-feed.local"

	// DefaultTitle and DefaultDescription are the channel metadata used by
	// the HTTP and CLI surfaces.
	DefaultTitle       = "My Unified Feed"
	DefaultDescription = "Combined social media feed"

	pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

type document struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	Items       []item `xml:"item"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Category    string `xml:"category"`
	Source      string `xml:"source"`
}

// Render produces a complete RSS 2.0 document, XML declaration included.
// An empty post list still yields a valid document with an empty channel.
func Render(posts []models.Post, title, description string) ([]byte, error) {
	doc := document{
		Version: "2.0",
		Channel: channel{
			Title:       title,
			Description: description,
			Link:        ChannelLink,
			Items:       make([]item, 0, len(posts)),
		},
	}

	for _, post := range posts {
		doc.Channel.Items = append(doc.Channel.Items, item{
			Title:       fmt.Sprintf("[%s] %s", post.Platform, post.Title),
			Link:        post.Link,
			Description: post.Description,
			PubDate:     pubDate(post.Date),
			Category:    post.Platform,
			Source:      itemSource(post),
		})
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshalling rss: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// pubDate converts the canonical ISO-8601 date into RFC-822. The connectors
// always write zoned RFC-3339 dates; the naive layout covers rows written to
// the database by hand, which carry no zone suffix. A date that matches
// neither falls back to the current time rather than failing the whole
// render.
func pubDate(date string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.UTC().Format(pubDateLayout)
		}
	}
	return time.Now().UTC().Format(pubDateLayout)
}

func itemSource(post models.Post) string {
	if post.Source != "" {
		return post.Source
	}
	return post.Platform
}

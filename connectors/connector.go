// Package connectors holds the per-platform fetch adapters. Each connector
// turns a list of source identifiers into canonical posts, absorbing
// per-identifier failures so partial success is the norm.
package connectors

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"unifeed/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/mmcdole/gofeed"
)

const (
	descriptionLimit = 200
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 2
	userAgent        = "unifeed/1.0 (+https://unified-feed.local)"

	// DefaultRSSHubBase serves the platforms without a public feed endpoint.
	DefaultRSSHubBase = "https://rsshub.app"
)

// Connector is a per-platform fetch adapter. Fetch never fails an individual
// identifier loudly: bad identifiers are logged and skipped, and an empty
// identifier list yields an empty result. A non-nil error means the connector
// as a whole could not run; the aggregator treats that as zero posts.
type Connector interface {
	Platform() string
	Fetch(ctx context.Context, identifiers []string) ([]models.Post, error)
}

// Options tunes the shared feed client used by the built-in connectors.
type Options struct {
	RSSHubBase string
	Timeout    time.Duration
	Retries    uint64
}

func (o Options) withDefaults() Options {
	if o.RSSHubBase == "" {
		o.RSSHubBase = DefaultRSSHubBase
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Retries == 0 {
		o.Retries = defaultRetries
	}
	return o
}

// userAgentTransport injects a User-Agent header into every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(req)
}

// feedClient wraps gofeed with a timeout, a User-Agent and retry with
// exponential backoff.
type feedClient struct {
	parser  *gofeed.Parser
	timeout time.Duration
	retries uint64
}

func newFeedClient(opts Options) *feedClient {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{
		Timeout:   opts.Timeout,
		Transport: &userAgentTransport{base: http.DefaultTransport},
	}

	return &feedClient{
		parser:  parser,
		timeout: opts.Timeout,
		retries: opts.Retries,
	}
}

func (fc *feedClient) fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	var feed *gofeed.Feed

	operation := func() error {
		fetchCtx, cancel := context.WithTimeout(ctx, fc.timeout)
		defer cancel()

		parsed, err := fc.parser.ParseURLWithContext(url, fetchCtx)
		if err != nil {
			return err
		}
		feed = parsed
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, fc.retries), ctx)); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	return feed, nil
}

// postFromItem maps one feed entry into the canonical post shape.
func postFromItem(item *gofeed.Item, platform, source string) models.Post {
	return models.Post{
		ID:          itemID(item),
		Title:       item.Title,
		Link:        item.Link,
		Platform:    platform,
		Source:      source,
		Date:        itemDate(item),
		Description: clip(itemDescription(item), descriptionLimit),
	}
}

// itemDescription prefers the entry summary and falls back to the full
// content body. Reddit's Atom entries carry their text only as content.
func itemDescription(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}

// itemID prefers the entry's native id and falls back to its link.
func itemID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

// itemDate uses the parsed publish time (or update time) when present and
// falls back to the current wall clock, so a date can legitimately reflect
// fetch time rather than publish time.
func itemDate(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return models.FormatTime(*item.PublishedParsed)
	}
	if item.UpdatedParsed != nil {
		return models.FormatTime(*item.UpdatedParsed)
	}
	return models.FormatTime(time.Now())
}

// clip truncates to the first n characters, no ellipsis.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

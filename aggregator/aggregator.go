// Package aggregator fans out to every registered connector and merges the
// results into one cached generation. No platform's failure ever fails the
// run as a whole.
package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"unifeed/connectors"
	"unifeed/models"

	log "github.com/sirupsen/logrus"
)

// CacheWriter is the slice of the cache store the aggregator needs.
type CacheWriter interface {
	ReplaceAll(batch []models.CachedPost) error
}

// Registration pairs a connector with the function that selects its source
// identifiers from the feed configuration. Registration order is the merge
// order of the aggregated batch.
type Registration struct {
	Connector connectors.Connector
	Sources   func(cfg models.FeedConfig) []string
}

// DefaultRegistrations wires the built-in connectors in their fixed order.
// The placeholder connector is keyed to the threads user list until a real
// Threads integration exists.
func DefaultRegistrations(opts connectors.Options) []Registration {
	return []Registration{
		{Connector: connectors.NewReddit(opts), Sources: func(cfg models.FeedConfig) []string { return cfg.RedditSubreddits }},
		{Connector: connectors.NewYouTube(opts), Sources: func(cfg models.FeedConfig) []string { return cfg.YoutubeChannels }},
		{Connector: connectors.NewInstagram(opts), Sources: func(cfg models.FeedConfig) []string { return cfg.InstagramUsers }},
		{Connector: connectors.NewTwitter(opts), Sources: func(cfg models.FeedConfig) []string { return cfg.TwitterUsers }},
		{Connector: connectors.NewPlaceholder(), Sources: func(cfg models.FeedConfig) []string { return cfg.ThreadsUsers }},
	}
}

// Result is the outcome of one connector invocation. Err and Posts are
// mutually exclusive: a failed connector contributes zero posts.
type Result struct {
	Platform string
	Posts    []models.Post
	Err      error
}

type Aggregator struct {
	registrations []Registration
	cache         CacheWriter
}

func New(cache CacheWriter, registrations []Registration) *Aggregator {
	return &Aggregator{
		registrations: registrations,
		cache:         cache,
	}
}

// Run invokes every registered connector concurrently, merges the successful
// results in registration order, stamps the batch uniformly and replaces the
// cached generation with it. The returned posts are the merged batch without
// cache stamps.
func (a *Aggregator) Run(ctx context.Context, cfg models.FeedConfig) ([]models.Post, error) {
	start := time.Now()
	aggregationRuns.Inc()

	// Per-task-local accumulation: each goroutine owns its slot, so the only
	// coordination needed is the WaitGroup.
	results := make([]Result, len(a.registrations))
	var wg sync.WaitGroup
	for i, reg := range a.registrations {
		wg.Add(1)
		go func(i int, reg Registration) {
			defer wg.Done()
			results[i] = invoke(ctx, reg, cfg)
		}(i, reg)
	}
	wg.Wait()

	var posts []models.Post
	for _, result := range results {
		if result.Err != nil {
			connectorErrors.WithLabelValues(result.Platform).Inc()
			log.WithFields(log.Fields{
				"platform": result.Platform,
				"error":    result.Err,
			}).Error("Connector failed, continuing without it")
			continue
		}

		postsFetched.WithLabelValues(result.Platform).Add(float64(len(result.Posts)))
		posts = append(posts, result.Posts...)
	}

	cachedAt := models.FormatTime(time.Now())
	batch := make([]models.CachedPost, 0, len(posts))
	for _, post := range posts {
		batch = append(batch, models.CachedPost{Post: post, CachedAt: cachedAt})
	}

	if err := a.cache.ReplaceAll(batch); err != nil {
		return nil, fmt.Errorf("caching aggregated posts: %w", err)
	}

	aggregationDuration.Observe(time.Since(start).Seconds())
	log.WithFields(log.Fields{
		"count":    len(posts),
		"duration": time.Since(start),
	}).Info("Aggregation run complete")

	return posts, nil
}

// invoke runs one connector, converting panics into failed results so a
// misbehaving connector cannot take the run down.
func invoke(ctx context.Context, reg Registration, cfg models.FeedConfig) (result Result) {
	result.Platform = reg.Connector.Platform()

	defer func() {
		if r := recover(); r != nil {
			result.Posts = nil
			result.Err = fmt.Errorf("connector panicked: %v", r)
		}
	}()

	posts, err := reg.Connector.Fetch(ctx, reg.Sources(cfg))
	result.Posts, result.Err = posts, err
	return result
}

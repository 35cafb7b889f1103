// Package feeds is the query layer over the cached batch: refresh decisions,
// platform/keyword filters, deterministic sort and pagination.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"unifeed/db"
	"unifeed/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ErrInvalidQuery marks client-side validation failures; everything else the
// service returns is a server-side problem.
var ErrInvalidQuery = errors.New("invalid query")

// ConfigSource is the slice of the config store the service reads.
type ConfigSource interface {
	Get() (models.FeedConfig, error)
}

// Cache is the slice of the cache store the service reads.
type Cache interface {
	IsFresh(maxAge time.Duration) bool
	ReadAll() ([]models.Post, error)
	Count() (int64, error)
	LastCachedAt() (string, error)
}

// Runner produces a fresh aggregated batch.
type Runner interface {
	Run(ctx context.Context, cfg models.FeedConfig) ([]models.Post, error)
}

// FeedQuery carries the caller-visible query parameters.
type FeedQuery struct {
	Platform string
	Keyword  string
	Refresh  bool
	Page     int
	Limit    int
}

func (q FeedQuery) Validate() error {
	if q.Page < 1 {
		return fmt.Errorf("%w: page must be 1 or greater", ErrInvalidQuery)
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidQuery, MaxLimit)
	}
	return nil
}

// Service answers feed queries from the cache, refreshing it through the
// aggregator when it is stale or a refresh is forced.
type Service struct {
	config ConfigSource
	cache  Cache
	runner Runner
	maxAge time.Duration
}

func NewService(config ConfigSource, cache Cache, runner Runner, maxAge time.Duration) *Service {
	if maxAge <= 0 {
		maxAge = db.DefaultMaxAge
	}
	return &Service{
		config: config,
		cache:  cache,
		runner: runner,
		maxAge: maxAge,
	}
}

// Feed returns one page of the filtered, date-descending feed.
func (s *Service) Feed(ctx context.Context, query FeedQuery) ([]models.Post, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	posts, err := s.All(ctx, query.Platform, query.Keyword, query.Refresh)
	if err != nil {
		return nil, err
	}

	return Paginate(posts, query.Page, query.Limit), nil
}

// All returns the complete filtered, sorted feed without pagination. The RSS
// export uses this so the serialization stays lossless over the filter.
func (s *Service) All(ctx context.Context, platform, keyword string, refresh bool) ([]models.Post, error) {
	posts, err := s.load(ctx, refresh)
	if err != nil {
		return nil, err
	}

	posts = Filter(posts, platform, keyword)
	SortByDateDesc(posts)
	return posts, nil
}

// Refresh forces an aggregation run and returns the batch size.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	cfg, err := s.config.Get()
	if err != nil {
		return 0, fmt.Errorf("reading feed config: %w", err)
	}

	posts, err := s.runner.Run(ctx, cfg)
	if err != nil {
		return 0, err
	}

	return len(posts), nil
}

// Metadata reports on the cached batch as a whole, independent of filters.
func (s *Service) Metadata(ctx context.Context) (models.FeedMetadata, error) {
	total, err := s.cache.Count()
	if err != nil {
		return models.FeedMetadata{}, err
	}

	lastCached, err := s.cache.LastCachedAt()
	if err != nil {
		return models.FeedMetadata{}, err
	}

	cfg, err := s.config.Get()
	if err != nil {
		return models.FeedMetadata{}, fmt.Errorf("reading feed config: %w", err)
	}

	return models.FeedMetadata{
		TotalPosts:      total,
		LastUpdated:     lastCached,
		CacheTTLMinutes: int(s.maxAge.Minutes()),
		ConfigUpdated:   cfg.LastUpdated,
	}, nil
}

func (s *Service) load(ctx context.Context, refresh bool) ([]models.Post, error) {
	if !refresh && s.cache.IsFresh(s.maxAge) {
		return s.cache.ReadAll()
	}

	log.WithFields(log.Fields{
		"forced": refresh,
	}).Info("Cache stale or refresh forced, running aggregation")

	cfg, err := s.config.Get()
	if err != nil {
		return nil, fmt.Errorf("reading feed config: %w", err)
	}

	return s.runner.Run(ctx, cfg)
}

// Filter applies the platform and keyword filters, AND-composed. Platform is
// a case-insensitive exact match, keyword a case-insensitive substring match
// against the title only.
func Filter(posts []models.Post, platform, keyword string) []models.Post {
	if platform != "" {
		posts = lo.Filter(posts, func(post models.Post, _ int) bool {
			return strings.EqualFold(post.Platform, platform)
		})
	}

	if keyword != "" {
		needle := strings.ToLower(keyword)
		posts = lo.Filter(posts, func(post models.Post, _ int) bool {
			return strings.Contains(strings.ToLower(post.Title), needle)
		})
	}

	return posts
}

// SortByDateDesc sorts newest first by comparing the canonical date strings
// lexicographically. This only matches chronological order because every
// date is kept in zero-padded UTC RFC-3339 form at ingestion.
func SortByDateDesc(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
}

// Paginate slices out the 1-indexed page. Out-of-range pages yield an empty
// slice, not an error.
func Paginate(posts []models.Post, page, limit int) []models.Post {
	start := (page - 1) * limit
	if start >= len(posts) {
		return []models.Post{}
	}

	end := start + limit
	if end > len(posts) {
		end = len(posts)
	}

	return posts[start:end]
}

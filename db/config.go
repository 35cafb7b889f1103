package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"unifeed/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// ConfigStore holds the singleton feed configuration record. Updating the
// record clears the post cache so the next read aggregates against the new
// source lists.
type ConfigStore struct {
	db    *sql.DB
	cache *CacheStore
}

func NewConfigStore(d *DB, cache *CacheStore) *ConfigStore {
	return &ConfigStore{db: d.db, cache: cache}
}

// Get returns the configuration, creating the default record if none exists.
func (s *ConfigStore) Get() (models.FeedConfig, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "reddit_subreddits", "youtube_channels", "instagram_users", "threads_users", "twitter_users", "last_updated")
	sb.From("config")
	sb.Where(sb.Equal("id", models.DefaultConfigID))
	query, args := sb.Build()

	var cfg models.FeedConfig
	var reddit, youtube, instagram, threads, twitter string
	err := s.db.QueryRow(query, args...).Scan(&cfg.ID, &reddit, &youtube, &instagram, &threads, &twitter, &cfg.LastUpdated)
	if err == sql.ErrNoRows {
		cfg = models.DefaultFeedConfig()
		if err := s.upsert(cfg); err != nil {
			return models.FeedConfig{}, fmt.Errorf("creating default config: %w", err)
		}
		log.Info("Created default feed config")
		return cfg, nil
	}
	if err != nil {
		return models.FeedConfig{}, fmt.Errorf("query error: %w", err)
	}

	columns := []string{reddit, youtube, instagram, threads, twitter}
	targets := []*[]string{&cfg.RedditSubreddits, &cfg.YoutubeChannels, &cfg.InstagramUsers, &cfg.ThreadsUsers, &cfg.TwitterUsers}
	for i, column := range columns {
		if err := json.Unmarshal([]byte(column), targets[i]); err != nil {
			return models.FeedConfig{}, fmt.Errorf("decoding source list: %w", err)
		}
	}

	return cfg, nil
}

// Update stamps and persists the configuration, then clears the post cache
// so stale results cannot be served against the old source lists.
func (s *ConfigStore) Update(cfg models.FeedConfig) (models.FeedConfig, error) {
	cfg.ID = models.DefaultConfigID
	cfg.LastUpdated = models.FormatTime(time.Now())

	if err := s.upsert(cfg); err != nil {
		return models.FeedConfig{}, fmt.Errorf("updating config: %w", err)
	}

	if err := s.cache.Clear(); err != nil {
		return models.FeedConfig{}, fmt.Errorf("invalidating cache: %w", err)
	}

	log.WithFields(log.Fields{
		"last_updated": cfg.LastUpdated,
	}).Info("Updated feed config and cleared cache")

	return cfg, nil
}

func (s *ConfigStore) upsert(cfg models.FeedConfig) error {
	lists := make([]string, 0, 5)
	for _, identifiers := range [][]string{cfg.RedditSubreddits, cfg.YoutubeChannels, cfg.InstagramUsers, cfg.ThreadsUsers, cfg.TwitterUsers} {
		if identifiers == nil {
			identifiers = []string{}
		}
		encoded, err := json.Marshal(identifiers)
		if err != nil {
			return fmt.Errorf("encoding source list: %w", err)
		}
		lists = append(lists, string(encoded))
	}

	_, err := s.db.Exec(`
		INSERT INTO config (id, reddit_subreddits, youtube_channels, instagram_users, threads_users, twitter_users, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			reddit_subreddits = excluded.reddit_subreddits,
			youtube_channels = excluded.youtube_channels,
			instagram_users = excluded.instagram_users,
			threads_users = excluded.threads_users,
			twitter_users = excluded.twitter_users,
			last_updated = excluded.last_updated`,
		cfg.ID, lists[0], lists[1], lists[2], lists[3], lists[4], cfg.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert error: %w", err)
	}

	return nil
}

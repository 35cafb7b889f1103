package db

import (
	"database/sql"
	"fmt"
	"time"

	"unifeed/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxAge is the freshness window for the cached batch. A batch older
// than this is refetched on the next read.
const DefaultMaxAge = 10 * time.Minute

var postColumns = []string{"post_id", "title", "link", "platform", "source", "date", "description"}

// CacheStore persists the most recent aggregated batch of posts. The store
// holds exactly one generation at a time: ReplaceAll discards the previous
// generation and installs the new one in a single transaction, so readers
// see either the old batch or the new one, never a mix.
type CacheStore struct {
	db *sql.DB
}

func NewCacheStore(d *DB) *CacheStore {
	return &CacheStore{db: d.db}
}

// ReplaceAll atomically swaps the cached generation for the given batch.
func (s *CacheStore) ReplaceAll(batch []models.CachedPost) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM posts"); err != nil {
		return fmt.Errorf("clear generation: %w", err)
	}

	if len(batch) > 0 {
		insert := sqlbuilder.NewInsertBuilder()
		insert.InsertInto("posts").Cols(append(postColumns, "cached_at")...)
		for _, post := range batch {
			insert.Values(post.ID, post.Title, post.Link, post.Platform, post.Source, post.Date, post.Description, post.CachedAt)
		}
		sql, args := insert.Build()

		if _, err := tx.Exec(sql, args...); err != nil {
			return fmt.Errorf("insert generation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	log.WithFields(log.Fields{
		"count": len(batch),
	}).Info("Replaced cached post generation")

	return nil
}

// ReadAll returns a copy of every cached post, cache stamps stripped, in
// insertion order.
func (s *CacheStore) ReadAll() ([]models.Post, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(postColumns...).From("posts")
	sb.OrderBy("id").Asc()
	query, args := sb.Build()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Link, &post.Platform, &post.Source, &post.Date, &post.Description); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// IsFresh reports whether at least one cached post was written within maxAge
// of now. A single lagging connector does not invalidate the batch, but an
// empty cache is never fresh.
func (s *CacheStore) IsFresh(maxAge time.Duration) bool {
	cutoff := models.FormatTime(time.Now().Add(-maxAge))

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("count(*)").From("posts")
	sb.Where(sb.GreaterEqualThan("cached_at", cutoff))
	query, args := sb.Build()

	var count int64
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		log.Error("Error checking cache freshness", err)
		return false
	}

	return count > 0
}

// Clear removes the cached generation. Called on config updates.
func (s *CacheStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM posts"); err != nil {
		return fmt.Errorf("clear error: %w", err)
	}
	return nil
}

// Count returns the number of posts in the cached generation.
func (s *CacheStore) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT count(*) FROM posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("count error: %w", err)
	}
	return count, nil
}

// LastCachedAt returns the most recent cache stamp, or the empty string for
// an empty cache.
func (s *CacheStore) LastCachedAt() (string, error) {
	var cachedAt string
	err := s.db.QueryRow("SELECT cached_at FROM posts ORDER BY cached_at DESC LIMIT 1").Scan(&cachedAt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query error: %w", err)
	}
	return cachedAt, nil
}

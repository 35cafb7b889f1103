package models

import "time"

// TimeLayout is the canonical timestamp format for post dates and cache
// stamps. Everything is normalized to UTC RFC-3339 so that lexicographic
// comparison of two timestamps matches chronological order. The feed sort
// and the cache freshness query both rely on this.
const TimeLayout = time.RFC3339

// Platform names emitted by the built-in connectors. The engine itself
// treats platform as an opaque string, so new connectors can introduce
// names without touching any of this.
const (
	PlatformReddit      = "Reddit"
	PlatformYouTube     = "YouTube"
	PlatformInstagram   = "Instagram"
	PlatformTwitter     = "Twitter"
	PlatformPlaceholder = "Placeholder"
)

// DefaultConfigID is the id of the singleton feed configuration record.
const DefaultConfigID = "default"

// FormatTime renders a timestamp in the canonical layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Post is the canonical post shape every connector normalizes into.
// Values are immutable once created; stores hand out copies.
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Platform    string `json:"platform"`
	Source      string `json:"source"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// CachedPost is a Post stamped with the aggregation run that produced it.
// All posts written in one run share the same CachedAt value.
type CachedPost struct {
	Post
	CachedAt string `json:"cached_at"`
}

// FeedConfig holds the source identifiers to follow per platform.
type FeedConfig struct {
	ID               string   `json:"id"`
	RedditSubreddits []string `json:"reddit_subreddits"`
	YoutubeChannels  []string `json:"youtube_channels"`
	InstagramUsers   []string `json:"instagram_users"`
	ThreadsUsers     []string `json:"threads_users"`
	TwitterUsers     []string `json:"twitter_users"`
	LastUpdated      string   `json:"last_updated"`
}

// DefaultFeedConfig returns the configuration created lazily when no
// record exists yet.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ID:               DefaultConfigID,
		RedditSubreddits: []string{"python", "programming", "technology"},
		YoutubeChannels:  []string{"UC_x5XG1OV2P6uZZ5FSM9Ttw"},
		InstagramUsers:   []string{"natgeo"},
		ThreadsUsers:     []string{"zuck"},
		TwitterUsers:     []string{"elonmusk"},
		LastUpdated:      FormatTime(time.Now()),
	}
}

// FeedMetadata describes the cached batch independent of any filter.
type FeedMetadata struct {
	TotalPosts      int64  `json:"total_posts"`
	LastUpdated     string `json:"last_updated"`
	CacheTTLMinutes int    `json:"cache_ttl_minutes"`
	ConfigUpdated   string `json:"config_updated"`
}

package connectors

import (
	"context"
	"fmt"

	"unifeed/models"

	log "github.com/sirupsen/logrus"
)

const redditBaseURL = "https://www.reddit.com"

// Reddit fetches subreddit posts via Reddit's public RSS endpoints.
type Reddit struct {
	client  *feedClient
	baseURL string
}

func NewReddit(opts Options) *Reddit {
	return &Reddit{
		client:  newFeedClient(opts.withDefaults()),
		baseURL: redditBaseURL,
	}
}

func (r *Reddit) Platform() string {
	return models.PlatformReddit
}

func (r *Reddit) Fetch(ctx context.Context, subreddits []string) ([]models.Post, error) {
	var posts []models.Post

	for _, sub := range subreddits {
		feed, err := r.client.fetch(ctx, fmt.Sprintf("%s/r/%s/.rss", r.baseURL, sub))
		if err != nil {
			log.WithFields(log.Fields{
				"subreddit": sub,
				"error":     err,
			}).Warn("Skipping subreddit")
			continue
		}

		for _, item := range feed.Items {
			posts = append(posts, postFromItem(item, models.PlatformReddit, "r/"+sub))
		}
	}

	return posts, nil
}

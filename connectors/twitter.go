package connectors

import (
	"context"
	"fmt"

	"unifeed/models"

	log "github.com/sirupsen/logrus"
)

// Twitter fetches user timelines through an RSSHub bridge.
type Twitter struct {
	client     *feedClient
	rsshubBase string
}

func NewTwitter(opts Options) *Twitter {
	opts = opts.withDefaults()
	return &Twitter{
		client:     newFeedClient(opts),
		rsshubBase: opts.RSSHubBase,
	}
}

func (t *Twitter) Platform() string {
	return models.PlatformTwitter
}

func (t *Twitter) Fetch(ctx context.Context, usernames []string) ([]models.Post, error) {
	var posts []models.Post

	for _, username := range usernames {
		feed, err := t.client.fetch(ctx, fmt.Sprintf("%s/twitter/user/%s", t.rsshubBase, username))
		if err != nil {
			log.WithFields(log.Fields{
				"username": username,
				"error":    err,
			}).Warn("Skipping Twitter user")
			continue
		}

		for _, item := range feed.Items {
			posts = append(posts, postFromItem(item, models.PlatformTwitter, "@"+username))
		}
	}

	return posts, nil
}

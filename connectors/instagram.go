package connectors

import (
	"context"
	"fmt"

	"unifeed/models"

	log "github.com/sirupsen/logrus"
)

// Instagram fetches user posts through an RSSHub bridge; Instagram itself
// exposes no public feed.
type Instagram struct {
	client     *feedClient
	rsshubBase string
}

func NewInstagram(opts Options) *Instagram {
	opts = opts.withDefaults()
	return &Instagram{
		client:     newFeedClient(opts),
		rsshubBase: opts.RSSHubBase,
	}
}

func (i *Instagram) Platform() string {
	return models.PlatformInstagram
}

func (i *Instagram) Fetch(ctx context.Context, usernames []string) ([]models.Post, error) {
	var posts []models.Post

	for _, username := range usernames {
		feed, err := i.client.fetch(ctx, fmt.Sprintf("%s/instagram/user/%s", i.rsshubBase, username))
		if err != nil {
			log.WithFields(log.Fields{
				"username": username,
				"error":    err,
			}).Warn("Skipping Instagram user")
			continue
		}

		for _, item := range feed.Items {
			posts = append(posts, postFromItem(item, models.PlatformInstagram, "@"+username))
		}
	}

	return posts, nil
}

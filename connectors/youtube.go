package connectors

import (
	"context"
	"fmt"

	"unifeed/models"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
)

const youtubeFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// YouTube fetches channel uploads via YouTube's public Atom feeds.
type YouTube struct {
	client  *feedClient
	feedURL string
}

func NewYouTube(opts Options) *YouTube {
	return &YouTube{
		client:  newFeedClient(opts.withDefaults()),
		feedURL: youtubeFeedURL,
	}
}

func (y *YouTube) Platform() string {
	return models.PlatformYouTube
}

func (y *YouTube) Fetch(ctx context.Context, channels []string) ([]models.Post, error) {
	var posts []models.Post

	for _, channel := range channels {
		feed, err := y.client.fetch(ctx, fmt.Sprintf(y.feedURL, channel))
		if err != nil {
			log.WithFields(log.Fields{
				"channel": channel,
				"error":   err,
			}).Warn("Skipping YouTube channel")
			continue
		}

		for _, item := range feed.Items {
			post := postFromItem(item, models.PlatformYouTube, videoAuthor(item))
			post.ID = videoID(item)
			if description := videoDescription(item); description != "" {
				post.Description = clip(description, descriptionLimit)
			}
			posts = append(posts, post)
		}
	}

	return posts, nil
}

// videoID prefers the yt:videoId Atom extension over the generic entry id.
func videoID(item *gofeed.Item) string {
	if values, ok := item.Extensions["yt"]["videoId"]; ok && len(values) > 0 && values[0].Value != "" {
		return values[0].Value
	}
	return itemID(item)
}

// videoDescription pulls the media:description extension, which YouTube
// nests inside media:group. Upload entries have no summary element, so the
// generic mapping leaves the description empty.
func videoDescription(item *gofeed.Item) string {
	media := item.Extensions["media"]
	if values, ok := media["description"]; ok && len(values) > 0 && values[0].Value != "" {
		return values[0].Value
	}
	if groups, ok := media["group"]; ok && len(groups) > 0 {
		if descriptions, ok := groups[0].Children["description"]; ok && len(descriptions) > 0 {
			return descriptions[0].Value
		}
	}
	return ""
}

func videoAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	return "Unknown"
}

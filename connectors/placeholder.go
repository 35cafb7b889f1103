package connectors

import (
	"context"
	"time"

	"unifeed/models"
)

// Placeholder stands in for platforms that still need a real integration
// (Threads, Facebook). It emits a single static post whenever any
// identifiers are configured for it.
type Placeholder struct{}

func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (p *Placeholder) Platform() string {
	return models.PlatformPlaceholder
}

func (p *Placeholder) Fetch(ctx context.Context, identifiers []string) ([]models.Post, error) {
	if len(identifiers) == 0 {
		return nil, nil
	}

	return []models.Post{
		{
			ID:          "placeholder-1",
			Title:       "Threads/Instagram/X - Coming Soon",
			Link:        "#",
			Platform:    models.PlatformPlaceholder,
			Source:      "Future Integration",
			Date:        models.FormatTime(time.Now()),
			Description: "Connect via RSSHub or API integration in future updates",
		},
	}, nil
}

package testutil

import (
	"time"

	"github.com/dalemusser/greencircuit/internal/domain/models"
)

// FixedTime is the timestamp fixtures use so assertions stay stable.
var FixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Post returns a blog post with the given id and status.
func Post(id string, status models.PostStatus) models.BlogPost {
	published := FixedTime
	return models.BlogPost{
		ID:          id,
		Title:       "Post " + id,
		Excerpt:     "Excerpt for " + id,
		Content:     "## Heading\n\nBody of **" + id + "**.",
		Status:      status,
		Author:      "GreenCircuit Team",
		PublishedAt: &published,
	}
}

// Media returns an image with the given id.
func Media(id string, inSlider bool) models.MediaItem {
	return models.MediaItem{
		ID:            id,
		URL:           "/uploads/media/" + id + ".jpg",
		Name:          "Media " + id,
		Type:          models.MediaImage,
		InMediaSlider: inSlider,
	}
}

// internal/domain/models/mediaitem.go
package models

import "strings"

// MediaType is the kind of asset a MediaItem points to.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaTypeFor maps an uploaded file's content type to a MediaType.
// Anything that is not a video is treated as an image.
func MediaTypeFor(contentType string) MediaType {
	if strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return MediaVideo
	}
	return MediaImage
}

// MediaItem is one asset in the media library.
type MediaItem struct {
	ID            string    `bson:"id" json:"id"`
	URL           string    `bson:"url" json:"url"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	Type          MediaType `bson:"type" json:"type"`
	InMediaSlider bool      `bson:"in_media_slider" json:"inMediaSlider"`
	OriginalURL   string    `bson:"original_url,omitempty" json:"originalUrl,omitempty"`
}

// MediaPatch edits the admin-facing fields of a MediaItem.
type MediaPatch struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	InMediaSlider *bool   `json:"inMediaSlider,omitempty"`
}

// Apply merges the patch into m.
func (p MediaPatch) Apply(m *MediaItem) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.InMediaSlider != nil {
		m.InMediaSlider = *p.InMediaSlider
	}
}

// SliderMedia returns the items flagged for the homepage slider, in library
// order. Applying it to its own output returns the same sequence.
func SliderMedia(items []MediaItem) []MediaItem {
	out := make([]MediaItem, 0, len(items))
	for _, m := range items {
		if m.InMediaSlider {
			out = append(out, m)
		}
	}
	return out
}

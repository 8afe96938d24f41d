package contentstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/greencircuit/internal/domain/models"
)

// ErrNotFound is returned when editing an item that does not exist.
// Removing an unknown item is not an error.
var ErrNotFound = errors.New("contentstore: item not found")

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// UpdateSiteSettings shallow-merges patch into the site settings.
func (s *Store) UpdateSiteSettings(ctx context.Context, patch models.SitePatch) error {
	if err := patch.Validate(); err != nil {
		return invalid(err)
	}
	if patch.IsEmpty() {
		return nil
	}
	return s.commit(ctx, Change{Kind: KindSite}, func(site *models.SiteSettings, _ *models.ContentSettings) (bool, error) {
		patch.Apply(site)
		return true, nil
	})
}

// UpdateSection replaces one content section. value must match the section:
//
//	hero          models.HeroSection or *models.HeroSection
//	mission       models.MissionSection or *models.MissionSection
//	achievements  models.AchievementsSection or *models.AchievementsSection
//	videos        models.VideosSection or *models.VideosSection
//	blog          []models.BlogPost
//	media         []models.MediaItem
//
// A nil pointer clears an optional section.
func (s *Store) UpdateSection(ctx context.Context, section models.Section, value any) error {
	apply, err := sectionSetter(section, value)
	if err != nil {
		return invalid(err)
	}
	return s.commit(ctx, Change{Kind: KindContent, Section: section}, func(_ *models.SiteSettings, content *models.ContentSettings) (bool, error) {
		apply(content)
		return true, nil
	})
}

func sectionSetter(section models.Section, value any) (func(*models.ContentSettings), error) {
	mismatch := func(want string) error {
		return fmt.Errorf("section %q expects %s, got %T", section, want, value)
	}

	switch section {
	case models.SectionHero:
		v, err := sectionPtr[models.HeroSection](value)
		if err != nil {
			return nil, mismatch("a hero section")
		}
		if v != nil {
			if err := v.Validate(); err != nil {
				return nil, err
			}
		}
		return func(c *models.ContentSettings) { c.Hero = v }, nil

	case models.SectionMission:
		v, err := sectionPtr[models.MissionSection](value)
		if err != nil {
			return nil, mismatch("a mission section")
		}
		if v != nil {
			if err := v.Validate(); err != nil {
				return nil, err
			}
			v.Points = append([]string(nil), v.Points...)
		}
		return func(c *models.ContentSettings) { c.Mission = v }, nil

	case models.SectionAchievements:
		v, err := sectionPtr[models.AchievementsSection](value)
		if err != nil {
			return nil, mismatch("an achievements section")
		}
		if v != nil {
			if err := v.Validate(); err != nil {
				return nil, err
			}
			v.Stats = append([]models.Stat(nil), v.Stats...)
		}
		return func(c *models.ContentSettings) { c.Achievements = v }, nil

	case models.SectionVideos:
		v, err := sectionPtr[models.VideosSection](value)
		if err != nil {
			return nil, mismatch("a videos section")
		}
		if v != nil {
			if err := v.Validate(); err != nil {
				return nil, err
			}
			v.Items = append([]models.Video(nil), v.Items...)
		}
		return func(c *models.ContentSettings) { c.Videos = v }, nil

	case models.SectionBlog:
		posts, ok := value.([]models.BlogPost)
		if !ok {
			return nil, mismatch("[]models.BlogPost")
		}
		if err := models.ValidatePosts(posts); err != nil {
			return nil, err
		}
		cp := make([]models.BlogPost, len(posts))
		for i, p := range posts {
			cp[i] = p.Clone()
		}
		return func(c *models.ContentSettings) { c.Blog = cp }, nil

	case models.SectionMedia:
		items, ok := value.([]models.MediaItem)
		if !ok {
			return nil, mismatch("[]models.MediaItem")
		}
		if err := models.ValidateMedia(items); err != nil {
			return nil, err
		}
		cp := append([]models.MediaItem(nil), items...)
		return func(c *models.ContentSettings) { c.Media = cp }, nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

// sectionPtr accepts T or *T and returns a private copy.
func sectionPtr[T any](value any) (*T, error) {
	switch v := value.(type) {
	case T:
		return &v, nil
	case *T:
		if v == nil {
			return nil, nil
		}
		cp := *v
		return &cp, nil
	}
	return nil, errors.New("type mismatch")
}

// AddMediaItem appends item to the media library. An item with the same id is
// replaced in place, keeping its position.
func (s *Store) AddMediaItem(ctx context.Context, item models.MediaItem) error {
	if err := item.Validate(); err != nil {
		return invalid(err)
	}
	return s.commit(ctx, Change{Kind: KindContent, Section: models.SectionMedia}, func(_ *models.SiteSettings, content *models.ContentSettings) (bool, error) {
		content.Media = upsertByID(content.Media, item, mediaID)
		return true, nil
	})
}

// UpdateMediaItem edits the name, description or slider flag of an item.
func (s *Store) UpdateMediaItem(ctx context.Context, id string, patch models.MediaPatch) error {
	return s.commit(ctx, Change{Kind: KindContent, Section: models.SectionMedia}, func(_ *models.SiteSettings, content *models.ContentSettings) (bool, error) {
		i := indexByID(content.Media, id, mediaID)
		if i < 0 {
			return false, fmt.Errorf("%w: media %q", ErrNotFound, id)
		}
		item := content.Media[i]
		patch.Apply(&item)
		if err := item.Validate(); err != nil {
			return false, invalid(err)
		}
		content.Media[i] = item
		return true, nil
	})
}

// RemoveMediaItem deletes the item with id. Unknown ids are ignored.
func (s *Store) RemoveMediaItem(ctx context.Context, id string) error {
	return s.commit(ctx, Change{Kind: KindContent, Section: models.SectionMedia}, func(_ *models.SiteSettings, content *models.ContentSettings) (bool, error) {
		var removed bool
		content.Media, removed = removeByID(content.Media, id, mediaID)
		return removed, nil
	})
}

// AddBlogPost appends post, or replaces in place a post with the same id.
func (s *Store) AddBlogPost(ctx context.Context, post models.BlogPost) error {
	if err := post.Validate(); err != nil {
		return invalid(err)
	}
	post = post.Clone()
	return s.commit(ctx, Change{Kind: KindContent, Section: models.SectionBlog}, func(_ *models.SiteSettings, content *models.ContentSettings) (bool, error) {
		content.Blog = upsertByID(content.Blog, post, postID)
		return true, nil
	})
}

// RemoveBlogPost deletes the post with id. Unknown ids are ignored.
func (s *Store) RemoveBlogPost(ctx context.Context, id string) error {
	return s.commit(ctx, Change{Kind: KindContent, Section: models.SectionBlog}, func(_ *models.SiteSettings, content *models.ContentSettings) (bool, error) {
		var removed bool
		content.Blog, removed = removeByID(content.Blog, id, postID)
		return removed, nil
	})
}

func mediaID(m models.MediaItem) string { return m.ID }
func postID(p models.BlogPost) string { return p.ID }

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}

func upsertByID[T any](items []T, item T, idOf func(T) string) []T {
	if i := indexByID(items, idOf(item), idOf); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	i := indexByID(items, id, idOf)
	if i < 0 {
		return items, false
	}
	return append(items[:i:i], items[i+1:]...), true
}

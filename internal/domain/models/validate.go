// internal/domain/models/validate.go
package models

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	emailish = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

// linkRule accepts site-relative paths ("/contact"), anchors ("#top"),
// mailto:/tel: links and absolute http(s) URLs. Empty values are allowed.
var linkRule = validation.By(func(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "/") || strings.HasPrefix(s, "#") ||
		strings.HasPrefix(s, "mailto:") || strings.HasPrefix(s, "tel:") {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_link_invalid", "must be a site path or an http(s) URL")
	}
	return nil
})

var colorRule = validation.Match(hexColor).Error("must be a #RRGGBB color")

// Validate checks every field the patch sets.
func (p SitePatch) Validate() error {
	errs := validation.Errors{}
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.SiteName, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&p.SiteDescription, validation.Length(0, 500)),
		validation.Field(&p.LogoURL, linkRule),
		validation.Field(&p.PrimaryColor, colorRule),
		validation.Field(&p.SecondaryColor, colorRule),
		validation.Field(&p.AccentColor, colorRule),
	); err != nil {
		if fieldErrs, ok := err.(validation.Errors); ok {
			for k, v := range fieldErrs {
				errs[k] = v
			}
		} else {
			return err
		}
	}
	if p.Social != nil {
		if err := p.Social.Validate(); err != nil {
			errs["social"] = err
		}
	}
	if p.Contact != nil {
		if err := validation.ValidateStruct(p.Contact,
			validation.Field(&p.Contact.Email, validation.Length(0, 254), validation.Match(emailish).Error("must be an email address")),
		); err != nil {
			errs["contact"] = err
		}
	}
	if p.Navigation != nil {
		for i, item := range *p.Navigation {
			if err := item.Validate(); err != nil {
				errs[fmt.Sprintf("navigation.%d", i)] = err
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks that every set link is a URL.
func (s SocialLinks) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Facebook, linkRule),
		validation.Field(&s.Twitter, linkRule),
		validation.Field(&s.Instagram, linkRule),
		validation.Field(&s.LinkedIn, linkRule),
		validation.Field(&s.YouTube, linkRule),
	)
}

// Validate requires a label and a usable link.
func (n NavItem) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Label, validation.Required, validation.Length(1, 60)),
		validation.Field(&n.URL, validation.Required, linkRule),
	)
}

func (h HeroSection) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Heading, validation.Required, validation.Length(1, 200)),
		validation.Field(&h.CTALink, linkRule),
	)
}

func (m MissionSection) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Heading, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Points, validation.Each(validation.Required)),
	)
}

func (a AchievementsSection) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Heading, validation.Length(0, 200)),
		validation.Field(&a.Stats),
	)
}

func (s Stat) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Value, validation.Required),
		validation.Field(&s.Label, validation.Required),
	)
}

func (v VideosSection) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Heading, validation.Length(0, 200)),
		validation.Field(&v.Items),
	)
}

func (v Video) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Title, validation.Required),
		validation.Field(&v.URL, validation.Required, linkRule),
	)
}

// Validate checks a single post.
func (p BlogPost) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Status, validation.Required, validation.In(PostDraft, PostPublished)),
		validation.Field(&p.FeaturedImage, linkRule),
	)
}

// Validate checks a single media item.
func (m MediaItem) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.URL, validation.Required, linkRule),
		validation.Field(&m.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Type, validation.Required, validation.In(MediaImage, MediaVideo)),
		validation.Field(&m.OriginalURL, linkRule),
	)
}

// ValidatePosts validates every post and rejects duplicate ids.
func ValidatePosts(posts []BlogPost) error {
	errs := validation.Errors{}
	seen := make(map[string]int, len(posts))
	for i, p := range posts {
		if err := p.Validate(); err != nil {
			errs[fmt.Sprintf("%d", i)] = err
			continue
		}
		if j, dup := seen[p.ID]; dup {
			errs[fmt.Sprintf("%d", i)] = validation.NewError("validation_duplicate_id", fmt.Sprintf("id %q duplicates item %d", p.ID, j))
			continue
		}
		seen[p.ID] = i
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateMedia validates every item and rejects duplicate ids.
func ValidateMedia(items []MediaItem) error {
	errs := validation.Errors{}
	seen := make(map[string]int, len(items))
	for i, m := range items {
		if err := m.Validate(); err != nil {
			errs[fmt.Sprintf("%d", i)] = err
			continue
		}
		if j, dup := seen[m.ID]; dup {
			errs[fmt.Sprintf("%d", i)] = validation.NewError("validation_duplicate_id", fmt.Sprintf("id %q duplicates item %d", m.ID, j))
			continue
		}
		seen[m.ID] = i
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks a whole content document, e.g. one loaded from the backing
// store.
func (c ContentSettings) Validate() error {
	errs := validation.Errors{}
	if c.Hero != nil {
		if err := c.Hero.Validate(); err != nil {
			errs[string(SectionHero)] = err
		}
	}
	if c.Mission != nil {
		if err := c.Mission.Validate(); err != nil {
			errs[string(SectionMission)] = err
		}
	}
	if c.Achievements != nil {
		if err := c.Achievements.Validate(); err != nil {
			errs[string(SectionAchievements)] = err
		}
	}
	if c.Videos != nil {
		if err := c.Videos.Validate(); err != nil {
			errs[string(SectionVideos)] = err
		}
	}
	if err := ValidatePosts(c.Blog); err != nil {
		errs[string(SectionBlog)] = err
	}
	if err := ValidateMedia(c.Media); err != nil {
		errs[string(SectionMedia)] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks a whole settings document, e.g. one loaded from the backing
// store.
func (s SiteSettings) Validate() error {
	return s.Patch().Validate()
}

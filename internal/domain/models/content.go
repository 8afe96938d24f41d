// internal/domain/models/content.go
package models

import "time"

// Section names one part of ContentSettings.
type Section string

const (
	SectionHero         Section = "hero"
	SectionMission      Section = "mission"
	SectionAchievements Section = "achievements"
	SectionVideos       Section = "videos"
	SectionBlog         Section = "blog"
	SectionMedia        Section = "media"
)

// AllSections lists every section in display order.
var AllSections = []Section{
	SectionHero,
	SectionMission,
	SectionAchievements,
	SectionVideos,
	SectionBlog,
	SectionMedia,
}

// ParseSection returns the Section for s and whether it is known.
func ParseSection(s string) (Section, bool) {
	for _, sec := range AllSections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// ContentSettings is the singleton aggregate of homepage and library content.
// Every section is optional.
type ContentSettings struct {
	Hero         *HeroSection         `bson:"hero,omitempty" json:"hero,omitempty"`
	Mission      *MissionSection      `bson:"mission,omitempty" json:"mission,omitempty"`
	Achievements *AchievementsSection `bson:"achievements,omitempty" json:"achievements,omitempty"`
	Videos       *VideosSection       `bson:"videos,omitempty" json:"videos,omitempty"`
	Blog         []BlogPost           `bson:"blog,omitempty" json:"blog,omitempty"`
	Media        []MediaItem          `bson:"media,omitempty" json:"media,omitempty"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// HeroSection is the banner at the top of the home page.
type HeroSection struct {
	Heading    string `bson:"heading" json:"heading"`
	Subheading string `bson:"subheading,omitempty" json:"subheading,omitempty"`
	CTAText    string `bson:"cta_text,omitempty" json:"ctaText,omitempty"`
	CTALink    string `bson:"cta_link,omitempty" json:"ctaLink,omitempty"`
}

// MissionSection describes what the company stands for.
type MissionSection struct {
	Heading     string   `bson:"heading" json:"heading"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Points      []string `bson:"points,omitempty" json:"points,omitempty"`
}

// AchievementsSection is a row of headline numbers.
type AchievementsSection struct {
	Heading string `bson:"heading" json:"heading"`
	Stats   []Stat `bson:"stats,omitempty" json:"stats,omitempty"`
}

// Stat is a single headline number, e.g. {"12,000 t", "e-waste diverted"}.
type Stat struct {
	Value string `bson:"value" json:"value"`
	Label string `bson:"label" json:"label"`
}

// VideosSection lists embedded videos.
type VideosSection struct {
	Heading string  `bson:"heading" json:"heading"`
	Items   []Video `bson:"items,omitempty" json:"items,omitempty"`
}

// Video is one embedded video.
type Video struct {
	Title string `bson:"title" json:"title"`
	URL   string `bson:"url" json:"url"`
}

// Clone returns a deep copy.
func (c ContentSettings) Clone() ContentSettings {
	out := c
	if c.Hero != nil {
		h := *c.Hero
		out.Hero = &h
	}
	if c.Mission != nil {
		m := *c.Mission
		m.Points = append([]string(nil), c.Mission.Points...)
		out.Mission = &m
	}
	if c.Achievements != nil {
		a := *c.Achievements
		a.Stats = append([]Stat(nil), c.Achievements.Stats...)
		out.Achievements = &a
	}
	if c.Videos != nil {
		v := *c.Videos
		v.Items = append([]Video(nil), c.Videos.Items...)
		out.Videos = &v
	}
	if c.Blog != nil {
		out.Blog = make([]BlogPost, len(c.Blog))
		for i, p := range c.Blog {
			out.Blog[i] = p.Clone()
		}
	}
	if c.Media != nil {
		out.Media = append([]MediaItem(nil), c.Media...)
	}
	if c.UpdatedAt != nil {
		t := *c.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// DefaultContentSettings returns the fallback content served before the first
// successful hydration, so public pages never render empty.
func DefaultContentSettings() ContentSettings {
	return ContentSettings{
		Hero: &HeroSection{
			Heading:    "Recycle your electronics responsibly",
			Subheading: "Certified e-waste collection, data destruction and material recovery.",
			CTAText:    "Book a pickup",
			CTALink:    "/contact",
		},
		Mission: &MissionSection{
			Heading:     "Our mission",
			Description: "Keep electronics out of landfills and recover the materials they are made of.",
			Points: []string{
				"Zero-landfill processing",
				"Certified data destruction",
				"Transparent downstream reporting",
			},
		},
		Achievements: &AchievementsSection{
			Heading: "Our impact",
		},
	}
}

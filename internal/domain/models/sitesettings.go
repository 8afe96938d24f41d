// internal/domain/models/sitesettings.go
package models

import (
	"time"
)

// SiteSettings holds the site-wide configuration edited from the admin panel.
// There is exactly one settings document per deployment, addressed by the
// configured singleton key.
type SiteSettings struct {
	// Display settings
	SiteName        string `bson:"site_name" json:"siteName"`
	SiteDescription string `bson:"site_description,omitempty" json:"siteDescription,omitempty"`
	LogoURL         string `bson:"logo_url,omitempty" json:"logoUrl,omitempty"`

	Contact ContactInfo   `bson:"contact" json:"contact"`
	Social  SocialLinks   `bson:"social" json:"social"`
	Footer  FooterOptions `bson:"footer" json:"footer"`
	SEO     SEOMetadata   `bson:"seo" json:"seo"`

	// Color-scheme tokens, #RRGGBB
	PrimaryColor   string `bson:"primary_color,omitempty" json:"primaryColor,omitempty"`
	SecondaryColor string `bson:"secondary_color,omitempty" json:"secondaryColor,omitempty"`
	AccentColor    string `bson:"accent_color,omitempty" json:"accentColor,omitempty"`

	// Navigation is displayed in the order stored.
	Navigation []NavItem `bson:"navigation,omitempty" json:"navigation,omitempty"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// ContactInfo is shown on the contact page and in the footer.
type ContactInfo struct {
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

// SocialLinks holds profile URLs. Empty values are not rendered.
type SocialLinks struct {
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	YouTube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
}

// FooterOptions toggles optional footer blocks.
type FooterOptions struct {
	ShowContact    bool `bson:"show_contact" json:"showContact"`
	ShowSocial     bool `bson:"show_social" json:"showSocial"`
	ShowNewsletter bool `bson:"show_newsletter" json:"showNewsletter"`
}

// SEOMetadata feeds the <head> of every public page.
type SEOMetadata struct {
	MetaTitle       string   `bson:"meta_title,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string   `bson:"meta_description,omitempty" json:"metaDescription,omitempty"`
	Keywords        []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// NavItem is one entry of the main navigation.
type NavItem struct {
	Label string `bson:"label" json:"label"`
	URL   string `bson:"url" json:"url"`
}

// Clone returns a deep copy so callers can never alias store-owned slices.
func (s SiteSettings) Clone() SiteSettings {
	out := s
	if s.Navigation != nil {
		out.Navigation = append([]NavItem(nil), s.Navigation...)
	}
	if s.SEO.Keywords != nil {
		out.SEO.Keywords = append([]string(nil), s.SEO.Keywords...)
	}
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// SitePatch is a partial update of SiteSettings. Nil fields are left
// unchanged; grouped fields (Contact, Social, Footer, SEO, Navigation) are
// replaced as a whole.
type SitePatch struct {
	SiteName        *string `json:"siteName,omitempty"`
	SiteDescription *string `json:"siteDescription,omitempty"`
	LogoURL         *string `json:"logoUrl,omitempty"`

	Contact *ContactInfo   `json:"contact,omitempty"`
	Social  *SocialLinks   `json:"social,omitempty"`
	Footer  *FooterOptions `json:"footer,omitempty"`
	SEO     *SEOMetadata   `json:"seo,omitempty"`

	PrimaryColor   *string `json:"primaryColor,omitempty"`
	SecondaryColor *string `json:"secondaryColor,omitempty"`
	AccentColor    *string `json:"accentColor,omitempty"`

	Navigation *[]NavItem `json:"navigation,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p SitePatch) IsEmpty() bool {
	return p.SiteName == nil && p.SiteDescription == nil && p.LogoURL == nil &&
		p.Contact == nil && p.Social == nil && p.Footer == nil && p.SEO == nil &&
		p.PrimaryColor == nil && p.SecondaryColor == nil && p.AccentColor == nil &&
		p.Navigation == nil
}

// Apply shallow-merges the patch into s.
func (p SitePatch) Apply(s *SiteSettings) {
	if p.SiteName != nil {
		s.SiteName = *p.SiteName
	}
	if p.SiteDescription != nil {
		s.SiteDescription = *p.SiteDescription
	}
	if p.LogoURL != nil {
		s.LogoURL = *p.LogoURL
	}
	if p.Contact != nil {
		s.Contact = *p.Contact
	}
	if p.Social != nil {
		s.Social = *p.Social
	}
	if p.Footer != nil {
		s.Footer = *p.Footer
	}
	if p.SEO != nil {
		seo := *p.SEO
		seo.Keywords = append([]string(nil), p.SEO.Keywords...)
		s.SEO = seo
	}
	if p.PrimaryColor != nil {
		s.PrimaryColor = *p.PrimaryColor
	}
	if p.SecondaryColor != nil {
		s.SecondaryColor = *p.SecondaryColor
	}
	if p.AccentColor != nil {
		s.AccentColor = *p.AccentColor
	}
	if p.Navigation != nil {
		s.Navigation = append([]NavItem(nil), (*p.Navigation)...)
	}
}

// DefaultSiteName is the site name used when no settings have been saved.
const DefaultSiteName = "GreenCircuit Recycling"

// DefaultSiteSettings returns the fallback settings served before the first
// successful hydration.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName:        DefaultSiteName,
		SiteDescription: "Responsible e-waste recycling for homes and businesses.",
		Footer: FooterOptions{
			ShowContact: true,
			ShowSocial:  true,
		},
		SEO: SEOMetadata{
			MetaTitle:       DefaultSiteName,
			MetaDescription: "Certified electronics recycling, data destruction and IT asset disposal.",
		},
		PrimaryColor:   "#2E7D32",
		SecondaryColor: "#1B5E20",
		AccentColor:    "#F9A825",
		Navigation: []NavItem{
			{Label: "Home", URL: "/"},
			{Label: "Services", URL: "/services"},
			{Label: "Blog", URL: "/blog"},
			{Label: "About", URL: "/about"},
			{Label: "Contact", URL: "/contact"},
		},
	}
}

// Patch returns a patch that sets every field of s. It is used to validate
// whole documents with the same rules as partial updates.
func (s SiteSettings) Patch() SitePatch {
	nav := append([]NavItem(nil), s.Navigation...)
	return SitePatch{
		SiteName:        &s.SiteName,
		SiteDescription: &s.SiteDescription,
		LogoURL:         &s.LogoURL,
		Contact:         &s.Contact,
		Social:          &s.Social,
		Footer:          &s.Footer,
		SEO:             &s.SEO,
		PrimaryColor:    &s.PrimaryColor,
		SecondaryColor:  &s.SecondaryColor,
		AccentColor:     &s.AccentColor,
		Navigation:      &nav,
	}
}

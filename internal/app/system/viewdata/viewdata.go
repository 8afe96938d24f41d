// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"strings"

	"github.com/dalemusser/greencircuit/internal/app/system/auth"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// NavLinkVM is one entry of the rendered navigation.
type NavLinkVM struct {
	Label  string
	URL    string
	Active bool
}

// SocialLinkVM is one non-empty social profile.
type SocialLinkVM struct {
	Name string
	URL  string
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, store, "Page Title", "/"),
//	}
type BaseVM struct {
	// Site settings (from the content store)
	SiteName        string
	SiteDescription string
	LogoURL         string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	Navigation      []NavLinkVM

	// <head>
	MetaTitle       string
	MetaDescription string
	MetaKeywords    string

	// Footer
	ShowContact    bool
	ShowSocial     bool
	ShowNewsletter bool
	Contact        models.ContactInfo
	Social         []SocialLinkVM

	// User context (from auth middleware)
	IsLoggedIn bool
	IsAdmin    bool
	UserEmail  string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Version of the content the page was rendered from; the live script
	// compares it against /live/events to decide when to refresh.
	ContentVersion uint64
}

// Snapshotter is the read side of the content store.
type Snapshotter interface {
	Snapshot() contentstore.Snapshot
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - store: content store to read site settings from (nil means defaults)
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, store Snapshotter, title, backDefault string) BaseVM {
	var snap contentstore.Snapshot
	if store != nil {
		snap = store.Snapshot()
	} else {
		snap = contentstore.Snapshot{Site: models.DefaultSiteSettings()}
	}
	return FromSnapshot(r, snap, title, backDefault)
}

// FromSnapshot builds a BaseVM from an already captured snapshot, so a
// handler that also reads content renders from one consistent version.
func FromSnapshot(r *http.Request, snap contentstore.Snapshot, title, backDefault string) BaseVM {
	site := snap.Site
	currentPath := httpnav.CurrentPath(r)

	vm := BaseVM{
		SiteName:        site.SiteName,
		SiteDescription: site.SiteDescription,
		LogoURL:         site.LogoURL,
		PrimaryColor:    site.PrimaryColor,
		SecondaryColor:  site.SecondaryColor,
		AccentColor:     site.AccentColor,
		MetaTitle:       site.SEO.MetaTitle,
		MetaDescription: site.SEO.MetaDescription,
		MetaKeywords:    strings.Join(site.SEO.Keywords, ", "),
		ShowContact:     site.Footer.ShowContact,
		ShowSocial:      site.Footer.ShowSocial,
		ShowNewsletter:  site.Footer.ShowNewsletter,
		Contact:         site.Contact,
		Social:          socialLinks(site.Social),
		Title:           title,
		BackURL:         httpnav.ResolveBackURL(r, backDefault),
		CurrentPath:     currentPath,
		ContentVersion:  snap.Version,
	}
	if vm.SiteName == "" {
		vm.SiteName = models.DefaultSiteName
	}
	if vm.MetaTitle == "" {
		vm.MetaTitle = vm.SiteName
	}
	if vm.MetaDescription == "" {
		vm.MetaDescription = vm.SiteDescription
	}

	for _, n := range site.Navigation {
		vm.Navigation = append(vm.Navigation, NavLinkVM{
			Label:  n.Label,
			URL:    n.URL,
			Active: isActive(currentPath, n.URL),
		})
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.IsAdmin = u.IsAdmin
		vm.UserEmail = u.Email
	}
	return vm
}

func isActive(current, link string) bool {
	if link == "/" {
		return current == "/"
	}
	return link != "" && (current == link || strings.HasPrefix(current, strings.TrimRight(link, "/")+"/"))
}

func socialLinks(s models.SocialLinks) []SocialLinkVM {
	all := []SocialLinkVM{
		{"Facebook", s.Facebook},
		{"Twitter", s.Twitter},
		{"Instagram", s.Instagram},
		{"LinkedIn", s.LinkedIn},
		{"YouTube", s.YouTube},
	}
	out := all[:0]
	for _, l := range all {
		if l.URL != "" {
			out = append(out, l)
		}
	}
	return out
}

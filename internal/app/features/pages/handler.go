// Package pages serves the informational pages: services, about and contact.
// Their copy lives in the templates; contact details, mission and
// achievements come from the content store.
package pages

import (
	"net/http"

	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/app/system/viewdata"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Store *contentstore.Store
	Log   *zap.Logger
}

func NewHandler(store *contentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type aboutData struct {
	viewdata.BaseVM
	Mission      *models.MissionSection
	Achievements *models.AchievementsSection
}

type contactData struct {
	viewdata.BaseVM
	// Email prefilled from the footer newsletter form.
	Email string
}

// ServeServices handles GET /services.
func (h *Handler) ServeServices(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "services", struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, h.Store, "Services", "/"),
	})
}

// ServeAbout handles GET /about.
func (h *Handler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "about", buildAboutData(r, h.Store.Snapshot()))
}

func buildAboutData(r *http.Request, snap contentstore.Snapshot) aboutData {
	data := aboutData{
		BaseVM:       viewdata.FromSnapshot(r, snap, "About us", "/"),
		Mission:      snap.Content.Mission,
		Achievements: snap.Content.Achievements,
	}
	if data.Mission == nil {
		data.Mission = models.DefaultContentSettings().Mission
	}
	return data
}

// ServeContact handles GET /contact.
func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "contact", contactData{
		BaseVM: viewdata.NewBaseVM(r, h.Store, "Contact", "/"),
		Email:  query.Get(r, "email"),
	})
}

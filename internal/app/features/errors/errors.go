// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/greencircuit/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// Handler is the errors feature handler.
// It reads site settings for the page chrome and nothing else.
type Handler struct {
	Store viewdata.Snapshotter
}

// NewHandler constructs an errors Handler.
func NewHandler(store viewdata.Snapshotter) *Handler {
	return &Handler{Store: store}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.Store, http.StatusForbidden, "Access denied",
		"You don't have permission to view this page.", "/")
}

// NotFound renders the 404 page for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.Store, http.StatusNotFound, "Page not found",
		"We couldn't find the page you were looking for.", "/")
}

func render(w http.ResponseWriter, r *http.Request, store viewdata.Snapshotter, status int, title, msg, backDefault string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, store, title, backDefault),
		Status:  status,
		Message: msg,
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

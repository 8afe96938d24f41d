// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/greencircuit/internal/app/system/viewdata"
)

// pageStore supplies site chrome to error pages rendered from other
// features. Set once by bootstrap.
var pageStore viewdata.Snapshotter

// UseStore sets the store error pages read site settings from.
func UseStore(s viewdata.Snapshotter) {
	pageStore = s
}

// RenderNotFound shows the 404 page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	render(w, r, pageStore, http.StatusNotFound, "Page not found",
		"We couldn't find the page you were looking for.", backURL)
}

// RenderBadRequest shows a 400 page with msg.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, pageStore, http.StatusBadRequest, "Bad request", msg, backURL)
}

// RenderServerError shows a 500 page with msg.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, pageStore, http.StatusInternalServerError, "Something went wrong", msg, backURL)
}

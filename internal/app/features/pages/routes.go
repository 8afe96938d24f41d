// internal/app/features/pages/routes.go
package pages

import "github.com/go-chi/chi/v5"

// Mount registers the page routes at the top level of r.
func Mount(r chi.Router, h *Handler) {
	r.Get("/services", h.ServeServices)
	r.Get("/about", h.ServeAbout)
	r.Get("/contact", h.ServeContact)
}

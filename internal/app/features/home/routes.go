// internal/app/features/home/routes.go
package home

import "github.com/go-chi/chi/v5"

// Mount registers the homepage on r directly; mounting a subrouter at "/"
// would swallow the root router's NotFound handler.
func Mount(r chi.Router, h *Handler) {
	r.Get("/", h.ServeRoot)
}

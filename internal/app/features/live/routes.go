// internal/app/features/live/routes.go
package live

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/events", h.ServeEvents)
	r.Get("/state", h.ServeState)
	return r
}

// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// Routes accepts POST only, so a link or prefetch cannot sign anyone out.
// Signing out without a session just clears whatever cookies remain.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeLogout)
	return r
}

// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/greencircuit/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)

	r.Get("/", h.ServeShell)

	r.Route("/api", func(api chi.Router) {
		api.Get("/state", h.ServeState)
		api.Patch("/site", h.PatchSite)
		api.Put("/sections/{section}", h.PutSection)

		api.Post("/media", h.UploadMedia)
		api.Patch("/media/{id}", h.PatchMedia)
		api.Delete("/media/{id}", h.DeleteMedia)

		api.Post("/blog", h.CreatePost)
		api.Put("/blog/{id}", h.UpdatePost)
		api.Delete("/blog/{id}", h.DeletePost)
	})
	return r
}

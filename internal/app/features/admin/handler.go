// Package admin serves the content editor: an HTML shell page and the JSON
// API it drives. Every route requires an administrator session.
package admin

import (
	"net/http"
	"time"

	"github.com/dalemusser/greencircuit/internal/app/system/auditlog"
	"github.com/dalemusser/greencircuit/internal/app/system/auth"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/app/system/mediastore"
	"github.com/dalemusser/greencircuit/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// DefaultMaxUpload caps a single media upload.
const DefaultMaxUpload int64 = 25 << 20

// maxJSONBody caps JSON request bodies. Whole blog sections can be large.
const maxJSONBody int64 = 4 << 20

type Handler struct {
	Store     *contentstore.Store
	Media     mediastore.Store
	Audit     *auditlog.Logger
	Log       *zap.Logger
	MaxUpload int64

	now   func() time.Time
	newID func() string
}

func NewHandler(store *contentstore.Store, media mediastore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:     store,
		Media:     media,
		Audit:     audit,
		Log:       logger,
		MaxUpload: DefaultMaxUpload,
		now:       time.Now,
		newID:     newID,
	}
}

type shellData struct {
	viewdata.BaseVM
	APIBase   string
	MaxUpload int64
}

// ServeShell handles GET /admin. The page loads the editor script, which
// reads and writes everything through the API.
func (h *Handler) ServeShell(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "admin_shell", shellData{
		BaseVM:    viewdata.NewBaseVM(r, h.Store, "Site administration", "/"),
		APIBase:   "/admin/api",
		MaxUpload: h.MaxUpload,
	})
}

func actor(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok && u != nil {
		return u.Email
	}
	return ""
}

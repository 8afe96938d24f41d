// internal/app/features/login/handler.go
package login

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dalemusser/greencircuit/internal/app/store/audit"
	"github.com/dalemusser/greencircuit/internal/app/system/auditlog"
	"github.com/dalemusser/greencircuit/internal/app/system/auth"
	"github.com/dalemusser/greencircuit/internal/app/system/ratelimit"
	"github.com/dalemusser/greencircuit/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single administrator account.
type Credentials struct {
	Email        string
	PasswordHash string // bcrypt
}

type Handler struct {
	Store      viewdata.Snapshotter
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Admin      Credentials
	Log        *zap.Logger

	render func(w http.ResponseWriter, r *http.Request, name string, data any)
}

func NewHandler(
	store viewdata.Snapshotter,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	admin Credentials,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Store:      store,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Limiter:    limiter,
		Admin:      admin,
		Log:        logger,
		render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if auth.IsAdmin(r) {
		http.Redirect(w, r, urlutil.SafeReturn(query.Get(r, "return"), "", "/admin"), http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, http.StatusOK, loginFormData{ReturnURL: query.Get(r, "return")})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, loginFormData{Error: "Invalid form data."})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	form := loginFormData{Email: email, ReturnURL: r.FormValue("return")}

	if email == "" || password == "" {
		form.Error = "Please enter your email and password."
		h.renderForm(w, r, http.StatusBadRequest, form)
		return
	}

	if ok, reason := h.Limiter.Check(r, email); !ok {
		h.AuditLog.LoginFailed(r.Context(), r, email, audit.EventLoginFailedRateLimit, "rate limited")
		form.Error = reason
		h.renderForm(w, r, http.StatusTooManyRequests, form)
		return
	}

	if !h.Admin.Matches(email, password) {
		h.AuditLog.LoginFailed(r.Context(), r, email, audit.EventLoginFailedWrongPassword, "invalid credentials")
		form.Error = "Invalid email or password."
		h.renderForm(w, r, http.StatusUnauthorized, form)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, h.Admin.Email, true); err != nil {
		h.Log.Error("save session failed", zap.Error(err))
		form.Error = "Could not sign you in. Please try again."
		h.renderForm(w, r, http.StatusInternalServerError, form)
		return
	}

	h.Limiter.ResetEmail(email)
	h.AuditLog.LoginSuccess(r.Context(), r, h.Admin.Email)
	h.Log.Info("admin signed in", zap.String("email", h.Admin.Email), zap.String("ip", ratelimit.ClientIP(r)))

	http.Redirect(w, r, urlutil.SafeReturn(form.ReturnURL, "", "/admin"), http.StatusSeeOther)
}

// Matches reports whether email and password identify the administrator.
// The bcrypt comparison runs even for an unknown email.
func (c Credentials) Matches(email, password string) bool {
	if c.Email == "" || c.PasswordHash == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(strings.TrimSpace(email))),
		[]byte(strings.ToLower(c.Email)),
	) == 1
	pwOK := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	return emailOK && pwOK
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, data loginFormData) {
	data.BaseVM = viewdata.NewBaseVM(r, h.Store, "Sign in", "/")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	h.render(w, r, "login", data)
}

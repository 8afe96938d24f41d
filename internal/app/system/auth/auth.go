package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// Two cookies gate the site: auth-session marks a signed-in visitor and
// admin-session marks that visitor as an administrator. Admin routes need
// both, for the same email.
const (
	AuthSessionName  = "auth-session"
	AdminSessionName = "admin-session"

	authenticatedKey = "authenticated"
	adminKey         = "admin"
	emailKey         = "email"
	signedInAtKey    = "signed_in_at"
)

// DefaultMaxAge is the session lifetime when none is configured.
const DefaultMaxAge = 12 * time.Hour

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what LoadSession injects into r.Context().
type SessionUser struct {
	Email      string
	IsAdmin    bool
	SignedInAt time.Time
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// IsAdmin reports whether the request carries a valid admin session.
func IsAdmin(r *http.Request) bool {
	u, ok := CurrentUser(r)
	return ok && u.IsAdmin
}

// WithTestUser puts u into the request context, bypassing cookies.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager reads and writes the session cookies.
type SessionManager struct {
	store  *sessions.CookieStore
	maxAge time.Duration
	log    *zap.Logger
}

// NewSessionManager builds a cookie store signed with sessionKey.
//
// In production (secure=true) cookies are Secure + SameSite=Strict. In local
// dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteStrictMode
	}
	store.MaxAge(store.Options.MaxAge)

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, maxAge: maxAge, log: logger}, nil
}

// session returns the named session. A cookie that fails to decode (rotated
// key, tampering) yields a fresh session; only other errors are returned.
func (m *SessionManager) session(r *http.Request, name string) (*sessions.Session, error) {
	sess, err := m.store.Get(r, name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			m.log.Debug("discarding undecodable session cookie",
				zap.String("session", name), zap.Error(err))
			return sess, nil
		}
		return sess, err
	}
	return sess, nil
}

// LoadSession injects the SessionUser into context if the visitor is signed
// in.
func (m *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authSess, err := m.session(r, AuthSessionName)
		if err != nil {
			m.log.Warn("auth session read failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if ok, _ := authSess.Values[authenticatedKey].(bool); !ok {
			next.ServeHTTP(w, r)
			return
		}

		u := &SessionUser{Email: getString(authSess, emailKey)}
		if ts, ok := authSess.Values[signedInAtKey].(int64); ok {
			u.SignedInAt = time.Unix(ts, 0).UTC()
		}

		if adminSess, err := m.session(r, AdminSessionName); err == nil {
			isAdmin, _ := adminSess.Values[adminKey].(bool)
			u.IsAdmin = isAdmin && getString(adminSess, emailKey) == u.Email
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// SignIn writes both session cookies. admin=false leaves the visitor signed
// in without admin rights.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, email string, admin bool) error {
	authSess, err := m.session(r, AuthSessionName)
	if err != nil {
		return fmt.Errorf("auth session: %w", err)
	}
	authSess.Values[authenticatedKey] = true
	authSess.Values[emailKey] = email
	authSess.Values[signedInAtKey] = time.Now().Unix()
	if err := authSess.Save(r, w); err != nil {
		return fmt.Errorf("save auth session: %w", err)
	}

	adminSess, err := m.session(r, AdminSessionName)
	if err != nil {
		return fmt.Errorf("admin session: %w", err)
	}
	if !admin {
		adminSess.Options.MaxAge = -1
	}
	adminSess.Values[adminKey] = admin
	adminSess.Values[emailKey] = email
	if err := adminSess.Save(r, w); err != nil {
		return fmt.Errorf("save admin session: %w", err)
	}
	return nil
}

// SignOut expires both session cookies.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	var errs []error
	for _, name := range []string{AuthSessionName, AdminSessionName} {
		sess, _ := m.store.Get(r, name)
		for k := range sess.Values {
			delete(sess.Values, k)
		}
		sess.Options.MaxAge = -1
		if err := sess.Save(r, w); err != nil {
			errs = append(errs, fmt.Errorf("expire %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// RequireAdmin ensures the request carries an admin session.
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized
//
// Signed in without admin rights gives the same shapes with /forbidden and
// 403.
func (m *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			deny(w, r, "/login?return="+url.QueryEscape(r.URL.RequestURI()), http.StatusUnauthorized)
			return
		}
		if !u.IsAdmin {
			deny(w, r, "/forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func deny(w http.ResponseWriter, r *http.Request, dest string, status int) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(status)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	http.Error(w, strings.ToLower(http.StatusText(status)), status)
}

// helpers

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

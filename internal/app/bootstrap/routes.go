// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	adminfeature "github.com/dalemusser/greencircuit/internal/app/features/admin"
	auditlogfeature "github.com/dalemusser/greencircuit/internal/app/features/auditlog"
	blogfeature "github.com/dalemusser/greencircuit/internal/app/features/blog"
	errorsfeature "github.com/dalemusser/greencircuit/internal/app/features/errors"
	healthfeature "github.com/dalemusser/greencircuit/internal/app/features/health"
	homefeature "github.com/dalemusser/greencircuit/internal/app/features/home"
	livefeature "github.com/dalemusser/greencircuit/internal/app/features/live"
	loginfeature "github.com/dalemusser/greencircuit/internal/app/features/login"
	logoutfeature "github.com/dalemusser/greencircuit/internal/app/features/logout"
	pagesfeature "github.com/dalemusser/greencircuit/internal/app/features/pages"
	"github.com/dalemusser/greencircuit/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. GreenCircuit boots the template engine,
// applies session middleware, and mounts the public site, the live update
// stream, authentication and the admin panel.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	store := deps.Content
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsfeature.UseStore(store)
	errorsHandler := errorsfeature.NewHandler(store)

	r := chi.NewRouter()

	// Loads the SessionUser into context for every request.
	r.Use(sessionMgr.LoadSession)

	// Set before mounting so feature subrouters inherit it.
	r.NotFound(errorsHandler.NotFound)

	// A nil *mongo.Client must not become a non-nil Pinger.
	var pinger healthfeature.Pinger
	if deps.MongoClient != nil {
		pinger = deps.MongoClient
	}
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(pinger, store, logger)))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))
	if deps.Local != nil {
		prefix := strings.TrimRight(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, deps.Local.Root))
	}

	// Public site
	homefeature.Mount(r, homefeature.NewHandler(store, logger))
	pagesfeature.Mount(r, pagesfeature.NewHandler(store, logger))
	r.Mount("/blog", blogfeature.Routes(blogfeature.NewHandler(store, errLog, logger)))
	r.Mount("/live", livefeature.Routes(livefeature.NewHandler(store, logger)))

	// Authentication
	loginHandler := loginfeature.NewHandler(store, sessionMgr, deps.Audit, deps.Limiter, loginfeature.Credentials{
		Email:        appCfg.AdminEmail,
		PasswordHash: appCfg.AdminPasswordHash,
	}, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, deps.Audit, logger)))

	r.Get("/forbidden", errorsHandler.Forbidden)

	// Content administration
	adminHandler := adminfeature.NewHandler(store, deps.Media, deps.Audit, logger)
	adminHandler.MaxUpload = int64(appCfg.MaxUploadMB) << 20
	adminRouter := adminfeature.Routes(adminHandler, sessionMgr)

	var events auditlogfeature.EventQuerier
	if deps.Events != nil {
		events = deps.Events
	}
	adminRouter.Mount("/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(events, logger), sessionMgr))
	r.Mount("/admin", adminRouter)

	return r, nil
}

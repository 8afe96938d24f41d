// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/greencircuit/internal/app/resources"
	"github.com/dalemusser/greencircuit/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// A failed hydration does not stop the process: the store keeps serving
// defaults for whatever could not be loaded, and the resync worker retries.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	hctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	if err := deps.Content.Hydrate(hctx); err != nil {
		logger.Error("initial content hydration failed; serving defaults", zap.Error(err))
	} else {
		snap := deps.Content.Snapshot()
		logger.Info("content hydrated",
			zap.String("key", deps.Content.Key()),
			zap.String("site_name", snap.Site.SiteName),
			zap.Int("blog_posts", len(snap.Content.Blog)),
			zap.Int("media_items", len(snap.Content.Media)))
	}

	if deps.Resync != nil {
		deps.Resync.Start()
	}
	return nil
}

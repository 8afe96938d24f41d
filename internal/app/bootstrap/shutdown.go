// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work and tears down connections. The content
// store is closed before Mongo disconnects so no write races the
// disconnect.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return deps.close(ctx, logger)
}

func (d *DBDeps) close(ctx context.Context, logger *zap.Logger) error {
	if d.Resync != nil {
		d.Resync.Stop(ctx)
	}
	if d.unsubscribeBridge != nil {
		d.unsubscribeBridge()
	}
	if d.Bridge != nil {
		if err := d.Bridge.Close(); err != nil {
			logger.Warn("change bridge close failed", zap.Error(err))
		}
	}
	if d.Content != nil {
		d.Content.Close()
	}
	if d.Limiter != nil {
		d.Limiter.Stop()
	}
	if d.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := d.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}

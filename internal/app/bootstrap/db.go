// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/greencircuit/internal/app/store/audit"
	"github.com/dalemusser/greencircuit/internal/app/store/memstore"
	settingsstore "github.com/dalemusser/greencircuit/internal/app/store/settings"
	"github.com/dalemusser/greencircuit/internal/app/system/auditlog"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/app/system/indexes"
	"github.com/dalemusser/greencircuit/internal/app/system/mediastore"
	"github.com/dalemusser/greencircuit/internal/app/system/ratelimit"
	"github.com/dalemusser/greencircuit/internal/app/system/sitebridge"
	"github.com/dalemusser/greencircuit/internal/app/system/timeouts"
	"github.com/dalemusser/greencircuit/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects the content backend, the change bridge and media
// storage, and wires the content store to the bridge in both directions.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	var deps DBDeps
	var backend contentstore.Backend = memstore.New()
	var sink auditlog.Sink

	if appCfg.UsesMongo() {
		client, err := connectMongo(ctx, appCfg.MongoURI, logger)
		if err != nil {
			return DBDeps{}, err
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		backend = settingsstore.New(deps.MongoDatabase)
		deps.Events = audit.New(deps.MongoDatabase)
		sink = deps.Events
	} else {
		logger.Warn("content backend is in memory; edits are lost on restart")
	}

	deps.Audit = auditlog.New(sink, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	deps.Limiter = ratelimit.NewLoginLimiter()

	deps.Content = contentstore.New(backend, contentstore.Options{
		Key:    appCfg.SettingsKey,
		Logger: logger.Named("content"),
	})

	bridge, err := connectBridge(ctx, appCfg, logger.Named("sitebridge"))
	if err != nil {
		deps.close(context.Background(), logger)
		return DBDeps{}, err
	}
	deps.Bridge = bridge
	deps.Content.SetBroadcaster(bridge)
	store := deps.Content
	deps.unsubscribeBridge = bridge.OnChange(func(change contentstore.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()
		if err := store.Resync(ctx, change); err != nil {
			logger.Warn("resync after remote change failed",
				zap.String("kind", string(change.Kind)),
				zap.String("section", string(change.Section)),
				zap.Error(err))
		}
	})

	if err := connectMedia(ctx, appCfg, &deps); err != nil {
		deps.close(context.Background(), logger)
		return DBDeps{}, err
	}

	if appCfg.ResyncSchedule != "" {
		w, err := workers.NewResync(deps.Content, logger.Named("resync"), appCfg.ResyncSchedule, timeouts.Medium())
		if err != nil {
			deps.close(context.Background(), logger)
			return DBDeps{}, err
		}
		deps.Resync = w
	}

	return deps, nil
}

func connectMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	cctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB")
	return client, nil
}

func connectBridge(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (*sitebridge.Bridge, error) {
	var ch sitebridge.Channel
	switch appCfg.Bridge {
	case "nats":
		nc, err := sitebridge.NewNATSChannel(appCfg.NATSURL, appCfg.BridgeSubject, logger)
		if err != nil {
			return nil, err
		}
		ch = nc
	case "redis":
		cctx, cancel := context.WithTimeout(ctx, timeouts.Short())
		defer cancel()
		rc, err := sitebridge.NewRedisChannel(cctx, appCfg.RedisURL, appCfg.BridgeSubject, logger)
		if err != nil {
			return nil, err
		}
		ch = rc
	default:
		ch = sitebridge.NewHub().Channel()
	}

	bridge, err := sitebridge.New(ch, logger)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	logger.Info("change bridge ready",
		zap.String("transport", appCfg.Bridge),
		zap.String("origin", bridge.Origin()))
	return bridge, nil
}

func connectMedia(ctx context.Context, appCfg AppConfig, deps *DBDeps) error {
	if appCfg.StorageType == "s3" {
		s, err := mediastore.NewS3(ctx, mediastore.S3Config{
			Region:    appCfg.StorageS3Region,
			Bucket:    appCfg.StorageS3Bucket,
			Prefix:    appCfg.StorageS3Prefix,
			PublicURL: appCfg.StorageS3URL,
		})
		if err != nil {
			return err
		}
		deps.Media = s
		return nil
	}

	l, err := mediastore.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
	if err != nil {
		return err
	}
	deps.Media = l
	deps.Local = l
	return nil
}

// EnsureSchema creates the indexes the settings and audit collections need.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}

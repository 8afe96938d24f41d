// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/greencircuit/internal/app/system/auditlog"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for GreenCircuit.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, admin_email, etc.
//   - Environment variables: GREENCIRCUIT_MONGO_URI, GREENCIRCUIT_ADMIN_EMAIL, etc.
//   - Command-line flags: --mongo_uri, --admin_email, etc.
var appConfigKeys = []config.AppKey{
	{Name: "content_backend", Default: "mongo", Desc: "Content backend: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "greencircuit", Desc: "MongoDB database name"},
	{Name: "settings_key", Default: contentstore.DefaultKey, Desc: "Key of the singleton settings documents"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "How long an admin stays signed in"},

	{Name: "admin_email", Default: "", Desc: "Administrator email address"},
	{Name: "admin_password_hash", Default: "", Desc: "bcrypt hash of the administrator password"},

	// Media storage
	{Name: "storage_type", Default: "local", Desc: "Media storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Directory for uploaded media"},
	{Name: "storage_local_url", Default: "/uploads", Desc: "URL prefix for serving local media"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "", Desc: "S3 key prefix"},
	{Name: "storage_s3_url", Default: "", Desc: "Public URL media is served from (bucket or CDN)"},
	{Name: "max_upload_mb", Default: 25, Desc: "Largest accepted media upload in MB"},

	// Change bridge
	{Name: "bridge", Default: "memory", Desc: "Change bridge: 'memory', 'nats' or 'redis'"},
	{Name: "bridge_subject", Default: "greencircuit.settings", Desc: "NATS subject or Redis channel for change announcements"},
	{Name: "nats_url", Default: "nats://localhost:4222", Desc: "NATS server URL"},
	{Name: "redis_url", Default: "redis://localhost:6379/0", Desc: "Redis server URL"},

	{Name: "resync_schedule", Default: "@every 5m", Desc: "Cron schedule for reloading content from the database (blank disables)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "timeout_short", Default: "", Desc: "Override for single-document operations (e.g., 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "Override for resyncs and local uploads"},
	{Name: "timeout_long", Default: "", Desc: "Override for object storage uploads"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, GREENCIRCUIT_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GREENCIRCUIT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		ContentBackend: appValues.String("content_backend"),
		MongoURI:       appValues.String("mongo_uri"),
		MongoDatabase:  appValues.String("mongo_database"),
		SettingsKey:    appValues.String("settings_key"),

		SessionKey:    appValues.String("session_key"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		AdminEmail:        appValues.String("admin_email"),
		AdminPasswordHash: appValues.String("admin_password_hash"),

		// Media storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),
		StorageS3Region:  appValues.String("storage_s3_region"),
		StorageS3Bucket:  appValues.String("storage_s3_bucket"),
		StorageS3Prefix:  appValues.String("storage_s3_prefix"),
		StorageS3URL:     appValues.String("storage_s3_url"),
		MaxUploadMB:      appValues.Int("max_upload_mb"),

		// Change bridge
		Bridge:        appValues.String("bridge"),
		BridgeSubject: appValues.String("bridge_subject"),
		NATSURL:       appValues.String("nats_url"),
		RedisURL:      appValues.String("redis_url"),

		ResyncSchedule: appValues.String("resync_schedule"),

		// Audit logging
		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}

	return coreCfg, appCfg, nil
}

var auditModes = []any{auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Enum values, the MongoDB URI format and the settings each selected backend
// needs are checked here, before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	err := validation.ValidateStruct(&appCfg,
		validation.Field(&appCfg.ContentBackend, validation.Required, validation.In("mongo", "memory")),
		validation.Field(&appCfg.MongoDatabase, validation.When(appCfg.UsesMongo(), validation.Required)),
		validation.Field(&appCfg.SettingsKey, validation.Required),
		validation.Field(&appCfg.SessionKey, validation.Required, validation.Length(32, 0)),
		validation.Field(&appCfg.StorageType, validation.Required, validation.In("local", "s3")),
		validation.Field(&appCfg.StorageLocalPath, validation.When(appCfg.StorageType == "local", validation.Required)),
		validation.Field(&appCfg.StorageS3Bucket, validation.When(appCfg.StorageType == "s3", validation.Required)),
		validation.Field(&appCfg.StorageS3Region, validation.When(appCfg.StorageType == "s3", validation.Required)),
		validation.Field(&appCfg.MaxUploadMB, validation.Min(1)),
		validation.Field(&appCfg.Bridge, validation.Required, validation.In("memory", "nats", "redis")),
		validation.Field(&appCfg.NATSURL, validation.When(appCfg.Bridge == "nats", validation.Required)),
		validation.Field(&appCfg.RedisURL, validation.When(appCfg.Bridge == "redis", validation.Required)),
		validation.Field(&appCfg.BridgeSubject, validation.When(appCfg.Bridge != "memory", validation.Required)),
		validation.Field(&appCfg.AuditLogAuth, validation.In(auditModes...)),
		validation.Field(&appCfg.AuditLogAdmin, validation.In(auditModes...)),
	)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if appCfg.UsesMongo() {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	if appCfg.ResyncSchedule != "" {
		if _, err := cron.ParseStandard(appCfg.ResyncSchedule); err != nil {
			return fmt.Errorf("invalid resync_schedule %q: %w", appCfg.ResyncSchedule, err)
		}
	}

	// A memory bridge only reaches this process; with several instances on a
	// shared database the resync worker is the only thing keeping them close.
	if appCfg.Bridge == "memory" && appCfg.UsesMongo() && appCfg.ResyncSchedule == "" {
		logger.Warn("memory bridge without a resync schedule: other instances will not see edits until restart")
	}

	if appCfg.AdminEmail == "" || appCfg.AdminPasswordHash == "" {
		if coreCfg != nil && coreCfg.Env == "prod" {
			return errors.New("admin_email and admin_password_hash are required in production")
		}
		logger.Warn("no administrator configured; the admin panel is unreachable")
	}

	return nil
}

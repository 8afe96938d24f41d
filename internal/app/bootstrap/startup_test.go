package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig(t *testing.T) AppConfig {
	t.Helper()
	return AppConfig{
		ContentBackend:    "memory",
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "greencircuit_test",
		SettingsKey:       "main",
		SessionKey:        strings.Repeat("k", 32),
		AdminEmail:        "admin@greencircuit.test",
		AdminPasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		StorageType:       "local",
		StorageLocalPath:  t.TempDir(),
		StorageLocalURL:   "/uploads",
		MaxUploadMB:       25,
		Bridge:            "memory",
		BridgeSubject:     "greencircuit.settings",
		ResyncSchedule:    "@every 5m",
		AuditLogAuth:      "all",
		AuditLogAdmin:     "log",
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", dev, func(*AppConfig) {}, false},
		{"unknown backend", dev, func(c *AppConfig) { c.ContentBackend = "sqlite" }, true},
		{"short session key", dev, func(c *AppConfig) { c.SessionKey = "short" }, true},
		{"s3 without bucket", dev, func(c *AppConfig) { c.StorageType = "s3"; c.StorageS3Region = "us-east-1" }, true},
		{"s3 complete", dev, func(c *AppConfig) {
			c.StorageType = "s3"
			c.StorageS3Region = "us-east-1"
			c.StorageS3Bucket = "greencircuit-media"
		}, false},
		{"nats without url", dev, func(c *AppConfig) { c.Bridge = "nats"; c.NATSURL = "" }, true},
		{"unknown bridge", dev, func(c *AppConfig) { c.Bridge = "kafka" }, true},
		{"bad audit mode", dev, func(c *AppConfig) { c.AuditLogAdmin = "loud" }, true},
		{"bad schedule", dev, func(c *AppConfig) { c.ResyncSchedule = "every now and then" }, true},
		{"resync disabled", dev, func(c *AppConfig) { c.ResyncSchedule = "" }, false},
		{"bad mongo uri", dev, func(c *AppConfig) { c.ContentBackend = "mongo"; c.MongoURI = "postgres://x" }, true},
		{"no admin in dev", dev, func(c *AppConfig) { c.AdminEmail = "" }, false},
		{"no admin in prod", prod, func(c *AppConfig) { c.AdminPasswordHash = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnectDB_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := validConfig(t)
	core := &config.CoreConfig{Env: "dev"}

	deps, err := ConnectDB(ctx, core, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.MongoClient != nil || deps.MongoDatabase != nil {
		t.Error("memory backend should not connect to MongoDB")
	}
	if deps.Content == nil || deps.Bridge == nil || deps.Media == nil || deps.Local == nil || deps.Resync == nil {
		t.Fatalf("missing dependency: %+v", deps)
	}
	if err := EnsureSchema(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Errorf("EnsureSchema without Mongo: %v", err)
	}

	name := "GreenCircuit Recycling"
	if err := deps.Content.UpdateSiteSettings(ctx, models.SitePatch{SiteName: &name}); err != nil {
		t.Fatalf("UpdateSiteSettings: %v", err)
	}
	if got := deps.Content.SiteSettings().SiteName; got != name {
		t.Errorf("SiteName = %q", got)
	}

	if err := Shutdown(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := deps.Content.UpdateSiteSettings(ctx, models.SitePatch{SiteName: &name}); err == nil {
		t.Error("store accepted a write after shutdown")
	}
}

func TestConnectDB_NoResyncWorkerWhenDisabled(t *testing.T) {
	cfg := validConfig(t)
	cfg.ResyncSchedule = ""

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	defer Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, testLogger())

	if deps.Resync != nil {
		t.Error("resync worker created with a blank schedule")
	}
}

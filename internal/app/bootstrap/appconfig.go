// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits).
type AppConfig struct {
	// Content backend: "mongo" keeps settings in MongoDB, "memory" keeps them
	// in process (single node, lost on restart).
	ContentBackend string
	MongoURI       string
	MongoDatabase  string
	SettingsKey    string // singleton document key for both settings documents

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Lifetime of a signed-in session

	// The single administrator account.
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash

	// Media storage: "local" or "s3"
	StorageType      string
	StorageLocalPath string // directory uploads are written to
	StorageLocalURL  string // URL prefix local uploads are served from
	StorageS3Region  string
	StorageS3Bucket  string
	StorageS3Prefix  string
	StorageS3URL     string // public bucket or CDN origin
	MaxUploadMB      int

	// Change bridge between instances: "memory", "nats" or "redis"
	Bridge        string
	BridgeSubject string // NATS subject or Redis channel
	NATSURL       string
	RedisURL      string

	// Resync worker. An empty schedule disables it.
	ResyncSchedule string

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Timeout overrides; zero keeps the default.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}

// UsesMongo reports whether content and audit events live in MongoDB.
func (c AppConfig) UsesMongo() bool {
	return c.ContentBackend == "mongo"
}

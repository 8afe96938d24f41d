// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/greencircuit/internal/app/store/audit"
	"github.com/dalemusser/greencircuit/internal/app/system/auditlog"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/app/system/mediastore"
	"github.com/dalemusser/greencircuit/internal/app/system/ratelimit"
	"github.com/dalemusser/greencircuit/internal/app/system/sitebridge"
	"github.com/dalemusser/greencircuit/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the back-end dependencies built in ConnectDB. The Mongo
// fields are nil on the memory content backend.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Content *contentstore.Store
	Bridge  *sitebridge.Bridge
	Media   mediastore.Store
	Local   *mediastore.Local // set when media is served from this process
	Audit   *auditlog.Logger
	Events  *audit.Store // stored audit events; nil on the memory backend
	Limiter *ratelimit.LoginLimiter
	Resync  *workers.Resync // nil when resync_schedule is blank

	unsubscribeBridge func()
}

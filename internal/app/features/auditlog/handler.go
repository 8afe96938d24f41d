// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/dalemusser/greencircuit/internal/app/store/audit"
	"go.uber.org/zap"
)

// EventQuerier is satisfied by *audit.Store.
type EventQuerier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	Count(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	Events EventQuerier // nil when audit events are not stored
	Log    *zap.Logger
}

// NewHandler constructs an Audit Log feature handler. events may be nil.
func NewHandler(events EventQuerier, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Log:    logger,
	}
}

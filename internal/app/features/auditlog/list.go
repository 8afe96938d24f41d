// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/greencircuit/internal/app/store/audit"
	"github.com/dalemusser/greencircuit/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const pageSize = 50

type eventVM struct {
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	Actor         string            `json:"actor,omitempty"`
	Target        string            `json:"target,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Enabled bool      `json:"enabled"`
	Page    int       `json:"page"`
	Total   int64     `json:"total"`
	HasMore bool      `json:"hasMore"`
	Events  []eventVM `json:"events"`
}

// ServeList handles GET /admin/audit.
//
// Query parameters: category, event_type, actor, start_date and end_date
// (YYYY-MM-DD, inclusive), page (1-based).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, page := parseFilter(r)
	resp := listResponse{Page: page, Events: []eventVM{}}

	if h.Events == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Enabled = true

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit log query failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load audit events"})
		return
	}
	total, err := h.Events.Count(ctx, filter)
	if err != nil {
		h.Log.Warn("audit log count failed", zap.Error(err))
		total = filter.Offset + int64(len(events))
	}

	for _, e := range events {
		resp.Events = append(resp.Events, eventVM{
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			Actor:         e.Actor,
			Target:        e.Target,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		})
	}
	resp.Total = total
	resp.HasMore = filter.Offset+int64(len(events)) < total
	writeJSON(w, http.StatusOK, resp)
}

func parseFilter(r *http.Request) (audit.QueryFilter, int) {
	q := r.URL.Query()

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Actor:     strings.TrimSpace(q.Get("actor")),
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.StartTime = &t
		}
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			// End of day
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}
	return filter, page
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

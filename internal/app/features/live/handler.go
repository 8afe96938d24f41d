// Package live pushes content changes to open browser tabs and exposes the
// public content snapshot as JSON.
package live

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultHeartbeat keeps idle SSE connections open through proxies.
const DefaultHeartbeat = 25 * time.Second

type Handler struct {
	Store     *contentstore.Store
	Log       *zap.Logger
	Heartbeat time.Duration
}

func NewHandler(store *contentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger, Heartbeat: DefaultHeartbeat}
}

// changeEvent is the data of each SSE "change" event.
type changeEvent struct {
	Version uint64            `json:"version"`
	Kind    contentstore.Kind `json:"kind,omitempty"`
	Section models.Section    `json:"section,omitempty"`
}

// publicState is the public JSON view of the current snapshot. Drafts and
// media outside the slider are not included.
type publicState struct {
	Version uint64              `json:"version"`
	Site    models.SiteSettings `json:"site"`
	Hero    *models.HeroSection `json:"hero,omitempty"`
	Posts   []models.BlogPost   `json:"posts"`
	Slider  []models.MediaItem  `json:"slider"`
}

func stateOf(snap contentstore.Snapshot) publicState {
	return publicState{
		Version: snap.Version,
		Site:    snap.Site,
		Hero:    snap.Content.Hero,
		Posts:   models.PublishedPosts(snap.Content.Blog),
		Slider:  models.SliderMedia(snap.Content.Media),
	}
}

// ServeState handles GET /live/state.
func (h *Handler) ServeState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(stateOf(h.Store.Snapshot())); err != nil {
		h.Log.Warn("live: encode state", zap.Error(err))
	}
}

// ServeEvents handles GET /live/events as a server-sent event stream.
//
// The first event ("hello") carries the current version. Every committed or
// resynced change then produces a "change" event. Events are coalesced when
// a client falls behind, since only the latest version matters.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events := make(chan changeEvent, 1)
	unsubscribe := h.Store.Subscribe(func(s contentstore.Snapshot) {
		ev := changeEvent{Version: s.Version, Kind: s.Change.Kind, Section: s.Change.Section}
		for {
			select {
			case events <- ev:
				return
			default:
			}
			// Full: drop the stale event and retry with the newer one.
			select {
			case <-events:
			default:
			}
		}
	})
	defer unsubscribe()

	if err := writeEvent(w, "hello", changeEvent{Version: h.Store.Snapshot().Version}); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			if err := writeEvent(w, "change", ev); err != nil {
				h.Log.Debug("live: client write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, ev changeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}

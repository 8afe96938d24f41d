// Package sitebridge broadcasts content changes between running instances so
// each one can resync its own content store without polling.
//
// A Bridge publishes a small envelope naming what changed and who changed it.
// Envelopes carry no content; receivers re-read the backing store. An
// instance never handles its own envelopes.
package sitebridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned by BroadcastChange after Close.
var ErrClosed = errors.New("sitebridge: closed")

// Envelope is the wire form of a change announcement.
type Envelope struct {
	Origin  string            `json:"origin"`
	Kind    contentstore.Kind `json:"kind"`
	Section models.Section    `json:"section,omitempty"`
	SentAt  time.Time         `json:"sent_at"`
}

// Change returns the store change the envelope describes.
func (e Envelope) Change() contentstore.Change {
	return contentstore.Change{Kind: e.Kind, Section: e.Section}
}

// Handler receives changes made by other instances.
type Handler func(contentstore.Change)

// Bridge connects one instance to the shared change channel.
type Bridge struct {
	ch     Channel
	origin string
	log    *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	handlers map[uint64]Handler
	nextID   uint64
	cancel   func()
	closed   bool
}

// New subscribes to ch and returns a Bridge with a fresh origin id.
func New(ch Channel, logger *zap.Logger) (*Bridge, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		ch:       ch,
		origin:   uuid.NewString(),
		log:      logger,
		now:      time.Now,
		handlers: make(map[uint64]Handler),
	}
	cancel, err := ch.Subscribe(b.receive)
	if err != nil {
		return nil, fmt.Errorf("sitebridge: subscribe: %w", err)
	}
	b.cancel = cancel
	return b, nil
}

// Origin is this instance's id as written into outgoing envelopes.
func (b *Bridge) Origin() string { return b.origin }

// BroadcastChange publishes change to every other instance.
func (b *Bridge) BroadcastChange(ctx context.Context, change contentstore.Change) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := json.Marshal(Envelope{
		Origin:  b.origin,
		Kind:    change.Kind,
		Section: change.Section,
		SentAt:  b.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("sitebridge: encode: %w", err)
	}
	if err := b.ch.Publish(ctx, data); err != nil {
		return fmt.Errorf("sitebridge: publish: %w", err)
	}
	return nil
}

// OnChange registers h for foreign changes. The returned function removes it
// and may be called more than once.
func (b *Bridge) OnChange(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

func (b *Bridge) receive(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		b.log.Warn("dropping malformed settings envelope", zap.Error(err))
		return
	}
	if env.Origin == b.origin {
		return
	}
	switch env.Kind {
	case contentstore.KindSite, contentstore.KindContent:
	default:
		b.log.Warn("dropping settings envelope of unknown kind",
			zap.String("kind", string(env.Kind)),
			zap.String("origin", env.Origin))
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	change := env.Change()
	for _, h := range handlers {
		b.dispatch(h, change, env.Origin)
	}
}

func (b *Bridge) dispatch(h Handler, change contentstore.Change, origin string) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("settings change handler panicked",
				zap.Any("panic", r),
				zap.String("origin", origin))
		}
	}()
	h(change)
}

// Close stops receiving, drops handlers and closes the channel.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.handlers = make(map[uint64]Handler)
	cancel := b.cancel
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return b.ch.Close()
}

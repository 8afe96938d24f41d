package sitebridge

import (
	"context"
	"errors"
	"sync"
)

// Channel is a best-effort fan-out transport. Every subscriber on every
// instance receives each published message at most once.
type Channel interface {
	Publish(ctx context.Context, data []byte) error
	Subscribe(fn func(data []byte)) (cancel func(), err error)
	Close() error
}

// ErrChannelClosed is returned by Publish and Subscribe after Close.
var ErrChannelClosed = errors.New("sitebridge: channel closed")

// Hub is an in-process message bus. Channels from the same Hub behave like
// connections to one broker; use it for single-node runs and tests.
type Hub struct {
	mu   sync.RWMutex
	subs map[*hubSub]struct{}
}

type hubSub struct {
	owner *hubChannel
	fn    func([]byte)
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*hubSub]struct{})}
}

// Channel returns a new connection to the hub.
func (h *Hub) Channel() Channel {
	return &hubChannel{hub: h}
}

type hubChannel struct {
	hub *Hub

	mu     sync.Mutex
	closed bool
}

func (c *hubChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Publish delivers data synchronously to every live subscriber.
func (c *hubChannel) Publish(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isClosed() {
		return ErrChannelClosed
	}

	c.hub.mu.RLock()
	subs := make([]*hubSub, 0, len(c.hub.subs))
	for s := range c.hub.subs {
		subs = append(subs, s)
	}
	c.hub.mu.RUnlock()

	for _, s := range subs {
		s.fn(append([]byte(nil), data...))
	}
	return nil
}

func (c *hubChannel) Subscribe(fn func([]byte)) (func(), error) {
	if c.isClosed() {
		return nil, ErrChannelClosed
	}
	s := &hubSub{owner: c, fn: fn}

	c.hub.mu.Lock()
	c.hub.subs[s] = struct{}{}
	c.hub.mu.Unlock()

	return func() {
		c.hub.mu.Lock()
		delete(c.hub.subs, s)
		c.hub.mu.Unlock()
	}, nil
}

// Close removes every subscription made through this connection.
func (c *hubChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.hub.mu.Lock()
	for s := range c.hub.subs {
		if s.owner == c {
			delete(c.hub.subs, s)
		}
	}
	c.hub.mu.Unlock()
	return nil
}

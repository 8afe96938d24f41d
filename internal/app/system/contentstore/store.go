// Package contentstore holds the authoritative in-memory copy of the site
// settings and content sections for one running instance.
//
// A Store is created once at startup, hydrated from its Backend, and then
// mutated only through its methods. Every committed mutation is announced to
// local subscribers synchronously, persisted to the Backend, and finally
// broadcast to other instances through an optional Broadcaster.
//
// Updates are optimistic: when the Backend write fails the in-memory change
// stays in place and the caller receives an error wrapping ErrPersistence.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/greencircuit/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultKey is the singleton document key used when none is configured.
const DefaultKey = "main"

// Backend persists the two singleton documents. A missing document loads as
// (nil, nil).
type Backend interface {
	LoadSite(ctx context.Context, key string) (*models.SiteSettings, error)
	SaveSite(ctx context.Context, key string, s models.SiteSettings) error
	LoadContent(ctx context.Context, key string) (*models.ContentSettings, error)
	SaveContent(ctx context.Context, key string, c models.ContentSettings) error
}

// Kind names the document a change touched.
type Kind string

const (
	KindSite    Kind = "site"
	KindContent Kind = "content"
)

// Change describes one committed mutation. Section is set for content
// changes that touched a single section.
type Change struct {
	Kind    Kind           `json:"kind"`
	Section models.Section `json:"section,omitempty"`
}

// Broadcaster announces persisted changes to other instances.
type Broadcaster interface {
	BroadcastChange(ctx context.Context, change Change) error
}

// Snapshot is the state handed to listeners. Treat it as read-only; the same
// value is delivered to every listener of one commit.
type Snapshot struct {
	Site    models.SiteSettings
	Content models.ContentSettings
	Version uint64
	Change  Change
}

// Listener is called after every commit and every resync.
type Listener func(Snapshot)

// Options configures a Store.
type Options struct {
	Key         string
	Broadcaster Broadcaster
	Logger      *zap.Logger
	Now         func() time.Time
}

// Store is the in-memory content holder. It is safe for concurrent use.
type Store struct {
	backend Backend
	key     string
	bc      Broadcaster
	log     *zap.Logger
	now     func() time.Time

	// commitMu serializes commits together with their notifications, so
	// listeners observe mutations in commit order.
	commitMu sync.Mutex

	mu             sync.RWMutex
	site           models.SiteSettings
	content        models.ContentSettings
	version        uint64
	siteVersion    uint64
	contentVersion uint64
	closed         bool

	// persistMu serializes backing writes; saved* hold the version of the
	// last document written.
	persistMu    sync.Mutex
	siteSaved    uint64
	contentSaved uint64

	subsMu     sync.Mutex
	subs       []*subscription
	delivering atomic.Pointer[subscription]
}

type subscription struct {
	mu     sync.Mutex
	fn     Listener
	active atomic.Bool
}

// New constructs a Store serving default content until Hydrate succeeds.
func New(backend Backend, opts Options) *Store {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		backend: backend,
		key:     key,
		bc:      opts.Broadcaster,
		log:     logger,
		now:     now,
		site:    models.DefaultSiteSettings(),
		content: models.DefaultContentSettings(),
	}
}

// SetBroadcaster attaches the broadcaster after construction. Bootstrap uses
// it because the bridge and the store are wired to each other.
func (s *Store) SetBroadcaster(bc Broadcaster) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.bc = bc
}

// Key returns the singleton document key.
func (s *Store) Key() string { return s.key }

// SiteSettings returns a copy of the current site settings.
func (s *Store) SiteSettings() models.SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site.Clone()
}

// ContentSettings returns a copy of the current content.
func (s *Store) ContentSettings() models.ContentSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content.Clone()
}

// Snapshot returns copies of both documents and the current version.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(Change{})
}

func (s *Store) snapshotLocked(change Change) Snapshot {
	return Snapshot{
		Site:    s.site.Clone(),
		Content: s.content.Clone(),
		Version: s.version,
		Change:  change,
	}
}

// Subscribe registers fn for every subsequent commit. The returned function
// removes it; once that returns, fn is not invoked again. Calling it more than
// once is harmless.
//
// fn runs while the commit lock is held: it may read the store and
// unsubscribe, but must not call a mutating method.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.subsMu.Lock()
	s.subs = append(s.subs, sub)
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(sub) })
	}
}

func (s *Store) unsubscribe(sub *subscription) {
	sub.active.Store(false)

	s.subsMu.Lock()
	for i, candidate := range s.subs {
		if candidate == sub {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			break
		}
	}
	s.subsMu.Unlock()

	// Wait out a delivery running on another goroutine. A listener that
	// unsubscribes itself is already inside that delivery.
	if s.delivering.Load() != sub {
		sub.mu.Lock()
		sub.mu.Unlock()
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subsMu.Lock()
	subs := append([]*subscription(nil), s.subs...)
	s.subsMu.Unlock()

	for _, sub := range subs {
		s.deliver(sub, snap)
	}
}

func (s *Store) deliver(sub *subscription, snap Snapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.active.Load() {
		return
	}
	s.delivering.Store(sub)
	defer s.delivering.Store(nil)
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("content listener panicked",
				zap.Any("panic", r),
				zap.Uint64("version", snap.Version))
		}
	}()
	sub.fn(snap)
}

// mutation edits working copies of the documents. It reports whether
// anything changed; a returned error rejects the mutation.
type mutation func(site *models.SiteSettings, content *models.ContentSettings) (bool, error)

// commit applies m, notifies listeners, persists and broadcasts.
func (s *Store) commit(ctx context.Context, change Change, m mutation) error {
	s.commitMu.Lock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.commitMu.Unlock()
		return ErrClosed
	}

	site := s.site.Clone()
	content := s.content.Clone()
	changed, err := m(&site, &content)
	if err != nil || !changed {
		s.mu.Unlock()
		s.commitMu.Unlock()
		return err
	}

	now := s.now().UTC()
	s.version++
	switch change.Kind {
	case KindSite:
		site.UpdatedAt = &now
		s.site = site
		s.siteVersion = s.version
	default:
		content.UpdatedAt = &now
		s.content = content
		s.contentVersion = s.version
	}
	version := s.version
	snap := s.snapshotLocked(change)
	bc := s.bc
	s.mu.Unlock()

	s.notify(snap)
	s.commitMu.Unlock()

	if err := s.persist(ctx, change.Kind, version); err != nil {
		s.log.Error("content persistence failed; in-memory change kept",
			zap.String("kind", string(change.Kind)),
			zap.String("section", string(change.Section)),
			zap.Uint64("version", version),
			zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if bc != nil {
		if err := bc.BroadcastChange(ctx, change); err != nil {
			s.log.Warn("settings broadcast failed",
				zap.String("kind", string(change.Kind)),
				zap.Error(err))
		}
	}
	return nil
}

// persist writes the newest copy of the document kind names. A writer whose
// change was already carried by a later write returns immediately, so the
// backend never receives an older snapshot after a newer one.
func (s *Store) persist(ctx context.Context, kind Kind, version uint64) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	switch kind {
	case KindSite:
		if s.siteSaved >= version {
			return nil
		}
		s.mu.RLock()
		doc, docVersion := s.site.Clone(), s.siteVersion
		s.mu.RUnlock()
		if err := s.backend.SaveSite(ctx, s.key, doc); err != nil {
			return err
		}
		s.siteSaved = docVersion
	default:
		if s.contentSaved >= version {
			return nil
		}
		s.mu.RLock()
		doc, docVersion := s.content.Clone(), s.contentVersion
		s.mu.RUnlock()
		if err := s.backend.SaveContent(ctx, s.key, doc); err != nil {
			return err
		}
		s.contentSaved = docVersion
	}
	return nil
}

// Hydrate loads both documents from the backend. Failures are logged and
// returned, and the store keeps serving what it had.
func (s *Store) Hydrate(ctx context.Context) error {
	siteErr := s.reloadSite(ctx)
	contentErr := s.reloadContent(ctx, "")
	return errors.Join(siteErr, contentErr)
}

// Resync re-reads the document a change names and replaces the local copy.
// It neither persists nor broadcasts. An unknown kind reloads both.
func (s *Store) Resync(ctx context.Context, change Change) error {
	switch change.Kind {
	case KindSite:
		return s.reloadSite(ctx)
	case KindContent:
		return s.reloadContent(ctx, change.Section)
	default:
		return s.Hydrate(ctx)
	}
}

func (s *Store) reloadSite(ctx context.Context) error {
	doc, err := s.backend.LoadSite(ctx, s.key)
	if err != nil {
		s.log.Warn("site settings hydration failed; serving last known settings",
			zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: site: %w", ErrHydration, err)
	}
	if doc == nil {
		s.log.Debug("no saved site settings; serving defaults", zap.String("key", s.key))
		return nil
	}
	site := doc.Clone()
	if site.SiteName == "" {
		site.SiteName = models.DefaultSiteName
	}
	if err := site.Validate(); err != nil {
		s.log.Warn("saved site settings are malformed; serving last known settings",
			zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: site: %w", ErrHydration, err)
	}
	return s.install(Change{Kind: KindSite}, func() {
		s.site = site
		s.siteVersion = s.version
	})
}

func (s *Store) reloadContent(ctx context.Context, section models.Section) error {
	doc, err := s.backend.LoadContent(ctx, s.key)
	if err != nil {
		s.log.Warn("content hydration failed; serving last known content",
			zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: content: %w", ErrHydration, err)
	}
	if doc == nil {
		s.log.Debug("no saved content; serving defaults", zap.String("key", s.key))
		return nil
	}
	content := doc.Clone()
	if err := content.Validate(); err != nil {
		s.log.Warn("saved content is malformed; serving last known content",
			zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: content: %w", ErrHydration, err)
	}
	return s.install(Change{Kind: KindContent, Section: section}, func() {
		s.content = content
		s.contentVersion = s.version
	})
}

// install replaces state loaded from the backend and notifies listeners.
func (s *Store) install(change Change, set func()) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.version++
	set()
	snap := s.snapshotLocked(change)
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Close ends the store's lifecycle: listeners are dropped and later
// mutations fail with ErrClosed. Reads keep returning the last state.
func (s *Store) Close() {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.active.Store(false)
	}
	s.subs = nil
	s.subsMu.Unlock()
}

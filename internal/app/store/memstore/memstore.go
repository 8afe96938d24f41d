// internal/app/store/memstore/memstore.go
package memstore

import (
	"context"
	"sync"

	"github.com/dalemusser/greencircuit/internal/domain/models"
)

// Store keeps the settings documents in process memory. It backs local
// development runs (content_backend=memory) and tests; nothing survives a
// restart.
type Store struct {
	mu      sync.RWMutex
	site    map[string]models.SiteSettings
	content map[string]models.ContentSettings
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		site:    make(map[string]models.SiteSettings),
		content: make(map[string]models.ContentSettings),
	}
}

func (s *Store) LoadSite(_ context.Context, key string) (*models.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.site[key]
	if !ok {
		return nil, nil
	}
	out := doc.Clone()
	return &out, nil
}

func (s *Store) SaveSite(ctx context.Context, key string, doc models.SiteSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.site[key] = doc.Clone()
	return nil
}

func (s *Store) LoadContent(_ context.Context, key string) (*models.ContentSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.content[key]
	if !ok {
		return nil, nil
	}
	out := doc.Clone()
	return &out, nil
}

func (s *Store) SaveContent(ctx context.Context, key string, doc models.ContentSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[key] = doc.Clone()
	return nil
}

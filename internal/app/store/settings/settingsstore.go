// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/greencircuit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	SiteCollection    = "site_settings"
	ContentCollection = "content_settings"
)

// Store persists the site and content documents in MongoDB. Each document
// is addressed by a singleton key (one per deployment).
type Store struct {
	site    *mongo.Collection
	content *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{
		site:    db.Collection(SiteCollection),
		content: db.Collection(ContentCollection),
	}
}

type siteDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Key                 string             `bson:"key"`
	models.SiteSettings `bson:",inline"`
}

type contentDoc struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	Key                    string             `bson:"key"`
	models.ContentSettings `bson:",inline"`
}

// LoadSite returns the site settings for key, or nil if none were saved.
func (s *Store) LoadSite(ctx context.Context, key string) (*models.SiteSettings, error) {
	var doc siteDoc
	err := s.site.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.SiteSettings, nil
}

// SaveSite replaces the site settings for key, creating the document if
// needed.
func (s *Store) SaveSite(ctx context.Context, key string, settings models.SiteSettings) error {
	if settings.UpdatedAt == nil {
		now := time.Now().UTC()
		settings.UpdatedAt = &now
	}
	_, err := s.site.ReplaceOne(ctx,
		bson.M{"key": key},
		siteDoc{Key: key, SiteSettings: settings},
		options.Replace().SetUpsert(true))
	return err
}

// LoadContent returns the content document for key, or nil if none was saved.
func (s *Store) LoadContent(ctx context.Context, key string) (*models.ContentSettings, error) {
	var doc contentDoc
	err := s.content.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.ContentSettings, nil
}

// SaveContent replaces the content document for key, creating it if needed.
func (s *Store) SaveContent(ctx context.Context, key string, content models.ContentSettings) error {
	if content.UpdatedAt == nil {
		now := time.Now().UTC()
		content.UpdatedAt = &now
	}
	_, err := s.content.ReplaceOne(ctx,
		bson.M{"key": key},
		contentDoc{Key: key, ContentSettings: content},
		options.Replace().SetUpsert(true))
	return err
}

// Exists reports whether site settings have been saved for key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.site.CountDocuments(ctx, bson.M{"key": key})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes both documents for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.site.DeleteOne(ctx, bson.M{"key": key}); err != nil {
		return err
	}
	_, err := s.content.DeleteOne(ctx, bson.M{"key": key})
	return err
}

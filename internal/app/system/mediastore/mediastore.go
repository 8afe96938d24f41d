// Package mediastore keeps uploaded media files and hands back the public
// URL each one is served from. Local disk and S3 backends share one Store
// interface.
package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for keys that escape the store root.
var ErrInvalidPath = errors.New("mediastore: invalid path")

// PutOptions describes an uploaded object.
type PutOptions struct {
	ContentType string
}

// Store persists media files under slash-separated keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts *PutOptions) error
	Delete(ctx context.Context, key string) error
	// URL is where browsers fetch key from.
	URL(key string) string
	// KeyFor maps a URL produced by URL back to its key.
	KeyFor(url string) (string, bool)
}

// Uploaded is the result of Upload.
type Uploaded struct {
	Key  string
	URL  string
	Size int64
}

// Upload stores r under media/YYYY/MM/<uuid><ext> and returns where it went.
func Upload(ctx context.Context, s Store, filename string, r io.Reader, size int64, contentType string) (Uploaded, error) {
	now := time.Now().UTC()
	ext := strings.ToLower(filepath.Ext(filename))
	key := path.Join(
		fmt.Sprintf("media/%04d/%02d", now.Year(), now.Month()),
		uuid.NewString()+ext,
	)
	if err := s.Put(ctx, key, r, &PutOptions{ContentType: contentType}); err != nil {
		return Uploaded{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	return Uploaded{Key: key, URL: s.URL(key), Size: size}, nil
}

// cleanKey rejects absolute and parent-relative keys.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return k, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

func trimURL(base, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	k := strings.TrimPrefix(url, prefix)
	return k, k != ""
}

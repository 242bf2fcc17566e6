package gerlin

import (
	"context"
	"sync"
	"time"

	"github.com/donmariogerlin/gerlin/content"
)

// contentSource is the read side of the content tables.
type contentSource interface {
	ListPhotos(ctx context.Context) ([]content.Photo, error)
	ListDocuments(ctx context.Context) ([]content.Document, error)
}

// PublicCache is an in-memory cache of the remote photos and documents shown
// on the public pages.
type PublicCache struct {
	mu        sync.RWMutex
	photos    []content.Photo
	documents []content.Document
	loaded    bool
	fetched   time.Time
	ttl       time.Duration
	now       func() time.Time
	src       contentSource
}

// NewPublicCache creates a PublicCache backed by src.
func NewPublicCache(src contentSource, ttl time.Duration) *PublicCache {
	return &PublicCache{src: src, ttl: ttl, now: time.Now}
}

func (c *PublicCache) valid() bool {
	return c.loaded && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PublicCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.photos = nil
	c.documents = nil
	c.mu.Unlock()
}

func (c *PublicCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	photos, err := c.src.ListPhotos(ctx)
	if err != nil {
		return err
	}
	docs, err := c.src.ListDocuments(ctx)
	if err != nil {
		return err
	}
	c.photos = photos
	c.documents = docs
	c.loaded = true
	c.fetched = c.now()
	return nil
}

// ensureLoaded returns the cached lists after making sure they are fresh.
// It tries a read lock first and only takes the write lock to reload.
func (c *PublicCache) ensureLoaded(ctx context.Context) ([]content.Photo, []content.Document, error) {
	c.mu.RLock()
	if c.valid() {
		photos, docs := c.photos, c.documents
		c.mu.RUnlock()
		return photos, docs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.photos, c.documents, nil
}

// Photos returns the remote photos, newest first.
func (c *PublicCache) Photos(ctx context.Context) ([]content.Photo, error) {
	photos, _, err := c.ensureLoaded(ctx)
	return photos, err
}

// Documents returns the remote documents, newest first.
func (c *PublicCache) Documents(ctx context.Context) ([]content.Document, error) {
	_, docs, err := c.ensureLoaded(ctx)
	return docs, err
}

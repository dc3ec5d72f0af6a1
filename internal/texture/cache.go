package texture

import (
	"image"
	"sync"

	"gallery-engine/internal/gallery"
)

// Resolver returns the image for an artwork, or nil when none is known.
type Resolver interface {
	Resolve(a gallery.Artwork) *image.NRGBA
}

// Cache is a concurrency-safe artwork image cache. Failed loads are
// remembered so a broken file is only read once.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
	limit int
}

// NewCache creates a cache backed by index. Images larger than limit pixels
// on either side are scaled down on load; zero keeps them as is.
func NewCache(index *Index, limit int) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
		limit: limit,
	}
}

// Resolve looks the artwork up by id, then by its low-resolution URL.
func (c *Cache) Resolve(a gallery.Artwork) *image.NRGBA {
	path, ok := c.index.ResolvePath(a.ID, a.LowResURL)
	if !ok {
		return nil
	}

	c.mu.RLock()
	if img, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return img
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err == nil {
		img = Fit(img, c.limit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.items[path]; exists {
		return existing
	}
	c.items[path] = img
	return img
}

// Len returns the number of cached paths, including failed ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

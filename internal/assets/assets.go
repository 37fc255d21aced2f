// Package assets loads what a scene is made of: textures, Wavefront OBJ
// meshes and YAML scene descriptions. Textures are decoded once and shared.
package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/midgard-raster/internal/engine/texture"
)

// Sentinel errors returned (wrapped) by the loaders.
var (
	ErrUnknownMesh = errors.New("unknown mesh type")
	ErrMalformed   = errors.New("malformed input")
)

// Manager resolves asset paths against a base directory and caches
// decoded textures.
type Manager struct {
	baseDir string
	maxSize int
	log     *zap.Logger

	cache *Cache
	group singleflight.Group
}

// NewManager creates an asset manager. Relative paths resolve against
// baseDir; textures larger than maxSize are downscaled (0 keeps them).
func NewManager(baseDir string, maxSize int, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		baseDir: baseDir,
		maxSize: maxSize,
		log:     log,
		cache:   NewCache(),
	}
}

// Resolve returns path joined to the base directory unless it is absolute.
func (m *Manager) Resolve(path string) string {
	if filepath.IsAbs(path) || m.baseDir == "" {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// Texture loads and caches the texture at path. Concurrent requests for
// the same path decode it once.
func (m *Manager) Texture(path string) (*texture.Texture, error) {
	full := m.Resolve(path)
	if tex, ok := m.cache.Get(full); ok {
		return tex, nil
	}

	v, err, _ := m.group.Do(full, func() (any, error) {
		if tex, ok := m.cache.Peek(full); ok {
			return tex, nil
		}
		tex, err := texture.Load(full, m.maxSize)
		if err != nil {
			return nil, err
		}
		m.cache.Set(full, tex)
		m.log.Debug("texture loaded",
			zap.String("path", full),
			zap.Int("width", tex.Width()),
			zap.Int("height", tex.Height()))
		return tex, nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading texture %s: %w", path, err)
	}
	return v.(*texture.Texture), nil
}

// Stats returns the texture cache hit and miss counts.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops every cached texture.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is an in-memory texture cache.
type Cache struct {
	data map[string]*texture.Texture
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*texture.Texture),
	}
}

// Get retrieves an item from cache and records a hit or miss.
func (c *Cache) Get(key string) (*texture.Texture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tex, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return tex, ok
}

// Peek retrieves an item without touching the stats.
func (c *Cache) Peek(key string) (*texture.Texture, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tex, ok := c.data[key]
	return tex, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, tex *texture.Texture) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = tex
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*texture.Texture)
	c.hits = 0
	c.misses = 0
}

// Package assets loads and caches design images.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/tilecraft/internal/logger"
	"github.com/Faultbox/tilecraft/internal/texture"
)

// Asset errors.
var (
	ErrNotFound = errors.New("asset not found")
	ErrNotImage = errors.New("asset is not a supported image")
)

// supported lists the sniffed extensions image.Decode can handle.
var supported = map[string]bool{
	"png":  true,
	"jpg":  true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

// Manager loads design images from a stack of file systems.
// Roots are searched in reverse order (last added = highest priority).
type Manager struct {
	roots []fs.FS
	cache *Cache
	group singleflight.Group
	mu    sync.RWMutex
}

// NewManager creates a new asset manager with no roots.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddFS adds a file system root.
func (m *Manager) AddFS(fsys fs.FS) {
	m.mu.Lock()
	m.roots = append(m.roots, fsys)
	m.mu.Unlock()
}

// AddDir adds a directory on disk as a root.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening asset dir %s: not a directory", dir)
	}
	m.AddFS(os.DirFS(dir))
	return nil
}

// Key normalizes an asset path to the slash-separated, rootless form used
// for lookups and cache keys. "/designs/a.jpg" and "designs/a.jpg" are the same asset.
func Key(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// ReadFile returns the raw bytes of an asset.
func (m *Manager) ReadFile(p string) ([]byte, error) {
	key := Key(p)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.roots[i], key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

// LoadImage returns the decoded image at p, reading and decoding it at most
// once while it stays cached. Concurrent callers for the same path share a
// single decode; ctx only bounds this caller's wait.
func (m *Manager) LoadImage(ctx context.Context, p string) (image.Image, error) {
	key := Key(p)
	if img, ok := m.cache.Get(key); ok {
		return img, nil
	}

	ch := m.group.DoChan(key, func() (any, error) {
		if img, ok := m.cache.peek(key); ok {
			return img, nil
		}
		gen := m.cache.Generation(key)
		data, err := m.ReadFile(key)
		if err != nil {
			return nil, err
		}
		img, err := Decode(key, data)
		if err != nil {
			return nil, err
		}
		if !m.cache.SetIfGeneration(key, img, gen) {
			logger.Debug("asset changed while decoding, not caching", zap.String("path", key))
			return img, nil
		}

		b := img.Bounds()
		logger.Debug("decoded asset",
			zap.String("path", key),
			zap.Int("width", b.Dx()),
			zap.Int("height", b.Dy()),
		)
		return img, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("loading %s: %w", key, ctx.Err())
	}
}

// Invalidate drops a cached image so the next load reads it again. A decode
// already running for p still answers its callers but is not cached.
func (m *Manager) Invalidate(p string) {
	key := Key(p)
	m.cache.Delete(key)
	m.group.Forget(key)
}

// Cache returns the manager's image cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops all roots and cached images.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// Decode decodes image data. TGA is picked by the ".tga" extension since it
// has no magic number; every other format is sniffed from the payload.
func Decode(name string, data []byte) (image.Image, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err := texture.DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img, nil
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !supported[kind.Extension] {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, name)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s (%s): %w", name, kind.MIME.Value, err)
	}
	return img, nil
}

// Cache is an in-memory cache of decoded images.
type Cache struct {
	data map[string]image.Image
	mu   sync.Mutex

	// Bumped by Delete per key and by Clear for all keys.
	gens  map[string]uint64
	epoch uint64

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]image.Image),
		gens: make(map[string]uint64),
	}
}

// Get retrieves an image from cache.
func (c *Cache) Get(key string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return img, ok
}

// peek is Get without touching the stats.
func (c *Cache) peek(key string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.data[key]
	return img, ok
}

// Set stores an image in cache.
func (c *Cache) Set(key string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = img
}

// Generation returns a counter that changes whenever key is deleted or the
// cache is cleared.
func (c *Cache) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch + c.gens[key]
}

// SetIfGeneration stores img only if key's generation is still gen.
func (c *Cache) SetIfGeneration(key string, img image.Image, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch+c.gens[key] != gen {
		return false
	}
	c.data[key] = img
	return true
}

// Delete removes an image from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.gens[key]++
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]image.Image)
	c.epoch++
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Package assets loads and caches panorama textures.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/engine/texture"
	"github.com/Faultbox/panotour/internal/logger"
)

// ErrNotFound is returned when no source holds the requested key.
var ErrNotFound = errors.New("asset not found")

type source struct {
	fsys fs.FS
	dir  string // on-disk root, empty for in-memory sources
}

// decode is one in-flight decode of a key, shared by concurrent loaders.
type decode struct {
	done  chan struct{}
	tex   *texture.Texture
	err   error
	stale bool // the key was invalidated while decoding
}

// Manager loads panoramas from one or more sources. Sources are searched in
// reverse order (last added = highest priority). Only successful decodes
// are cached, so a failed key is retried on the next request.
type Manager struct {
	sources []source
	cache   *Cache
	maxSize int
	mu      sync.RWMutex

	// loadMu guards gen and inflight, and orders cache writes against
	// Invalidate.
	loadMu   sync.Mutex
	gen      map[string]uint64
	inflight map[string]*decode

	pendingMu sync.Mutex
	pending   []string

	log *zap.Logger
}

// NewManager creates a new asset manager. Textures larger than maxSize on
// either side are downscaled on load.
func NewManager(maxSize int) *Manager {
	return &Manager{
		cache:    NewCache(),
		maxSize:  maxSize,
		gen:      make(map[string]uint64),
		inflight: make(map[string]*decode),
		log:      logger.Named("assets"),
	}
}

// AddDir adds an on-disk directory as a source.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening asset dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.sources = append(m.sources, source{fsys: os.DirFS(dir), dir: dir})
	m.mu.Unlock()
	return nil
}

// AddFS adds an arbitrary filesystem, such as an embedded bundle.
func (m *Manager) AddFS(fsys fs.FS) {
	m.mu.Lock()
	m.sources = append(m.sources, source{fsys: fsys})
	m.mu.Unlock()
}

// Load returns the decoded texture for key. Concurrent loads of one key
// share a single decode. A decode that overlaps Invalidate is thrown away
// and the key is decoded again.
func (m *Manager) Load(key string) (*texture.Texture, error) {
	key = path.Clean(key)
	for {
		m.loadMu.Lock()
		if tex, ok := m.cache.Get(key); ok {
			m.loadMu.Unlock()
			return tex, nil
		}
		if d, ok := m.inflight[key]; ok {
			m.loadMu.Unlock()
			<-d.done
			if d.stale {
				continue
			}
			return d.tex, d.err
		}
		d := &decode{done: make(chan struct{})}
		m.inflight[key] = d
		gen := m.gen[key]
		m.loadMu.Unlock()

		d.tex, d.err = m.decode(key)

		m.loadMu.Lock()
		delete(m.inflight, key)
		d.stale = m.gen[key] != gen
		if d.err == nil && !d.stale {
			m.cache.Set(key, d.tex)
		}
		m.loadMu.Unlock()
		close(d.done)

		if d.stale {
			m.log.Debug("discarding decode of changed panorama", zap.String("key", key))
			continue
		}
		return d.tex, d.err
	}
}

func (m *Manager) decode(key string) (*texture.Texture, error) {
	m.mu.RLock()
	sources := m.sources
	m.mu.RUnlock()

	for i := len(sources) - 1; i >= 0; i-- {
		f, err := sources[i].fsys.Open(key)
		if err != nil {
			continue
		}
		tex, err := texture.Decode(key, f, m.maxSize)
		f.Close()
		if err != nil {
			return nil, err
		}

		m.log.Debug("panorama decoded",
			zap.String("key", key),
			zap.Int("width", tex.Width),
			zap.Int("height", tex.Height),
		)
		return tex, nil
	}

	return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
}

// Prefetch decodes keys in the background so a later Load hits the cache.
// Failures are only logged; Load reports them again when asked.
func (m *Manager) Prefetch(keys ...string) {
	go func() {
		for _, key := range keys {
			if _, err := m.Load(key); err != nil {
				m.log.Debug("prefetch failed", zap.String("key", key), zap.Error(err))
			}
		}
	}()
}

// Invalidate drops key from the cache and queues it for Changed.
func (m *Manager) Invalidate(key string) {
	key = path.Clean(key)
	m.loadMu.Lock()
	m.gen[key]++
	m.cache.Delete(key)
	m.loadMu.Unlock()

	m.pendingMu.Lock()
	m.pending = append(m.pending, key)
	m.pendingMu.Unlock()
}

// Changed returns and clears the keys invalidated since the last call.
func (m *Manager) Changed() []string {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	out := m.pending
	m.pending = nil
	return out
}

// Close drops all sources and cached textures.
func (m *Manager) Close() {
	m.mu.Lock()
	m.sources = nil
	m.mu.Unlock()
	m.cache.Clear()
}

// Cache is a simple in-memory cache for decoded textures.
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

// Get retrieves an item from cache.
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

// Set stores an item in cache.
func (c *Cache) Set(key string, tex *texture.Texture) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = tex
}

// Delete removes an item. Missing keys are ignored.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*texture.Texture)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

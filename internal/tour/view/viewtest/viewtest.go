// Package viewtest provides a headless Surface and an in-memory loader for
// tests of the render context and the code built on it.
package viewtest

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/Faultbox/panotour/internal/engine/camera"
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/texture"
)

// Surface records what the render context asks of it.
type Surface struct {
	Width, Height int
	Frames        int
	LastNodes     int
	LastCamera    camera.Pose
	Released      []*scene.Mesh
	ReleasedTex   []*texture.Texture
	Closed        int
	RenderErr     error
}

// Resize records the new size.
func (s *Surface) Resize(width, height int) {
	s.Width, s.Height = width, height
}

// Render counts the frame and snapshots the scene.
func (s *Surface) Render(sc *scene.Scene, cam *camera.Perspective) error {
	s.Frames++
	s.LastNodes = sc.Len()
	s.LastCamera = cam.Pose()
	return s.RenderErr
}

// Release records the mesh.
func (s *Surface) Release(m *scene.Mesh) {
	s.Released = append(s.Released, m)
}

// ReleaseTexture records the texture.
func (s *Surface) ReleaseTexture(t *texture.Texture) {
	s.ReleasedTex = append(s.ReleasedTex, t)
}

// Close counts the call.
func (s *Surface) Close() {
	s.Closed++
}

// ErrMissing is returned by Loader for unknown or failing keys.
var ErrMissing = errors.New("no such panorama")

// Loader serves solid-colour textures by key. Keys in Fail always fail.
type Loader struct {
	mu    sync.Mutex
	tex   map[string]*texture.Texture
	Fail  map[string]bool
	Loads map[string]int

	prefetched []string
}

// NewLoader creates a loader holding one texture per key.
func NewLoader(keys ...string) *Loader {
	l := &Loader{
		tex:   make(map[string]*texture.Texture),
		Fail:  make(map[string]bool),
		Loads: make(map[string]int),
	}
	for i, k := range keys {
		l.tex[k] = texture.Solid(k, color.RGBA{R: uint8(40 * i), G: 128, B: 200, A: 255})
	}
	return l
}

// Load returns the texture for key.
func (l *Loader) Load(key string) (*texture.Texture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Loads[key]++
	if l.Fail[key] {
		return nil, fmt.Errorf("%s: %w", key, ErrMissing)
	}
	t, ok := l.tex[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrMissing)
	}
	return t, nil
}

// Replace swaps the texture behind key, as a file change on disk would.
func (l *Loader) Replace(key string) *texture.Texture {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := texture.Solid(key, color.RGBA{R: 255, A: 255})
	l.tex[key] = t
	return t
}

// Texture returns the texture currently served for key.
func (l *Loader) Texture(key string) *texture.Texture {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tex[key]
}

// Prefetch records the requested keys without loading them.
func (l *Loader) Prefetch(keys ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefetched = append(l.prefetched, keys...)
}

// Prefetched returns the keys requested so far and clears the record.
func (l *Loader) Prefetched() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.prefetched
	l.prefetched = nil
	return out
}

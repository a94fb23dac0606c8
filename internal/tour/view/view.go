// Package view owns everything that is drawn: the scene graph, the camera
// and the panorama sphere. It is the only writer of the camera pose and of
// the sphere texture; other components go through its methods.
package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/engine/camera"
	"github.com/Faultbox/panotour/internal/engine/input"
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/texture"
	"github.com/Faultbox/panotour/internal/logger"
	"github.com/Faultbox/panotour/internal/tour/rooms"
	"github.com/Faultbox/panotour/pkg/math"
)

var (
	// ErrSurfaceUnavailable is returned by Init when there is nothing to
	// render into.
	ErrSurfaceUnavailable = errors.New("render surface unavailable")
	// ErrAssetLoad wraps panorama load failures. The sphere falls back to
	// the neutral colour.
	ErrAssetLoad = errors.New("panorama load failed")
)

// Surface is the drawing backend. The GL renderer implements it; tests use
// a fake.
type Surface interface {
	Resize(width, height int)
	Render(s *scene.Scene, cam *camera.Perspective) error
	// Release frees the GPU copy of a removed mesh.
	Release(m *scene.Mesh)
	// ReleaseTexture frees the GPU copy of a texture no longer in use.
	ReleaseTexture(t *texture.Texture)
	Close()
}

// PanoramaLoader resolves a room's panorama key to a texture.
type PanoramaLoader interface {
	Load(key string) (*texture.Texture, error)
}

// Prefetcher is implemented by loaders that can decode in the background.
type Prefetcher interface {
	Prefetch(keys ...string)
}

// Size is a viewport size in pixels.
type Size struct {
	Width  int
	Height int
}

// Valid reports whether both sides are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Config holds the sphere and camera settings.
type Config struct {
	SphereRadius   float32
	SphereSegments int
	// Fallback is shown when no panorama is loaded.
	Fallback scene.Color
	FOV      float32
	Near     float32
	Far      float32

	Loader PanoramaLoader
	// QuerySize re-reads the viewport after a fullscreen change.
	QuerySize func() Size
	// Now is the frame clock used by Run.
	Now func() time.Time
	// FrameInterval throttles Run; zero renders back to back (vsync paced).
	FrameInterval time.Duration
}

// DefaultConfig returns a 50-unit, 64x64 sphere with a grey fallback and a
// 75 degree camera.
func DefaultConfig() Config {
	return Config{
		SphereRadius:   50,
		SphereSegments: 64,
		Fallback:       scene.Hex(0x444444),
		FOV:            camera.DefaultFOV,
		Near:           camera.DefaultNear,
		Far:            camera.DefaultFar,
		Now:            time.Now,
	}
}

// Context is the render context.
type Context struct {
	surface Surface
	cfg     Config
	size    Size

	sc     *scene.Scene
	cam    *camera.Perspective
	sphere *scene.Mesh
	tint   scene.Color

	activeKey string
	shown     map[string]*texture.Texture

	unsubs   []func()
	disposed bool
	done     chan struct{}

	log *zap.Logger
}

// Init creates the render context. It fails with ErrSurfaceUnavailable when
// surface is nil or size is not positive.
func Init(surface Surface, events *input.Dispatcher, size Size, cfg Config) (*Context, error) {
	if surface == nil {
		return nil, fmt.Errorf("init view: %w", ErrSurfaceUnavailable)
	}
	if !size.Valid() {
		return nil, fmt.Errorf("init view: size %dx%d: %w", size.Width, size.Height, ErrSurfaceUnavailable)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	c := &Context{
		surface: surface,
		cfg:     cfg,
		size:    size,
		sc:      scene.New(),
		cam:     camera.NewPerspective(cfg.FOV, float32(size.Width)/float32(size.Height), cfg.Near, cfg.Far),
		tint:    scene.ColorWhite,
		shown:   make(map[string]*texture.Texture),
		done:    make(chan struct{}),
		log:     logger.Named("view"),
	}
	c.sc.OnRelease(surface.Release)

	c.sphere = scene.NewMesh("panorama", scene.NewSphere(cfg.SphereRadius, cfg.SphereSegments, cfg.SphereSegments), &scene.Material{
		Color:   cfg.Fallback,
		Side:    scene.BackSide,
		Opacity: 1,
	})
	c.sc.Add(c.sphere)
	surface.Resize(size.Width, size.Height)

	if events != nil {
		c.unsubs = append(c.unsubs,
			events.Subscribe(input.EventWindowResize, func(e input.Event) {
				c.Resize(Size{Width: e.Width, Height: e.Height})
			}),
			events.Subscribe(input.EventFullscreenChange, func(input.Event) {
				if c.cfg.QuerySize != nil {
					c.Resize(c.cfg.QuerySize())
				}
			}),
		)
	}

	c.log.Info("render context ready",
		zap.Int("width", size.Width),
		zap.Int("height", size.Height),
		zap.Float32("sphere_radius", cfg.SphereRadius),
	)
	return c, nil
}

// Size returns the viewport size.
func (c *Context) Size() Size {
	return c.size
}

// Resize updates the camera aspect and the surface. Non-positive sizes
// (minimized windows) are ignored.
func (c *Context) Resize(size Size) {
	if c.disposed || !size.Valid() || size == c.size {
		return
	}
	c.size = size
	c.cam.SetViewport(size.Width, size.Height)
	c.surface.Resize(size.Width, size.Height)
	c.log.Debug("resized", zap.Int("width", size.Width), zap.Int("height", size.Height))
}

// Scene exposes the scene graph. Removed nodes are released on the surface.
func (c *Context) Scene() *scene.Scene {
	return c.sc
}

// Camera returns the camera for read-only use such as picking.
func (c *Context) Camera() *camera.Perspective {
	return c.cam
}

// Sphere returns the panorama sphere mesh.
func (c *Context) Sphere() *scene.Mesh {
	return c.sphere
}

// CameraPose returns the current pose.
func (c *Context) CameraPose() camera.Pose {
	return c.cam.Pose()
}

// SetCameraPose moves the camera.
func (c *Context) SetCameraPose(position, target math.Vec3) {
	c.cam.Position = position
	c.cam.Target = target
}

// PanoramaTexture returns the texture on the sphere, nil for the fallback.
func (c *Context) PanoramaTexture() *texture.Texture {
	return c.sphere.Material.Map
}

// SetPanoramaTexture swaps the sphere map. Passing nil shows the fallback
// colour. Returns false when tex is already active.
func (c *Context) SetPanoramaTexture(tex *texture.Texture) bool {
	mat := c.sphere.Material
	if mat.Map == tex {
		return false
	}
	mat.Map = tex
	c.applyTint()
	return true
}

// SetSphereTint sets the colour multiplied into the panorama.
func (c *Context) SetSphereTint(tint scene.Color) {
	c.tint = tint
	c.applyTint()
}

// SetBackground sets the clear colour.
func (c *Context) SetBackground(bg scene.Color) {
	c.sc.Background = bg
}

func (c *Context) applyTint() {
	if c.sphere.Material.Map == nil {
		c.sphere.Material.Color = c.cfg.Fallback
		return
	}
	c.sphere.Material.Color = c.tint
}

// ShowPanorama loads room's panorama and puts it on the sphere. On failure
// the sphere shows the fallback colour and an ErrAssetLoad error is
// returned; nothing is cached, so the next call retries.
func (c *Context) ShowPanorama(room rooms.Room) error {
	if c.cfg.Loader == nil {
		c.activeKey = ""
		c.SetPanoramaTexture(nil)
		return fmt.Errorf("room %d: no loader: %w", room.ID, ErrAssetLoad)
	}

	tex, err := c.cfg.Loader.Load(room.Panorama)
	if err != nil {
		c.activeKey = ""
		c.SetPanoramaTexture(nil)
		c.log.Warn("panorama unavailable, showing fallback",
			zap.String("room", room.Name),
			zap.String("panorama", room.Panorama),
			zap.Error(err),
		)
		return fmt.Errorf("room %d (%s): %w: %w", room.ID, room.Panorama, ErrAssetLoad, err)
	}

	c.activeKey = room.Panorama
	c.shown[room.Panorama] = tex
	c.SetPanoramaTexture(tex)
	return nil
}

// Prefetch asks the loader to decode rooms' panoramas in the background,
// when it supports that.
func (c *Context) Prefetch(rs ...rooms.Room) {
	p, ok := c.cfg.Loader.(Prefetcher)
	if !ok || len(rs) == 0 {
		return
	}
	keys := make([]string, len(rs))
	for i, r := range rs {
		keys[i] = r.Panorama
	}
	p.Prefetch(keys...)
}

// Reload drops the GPU copies of changed panoramas and reloads the one on
// the sphere if it changed. Returns the first reload error.
func (c *Context) Reload(keys []string) error {
	var reloadErr error
	for _, key := range keys {
		old, ok := c.shown[key]
		if !ok {
			continue
		}
		delete(c.shown, key)

		if key == c.activeKey {
			tex, err := c.cfg.Loader.Load(key)
			if err != nil {
				c.log.Warn("panorama reload failed", zap.String("panorama", key), zap.Error(err))
				if reloadErr == nil {
					reloadErr = fmt.Errorf("reload %s: %w: %w", key, ErrAssetLoad, err)
				}
				// The old texture is still on the sphere
				c.shown[key] = old
				continue
			}
			c.shown[key] = tex
			c.SetPanoramaTexture(tex)
			c.log.Info("panorama reloaded", zap.String("panorama", key))
		}
		if old != c.sphere.Material.Map {
			c.surface.ReleaseTexture(old)
		}
	}
	return reloadErr
}

// RenderFrame draws the scene once.
func (c *Context) RenderFrame() error {
	if c.disposed {
		return nil
	}
	return c.surface.Render(c.sc, c.cam)
}

// StepFunc advances the simulation for one frame.
type StepFunc func(now time.Time)

// Run calls step and renders, frame after frame, until ctx is cancelled or
// Dispose is called. Render errors are logged and the loop continues.
func (c *Context) Run(ctx context.Context, step StepFunc) error {
	var ticker *time.Ticker
	if c.cfg.FrameInterval > 0 {
		ticker = time.NewTicker(c.cfg.FrameInterval)
		defer ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		default:
		}

		if step != nil {
			step(c.cfg.Now())
		}
		if err := c.RenderFrame(); err != nil {
			c.log.Error("render failed", zap.Error(err))
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.done:
				return nil
			case <-ticker.C:
			}
		}
	}
}

// Dispose detaches listeners, removes every scene node and closes the
// surface. A second call does nothing.
func (c *Context) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	close(c.done)

	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil

	c.sc.Clear()
	for key, tex := range c.shown {
		c.surface.ReleaseTexture(tex)
		delete(c.shown, key)
	}
	c.surface.Close()
	c.log.Info("render context disposed")
}

// Disposed reports whether Dispose has been called.
func (c *Context) Disposed() bool {
	return c.disposed
}

// Package app hosts the walkthrough in an SDL2 window: it owns the window,
// the GL renderer, audio and assets, and runs the frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/assets"
	"github.com/Faultbox/panotour/internal/config"
	"github.com/Faultbox/panotour/internal/engine/audio"
	"github.com/Faultbox/panotour/internal/engine/camera"
	"github.com/Faultbox/panotour/internal/engine/input"
	"github.com/Faultbox/panotour/internal/engine/renderer"
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/screenshot"
	"github.com/Faultbox/panotour/internal/engine/window"
	"github.com/Faultbox/panotour/internal/i18n"
	"github.com/Faultbox/panotour/internal/logger"
	"github.com/Faultbox/panotour/internal/tour/rooms"
	"github.com/Faultbox/panotour/internal/tour/view"
	"github.com/Faultbox/panotour/internal/tour/viewer"
)

// surface presents each rendered frame on the window and captures a
// screenshot when one was requested.
type surface struct {
	*renderer.Renderer
	win  *window.Window
	shot *screenshot.Capture

	captureTag string
	capture    bool
	log        *zap.Logger
}

func (s *surface) Render(sc *scene.Scene, cam *camera.Perspective) error {
	if err := s.Renderer.Render(sc, cam); err != nil {
		return err
	}
	if s.capture {
		s.capture = false
		pixels, w, h := s.ReadPixels()
		path, err := s.shot.SavePixels(pixels, w, h, s.captureTag)
		if err != nil {
			s.log.Warn("screenshot failed", zap.Error(err))
		} else {
			s.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	s.win.SwapBuffers()
	return nil
}

// sounds resolves cue and ambience paths against the asset directory.
type sounds struct {
	m   *audio.Manager
	dir string
}

func (s *sounds) PlayCue(name string) {
	s.m.PlayCue(name)
}

func (s *sounds) PlayAmbience(path string) error {
	return s.m.PlayAmbience(filepath.Join(s.dir, path))
}

func (s *sounds) StopAmbience() {
	s.m.StopAmbience()
}

// App is the running viewer.
type App struct {
	cfg      *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	surface  *surface
	poller   *window.Poller
	events   *input.Dispatcher
	reg      *rooms.Registry
	assets   *assets.Manager
	audio    *audio.Manager
	viewer   *viewer.Viewer

	cancel context.CancelFunc
	log    *zap.Logger
}

// New opens the window and builds the viewer.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:    cfg,
		events: input.NewDispatcher(),
		poller: window.NewPoller(),
		log:    logger.Named("app"),
	}

	reg, err := rooms.FromConfig(cfg.Tour.Rooms)
	if err != nil {
		return nil, fmt.Errorf("building rooms: %w", err)
	}
	a.reg = reg

	catalog, err := i18n.Load(cfg.Locale.Dir, cfg.Locale.Language)
	if err != nil {
		a.log.Warn("no translations, using room names as is", zap.Error(err))
	}

	// Window first: the GL context must exist before the renderer
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.assets = assets.NewManager(cfg.Assets.MaxTextureSize)
	if err := a.assets.AddDir(cfg.Assets.Dir); err != nil {
		a.log.Warn("asset directory unavailable, panoramas will show the fallback colour", zap.Error(err))
	}

	a.surface = &surface{
		Renderer: a.renderer,
		win:      a.window,
		shot:     screenshot.New("screenshots", "tour"),
		log:      a.log,
	}

	opts := viewer.Options{
		Registry: reg,
		Surface:  a.surface,
		Size:     view.Size{Width: w, Height: h},
		Loader:   a.assets,
		Events:   a.events,
		Catalog:  catalog,
		QuerySize: func() view.Size {
			w, h := a.window.DrawableSize()
			return view.Size{Width: w, Height: h}
		},
		OnRoomChange: func(r rooms.Room) {
			a.window.SetTitle(catalog.T("%s - 360° Virtual Room Tour", catalog.T(r.Name)))
		},
	}
	if cfg.Assets.Watch {
		opts.Changes = a.assets.Changed
	}
	if snd := a.initAudio(); snd != nil {
		opts.Sounds = snd
	}

	a.viewer, err = viewer.New(cfg, opts)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create viewer: %w", err)
	}

	a.events.Subscribe(input.EventKeyDown, a.hostKeys)
	return a, nil
}

// initAudio starts the speaker and loads the cues. Audio is optional: any
// failure leaves the viewer silent.
func (a *App) initAudio() viewer.Sounds {
	if !a.cfg.Audio.Enabled {
		return nil
	}
	m := audio.New()
	if err := m.Init(); err != nil {
		a.log.Warn("audio disabled", zap.Error(err))
		return nil
	}
	m.SetMasterVolume(a.cfg.Audio.Volume)

	dir := a.cfg.Assets.Dir
	cues := map[string]string{
		audio.CueClick:  a.cfg.Audio.ClickSound,
		audio.CueWhoosh: a.cfg.Audio.WhooshSound,
	}
	for name, path := range cues {
		if path == "" {
			continue
		}
		if err := m.LoadCue(name, filepath.Join(dir, path)); err != nil {
			a.log.Warn("sound cue unavailable", zap.String("cue", name), zap.Error(err))
		}
	}
	a.audio = m
	return &sounds{m: m, dir: dir}
}

// hostKeys handles the shortcuts that belong to the window, not the tour.
func (a *App) hostKeys(e input.Event) {
	switch e.Key {
	case input.KeyEscape:
		if a.cancel != nil {
			a.cancel()
		}
	case input.KeyF:
		if err := a.window.ToggleFullscreen(); err != nil {
			a.log.Warn("fullscreen toggle failed", zap.Error(err))
			return
		}
		a.events.Dispatch(input.Event{Type: input.EventFullscreenChange})
	case input.KeyP:
		if r, err := a.reg.RoomAt(a.viewer.CurrentRoom()); err == nil {
			a.surface.captureTag = r.Glyph
		}
		a.surface.capture = true
	}
}

// Run runs the frame loop until the window closes or Esc is pressed.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.cancel = cancel

	if a.cfg.Assets.Watch {
		if err := a.assets.Watch(ctx); err != nil {
			a.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")
	err := a.viewer.Run(ctx, func(now time.Time) {
		if a.poller.Update() {
			cancel()
			return
		}
		a.poller.Pump(a.events)

		frameCount++
		if now.Sub(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Int("room", a.viewer.CurrentRoom()))
			frameCount = 0
			fpsTimer = now
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases everything in reverse order of creation.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.viewer != nil {
		// Disposing the viewer closes the renderer through its surface
		a.viewer.Dispose()
	} else if a.renderer != nil {
		a.renderer.Close()
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

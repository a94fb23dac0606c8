// Package viewer composes the walkthrough: render context, hotspots, room
// transitions, theme fades and input, driven by one frame loop.
package viewer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/config"
	"github.com/Faultbox/panotour/internal/engine/audio"
	"github.com/Faultbox/panotour/internal/engine/input"
	"github.com/Faultbox/panotour/internal/engine/timers"
	"github.com/Faultbox/panotour/internal/i18n"
	"github.com/Faultbox/panotour/internal/logger"
	"github.com/Faultbox/panotour/internal/tour/controls"
	"github.com/Faultbox/panotour/internal/tour/hotspot"
	"github.com/Faultbox/panotour/internal/tour/rooms"
	"github.com/Faultbox/panotour/internal/tour/state"
	"github.com/Faultbox/panotour/internal/tour/theme"
	"github.com/Faultbox/panotour/internal/tour/transition"
	"github.com/Faultbox/panotour/internal/tour/view"
	"github.com/Faultbox/panotour/pkg/math"
)

// clickSlop is how far in pixels the pointer may move between press and
// release for the gesture to count as a click rather than a drag.
const clickSlop = 4

// Sounds plays cues and room ambience. *audio.Manager implements it.
type Sounds interface {
	PlayCue(name string)
	PlayAmbience(path string) error
	StopAmbience()
}

type silent struct{}

func (silent) PlayCue(string) {}

func (silent) PlayAmbience(string) error { return nil }

func (silent) StopAmbience() {}

// Options carries the host-provided pieces.
type Options struct {
	Registry *rooms.Registry
	Surface  view.Surface
	Size     view.Size
	Loader   view.PanoramaLoader
	Events   *input.Dispatcher

	// Optional
	Sounds    Sounds
	Catalog   *i18n.Catalog
	Clock     func() time.Time
	QuerySize func() view.Size
	// Changes returns panorama keys modified on disk since the last call.
	Changes func() []string
	// OnRoomChange is called after a room is committed.
	OnRoomChange func(room rooms.Room)
}

// Viewer is the object the host shell talks to.
type Viewer struct {
	reg     *rooms.Registry
	st      *state.Viewer
	sched   *timers.Scheduler
	view    *view.Context
	spots   *hotspot.Set
	themes  *theme.Controller
	trans   *transition.Engine
	router  *controls.Router
	sounds  Sounds
	catalog *i18n.Catalog
	clock   func() time.Time
	changes func() []string
	onRoom  func(room rooms.Room)

	pressX, pressY int
	pressed        bool
	detach         []func()
	disposed       bool

	log *zap.Logger
}

// New builds the viewer from cfg and shows the start room without an
// animation. A missing start panorama is logged, not fatal.
func New(cfg *config.Config, opts Options) (*Viewer, error) {
	if opts.Registry == nil {
		reg, err := rooms.FromConfig(cfg.Tour.Rooms)
		if err != nil {
			return nil, fmt.Errorf("building rooms: %w", err)
		}
		opts.Registry = reg
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Sounds == nil {
		opts.Sounds = silent{}
	}

	initialTheme, err := state.ParseTheme(cfg.Theme.Initial)
	if err != nil {
		return nil, err
	}
	policy, err := hotspot.ParsePolicy(cfg.Tour.HotspotPolicy)
	if err != nil {
		return nil, err
	}
	start := cfg.Tour.StartRoom
	if !opts.Registry.Valid(start) {
		return nil, fmt.Errorf("start room %d: %w", start, rooms.ErrOutOfRange)
	}

	vcfg := view.DefaultConfig()
	vcfg.Loader = opts.Loader
	vcfg.QuerySize = opts.QuerySize
	vcfg.Now = opts.Clock
	ctx, err := view.Init(opts.Surface, opts.Events, opts.Size, vcfg)
	if err != nil {
		return nil, err
	}

	now := opts.Clock()
	v := &Viewer{
		reg:     opts.Registry,
		st:      state.New(start, initialTheme),
		sched:   timers.New(now),
		view:    ctx,
		sounds:  opts.Sounds,
		catalog: opts.Catalog,
		clock:   opts.Clock,
		changes: opts.Changes,
		onRoom:  opts.OnRoomChange,
		log:     logger.Named("viewer"),
	}

	hcfg := hotspot.DefaultConfig()
	hcfg.Policy = policy
	v.spots = hotspot.NewSet(ctx.Scene(), v.reg, v.sched, hcfg, now)
	v.themes = theme.New(v.st, ctx.Scene(), v.sched, theme.TimingsFromConfig(cfg.Theme), v.applyTheme)

	tcfg := transition.ConfigFromTour(cfg.Tour)
	v.trans = transition.New(v.reg, v.st, ctx, tcfg, transition.Hooks{
		OnStart:    v.transitionStarted,
		OnComplete: v.roomCommitted,
	})
	v.router = controls.NewRouter(ctx, v.st, controls.ConfigFromTour(cfg.Tour))

	if opts.Events != nil {
		v.attach(opts.Events)
	}

	v.applyTheme(initialTheme)
	v.log.Info(v.catalog.T("Loading panorama..."), zap.Int("room", start))
	if err := v.trans.Jump(start); err != nil {
		v.log.Warn("start room shown without panorama", zap.Error(err))
	}
	return v, nil
}

// CurrentRoom returns the committed room index.
func (v *Viewer) CurrentRoom() int {
	return v.st.CurrentRoom()
}

// Theme returns the active theme.
func (v *Viewer) Theme() state.Theme {
	return v.st.Theme()
}

// Busy reports whether a transition or theme fade is running.
func (v *Viewer) Busy() bool {
	return v.st.Busy()
}

// RoomCount returns the number of rooms.
func (v *Viewer) RoomCount() int {
	return v.reg.Count()
}

// RoomLabel returns the translated display name of room i.
func (v *Viewer) RoomLabel(i int) (string, error) {
	r, err := v.reg.RoomAt(i)
	if err != nil {
		return "", err
	}
	return v.catalog.T(r.Name), nil
}

// Title returns the window title for the current room.
func (v *Viewer) Title() string {
	label, _ := v.RoomLabel(v.CurrentRoom())
	return v.catalog.T("%s - 360° Virtual Room Tour", label)
}

// Hotspots returns the live hotspots.
func (v *Viewer) Hotspots() []*hotspot.Hotspot {
	return v.spots.Hotspots()
}

// View returns the render context.
func (v *Viewer) View() *view.Context {
	return v.view
}

// ThemePhase returns the overlay phase.
func (v *Viewer) ThemePhase() theme.Phase {
	return v.themes.Phase()
}

// RequestRoom starts a transition to room i.
func (v *Viewer) RequestRoom(i int) error {
	err := v.trans.Request(i, v.clock(), transition.Options{})
	if err != nil {
		v.log.Debug("room request rejected", zap.Int("room", i), zap.Error(err))
	}
	return err
}

// ResetView returns to the home room and the home pose.
func (v *Viewer) ResetView() error {
	err := v.trans.ResetView(v.clock())
	if err != nil {
		v.log.Debug("reset rejected", zap.Error(err))
	}
	return err
}

// ToggleTheme starts the light/dark fade.
func (v *Viewer) ToggleTheme() error {
	return v.themes.Toggle(v.clock())
}

// HandleClick picks a hotspot at window pixel (x, y) and navigates to its
// room. Returns the room index and whether a hotspot was hit.
func (v *Viewer) HandleClick(x, y int) (int, bool) {
	if v.Busy() {
		return 0, false
	}
	size := v.view.Size()
	ndc := math.ScreenToNDC(float32(x), float32(y), float32(size.Width), float32(size.Height))
	h, ok := v.spots.Pick(ndc, v.view.Camera(), v.CurrentRoom())
	if !ok {
		return 0, false
	}

	v.spots.Press(h)
	v.sounds.PlayCue(audio.CueClick)
	if err := v.RequestRoom(h.RoomIndex); err != nil {
		return h.RoomIndex, false
	}
	return h.RoomIndex, true
}

// HandleKey runs the host shortcuts: R resets, T toggles the theme, digits
// jump to rooms and everything else goes to the camera controls.
func (v *Viewer) HandleKey(k input.Key) {
	switch {
	case k == input.KeyR:
		_ = v.ResetView()
	case k == input.KeyT:
		_ = v.ToggleTheme()
	case k.Digit() > 0:
		_ = v.RequestRoom(k.Digit() - 1)
	default:
		v.router.HandleKey(k)
	}
}

// HandleDrag orbits the camera.
func (v *Viewer) HandleDrag(dx, dy float32) {
	v.router.HandleDrag(dx, dy)
}

// HandleWheel zooms the camera.
func (v *Viewer) HandleWheel(delta float32) {
	v.router.HandleWheel(delta)
}

// Resize forwards a new viewport size.
func (v *Viewer) Resize(size view.Size) {
	v.view.Resize(size)
}

func (v *Viewer) attach(d *input.Dispatcher) {
	v.detach = append(v.detach,
		d.Subscribe(input.EventKeyDown, func(e input.Event) {
			v.HandleKey(e.Key)
		}),
		d.Subscribe(input.EventMouseDown, func(e input.Event) {
			if e.Button == input.ButtonLeft {
				v.pressed = true
				v.pressX, v.pressY = e.MouseX, e.MouseY
			}
		}),
		d.Subscribe(input.EventMouseUp, func(e input.Event) {
			if e.Button != input.ButtonLeft || !v.pressed {
				return
			}
			v.pressed = false
			if abs(e.MouseX-v.pressX) <= clickSlop && abs(e.MouseY-v.pressY) <= clickSlop {
				v.HandleClick(e.MouseX, e.MouseY)
			}
		}),
		d.Subscribe(input.EventMouseMove, func(e input.Event) {
			if e.Button == input.ButtonLeft {
				v.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}
		}),
		d.Subscribe(input.EventMouseWheel, func(e input.Event) {
			v.HandleWheel(e.Wheel)
		}),
	)
}

// Frame advances every state machine to now and renders once. Timer
// callbacks fire first, then the transition and fade read the same now.
func (v *Viewer) Frame(now time.Time) error {
	if v.disposed {
		return nil
	}
	v.step(now)
	return v.view.RenderFrame()
}

func (v *Viewer) step(now time.Time) {
	v.sched.Advance(now)
	v.trans.Update(now)
	v.themes.Update(now)
	v.router.Update()
	v.spots.Update(now)

	if v.changes != nil {
		if keys := v.changes(); len(keys) > 0 {
			if err := v.view.Reload(keys); err != nil {
				v.log.Warn("hot reload failed", zap.Error(err))
			}
		}
	}
}

// Run drives frames until ctx is cancelled or the viewer is disposed.
// before, when set, runs at the start of every frame; hosts poll their
// window events there.
func (v *Viewer) Run(ctx context.Context, before view.StepFunc) error {
	return v.view.Run(ctx, func(now time.Time) {
		if before != nil {
			before(now)
		}
		if !v.disposed {
			v.step(now)
		}
	})
}

// Dispose tears everything down. A second call does nothing.
func (v *Viewer) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true

	for _, d := range v.detach {
		d()
	}
	v.detach = nil

	v.themes.Dispose()
	v.spots.Dispose()
	v.sched.Clear()
	v.sounds.StopAmbience()
	v.view.Dispose()
	v.log.Info("viewer disposed")
}

func (v *Viewer) applyTheme(t state.Theme) {
	p := theme.Palette(t)
	v.view.SetBackground(p.Background)
	v.view.SetSphereTint(p.SphereTint)
	v.spots.Rebuild(v.st.CurrentRoom(), t)
}

func (v *Viewer) transitionStarted(target int) {
	v.sounds.PlayCue(audio.CueWhoosh)
	if r, err := v.reg.RoomAt(target); err == nil {
		v.view.Prefetch(r)
	}
}

func (v *Viewer) roomCommitted(id int) {
	v.spots.Rebuild(id, v.st.Theme())

	r, err := v.reg.RoomAt(id)
	if err != nil {
		return
	}
	if r.Ambience != "" {
		if err := v.sounds.PlayAmbience(r.Ambience); err != nil {
			v.log.Warn("ambience unavailable", zap.String("path", r.Ambience), zap.Error(err))
		}
	} else {
		v.sounds.StopAmbience()
	}
	if v.onRoom != nil {
		v.onRoom(r)
	}
	v.view.Prefetch(v.neighbours(id)...)
	v.log.Info("room shown", zap.Int("room", id), zap.String("name", r.Name))
}

// neighbours returns the rooms reachable from i through hotspots.
func (v *Viewer) neighbours(i int) []rooms.Room {
	var out []rooms.Room
	v.spots.Rooms().Each(func(idx int) {
		if r, err := v.reg.RoomAt(idx); err == nil && idx != i {
			out = append(out, r)
		}
	})
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Package transition moves the camera from one room to the next: an eased
// dolly toward the target room's view with a single panorama swap part way
// through.
package transition

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/config"
	"github.com/Faultbox/panotour/internal/engine/camera"
	"github.com/Faultbox/panotour/internal/logger"
	"github.com/Faultbox/panotour/internal/tour/rooms"
	"github.com/Faultbox/panotour/internal/tour/state"
	"github.com/Faultbox/panotour/pkg/math"
)

var (
	// ErrBusy is returned while a room transition or theme fade runs.
	ErrBusy = state.ErrBusy
	// ErrSameRoom is returned when the requested room is already shown.
	ErrSameRoom = errors.New("room is already current")
)

// Stage is the part of the render context a transition drives. It is the
// only writer of the camera and the panorama texture.
type Stage interface {
	CameraPose() camera.Pose
	SetCameraPose(position, target math.Vec3)
	ShowPanorama(room rooms.Room) error
}

// Phase is the engine state.
type Phase int

const (
	Idle Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Config holds the transition timing.
type Config struct {
	Duration time.Duration
	// SwapAt is the progress after which the panorama is replaced.
	SwapAt float32
	// Distance from the origin of the camera at the end of a transition.
	Distance float32
	// HomeRoom and HomePosition are used by ResetView.
	HomeRoom     int
	HomePosition math.Vec3
}

// DefaultConfig returns a 1.2s transition swapping at 30%.
func DefaultConfig() Config {
	return Config{
		Duration:     1200 * time.Millisecond,
		SwapAt:       0.3,
		Distance:     5,
		HomeRoom:     0,
		HomePosition: camera.HomePosition,
	}
}

// ConfigFromTour converts the tour config section.
func ConfigFromTour(c config.TourConfig) Config {
	cfg := DefaultConfig()
	cfg.Duration = c.TransitionDuration
	cfg.SwapAt = c.TextureSwapAt
	cfg.Distance = c.EstablishedDistance
	cfg.HomeRoom = c.HomeRoom
	return cfg
}

// Options modify a single request.
type Options struct {
	// Force allows re-entering the current room.
	Force bool
}

// Hooks are called on the main thread as a transition progresses.
type Hooks struct {
	OnStart    func(target int)
	OnSwap     func(target int, err error)
	OnComplete func(target int)
}

// Engine is the room transition state machine.
type Engine struct {
	reg   *rooms.Registry
	st    *state.Viewer
	stage Stage
	cfg   Config
	hooks Hooks

	phase       Phase
	target      rooms.Room
	start       time.Time
	progress    float32
	swapped     bool
	startPos    math.Vec3
	startTarget math.Vec3
	endPos      math.Vec3
	endTarget   math.Vec3

	log *zap.Logger
}

// New creates an idle engine.
func New(reg *rooms.Registry, st *state.Viewer, stage Stage, cfg Config, hooks Hooks) *Engine {
	return &Engine{
		reg:   reg,
		st:    st,
		stage: stage,
		cfg:   cfg,
		hooks: hooks,
		log:   logger.Named("transition"),
	}
}

// Phase returns the current state.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Progress returns the linear progress of the running transition, 0 when idle.
func (e *Engine) Progress() float32 {
	if e.phase == Idle {
		return 0
	}
	return e.progress
}

// Target returns the room being transitioned to.
func (e *Engine) Target() (int, bool) {
	return e.target.ID, e.phase == Transitioning
}

// Request starts a transition to room id. It is rejected while anything
// holds the busy flag, for the current room unless forced, and for unknown
// rooms. A rejected request changes nothing.
func (e *Engine) Request(id int, now time.Time, opts Options) error {
	if e.phase != Idle || e.st.Busy() {
		return ErrBusy
	}
	room, err := e.reg.RoomAt(id)
	if err != nil {
		return err
	}
	if id == e.st.CurrentRoom() && !opts.Force {
		return ErrSameRoom
	}

	endPos := room.CameraTarget.Normalize().Scale(e.cfg.Distance)
	return e.begin(room, now, endPos, room.CameraTarget)
}

// ResetView runs a forced transition to the home room that ends at the
// home pose looking at the origin.
func (e *Engine) ResetView(now time.Time) error {
	if e.phase != Idle || e.st.Busy() {
		return ErrBusy
	}
	room, err := e.reg.RoomAt(e.cfg.HomeRoom)
	if err != nil {
		return err
	}
	return e.begin(room, now, e.cfg.HomePosition, math.Vec3{})
}

func (e *Engine) begin(room rooms.Room, now time.Time, endPos, endTarget math.Vec3) error {
	if err := e.st.BeginRoomTransition(); err != nil {
		return err
	}

	pose := e.stage.CameraPose()
	e.phase = Transitioning
	e.target = room
	e.start = now
	e.progress = 0
	e.swapped = false
	e.startPos = pose.Position
	e.startTarget = pose.Target
	e.endPos = endPos
	e.endTarget = endTarget

	e.log.Debug("transition started",
		zap.Int("from", e.st.CurrentRoom()),
		zap.Int("to", room.ID),
		zap.Duration("duration", e.cfg.Duration),
	)
	if e.hooks.OnStart != nil {
		e.hooks.OnStart(room.ID)
	}
	return nil
}

// Update advances the running transition to now. Progress comes from the
// wall clock, never decreases and is clamped to 1, so the result does not
// depend on the frame rate. Returns true while a transition is running.
func (e *Engine) Update(now time.Time) bool {
	if e.phase != Transitioning {
		return false
	}

	p := float32(1)
	if e.cfg.Duration > 0 {
		p = math.Clamp01(float32(now.Sub(e.start)) / float32(e.cfg.Duration))
	}
	if p < e.progress {
		p = e.progress
	}
	e.progress = p

	eased := math.EaseOutCubic(p)
	e.stage.SetCameraPose(
		e.startPos.Lerp(e.endPos, eased),
		e.startTarget.Lerp(e.endTarget, eased),
	)

	if !e.swapped && (p > e.cfg.SwapAt || p >= 1) {
		e.swap()
	}
	if p >= 1 {
		e.finish()
		return false
	}
	return true
}

func (e *Engine) swap() {
	e.swapped = true
	err := e.stage.ShowPanorama(e.target)
	if err != nil {
		e.log.Warn("panorama swap failed", zap.Int("room", e.target.ID), zap.Error(err))
	}
	if e.hooks.OnSwap != nil {
		e.hooks.OnSwap(e.target.ID, err)
	}
}

func (e *Engine) finish() {
	id := e.target.ID
	e.phase = Idle
	e.st.EndRoomTransition(id)
	e.log.Debug("transition complete", zap.Int("room", id))
	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(id)
	}
}

// Jump switches to room id without animating the camera. It is used for
// the initial room. The room is committed even when its panorama fails to
// load; the load error is returned for logging.
func (e *Engine) Jump(id int) error {
	if e.phase != Idle || e.st.Busy() {
		return ErrBusy
	}
	room, err := e.reg.RoomAt(id)
	if err != nil {
		return err
	}

	e.st.JumpTo(id)
	loadErr := e.stage.ShowPanorama(room)
	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(id)
	}
	if loadErr != nil {
		return fmt.Errorf("jump to room %d: %w", id, loadErr)
	}
	return nil
}

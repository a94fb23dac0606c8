// Package theme runs the light/dark switch: a full-viewport overlay fades
// in, the theme flips underneath it, and the overlay fades out again.
package theme

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/config"
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/timers"
	"github.com/Faultbox/panotour/internal/logger"
	"github.com/Faultbox/panotour/internal/tour/state"
	"github.com/Faultbox/panotour/pkg/math"
)

// Phase is the overlay state.
type Phase int

const (
	Steady Phase = iota
	FadingIn
	Holding
	FadingOut
)

func (p Phase) String() string {
	switch p {
	case FadingIn:
		return "fading-in"
	case Holding:
		return "holding"
	case FadingOut:
		return "fading-out"
	}
	return "steady"
}

// Timings is the overlay timeline.
type Timings struct {
	FadeIn         time.Duration
	HoldBeforeFlip time.Duration
	HoldAfterFlip  time.Duration
	FadeOut        time.Duration
	Opacity        float32
}

// DefaultTimings returns 400ms in, flip 200ms into the hold, 300ms more, 400ms out.
func DefaultTimings() Timings {
	return Timings{
		FadeIn:         400 * time.Millisecond,
		HoldBeforeFlip: 200 * time.Millisecond,
		HoldAfterFlip:  300 * time.Millisecond,
		FadeOut:        400 * time.Millisecond,
		Opacity:        0.7,
	}
}

// TimingsFromConfig converts the theme config section.
func TimingsFromConfig(c config.ThemeConfig) Timings {
	return Timings{
		FadeIn:         c.FadeIn,
		HoldBeforeFlip: c.HoldBeforeFlip,
		HoldAfterFlip:  c.HoldAfterFlip,
		FadeOut:        c.FadeOut,
		Opacity:        c.OverlayOpacity,
	}
}

// FlipFunc applies a new theme to the scene: background, sphere tint and
// hotspot rebuild.
type FlipFunc func(t state.Theme)

// Controller owns the overlay state machine. All phase steps run as
// scheduler callbacks on the main thread.
type Controller struct {
	st     *state.Viewer
	sc     *scene.Scene
	sched  *timers.Scheduler
	t      Timings
	onFlip FlipFunc

	phase      Phase
	phaseStart time.Time
	overlay    *scene.Mesh
	pending    timers.ID

	log *zap.Logger
}

// New creates a controller in the Steady phase.
func New(st *state.Viewer, sc *scene.Scene, sched *timers.Scheduler, t Timings, onFlip FlipFunc) *Controller {
	return &Controller{
		st:     st,
		sc:     sc,
		sched:  sched,
		t:      t,
		onFlip: onFlip,
		log:    logger.Named("theme"),
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Overlay returns the overlay mesh while a fade runs, nil otherwise.
func (c *Controller) Overlay() *scene.Mesh {
	return c.overlay
}

// Toggle starts the fade to the opposite theme. It is rejected with
// state.ErrBusy unless the controller is Steady and no room transition runs.
func (c *Controller) Toggle(now time.Time) error {
	if c.phase != Steady {
		c.log.Debug("toggle rejected", zap.Stringer("phase", c.phase))
		return state.ErrBusy
	}
	if err := c.st.BeginThemeFade(); err != nil {
		c.log.Debug("toggle rejected while busy")
		return err
	}

	next := c.st.Theme().Opposite()
	c.overlay = scene.NewOverlay("theme-overlay", Palette(next).Overlay, 0)
	c.sc.Add(c.overlay)

	c.enter(FadingIn, now)
	c.pending = c.sched.At(now.Add(c.t.FadeIn), func(time.Time) {
		c.hold(now.Add(c.t.FadeIn))
	})

	c.log.Debug("theme fade started", zap.Stringer("to", next))
	return nil
}

func (c *Controller) enter(p Phase, at time.Time) {
	c.phase = p
	c.phaseStart = at
}

func (c *Controller) hold(at time.Time) {
	c.enter(Holding, at)
	c.setOpacity(c.t.Opacity)

	flipAt := at.Add(c.t.HoldBeforeFlip)
	c.pending = c.sched.At(flipAt, func(time.Time) {
		c.flip(flipAt)
	})
}

func (c *Controller) flip(at time.Time) {
	next := c.st.Theme().Opposite()
	c.st.SetTheme(next)
	if c.onFlip != nil {
		c.onFlip(next)
	}
	c.log.Info("theme switched", zap.Stringer("theme", next))

	outAt := at.Add(c.t.HoldAfterFlip)
	c.pending = c.sched.At(outAt, func(time.Time) {
		c.fadeOut(outAt)
	})
}

func (c *Controller) fadeOut(at time.Time) {
	c.enter(FadingOut, at)

	doneAt := at.Add(c.t.FadeOut)
	c.pending = c.sched.At(doneAt, func(time.Time) {
		c.finish()
	})
}

func (c *Controller) finish() {
	c.removeOverlay()
	c.enter(Steady, time.Time{})
	c.pending = 0
	c.st.EndThemeFade()
}

// Update sets the overlay opacity for the frame at now.
func (c *Controller) Update(now time.Time) {
	switch c.phase {
	case FadingIn:
		c.setOpacity(c.t.Opacity * fraction(now.Sub(c.phaseStart), c.t.FadeIn))
	case Holding:
		c.setOpacity(c.t.Opacity)
	case FadingOut:
		c.setOpacity(c.t.Opacity * (1 - fraction(now.Sub(c.phaseStart), c.t.FadeOut)))
	}
}

// Opacity returns the overlay opacity, 0 when there is no overlay.
func (c *Controller) Opacity() float32 {
	if c.overlay == nil {
		return 0
	}
	return c.overlay.Material.Opacity
}

func (c *Controller) setOpacity(o float32) {
	if c.overlay != nil {
		c.overlay.Material.Opacity = o
	}
}

// removeOverlay detaches the overlay. A missing overlay is tolerated.
func (c *Controller) removeOverlay() {
	if c.overlay == nil {
		return
	}
	c.sc.Remove(c.overlay)
	c.overlay = nil
}

// Dispose cancels a running fade and removes the overlay.
func (c *Controller) Dispose() {
	c.sched.Cancel(c.pending)
	c.pending = 0
	c.removeOverlay()
	if c.phase != Steady {
		c.enter(Steady, time.Time{})
		c.st.EndThemeFade()
	}
}

func fraction(elapsed, total time.Duration) float32 {
	if total <= 0 {
		return 1
	}
	return math.Clamp01(float32(elapsed) / float32(total))
}

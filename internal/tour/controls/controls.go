// Package controls turns keyboard, drag and wheel input into camera pose
// requests. Every input is ignored while a transition or theme fade runs.
package controls

import (
	"github.com/Faultbox/panotour/internal/config"
	"github.com/Faultbox/panotour/internal/engine/camera"
	"github.com/Faultbox/panotour/internal/engine/input"
	"github.com/Faultbox/panotour/internal/tour/state"
	"github.com/Faultbox/panotour/pkg/math"
)

// Stage reads and writes the camera pose.
type Stage interface {
	CameraPose() camera.Pose
	SetCameraPose(position, target math.Vec3)
}

// Config holds the step sizes.
type Config struct {
	PanStep     float32
	ZoomFactor  float32 // applied for zoom in; zoom out uses 2-ZoomFactor
	MinDistance float32
	MaxDistance float32
	// TargetLimit keeps the orbit target inside the panorama sphere.
	TargetLimit float32
}

// DefaultConfig returns a 0.5 pan step and 0.9/1.1 zoom within [1, 45].
func DefaultConfig() Config {
	return Config{
		PanStep:     0.5,
		ZoomFactor:  0.9,
		MinDistance: 1,
		MaxDistance: 45,
		TargetLimit: 45,
	}
}

// ConfigFromTour converts the tour config section.
func ConfigFromTour(c config.TourConfig) Config {
	cfg := DefaultConfig()
	cfg.PanStep = c.PanStep
	cfg.ZoomFactor = c.ZoomFactor
	cfg.MinDistance = c.MinDistance
	cfg.MaxDistance = c.MaxDistance
	return cfg
}

// Router maps input to bounded pose increments.
type Router struct {
	stage Stage
	st    *state.Viewer
	orbit *camera.Orbit
	cfg   Config
}

// NewRouter creates a router. The orbit distance limits follow cfg.
func NewRouter(stage Stage, st *state.Viewer, cfg Config) *Router {
	orbit := camera.NewOrbit()
	orbit.MinDistance = cfg.MinDistance
	orbit.MaxDistance = cfg.MaxDistance
	return &Router{stage: stage, st: st, orbit: orbit, cfg: cfg}
}

// Orbit exposes the drag controls for tuning.
func (r *Router) Orbit() *camera.Orbit {
	return r.orbit
}

// HandleKey applies one increment for arrow and zoom keys. Returns false
// when the key is not a camera key or the viewer is busy.
func (r *Router) HandleKey(k input.Key) bool {
	if r.st.Busy() {
		return false
	}

	var pan math.Vec3
	switch k {
	case input.KeyLeft:
		pan.X = -r.cfg.PanStep
	case input.KeyRight:
		pan.X = r.cfg.PanStep
	case input.KeyUp:
		pan.Y = r.cfg.PanStep
	case input.KeyDown:
		pan.Y = -r.cfg.PanStep
	case input.KeyPlus, input.KeyEquals:
		r.zoom(r.cfg.ZoomFactor)
		return true
	case input.KeyMinus:
		r.zoom(2 - r.cfg.ZoomFactor)
		return true
	default:
		return false
	}

	pose := r.stage.CameraPose()
	target := pose.Target.Add(pan)
	if l := target.Length(); l > r.cfg.TargetLimit {
		target = target.Scale(r.cfg.TargetLimit / l)
	}
	r.stage.SetCameraPose(pose.Position, target)
	return true
}

// zoom scales the eye's offset from the target, keeping the distance in
// [MinDistance, MaxDistance].
func (r *Router) zoom(factor float32) {
	pose := r.stage.CameraPose()
	offset := pose.Position.Sub(pose.Target)
	dist := offset.Length()
	if dist == 0 {
		return
	}
	next := math.Clamp(dist*factor, r.cfg.MinDistance, r.cfg.MaxDistance)
	r.stage.SetCameraPose(pose.Target.Add(offset.Scale(next/dist)), pose.Target)
}

// HandleDrag queues an orbit rotation from a pointer drag in pixels.
func (r *Router) HandleDrag(dx, dy float32) bool {
	if r.st.Busy() {
		return false
	}
	r.orbit.HandleDrag(dx, dy)
	return true
}

// HandleWheel queues a dolly. Positive delta zooms in.
func (r *Router) HandleWheel(delta float32) bool {
	if r.st.Busy() {
		return false
	}
	r.orbit.HandleZoom(delta)
	return true
}

// Update applies one damped orbit step. Pending motion is dropped once the
// viewer becomes busy so the transition owns the camera alone.
func (r *Router) Update() bool {
	if r.st.Busy() {
		r.orbit.Stop()
		return false
	}
	pose := r.stage.CameraPose()
	next, ok := r.orbit.Update(pose.Position, pose.Target)
	if !ok {
		return false
	}
	r.stage.SetCameraPose(next, pose.Target)
	return true
}

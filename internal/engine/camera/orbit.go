package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/panotour/pkg/math"
)

// Orbit accumulates pointer drag and wheel input and turns it into a damped
// orbit of the eye around a target. It never writes a camera itself: Update
// returns the next eye position and the caller applies it.
type Orbit struct {
	// Damping is the fraction of the pending rotation applied per update.
	// Zero applies everything at once.
	Damping float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPolar    float32
	MaxPolar    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32
}

// NewOrbit creates orbit controls with the panorama defaults.
func NewOrbit() *Orbit {
	return &Orbit{
		Damping:         0.05,
		MinDistance:     1,
		MaxDistance:     45,
		MinPolar:        0.01,
		MaxPolar:        math32.Pi - 0.01,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		scale:           1,
	}
}

// HandleDrag queues a rotation from a mouse drag delta in pixels.
func (o *Orbit) HandleDrag(deltaX, deltaY float32) {
	o.deltaTheta -= deltaX * o.DragSensitivity
	o.deltaPhi -= deltaY * o.DragSensitivity
}

// HandleZoom queues a dolly from a scroll wheel delta. Positive delta moves
// the eye closer.
func (o *Orbit) HandleZoom(delta float32) {
	o.scale *= 1 - delta*o.ZoomSensitivity
	if o.scale <= 0 {
		o.scale = 0.01
	}
}

// Stop discards any pending motion.
func (o *Orbit) Stop() {
	o.deltaTheta = 0
	o.deltaPhi = 0
	o.scale = 1
}

// Active reports whether pending motion remains.
func (o *Orbit) Active() bool {
	const eps = 1e-5
	return math32.Abs(o.deltaTheta) > eps || math32.Abs(o.deltaPhi) > eps || o.scale != 1
}

// Update applies one damped step to the eye orbiting target and returns the
// new eye position. ok is false when there was nothing to apply.
func (o *Orbit) Update(position, target math.Vec3) (next math.Vec3, ok bool) {
	if !o.Active() {
		return position, false
	}

	offset := position.Sub(target)
	radius := offset.Length()
	if radius == 0 {
		o.Stop()
		return position, false
	}

	theta := math32.Atan2(offset.X, offset.Z)
	phi := math32.Acos(math.Clamp(offset.Y/radius, -1, 1))

	step := o.Damping
	if step <= 0 || step > 1 {
		step = 1
	}
	theta += o.deltaTheta * step
	phi = math.Clamp(phi+o.deltaPhi*step, o.MinPolar, o.MaxPolar)
	radius = math.Clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	o.deltaTheta *= 1 - step
	o.deltaPhi *= 1 - step
	o.scale = 1

	sinPhi := math32.Sin(phi)
	next = math.Vec3{
		X: target.X + radius*sinPhi*math32.Sin(theta),
		Y: target.Y + radius*math32.Cos(phi),
		Z: target.Z + radius*sinPhi*math32.Cos(theta),
	}
	return next, true
}

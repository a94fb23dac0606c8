// Package camera provides the perspective camera and orbit controls used to
// look around inside a panorama.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/panotour/pkg/math"
)

// Defaults for the panorama camera.
const (
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// HomePosition is where the camera sits before any room transition.
var HomePosition = math.Vec3{X: 0, Y: 0, Z: 5}

// Pose is a snapshot of where the camera is and what it looks at.
type Pose struct {
	Position    math.Vec3
	Orientation math.Quat
	Target      math.Vec3
}

// Perspective is a look-at perspective camera.
type Perspective struct {
	FOV    float32 // vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32

	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
}

// NewPerspective creates a camera at HomePosition looking at the origin.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	if aspect <= 0 {
		aspect = 1
	}
	return &Perspective{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: HomePosition,
		Up:       math.Vec3{X: 0, Y: 1, Z: 0},
	}
}

// SetViewport updates the aspect ratio. Non-positive sizes are ignored.
func (c *Perspective) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Orientation returns the camera rotation. The camera looks down its local
// -Z axis, so local +Z points from the target back to the eye.
func (c *Perspective) Orientation() math.Quat {
	return math.QuatLookRotation(c.Position.Sub(c.Target), c.Up)
}

// Pose returns the current pose.
func (c *Perspective) Pose() Pose {
	return Pose{
		Position:    c.Position,
		Orientation: c.Orientation(),
		Target:      c.Target,
	}
}

// Distance returns the distance from the eye to the target.
func (c *Perspective) Distance() float32 {
	return c.Position.Distance(c.Target)
}

// ViewMatrix returns the view matrix for this camera.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Perspective) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV*math32.Pi/180, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Perspective) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

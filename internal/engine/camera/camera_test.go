package camera

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/panotour/pkg/math"
)

func TestNewPerspectiveDefaults(t *testing.T) {
	c := NewPerspective(DefaultFOV, 16.0/9.0, DefaultNear, DefaultFar)

	if c.Position != HomePosition {
		t.Errorf("expected home position, got %+v", c.Position)
	}
	if !c.Target.IsZero() {
		t.Errorf("expected origin target, got %+v", c.Target)
	}
	if c.Distance() != 5 {
		t.Errorf("expected distance 5, got %f", c.Distance())
	}
}

func TestSetViewport(t *testing.T) {
	c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	c.SetViewport(1280, 720)
	if math32.Abs(c.Aspect-1280.0/720.0) > 1e-6 {
		t.Errorf("unexpected aspect %f", c.Aspect)
	}
	c.SetViewport(0, 720)
	if math32.Abs(c.Aspect-1280.0/720.0) > 1e-6 {
		t.Error("zero width should be ignored")
	}
}

func TestViewProjectionCentersTarget(t *testing.T) {
	c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	c.Position = math.Vec3{X: 3, Y: 1, Z: 4}
	c.Target = math.Vec3{X: 0, Y: 0.5, Z: 1}

	p := c.ViewProjection().TransformPoint(c.Target)
	if math32.Abs(p.X) > 1e-4 || math32.Abs(p.Y) > 1e-4 {
		t.Errorf("target should project to screen centre, got %+v", p)
	}
	if p.Z <= -1 || p.Z >= 1 {
		t.Errorf("target should be inside the depth range, got z=%f", p.Z)
	}
}

func TestOrientationFacesTarget(t *testing.T) {
	c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	c.Position = math.Vec3{X: 5, Y: 0, Z: 0}

	forward := c.Orientation().Rotate(math.Vec3{X: 0, Y: 0, Z: -1})
	want := math.Vec3{X: -1, Y: 0, Z: 0}
	if !forward.ApproxEqual(want, 1e-4) {
		t.Errorf("camera should look down -X, got %+v", forward)
	}
}

func TestOrbitDampedDrag(t *testing.T) {
	o := NewOrbit()
	pos := HomePosition
	target := math.Vec3{}

	o.HandleDrag(100, 0)
	next, ok := o.Update(pos, target)
	if !ok {
		t.Fatal("expected motion after drag")
	}
	if math32.Abs(next.Length()-5) > 1e-4 {
		t.Errorf("orbit should keep the distance, got %f", next.Length())
	}
	if next.ApproxEqual(pos, 1e-6) {
		t.Error("first update should move the eye")
	}

	// Damping spreads the rotation over many frames
	if !o.Active() {
		t.Error("damped orbit should still have pending motion")
	}
	for i := 0; i < 1000 && o.Active(); i++ {
		next, _ = o.Update(next, target)
	}
	if o.Active() {
		t.Error("damping should settle")
	}

	// Total rotation converges to the full drag
	theta := math32.Atan2(next.X, next.Z)
	if math32.Abs(theta-(-0.5)) > 1e-2 {
		t.Errorf("expected yaw near -0.5 rad, got %f", theta)
	}
}

func TestOrbitZoomClamped(t *testing.T) {
	o := NewOrbit()
	o.Damping = 0

	pos := HomePosition
	for i := 0; i < 100; i++ {
		o.HandleZoom(5)
		pos, _ = o.Update(pos, math.Vec3{})
	}
	if math32.Abs(pos.Length()-o.MinDistance) > 1e-4 {
		t.Errorf("zoom in should clamp at %f, got %f", o.MinDistance, pos.Length())
	}

	for i := 0; i < 100; i++ {
		o.HandleZoom(-5)
		pos, _ = o.Update(pos, math.Vec3{})
	}
	if math32.Abs(pos.Length()-o.MaxDistance) > 1e-3 {
		t.Errorf("zoom out should clamp at %f, got %f", o.MaxDistance, pos.Length())
	}
}

func TestOrbitStop(t *testing.T) {
	o := NewOrbit()
	o.HandleDrag(10, 10)
	o.Stop()
	if _, ok := o.Update(HomePosition, math.Vec3{}); ok {
		t.Error("stopped orbit should not move")
	}
}

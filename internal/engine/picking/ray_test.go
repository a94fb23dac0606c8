package picking

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/panotour/pkg/math"
)

func viewProj(eye, target math.Vec3) math.Mat4 {
	proj := math.Perspective(75*math32.Pi/180, 1, 0.1, 1000)
	view := math.LookAt(eye, target, math.Vec3{X: 0, Y: 1, Z: 0})
	return proj.Mul(view)
}

func TestNDCToRayCentre(t *testing.T) {
	eye := math.Vec3{X: 0, Y: 0, Z: 5}
	inv := viewProj(eye, math.Vec3{}).Inverse()

	r := NDCToRay(math.Vec2{}, inv)
	want := math.Vec3{X: 0, Y: 0, Z: -1}
	if !r.Direction.ApproxEqual(want, 1e-4) {
		t.Errorf("expected direction %+v, got %+v", want, r.Direction)
	}
	if math32.Abs(r.Origin.X) > 1e-3 || math32.Abs(r.Origin.Y) > 1e-3 {
		t.Errorf("origin should be on the view axis, got %+v", r.Origin)
	}
}

func TestScreenToRayMatchesNDC(t *testing.T) {
	inv := viewProj(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{}).Inverse()

	a := ScreenToRay(400, 300, 800, 600, inv)
	b := NDCToRay(math.Vec2{}, inv)
	if !a.Direction.ApproxEqual(b.Direction, 1e-5) {
		t.Errorf("screen centre should match NDC origin: %+v vs %+v", a.Direction, b.Direction)
	}
}

func TestIntersectQuad(t *testing.T) {
	// Quad 40 units down -Z, facing the origin
	q := Quad{
		Center:   math.Vec3{X: 0, Y: 0, Z: -40},
		Rotation: math.QuatLookRotation(math.Vec3{X: 0, Y: 0, Z: 1}, math.Vec3{X: 0, Y: 1, Z: 0}),
		Width:    8,
		Height:   8,
	}

	r := Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	tHit, ok := r.IntersectQuad(q)
	if !ok {
		t.Fatal("expected hit through quad centre")
	}
	if math32.Abs(tHit-40) > 1e-4 {
		t.Errorf("expected t=40, got %f", tHit)
	}

	// Passes beside the quad
	miss := Ray{Origin: math.Vec3{X: 5}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	if _, ok := miss.IntersectQuad(q); ok {
		t.Error("ray beside the quad should miss")
	}

	// Quad behind the ray
	back := Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 0, Y: 0, Z: 1}}
	if _, ok := back.IntersectQuad(q); ok {
		t.Error("quad behind the ray should miss")
	}

	// Parallel to the plane
	par := Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1, Y: 0, Z: 0}}
	if _, ok := par.IntersectQuad(q); ok {
		t.Error("parallel ray should miss")
	}
}

func TestIntersectSphereFromInside(t *testing.T) {
	r := Ray{Origin: math.Vec3{X: 0, Y: 0, Z: 5}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	tHit, ok := r.IntersectSphere(math.Vec3{}, 50)
	if !ok {
		t.Fatal("ray from inside must hit the sphere")
	}
	if math32.Abs(tHit-55) > 1e-3 {
		t.Errorf("expected exit distance 55, got %f", tHit)
	}
}

func TestIntersectSphereMiss(t *testing.T) {
	r := Ray{Origin: math.Vec3{X: 0, Y: 10, Z: 100}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	if _, ok := r.IntersectSphere(math.Vec3{}, 5); ok {
		t.Error("expected miss")
	}
}

// Package picking provides ray casting against hotspot quads and spheres.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/panotour/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// NDCToRay unprojects normalized device coordinates into a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func NDCToRay(ndc math.Vec2, invViewProj math.Mat4) Ray {
	nearWorld := invViewProj.TransformPoint(math.Vec3{X: ndc.X, Y: ndc.Y, Z: -1})
	farWorld := invViewProj.TransformPoint(math.Vec3{X: ndc.X, Y: ndc.Y, Z: 1})

	return Ray{
		Origin:    nearWorld,
		Direction: farWorld.Sub(nearWorld).Normalize(),
	}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	return NDCToRay(math.ScreenToNDC(screenX, screenY, viewportW, viewportH), invViewProj)
}

// Quad is a planar rectangle given by its centre, orientation and size.
// Its local X and Y axes span the rectangle; local +Z is the normal.
type Quad struct {
	Center   math.Vec3
	Rotation math.Quat
	Width    float32
	Height   float32
}

// IntersectQuad returns the distance to a hit on either face of the quad.
func (r Ray) IntersectQuad(q Quad) (t float32, hit bool) {
	normal := q.Rotation.Rotate(math.Vec3{X: 0, Y: 0, Z: 1})
	denom := normal.Dot(r.Direction)
	if math32.Abs(denom) < 1e-6 {
		return 0, false // Ray parallel to plane
	}

	t = q.Center.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}

	local := r.At(t).Sub(q.Center)
	u := local.Dot(q.Rotation.Rotate(math.Vec3{X: 1, Y: 0, Z: 0}))
	v := local.Dot(q.Rotation.Rotate(math.Vec3{X: 0, Y: 1, Z: 0}))
	if math32.Abs(u) > q.Width/2 || math32.Abs(v) > q.Height/2 {
		return 0, false
	}
	return t, true
}

// IntersectSphere tests the ray against a sphere. If the ray starts inside
// the sphere, returns the exit distance.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (t float32, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := math32.Sqrt(disc)
	t0, t1 := -b-sq, -b+sq
	if t1 < 0 {
		return 0, false
	}
	if t0 < 0 {
		return t1, true
	}
	return t0, true
}

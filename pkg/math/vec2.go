package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector. Pointer positions in normalized device coordinates use it.
type Vec2 struct {
	X, Y float32
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// ScreenToNDC converts pixel coordinates (origin top-left) into normalized
// device coordinates in [-1, 1] with Y pointing up.
func ScreenToNDC(x, y, width, height float32) Vec2 {
	if width <= 0 || height <= 0 {
		return Vec2{}
	}
	return Vec2{
		X: 2*x/width - 1,
		Y: 1 - 2*y/height,
	}
}

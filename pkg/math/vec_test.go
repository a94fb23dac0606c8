package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return zero")
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}

	if got := a.Lerp(b, 0.5); got != (Vec3{5, 10, 15}) {
		t.Errorf("Lerp(0.5) = %v", got)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
}

func TestScreenToNDC(t *testing.T) {
	tests := []struct {
		x, y float32
		want Vec2
	}{
		{400, 300, Vec2{0, 0}},
		{0, 0, Vec2{-1, 1}},
		{800, 600, Vec2{1, -1}},
	}
	for _, tt := range tests {
		if got := ScreenToNDC(tt.x, tt.y, 800, 600); got != tt.want {
			t.Errorf("ScreenToNDC(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if got := ScreenToNDC(10, 10, 0, 0); got != (Vec2{}) {
		t.Errorf("zero viewport should give origin, got %v", got)
	}
}

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{1, 1},
		{0.5, 0.875},
		{-1, 0},
		{2, 1},
	}
	for _, tt := range tests {
		if got := EaseOutCubic(tt.in); got != tt.want {
			t.Errorf("EaseOutCubic(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp01(t *testing.T) {
	if Clamp01(-0.5) != 0 || Clamp01(1.5) != 1 || Clamp01(0.25) != 0.25 {
		t.Error("Clamp01 should limit values to [0, 1]")
	}
}

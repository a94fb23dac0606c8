package math

import "github.com/chewxy/math32"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// EaseOutCubic decelerates towards the end: 1 - (1-t)^3.
func EaseOutCubic(t float32) float32 {
	inv := 1 - Clamp01(t)
	return 1 - inv*inv*inv
}

// EaseInOutSine is a symmetric ease used for overlay fades.
func EaseInOutSine(t float32) float32 {
	return -(math32.Cos(math32.Pi*Clamp01(t)) - 1) / 2
}

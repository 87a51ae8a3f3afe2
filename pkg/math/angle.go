// Package math provides angle and vector helpers for camera poses.
package math

import "math"

// FullTurn is one revolution in degrees.
const FullTurn = 360.0

// WrapDegrees maps an angle into [0, 360).
func WrapDegrees(deg float64) float64 {
	w := math.Mod(deg, FullTurn)
	if w < 0 {
		w += FullTurn
	}
	// -1e-15 + 360 rounds to 360
	if w >= FullTurn {
		w = 0
	}
	return w
}

// WrapSigned maps an angle into [-180, 180).
func WrapSigned(deg float64) float64 {
	return WrapDegrees(deg+FullTurn/2) - FullTurn/2
}

// AngleDelta returns the shortest signed rotation from a to b.
func AngleDelta(a, b float64) float64 {
	return WrapSigned(b - a)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpAngle interpolates headings along the shortest arc and wraps the result.
func LerpAngle(a, b, t float64) float64 {
	return WrapDegrees(a + AngleDelta(a, b)*t)
}

// SmoothStep is the cubic ease-in-out curve on [0, 1].
func SmoothStep(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

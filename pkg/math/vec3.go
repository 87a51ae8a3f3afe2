package math

import "math"

// Vec3 is a 3D vector in a local east/north/up frame, in meters.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the magnitude.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Horizontal returns the length of the XY projection.
func (v Vec3) Horizontal() float64 {
	return math.Hypot(v.X, v.Y)
}

// OrbitOffset returns the eye position relative to a center for a camera
// looking at it from altitude meters up, tilted pitch degrees away from
// straight down, facing heading degrees clockwise from north.
func OrbitOffset(altitude, pitch, heading float64) Vec3 {
	// distance on the ground between the eye and the center
	ground := altitude * math.Tan(Radians(Clamp(pitch, 0, 89.9)))
	h := Radians(heading)
	return Vec3{
		X: -ground * math.Sin(h),
		Y: -ground * math.Cos(h),
		Z: altitude,
	}
}

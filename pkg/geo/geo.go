// Package geo converts geometry-like inputs into a single flyover target.
package geo

import (
	"math"
	"reflect"
	"time"

	fmath "github.com/Faultbox/flyover/pkg/math"
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// TargetPoint is the normalized point a flyover orbits around.
type TargetPoint struct {
	Coordinate
	Elevation    float64 // meters above sea level, valid when HasElevation
	HasElevation bool
}

// Flyable is anything that can be flown over.
type Flyable interface {
	FlyoverTarget() TargetPoint
}

// Annotation is a map annotation exposing its coordinate.
type Annotation interface {
	Coordinate() Coordinate
}

// FlyoverTarget implements Flyable.
func (c Coordinate) FlyoverTarget() TargetPoint {
	return TargetPoint{Coordinate: c}
}

// FlyoverTarget implements Flyable.
func (p TargetPoint) FlyoverTarget() TargetPoint {
	return p
}

// Location is a positioning fix with metadata around the coordinate.
type Location struct {
	Coordinate         Coordinate
	Altitude           float64 // meters
	HorizontalAccuracy float64 // meters, negative when the coordinate is invalid
	VerticalAccuracy   float64 // meters, negative when the altitude is invalid
	Course             float64 // degrees, negative when unknown
	Speed              float64 // m/s, negative when unknown
	Timestamp          time.Time
}

// FlyoverTarget implements Flyable. The altitude is carried only when the
// fix reports a valid vertical accuracy.
func (l Location) FlyoverTarget() TargetPoint {
	p := TargetPoint{Coordinate: l.Coordinate}
	if l.VerticalAccuracy >= 0 {
		p.Elevation = l.Altitude
		p.HasElevation = true
	}
	return p
}

// MapSize is the width and height of the projected world at zoom level 0,
// scaled so one map unit roughly matches the host surface's map points.
const MapSize = 268435456.0

// MapPoint is a spherical Web Mercator point in [0, MapSize) on both axes,
// with the origin at the north-west corner.
type MapPoint struct {
	X, Y float64
}

// FlyoverTarget implements Flyable.
func (m MapPoint) FlyoverTarget() TargetPoint {
	lon := m.X/MapSize*360 - 180
	n := math.Pi - 2*math.Pi*m.Y/MapSize
	lat := fmath.Degrees(math.Atan(math.Sinh(n)))
	return TargetPoint{Coordinate: Coordinate{Latitude: lat, Longitude: lon}}
}

// MapPointFor projects a coordinate, the inverse of MapPoint.FlyoverTarget.
func MapPointFor(c Coordinate) MapPoint {
	lat := fmath.Clamp(c.Latitude, -85.05112878, 85.05112878)
	x := (c.Longitude + 180) / 360 * MapSize
	s := math.Sin(fmath.Radians(lat))
	y := (0.5 - math.Log((1+s)/(1-s))/(4*math.Pi)) * MapSize
	return MapPoint{X: x, Y: y}
}

type annotationTarget struct {
	a Annotation
}

func (t annotationTarget) FlyoverTarget() TargetPoint {
	if isNil(t.a) {
		return TargetPoint{}
	}
	return TargetPoint{Coordinate: t.a.Coordinate()}
}

// AnnotationTarget adapts an Annotation to Flyable. A nil annotation flies
// over the zero coordinate.
func AnnotationTarget(a Annotation) Flyable {
	if isNil(a) {
		return Coordinate{}
	}
	return annotationTarget{a: a}
}

// Normalize converts any Flyable into a canonical TargetPoint. Latitude is
// clamped to [-90, 90] and longitude wrapped to [-180, 180). A nil input,
// including a nil pointer held in the interface, yields the zero point.
func Normalize(f Flyable) TargetPoint {
	if isNil(f) {
		return TargetPoint{}
	}
	p := f.FlyoverTarget()
	p.Latitude = sanitize(p.Latitude)
	p.Longitude = sanitize(p.Longitude)
	p.Latitude = fmath.Clamp(p.Latitude, -90, 90)
	if p.Longitude < -180 || p.Longitude >= 180 {
		p.Longitude = fmath.WrapSigned(p.Longitude)
	}
	if !fmath.IsFinite(p.Elevation) {
		p.Elevation, p.HasElevation = 0, false
	}
	return p
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func sanitize(v float64) float64 {
	if !fmath.IsFinite(v) {
		return 0
	}
	return v
}

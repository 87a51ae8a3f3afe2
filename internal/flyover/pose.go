package flyover

import (
	"fmt"
	"strings"
	"time"

	"github.com/Faultbox/flyover/pkg/geo"
	fmath "github.com/Faultbox/flyover/pkg/math"
)

// Pose is a camera looking at Center.
type Pose struct {
	Center   geo.Coordinate
	Altitude float64 // meters above the center
	Pitch    float64 // degrees from straight down
	Heading  float64 // degrees clockwise from north, in [0, 360)
}

// Eye returns the camera position relative to Center in east/north/up meters.
func (p Pose) Eye() fmath.Vec3 {
	return fmath.OrbitOffset(p.Altitude, p.Pitch, p.Heading)
}

// Curve is the timing curve of an animated transition.
type Curve int

const (
	CurveLinear Curve = iota
	CurveEaseInOut
)

func (c Curve) String() string {
	if c == CurveEaseInOut {
		return "ease-in-out"
	}
	return "linear"
}

// Transition describes how a surface should animate to a new pose. A zero
// Duration means jump.
type Transition struct {
	Duration time.Duration
	Curve    Curve
}

// AnimationMode controls how the camera first moves onto the target when a
// flyover starts.
type AnimationMode int

const (
	// AnimationNone adds no entry transition; the first leg moves the camera.
	AnimationNone AnimationMode = iota
	// AnimationInstant jumps onto the target before the first leg.
	AnimationInstant
	// AnimationAnimated animates onto the target with the given duration and curve.
	AnimationAnimated
)

func (m AnimationMode) String() string {
	switch m {
	case AnimationInstant:
		return "instant"
	case AnimationAnimated:
		return "animated"
	default:
		return "none"
	}
}

// ParseAnimationMode accepts the String form of an animation mode.
func ParseAnimationMode(s string) (AnimationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return AnimationNone, nil
	case "instant":
		return AnimationInstant, nil
	case "animated":
		return AnimationAnimated, nil
	default:
		return AnimationNone, fmt.Errorf("unknown animation mode %q", s)
	}
}

// DefaultEntryDuration is used by AnimationAnimated when no duration is given.
const DefaultEntryDuration = time.Second

// RegionChangeAnimation is the entry transition of a flyover.
type RegionChangeAnimation struct {
	Mode     AnimationMode
	Duration time.Duration
	Curve    Curve
}

// entry returns the transition for the entry move, or false when there is none.
func (a RegionChangeAnimation) entry() (Transition, bool) {
	switch a.Mode {
	case AnimationInstant:
		return Transition{}, true
	case AnimationAnimated:
		d := a.Duration
		if d <= 0 {
			d = DefaultEntryDuration
		}
		return Transition{Duration: d, Curve: a.Curve}, true
	default:
		return Transition{}, false
	}
}

// InitialPose places the camera over the target with the configured
// altitude and pitch, keeping the current heading.
func InitialPose(current Pose, target geo.TargetPoint, cfg Configuration) Pose {
	return Pose{
		Center:   target.Coordinate,
		Altitude: cfg.Altitude,
		Pitch:    cfg.Pitch,
		Heading:  fmath.WrapDegrees(current.Heading),
	}
}

// NextPose computes the next waypoint of the orbit: the heading advances by
// the heading step while target, altitude and pitch stay fixed.
func NextPose(current Pose, target geo.TargetPoint, cfg Configuration) Pose {
	p := InitialPose(current, target, cfg)
	p.Heading = fmath.WrapDegrees(current.Heading + cfg.HeadingStep)
	return p
}

// OrbitPose is the pose after leg applications of NextPose from start,
// computed in closed form. When the step divides 360 the leg index is
// reduced per revolution, so every full orbit lands exactly on the start
// heading.
func OrbitPose(start Pose, target geo.TargetPoint, cfg Configuration, leg int) Pose {
	if n, ok := cfg.LegsPerRevolution(); ok {
		leg %= n
	}
	p := InitialPose(start, target, cfg)
	p.Heading = fmath.WrapDegrees(p.Heading + float64(leg)*cfg.HeadingStep)
	return p
}

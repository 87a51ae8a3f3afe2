// Package flyover implements the orbiting flyover camera: configuration
// profiles, pose generation, the map type gate and the orbit controller.
package flyover

import (
	"errors"
	"fmt"
	"time"

	fmath "github.com/Faultbox/flyover/pkg/math"
)

// Pitch limits in degrees, measured from looking straight down.
const (
	MinPitch = 0.0
	MaxPitch = 90.0
)

// Configuration is the parameter bundle for one orbit.
type Configuration struct {
	// Duration of one orbit leg, also used as the animated transition length.
	Duration time.Duration `yaml:"duration"`
	// Altitude of the camera above the target in meters.
	Altitude float64 `yaml:"altitude"`
	// Pitch of the camera in degrees.
	Pitch float64 `yaml:"pitch"`
	// HeadingStep is the heading advance per leg in degrees. Its sign sets
	// the orbit direction.
	HeadingStep float64 `yaml:"heading_step"`
}

// ErrInvalidConfiguration is matched by every configuration validation error.
var ErrInvalidConfiguration = errors.New("invalid flyover configuration")

// Invariant names the configuration rule that was violated.
type Invariant string

const (
	InvariantDuration    Invariant = "duration must be positive"
	InvariantAltitude    Invariant = "altitude must be finite and non-negative"
	InvariantPitch       Invariant = "pitch must be within [0, 90] degrees"
	InvariantHeadingStep Invariant = "heading step must be non-zero and within (-360, 360)"
)

// InvalidConfigurationError reports which invariant a configuration broke.
type InvalidConfigurationError struct {
	Invariant Invariant
	Value     float64
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", ErrInvalidConfiguration, e.Invariant, e.Value)
}

// Is makes errors.Is(err, ErrInvalidConfiguration) hold.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewConfiguration builds a custom configuration and validates it.
func NewConfiguration(duration time.Duration, altitude, pitch, headingStep float64) (Configuration, error) {
	c := Configuration{
		Duration:    duration,
		Altitude:    altitude,
		Pitch:       pitch,
		HeadingStep: headingStep,
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// Validate checks the configuration invariants.
func (c Configuration) Validate() error {
	if c.Duration <= 0 {
		return &InvalidConfigurationError{Invariant: InvariantDuration, Value: c.Duration.Seconds()}
	}
	if !fmath.IsFinite(c.Altitude) || c.Altitude < 0 {
		return &InvalidConfigurationError{Invariant: InvariantAltitude, Value: c.Altitude}
	}
	if !fmath.IsFinite(c.Pitch) || c.Pitch < MinPitch || c.Pitch > MaxPitch {
		return &InvalidConfigurationError{Invariant: InvariantPitch, Value: c.Pitch}
	}
	if !fmath.IsFinite(c.HeadingStep) || c.HeadingStep == 0 ||
		c.HeadingStep <= -fmath.FullTurn || c.HeadingStep >= fmath.FullTurn {
		return &InvalidConfigurationError{Invariant: InvariantHeadingStep, Value: c.HeadingStep}
	}
	return nil
}

// LegsPerRevolution returns how many legs close one full orbit, and false
// when the heading step does not divide 360 evenly.
func (c Configuration) LegsPerRevolution() (int, bool) {
	if c.HeadingStep == 0 {
		return 0, false
	}
	step := c.HeadingStep
	if step < 0 {
		step = -step
	}
	n := fmath.FullTurn / step
	legs := int(n)
	if float64(legs) != n || float64(legs)*step != fmath.FullTurn {
		return 0, false
	}
	return legs, true
}

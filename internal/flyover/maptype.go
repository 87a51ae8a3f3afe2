package flyover

import (
	"fmt"
	"strings"
)

// RawMapType is the rendering mode value a host surface works with. Hosts
// may report values outside the constants below.
type RawMapType uint

const (
	RawStandard RawMapType = iota
	RawSatellite
	RawHybrid
	RawSatelliteFlyover
	RawHybridFlyover
	RawMutedStandard
)

// MapType is the closed set of rendering modes a flyover can run under.
type MapType int

const (
	// Standard allows no orbit; the camera is parked over the target.
	Standard MapType = iota
	// SatelliteFlyover is satellite imagery with 3D flyover.
	SatelliteFlyover
	// HybridFlyover is satellite imagery with labels and 3D flyover.
	HybridFlyover
)

// Resolve maps a host rendering mode onto the supported set. Anything that
// is not one of the three supported modes resolves to Standard.
func Resolve(raw RawMapType) MapType {
	switch raw {
	case RawSatelliteFlyover:
		return SatelliteFlyover
	case RawHybridFlyover:
		return HybridFlyover
	default:
		return Standard
	}
}

// Raw returns the host value for a map type.
func (m MapType) Raw() RawMapType {
	switch m {
	case SatelliteFlyover:
		return RawSatelliteFlyover
	case HybridFlyover:
		return RawHybridFlyover
	default:
		return RawStandard
	}
}

// SupportsOrbit reports whether the orbit effect may run under m.
func (m MapType) SupportsOrbit() bool {
	return m == SatelliteFlyover || m == HybridFlyover
}

func (m MapType) String() string {
	switch m {
	case SatelliteFlyover:
		return "satellite-flyover"
	case HybridFlyover:
		return "hybrid-flyover"
	default:
		return "standard"
	}
}

// ParseMapType accepts the String form of a map type, case-insensitively.
func ParseMapType(s string) (MapType, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "standard", "":
		return Standard, nil
	case "satellite-flyover":
		return SatelliteFlyover, nil
	case "hybrid-flyover":
		return HybridFlyover, nil
	default:
		return Standard, fmt.Errorf("unknown map type %q", s)
	}
}

package flyover

import (
	"math"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		raw  RawMapType
		want MapType
	}{
		{RawStandard, Standard},
		{RawSatellite, Standard},
		{RawHybrid, Standard},
		{RawSatelliteFlyover, SatelliteFlyover},
		{RawHybridFlyover, HybridFlyover},
		{RawMutedStandard, Standard},
		{RawMapType(42), Standard},
		{RawMapType(math.MaxUint), Standard},
	}

	for _, tt := range tests {
		if got := Resolve(tt.raw); got != tt.want {
			t.Errorf("Resolve(%d) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestResolveIsTotal(t *testing.T) {
	for raw := RawMapType(0); raw < 4096; raw++ {
		switch Resolve(raw) {
		case Standard, SatelliteFlyover, HybridFlyover:
		default:
			t.Fatalf("Resolve(%d) escaped the supported set", raw)
		}
	}
}

func TestMapTypeRoundTrip(t *testing.T) {
	for _, m := range []MapType{Standard, SatelliteFlyover, HybridFlyover} {
		if got := Resolve(m.Raw()); got != m {
			t.Errorf("Resolve(%v.Raw()) = %v", m, got)
		}
		parsed, err := ParseMapType(m.String())
		if err != nil || parsed != m {
			t.Errorf("ParseMapType(%q) = %v, %v", m.String(), parsed, err)
		}
	}

	// values outside the set behave like Standard
	if MapType(7).Raw() != RawStandard {
		t.Error("expected an unknown MapType to map to RawStandard")
	}
}

func TestSupportsOrbit(t *testing.T) {
	if Standard.SupportsOrbit() {
		t.Error("standard must not support orbit")
	}
	if !SatelliteFlyover.SupportsOrbit() || !HybridFlyover.SupportsOrbit() {
		t.Error("flyover map types must support orbit")
	}
}

func TestParseMapType(t *testing.T) {
	tests := []struct {
		in      string
		want    MapType
		wantErr bool
	}{
		{in: "satellite_flyover", want: SatelliteFlyover},
		{in: "Hybrid-Flyover", want: HybridFlyover},
		{in: "", want: Standard},
		{in: "satellite", want: Standard, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMapType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMapType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMapType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

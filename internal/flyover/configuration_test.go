package flyover

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewConfigurationValidation(t *testing.T) {
	tests := []struct {
		name      string
		duration  time.Duration
		altitude  float64
		pitch     float64
		step      float64
		invariant Invariant
	}{
		{name: "zero duration", duration: 0, altitude: 1000, pitch: 45, step: 20, invariant: InvariantDuration},
		{name: "negative duration", duration: -time.Second, altitude: 1000, pitch: 45, step: 20, invariant: InvariantDuration},
		{name: "negative altitude", duration: time.Second, altitude: -1, pitch: 45, step: 20, invariant: InvariantAltitude},
		{name: "nan altitude", duration: time.Second, altitude: math.NaN(), pitch: 45, step: 20, invariant: InvariantAltitude},
		{name: "infinite altitude", duration: time.Second, altitude: math.Inf(1), pitch: 45, step: 20, invariant: InvariantAltitude},
		{name: "negative pitch", duration: time.Second, altitude: 1000, pitch: -0.5, step: 20, invariant: InvariantPitch},
		{name: "pitch past horizon", duration: time.Second, altitude: 1000, pitch: 91, step: 20, invariant: InvariantPitch},
		{name: "nan pitch", duration: time.Second, altitude: 1000, pitch: math.NaN(), step: 20, invariant: InvariantPitch},
		{name: "zero heading step", duration: time.Second, altitude: 1000, pitch: 45, step: 0, invariant: InvariantHeadingStep},
		{name: "full turn step", duration: time.Second, altitude: 1000, pitch: 45, step: 360, invariant: InvariantHeadingStep},
		{name: "negative full turn step", duration: time.Second, altitude: 1000, pitch: 45, step: -360, invariant: InvariantHeadingStep},
		{name: "nan heading step", duration: time.Second, altitude: 1000, pitch: 45, step: math.NaN(), invariant: InvariantHeadingStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfiguration(tt.duration, tt.altitude, tt.pitch, tt.step)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			var ice *InvalidConfigurationError
			if !errors.As(err, &ice) {
				t.Fatalf("expected *InvalidConfigurationError, got %T", err)
			}
			if ice.Invariant != tt.invariant {
				t.Errorf("expected invariant %q, got %q", tt.invariant, ice.Invariant)
			}
		})
	}
}

func TestNewConfigurationInRange(t *testing.T) {
	durations := []time.Duration{time.Millisecond, 3 * time.Second, time.Minute}
	altitudes := []float64{0, 50, 1000, 20000}
	pitches := []float64{0, 30, 45, 90}
	steps := []float64{-359, -20, 0.5, 20, 359.9}

	for _, d := range durations {
		for _, a := range altitudes {
			for _, p := range pitches {
				for _, s := range steps {
					c, err := NewConfiguration(d, a, p, s)
					if err != nil {
						t.Fatalf("NewConfiguration(%v, %v, %v, %v) failed: %v", d, a, p, s, err)
					}
					want := Configuration{Duration: d, Altitude: a, Pitch: p, HeadingStep: s}
					if c != want {
						t.Errorf("expected %+v, got %+v", want, c)
					}
				}
			}
		}
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, theme := range Themes() {
		cfg, ok := Preset(theme)
		if !ok {
			t.Fatalf("theme %s listed but has no preset", theme)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s is invalid: %v", theme, err)
		}
	}
}

func TestDefaultConfiguration(t *testing.T) {
	want := Configuration{Duration: 3 * time.Second, Altitude: 1000, Pitch: 45, HeadingStep: 20}
	if got := DefaultConfiguration(); got != want {
		t.Errorf("expected default %+v, got %+v", want, got)
	}
	if got := MustPreset(ThemeDefault); got != want {
		t.Errorf("expected MustPreset(default) %+v, got %+v", want, got)
	}
}

func TestThemesSorted(t *testing.T) {
	themes := Themes()
	if len(themes) != 5 {
		t.Fatalf("expected 5 themes, got %d", len(themes))
	}
	for i := 1; i < len(themes); i++ {
		if themes[i-1] >= themes[i] {
			t.Errorf("themes not sorted: %v", themes)
		}
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{in: "default", want: ThemeDefault},
		{in: "Low_Flying", want: ThemeLowFlying},
		{in: " far-away ", want: ThemeFarAway},
		{in: "ASTRONAUT", want: ThemeAstronaut},
		{in: "moon", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTheme(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTheme(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTheme(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMustPresetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected MustPreset to panic for an unknown theme")
		}
	}()
	MustPreset(Theme("nope"))
}

func TestLegsPerRevolution(t *testing.T) {
	tests := []struct {
		step float64
		legs int
		ok   bool
	}{
		{20, 18, true},
		{-20, 18, true},
		{45, 8, true},
		{22.5, 16, true},
		{7.2, 50, true},
		{50, 0, false},
		{0.7, 0, false},
	}

	for _, tt := range tests {
		legs, ok := Configuration{HeadingStep: tt.step}.LegsPerRevolution()
		if legs != tt.legs || ok != tt.ok {
			t.Errorf("LegsPerRevolution(%v) = %d, %v, want %d, %v", tt.step, legs, ok, tt.legs, tt.ok)
		}
	}
}

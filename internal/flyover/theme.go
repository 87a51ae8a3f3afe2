package flyover

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Theme names a preset configuration.
type Theme string

const (
	ThemeDefault   Theme = "default"
	ThemeLowFlying Theme = "low-flying"
	ThemeFarAway   Theme = "far-away"
	ThemeGiddy     Theme = "giddy"
	ThemeAstronaut Theme = "astronaut"
)

var presets = map[Theme]Configuration{
	ThemeDefault:   mustConfiguration(3*time.Second, 1000, 45, 20),
	ThemeLowFlying: mustConfiguration(3*time.Second, 70, 80, 20),
	ThemeFarAway:   mustConfiguration(4*time.Second, 1330, 55, 20),
	ThemeGiddy:     mustConfiguration(time.Second, 250, 80, 30),
	ThemeAstronaut: mustConfiguration(4*time.Second, 20000, 58, 20),
}

func mustConfiguration(d time.Duration, altitude, pitch, step float64) Configuration {
	c, err := NewConfiguration(d, altitude, pitch, step)
	if err != nil {
		panic(err)
	}
	return c
}

// Preset returns the configuration of a theme.
func Preset(t Theme) (Configuration, bool) {
	c, ok := presets[t]
	return c, ok
}

// MustPreset returns the configuration of a known theme and panics otherwise.
func MustPreset(t Theme) Configuration {
	c, ok := presets[t]
	if !ok {
		panic(fmt.Sprintf("flyover: unknown theme %q", t))
	}
	return c
}

// DefaultConfiguration is the configuration of ThemeDefault.
func DefaultConfiguration() Configuration {
	return presets[ThemeDefault]
}

// Themes lists the known themes in name order.
func Themes() []Theme {
	out := make([]Theme, 0, len(presets))
	for t := range presets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseTheme accepts a theme name case-insensitively. Underscores are
// treated as dashes.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if _, ok := presets[t]; !ok {
		return "", fmt.Errorf("unknown flyover theme %q", s)
	}
	return t, nil
}

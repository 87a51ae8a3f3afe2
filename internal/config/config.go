// Package config handles flyover configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/flyover/internal/flyover"
	"github.com/Faultbox/flyover/internal/observability"
	"github.com/Faultbox/flyover/pkg/geo"
)

// Config holds all settings of the flyover tool.
type Config struct {
	Flyover FlyoverConfig               `yaml:"flyover"`
	Target  TargetConfig                `yaml:"target"`
	Run     RunConfig                   `yaml:"run"`
	Metrics MetricsConfig               `yaml:"metrics"`
	Tracing observability.TracingConfig `yaml:"tracing"`
	Logging LoggingConfig               `yaml:"logging"`
}

// FlyoverConfig selects the orbit profile. A theme picks the preset; any
// custom field that is set overrides the matching preset value, zero included.
type FlyoverConfig struct {
	Theme         string         `yaml:"theme"`
	Duration      *time.Duration `yaml:"duration,omitempty"`
	Altitude      *float64       `yaml:"altitude,omitempty"`
	Pitch         *float64       `yaml:"pitch,omitempty"`
	HeadingStep   *float64       `yaml:"heading_step,omitempty"`
	Animation     string         `yaml:"animation"` // none | instant | animated
	EntryDuration time.Duration  `yaml:"entry_duration"`
	MapType       string         `yaml:"map_type"`
}

// TargetConfig is the point to fly over.
type TargetConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Elevation float64 `yaml:"elevation"`
}

// RunConfig bounds a flyover run. Zero means until interrupted.
type RunConfig struct {
	Legs int `yaml:"legs"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Flyover: FlyoverConfig{
			Theme:     string(flyover.ThemeDefault),
			Animation: flyover.AnimationNone.String(),
			MapType:   flyover.SatelliteFlyover.String(),
		},
		Target: TargetConfig{
			Latitude:  48.8566,
			Longitude: 2.3522,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
		},
		Tracing: observability.TracingConfig{
			Enabled:     false,
			ServiceName: "flyover",
			Exporter:    "stdout",
			SampleRatio: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// FlyoverConfiguration resolves the theme and overrides into a validated
// configuration.
func (c *Config) FlyoverConfiguration() (flyover.Configuration, error) {
	theme, err := flyover.ParseTheme(c.Flyover.Theme)
	if err != nil {
		return flyover.Configuration{}, err
	}
	cfg := flyover.MustPreset(theme)
	if c.Flyover.Duration != nil {
		cfg.Duration = *c.Flyover.Duration
	}
	if c.Flyover.Altitude != nil {
		cfg.Altitude = *c.Flyover.Altitude
	}
	if c.Flyover.Pitch != nil {
		cfg.Pitch = *c.Flyover.Pitch
	}
	if c.Flyover.HeadingStep != nil {
		cfg.HeadingStep = *c.Flyover.HeadingStep
	}
	if err := cfg.Validate(); err != nil {
		return flyover.Configuration{}, fmt.Errorf("flyover settings: %w", err)
	}
	return cfg, nil
}

// RegionChangeAnimation returns the configured entry transition.
func (c *Config) RegionChangeAnimation() (flyover.RegionChangeAnimation, error) {
	mode, err := flyover.ParseAnimationMode(c.Flyover.Animation)
	if err != nil {
		return flyover.RegionChangeAnimation{}, err
	}
	a := flyover.RegionChangeAnimation{Mode: mode, Duration: c.Flyover.EntryDuration}
	if mode == flyover.AnimationAnimated {
		a.Curve = flyover.CurveEaseInOut
	}
	return a, nil
}

// MapType returns the configured map type.
func (c *Config) MapType() (flyover.MapType, error) {
	return flyover.ParseMapType(c.Flyover.MapType)
}

// TargetPoint returns the configured target.
func (c *Config) TargetPoint() geo.TargetPoint {
	return geo.Normalize(geo.TargetPoint{
		Coordinate:   geo.Coordinate{Latitude: c.Target.Latitude, Longitude: c.Target.Longitude},
		Elevation:    c.Target.Elevation,
		HasElevation: c.Target.Elevation != 0,
	})
}

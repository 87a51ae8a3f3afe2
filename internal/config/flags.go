package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagTheme       = flag.String("theme", "", "Flyover theme (default, low-flying, far-away, giddy, astronaut)")
	flagLat         = flag.Float64("lat", 0, "Target latitude")
	flagLon         = flag.Float64("lon", 0, "Target longitude")
	flagMapType     = flag.String("map-type", "", "Map type (standard, satellite-flyover, hybrid-flyover)")
	flagAnimation   = flag.String("animation", "", "Entry animation (none, instant, animated)")
	flagLegs        = flag.Int("legs", 0, "Stop after this many orbit legs")
	flagMetricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTheme != "" {
		cfg.Flyover.Theme = *flagTheme
	}
	if isSet("lat") {
		cfg.Target.Latitude = *flagLat
	}
	if isSet("lon") {
		cfg.Target.Longitude = *flagLon
	}
	if *flagMapType != "" {
		cfg.Flyover.MapType = *flagMapType
	}
	if *flagAnimation != "" {
		cfg.Flyover.Animation = *flagAnimation
	}
	if *flagLegs > 0 {
		cfg.Run.Legs = *flagLegs
	}
	if *flagMetricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = *flagMetricsAddr
	}
}

// isSet reports whether a flag was given on the command line, so that an
// explicit zero coordinate still overrides the file.
func isSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

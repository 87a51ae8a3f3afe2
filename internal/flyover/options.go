package flyover

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Faultbox/flyover/pkg/cadence"
)

// Option configures a Camera.
type Option func(*Camera)

// WithConfiguration sets the initial configuration. It is validated by New.
func WithConfiguration(cfg Configuration) Option {
	return func(c *Camera) {
		c.config = cfg
	}
}

// WithTheme sets the initial configuration from a preset. Unknown themes
// leave the configuration unchanged.
func WithTheme(t Theme) Option {
	return func(c *Camera) {
		if cfg, ok := Preset(t); ok {
			c.config = cfg
		}
	}
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s cadence.Scheduler) Option {
	return func(c *Camera) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithRecorder receives lifecycle events.
func WithRecorder(r Recorder) Option {
	return func(c *Camera) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithTracer traces each running session as a span.
func WithTracer(t trace.Tracer) Option {
	return func(c *Camera) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Camera) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDefaultAnimation sets the entry transition used by Start calls that do
// not pass WithAnimation.
func WithDefaultAnimation(a RegionChangeAnimation) Option {
	return func(c *Camera) {
		c.animation = a
	}
}

// StartOption configures one Start call.
type StartOption func(*startOptions)

type startOptions struct {
	animation *RegionChangeAnimation
	mapType   *MapType
	config    *Configuration
}

// WithAnimation sets the entry transition for this start.
func WithAnimation(a RegionChangeAnimation) StartOption {
	return func(o *startOptions) {
		o.animation = &a
	}
}

// WithMapType switches the surface to m before starting.
func WithMapType(m MapType) StartOption {
	return func(o *startOptions) {
		o.mapType = &m
	}
}

// WithSessionConfiguration replaces the camera configuration for this and
// later sessions. Start fails if it is invalid.
func WithSessionConfiguration(cfg Configuration) StartOption {
	return func(o *startOptions) {
		o.config = &cfg
	}
}

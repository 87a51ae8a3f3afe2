package flyover

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Faultbox/flyover/internal/logger"
	"github.com/Faultbox/flyover/pkg/cadence"
	"github.com/Faultbox/flyover/pkg/geo"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("flyover camera is closed")

const tracerName = "github.com/Faultbox/flyover/internal/flyover"

// Camera orbits a surface's camera around a target. It is safe for
// concurrent use; Start, Stop and cadence ticks serialize on one lock.
type Camera struct {
	mu sync.Mutex

	surface   Surface
	scheduler cadence.Scheduler
	recorder  Recorder
	tracer    trace.Tracer
	log       *zap.Logger

	config    Configuration
	animation RegionChangeAnimation

	session *session
	closed  bool
}

// session is the state of one running orbit.
type session struct {
	id      string
	target  geo.TargetPoint
	config  Configuration
	mapType MapType
	start   Pose
	legs    int
	handle  cadence.Handle
	span    trace.Span
}

// New creates an idle camera driving surface.
func New(surface Surface, opts ...Option) (*Camera, error) {
	if surface == nil {
		return nil, errors.New("flyover: nil surface")
	}
	c := &Camera{
		surface:   surface,
		scheduler: cadence.NewTicker(),
		recorder:  nopRecorder{},
		tracer:    otel.Tracer(tracerName),
		log:       logger.Named("flyover"),
		config:    DefaultConfiguration(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.config.Validate(); err != nil {
		return nil, fmt.Errorf("create flyover camera: %w", err)
	}
	return c, nil
}

// Start begins orbiting target, replacing any running orbit. The orbit
// starts from the surface's current heading. If the surface's map type does
// not support flyover, the camera is parked over the target and no orbit
// runs. Start only fails for an invalid WithSessionConfiguration or after
// Close.
func (c *Camera) Start(target geo.Flyable, opts ...StartOption) error {
	point := geo.Normalize(target)
	var so startOptions
	for _, opt := range opts {
		opt(&so)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if so.config != nil {
		if err := so.config.Validate(); err != nil {
			return fmt.Errorf("start flyover: %w", err)
		}
		c.config = *so.config
	}
	anim := c.animation
	if so.animation != nil {
		anim = *so.animation
	}

	c.endLocked(StopReplaced)
	if so.mapType != nil {
		c.surface.SetMapType(so.mapType.Raw())
	}
	c.beginLocked(point, c.config, anim)
	return nil
}

// beginLocked starts a session. Callers hold c.mu and have ended any
// previous session.
func (c *Camera) beginLocked(point geo.TargetPoint, cfg Configuration, anim RegionChangeAnimation) {
	mode := Resolve(c.surface.MapType())
	initial := InitialPose(c.surface.Camera(), point, cfg)

	if !mode.SupportsOrbit() {
		tr, _ := anim.entry()
		if err := c.surface.AnimateCamera(initial, tr); err != nil {
			c.recorder.SurfaceError()
			c.log.Warn("surface rejected parked pose", zap.Error(err))
			return
		}
		c.log.Info("map type has no flyover, camera parked over target",
			zap.Stringer("map_type", mode),
			zap.Float64("lat", point.Latitude),
			zap.Float64("lon", point.Longitude))
		return
	}

	if tr, ok := anim.entry(); ok {
		if err := c.surface.AnimateCamera(initial, tr); err != nil {
			c.recorder.SurfaceError()
			c.log.Warn("surface rejected entry pose, flyover not started", zap.Error(err))
			return
		}
	}

	s := &session{
		id:      uuid.NewString(),
		target:  point,
		config:  cfg,
		mapType: mode,
		start:   initial,
	}
	_, s.span = c.tracer.Start(context.Background(), "flyover.session",
		trace.WithAttributes(
			attribute.String("flyover.session", s.id),
			attribute.Float64("flyover.lat", point.Latitude),
			attribute.Float64("flyover.lon", point.Longitude),
			attribute.String("flyover.map_type", mode.String()),
			attribute.Float64("flyover.heading_step", cfg.HeadingStep),
		))
	s.handle = c.scheduler.Every(cfg.Duration, func() { c.tick(s) })
	c.session = s
	c.recorder.SessionStarted(mode)

	c.log.Info("flyover started",
		zap.String("session", s.id),
		zap.Float64("lat", point.Latitude),
		zap.Float64("lon", point.Longitude),
		zap.Stringer("map_type", mode),
		zap.Stringer("animation", anim.Mode),
		zap.Duration("leg", cfg.Duration),
		zap.Float64("heading", initial.Heading))
}

// tick pushes the next leg of s. Ticks of a session that is no longer
// current are dropped.
func (c *Camera) tick(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s {
		return
	}

	s.legs++
	pose := OrbitPose(s.start, s.target, s.config, s.legs)
	if err := c.surface.AnimateCamera(pose, Transition{Duration: s.config.Duration, Curve: CurveLinear}); err != nil {
		c.recorder.SurfaceError()
		c.log.Warn("surface rejected flyover pose, stopping",
			zap.String("session", s.id),
			zap.Int("legs", s.legs),
			zap.Error(err))
		c.endLocked(StopSurfaceGone)
		return
	}
	c.recorder.LegPushed(s.mapType)
	s.span.AddEvent("leg", trace.WithAttributes(
		attribute.Int("flyover.leg", s.legs),
		attribute.Float64("flyover.heading", pose.Heading),
	))
	c.log.Debug("flyover leg",
		zap.String("session", s.id),
		zap.Int("legs", s.legs),
		zap.Float64("heading", pose.Heading))
}

// endLocked cancels the running session, if any. Callers hold c.mu.
func (c *Camera) endLocked(reason StopReason) {
	s := c.session
	if s == nil {
		return
	}
	s.handle.Cancel()
	c.session = nil

	s.span.SetAttributes(
		attribute.Int("flyover.legs", s.legs),
		attribute.String("flyover.stop_reason", string(reason)),
	)
	s.span.End()
	c.recorder.SessionEnded(reason)

	c.log.Info("flyover stopped",
		zap.String("session", s.id),
		zap.String("reason", string(reason)),
		zap.Int("legs", s.legs))
}

// Stop ends the running orbit. Stopping an idle camera does nothing.
func (c *Camera) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLocked(StopRequested)
}

// IsStarted reports whether an orbit is running.
func (c *Camera) IsStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Configuration returns the active configuration.
func (c *Camera) Configuration() Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// SetConfiguration validates and installs cfg. A running orbit restarts
// with it from the current heading around the same target.
func (c *Camera) SetConfiguration(cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.config = cfg
	if s := c.session; s != nil && s.config != cfg {
		c.endLocked(StopReplaced)
		c.beginLocked(s.target, cfg, RegionChangeAnimation{Mode: AnimationNone})
	}
	return nil
}

// MapType returns the surface's map type as seen through the gate.
func (c *Camera) MapType() MapType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Resolve(c.surface.MapType())
}

// SetMapType switches the surface's map type. Switching a running orbit to
// a map type without flyover stops it.
func (c *Camera) SetMapType(m MapType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.surface.SetMapType(m.Raw())
	s := c.session
	if s == nil {
		return
	}
	mode := Resolve(c.surface.MapType())
	if !mode.SupportsOrbit() {
		c.endLocked(StopMapType)
		return
	}
	s.mapType = mode
}

// Target returns the target of the running orbit.
func (c *Camera) Target() (geo.TargetPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return geo.TargetPoint{}, false
	}
	return c.session.target, true
}

// Legs returns how many legs the running orbit has pushed.
func (c *Camera) Legs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.legs
}

// Close stops the camera for good. No tick reaches the surface after Close
// returns.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.endLocked(StopClosed)
	c.closed = true
	return nil
}

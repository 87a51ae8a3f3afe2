package mapview

import (
	"github.com/Faultbox/flyover/internal/flyover"
	"github.com/Faultbox/flyover/pkg/cadence"
	"github.com/Faultbox/flyover/pkg/geo"
)

// View is a map view that can fly over a target.
type View struct {
	surface *Surface
	camera  *flyover.Camera
}

type options struct {
	clock     cadence.Clock
	scheduler cadence.Scheduler
	initial   flyover.Pose
	observer  Observer
	camera    []flyover.Option
}

// Option configures a View.
type Option func(*options)

// WithManual drives both the camera cadence and the surface transitions
// from m.
func WithManual(m *cadence.Manual) Option {
	return func(o *options) {
		o.clock = m
		o.scheduler = m
	}
}

// WithInitialPose sets the pose the view shows before any flyover.
func WithInitialPose(p flyover.Pose) Option {
	return func(o *options) {
		o.initial = p
	}
}

// WithObserver reports every pose the view accepts.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithCameraOptions passes options through to the flyover camera.
func WithCameraOptions(opts ...flyover.Option) Option {
	return func(o *options) {
		o.camera = append(o.camera, opts...)
	}
}

// New creates a view flying with cfg under mapType.
func New(cfg flyover.Configuration, mapType flyover.MapType, opts ...Option) (*View, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		ticker := cadence.NewTicker()
		o.clock, o.scheduler = ticker, ticker
	}

	surface := NewSurface(o.clock, o.initial)
	surface.SetObserver(o.observer)
	surface.SetMapType(mapType.Raw())

	camOpts := append([]flyover.Option{
		flyover.WithScheduler(o.scheduler),
		flyover.WithConfiguration(cfg),
	}, o.camera...)
	camera, err := flyover.New(surface, camOpts...)
	if err != nil {
		return nil, err
	}
	return &View{surface: surface, camera: camera}, nil
}

// NewWithTheme creates a view flying with a preset.
func NewWithTheme(theme flyover.Theme, mapType flyover.MapType, opts ...Option) (*View, error) {
	cfg, ok := flyover.Preset(theme)
	if !ok {
		cfg = flyover.DefaultConfiguration()
	}
	return New(cfg, mapType, opts...)
}

// Start flies over target.
func (v *View) Start(target geo.Flyable, opts ...flyover.StartOption) error {
	return v.camera.Start(target, opts...)
}

// StartAnnotation flies over an annotation's coordinate.
func (v *View) StartAnnotation(a geo.Annotation, opts ...flyover.StartOption) error {
	return v.camera.Start(geo.AnnotationTarget(a), opts...)
}

// Stop ends the flyover.
func (v *View) Stop() {
	v.camera.Stop()
}

// IsStarted reports whether a flyover is running.
func (v *View) IsStarted() bool {
	return v.camera.IsStarted()
}

// Configuration returns the flyover configuration.
func (v *View) Configuration() flyover.Configuration {
	return v.camera.Configuration()
}

// SetConfiguration replaces the flyover configuration.
func (v *View) SetConfiguration(cfg flyover.Configuration) error {
	return v.camera.SetConfiguration(cfg)
}

// FlyoverMapType returns the view's map type.
func (v *View) FlyoverMapType() flyover.MapType {
	return v.camera.MapType()
}

// SetFlyoverMapType switches the view's map type.
func (v *View) SetFlyoverMapType(m flyover.MapType) {
	v.camera.SetMapType(m)
}

// RawMapType returns the underlying rendering mode.
func (v *View) RawMapType() flyover.RawMapType {
	return v.surface.MapType()
}

// SetRawMapType sets the underlying rendering mode; unsupported values fall
// back to standard, and a running flyover stops if the result has no orbit.
func (v *View) SetRawMapType(raw flyover.RawMapType) {
	v.camera.SetMapType(flyover.Resolve(raw))
}

// Pose returns the pose the view currently shows.
func (v *View) Pose() flyover.Pose {
	return v.surface.Camera()
}

// Camera returns the flyover camera driving the view.
func (v *View) Camera() *flyover.Camera {
	return v.camera
}

// Close stops the flyover and releases the surface.
func (v *View) Close() error {
	err := v.camera.Close()
	v.surface.Close()
	return err
}

// Package observability wires flyover lifecycle events into Prometheus
// metrics and OpenTelemetry tracing.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Faultbox/flyover/internal/flyover"
)

// FlyoverCollector records flyover sessions and legs. It implements
// flyover.Recorder.
type FlyoverCollector struct {
	gatherer prometheus.Gatherer

	SessionsStarted *prometheus.CounterVec
	SessionsEnded   *prometheus.CounterVec
	Legs            *prometheus.CounterVec
	SurfaceErrors   prometheus.Counter
	Running         prometheus.Gauge
}

var _ flyover.Recorder = (*FlyoverCollector)(nil)

// NewFlyoverCollector registers flyover metrics against reg, defaulting to
// the global Prometheus registry when nil. Registering twice against the
// same registry returns collectors backed by the existing metrics.
func NewFlyoverCollector(reg prometheus.Registerer) (*FlyoverCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	started, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flyover_sessions_started_total",
		Help: "Flyover sessions started, labeled by map type.",
	}, []string{"map_type"}), "flyover_sessions_started_total")
	if err != nil {
		return nil, err
	}
	ended, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flyover_sessions_ended_total",
		Help: "Flyover sessions ended, labeled by stop reason.",
	}, []string{"reason"}), "flyover_sessions_ended_total")
	if err != nil {
		return nil, err
	}
	legs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flyover_legs_total",
		Help: "Orbit legs pushed to the surface, labeled by map type.",
	}, []string{"map_type"}), "flyover_legs_total")
	if err != nil {
		return nil, err
	}
	surfaceErrors, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flyover_surface_errors_total",
		Help: "Poses rejected by the surface.",
	}), "flyover_surface_errors_total")
	if err != nil {
		return nil, err
	}
	running, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flyover_running",
		Help: "Number of flyover sessions currently running.",
	}), "flyover_running")
	if err != nil {
		return nil, err
	}

	return &FlyoverCollector{
		gatherer:        gatherer,
		SessionsStarted: started,
		SessionsEnded:   ended,
		Legs:            legs,
		SurfaceErrors:   surfaceErrors,
		Running:         running,
	}, nil
}

// SessionStarted implements flyover.Recorder.
func (c *FlyoverCollector) SessionStarted(m flyover.MapType) {
	if c == nil {
		return
	}
	c.SessionsStarted.WithLabelValues(m.String()).Inc()
	c.Running.Inc()
}

// SessionEnded implements flyover.Recorder.
func (c *FlyoverCollector) SessionEnded(reason flyover.StopReason) {
	if c == nil {
		return
	}
	c.SessionsEnded.WithLabelValues(string(reason)).Inc()
	c.Running.Dec()
}

// LegPushed implements flyover.Recorder.
func (c *FlyoverCollector) LegPushed(m flyover.MapType) {
	if c == nil {
		return
	}
	c.Legs.WithLabelValues(m.String()).Inc()
}

// SurfaceError implements flyover.Recorder.
func (c *FlyoverCollector) SurfaceError() {
	if c == nil {
		return
	}
	c.SurfaceErrors.Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FlyoverCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

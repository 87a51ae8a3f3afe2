// Package main is the entry point for the flyover tool. It orbits an
// in-memory map view around the configured target and logs every camera
// move.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Faultbox/flyover/internal/config"
	"github.com/Faultbox/flyover/internal/flyover"
	"github.com/Faultbox/flyover/internal/logger"
	"github.com/Faultbox/flyover/internal/mapview"
	"github.com/Faultbox/flyover/internal/observability"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Flyover ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("flyover error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("flyover finished")
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdown, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown)

	reg := prometheus.NewRegistry()
	collector, err := observability.NewFlyoverCollector(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	if cfg.Metrics.Enabled {
		srv := serveMetrics(cfg.Metrics.Addr, collector.Handler())
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	view, moved, err := newView(cfg, collector)
	if err != nil {
		return err
	}
	defer view.Close()

	target := cfg.TargetPoint()
	if err := view.Start(target); err != nil {
		return fmt.Errorf("start flyover: %w", err)
	}
	logger.Info("flyover started",
		zap.Float64("lat", target.Latitude),
		zap.Float64("lon", target.Longitude),
		zap.Stringer("map_type", view.FlyoverMapType()),
		zap.Bool("orbiting", view.IsStarted()))

	if !view.IsStarted() {
		// Standard maps only park the camera.
		return nil
	}
	return wait(ctx, view, moved, cfg.Run.Legs)
}

// newView builds a view from cfg. The returned channel is signalled after
// every camera move.
func newView(cfg *config.Config, rec flyover.Recorder) (*mapview.View, <-chan struct{}, error) {
	fc, err := cfg.FlyoverConfiguration()
	if err != nil {
		return nil, nil, err
	}
	anim, err := cfg.RegionChangeAnimation()
	if err != nil {
		return nil, nil, err
	}
	mapType, err := cfg.MapType()
	if err != nil {
		return nil, nil, err
	}

	log := logger.Named("view")
	moved := make(chan struct{}, 1)
	observer := func(p flyover.Pose, t flyover.Transition) {
		log.Debug("camera move",
			zap.Float64("lat", p.Center.Latitude),
			zap.Float64("lon", p.Center.Longitude),
			zap.Float64("altitude", p.Altitude),
			zap.Float64("pitch", p.Pitch),
			zap.Float64("heading", p.Heading),
			zap.Duration("duration", t.Duration),
			zap.Stringer("curve", t.Curve))
		select {
		case moved <- struct{}{}:
		default:
		}
	}

	view, err := mapview.New(fc, mapType,
		mapview.WithObserver(observer),
		mapview.WithCameraOptions(
			flyover.WithRecorder(rec),
			flyover.WithDefaultAnimation(anim),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create view: %w", err)
	}
	return view, moved, nil
}

// wait blocks until ctx is done, the flyover stops on its own, or legs
// orbit legs have been flown. Zero legs means no limit.
func wait(ctx context.Context, view *mapview.View, moved <-chan struct{}, legs int) error {
	for {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", zap.Int("legs", view.Camera().Legs()))
			view.Stop()
			return nil
		case <-moved:
			if !view.IsStarted() {
				return errors.New("flyover stopped unexpectedly")
			}
			if n := view.Camera().Legs(); legs > 0 && n >= legs {
				logger.Info("leg limit reached", zap.Int("legs", n))
				view.Stop()
				return nil
			}
		}
	}
}

func serveMetrics(addr string, h http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}

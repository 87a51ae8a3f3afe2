package flyover

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/flyover/pkg/cadence"
	"github.com/Faultbox/flyover/pkg/geo"
)

type push struct {
	pose       Pose
	transition Transition
}

// fakeSurface records every pose it is asked to animate to.
type fakeSurface struct {
	mu      sync.Mutex
	current Pose
	mapType RawMapType
	pushes  []push
	fail    error
}

func (s *fakeSurface) Camera() Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *fakeSurface) AnimateCamera(p Pose, t Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.current = p
	s.pushes = append(s.pushes, push{pose: p, transition: t})
	return nil
}

func (s *fakeSurface) MapType() RawMapType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapType
}

func (s *fakeSurface) SetMapType(m RawMapType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapType = m
}

func (s *fakeSurface) Pushes() []push {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]push(nil), s.pushes...)
}

func (s *fakeSurface) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

type fakeRecorder struct {
	started []MapType
	ended   []StopReason
	legs    int
	errors  int
}

func (r *fakeRecorder) SessionStarted(m MapType)       { r.started = append(r.started, m) }
func (r *fakeRecorder) SessionEnded(reason StopReason) { r.ended = append(r.ended, reason) }
func (r *fakeRecorder) LegPushed(MapType)              { r.legs++ }
func (r *fakeRecorder) SurfaceError()                  { r.errors++ }

var epoch = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestCamera(t *testing.T, opts ...Option) (*Camera, *fakeSurface, *cadence.Manual, *fakeRecorder) {
	t.Helper()
	surface := &fakeSurface{mapType: RawSatelliteFlyover}
	clock := cadence.NewManual(epoch)
	rec := &fakeRecorder{}
	opts = append([]Option{WithScheduler(clock), WithRecorder(rec)}, opts...)
	cam, err := New(surface, opts...)
	require.NoError(t, err)
	return cam, surface, clock, rec
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	_, err := New(&fakeSurface{}, WithConfiguration(Configuration{Duration: time.Second, Pitch: 45}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New(nil)
	assert.Error(t, err)
}

func TestStopIdleIsNoop(t *testing.T) {
	cam, surface, clock, rec := newTestCamera(t)

	assert.False(t, cam.IsStarted())
	cam.Stop()
	cam.Stop()
	assert.False(t, cam.IsStarted())
	assert.Empty(t, surface.Pushes())
	assert.Zero(t, clock.Active())
	assert.Empty(t, rec.ended)
}

func TestParisFlyover(t *testing.T) {
	cam, surface, clock, rec := newTestCamera(t)

	target := geo.Coordinate{Latitude: 48.8566, Longitude: 2.3522}
	require.NoError(t, cam.Start(target, WithMapType(SatelliteFlyover)))
	require.True(t, cam.IsStarted())
	assert.Equal(t, SatelliteFlyover, cam.MapType())
	assert.Empty(t, surface.Pushes(), "no entry transition by default")

	for i := 1; i <= 18; i++ {
		clock.Advance(3 * time.Second)
		require.True(t, cam.IsStarted(), "tick %d", i)

		pushes := surface.Pushes()
		require.Len(t, pushes, i)
		last := pushes[i-1]
		assert.Equal(t, float64((20*i)%360), last.pose.Heading, "tick %d", i)
		assert.Equal(t, target, last.pose.Center)
		assert.Equal(t, 1000.0, last.pose.Altitude)
		assert.Equal(t, 45.0, last.pose.Pitch)
		assert.Equal(t, Transition{Duration: 3 * time.Second, Curve: CurveLinear}, last.transition)
	}
	assert.Equal(t, 0.0, surface.Camera().Heading)
	assert.Equal(t, 18, cam.Legs())

	cam.Stop()
	assert.False(t, cam.IsStarted())
	assert.Zero(t, clock.Active())

	clock.Advance(time.Minute)
	assert.Len(t, surface.Pushes(), 18, "no writes after stop")
	assert.Equal(t, []MapType{SatelliteFlyover}, rec.started)
	assert.Equal(t, []StopReason{StopRequested}, rec.ended)
	assert.Equal(t, 18, rec.legs)
}

func TestStartReplacesRunningOrbit(t *testing.T) {
	cam, surface, clock, rec := newTestCamera(t)

	first := geo.Coordinate{Latitude: 40.7128, Longitude: -74.006}
	require.NoError(t, cam.Start(first))
	clock.Advance(6 * time.Second)
	require.Len(t, surface.Pushes(), 2)

	second := geo.Coordinate{Latitude: 35.6762, Longitude: 139.6503}
	cfg := Configuration{Duration: 2 * time.Second, Altitude: 500, Pitch: 60, HeadingStep: -30}
	require.NoError(t, cam.Start(second, WithSessionConfiguration(cfg)))

	assert.Equal(t, 1, clock.Active(), "exactly one cadence")
	assert.Equal(t, cfg, cam.Configuration())

	before := len(surface.Pushes())
	clock.Advance(12 * time.Second)
	pushes := surface.Pushes()[before:]
	require.Len(t, pushes, 6)

	heading := 40.0 // the first orbit stopped at 40 degrees
	for i, p := range pushes {
		heading -= 30
		if heading < 0 {
			heading += 360
		}
		assert.Equal(t, second, p.pose.Center, "push %d", i)
		assert.Equal(t, 500.0, p.pose.Altitude, "push %d", i)
		assert.Equal(t, heading, p.pose.Heading, "push %d", i)
		assert.Equal(t, 2*time.Second, p.transition.Duration, "push %d", i)
	}
	assert.Equal(t, []StopReason{StopReplaced}, rec.ended)

	got, ok := cam.Target()
	require.True(t, ok)
	assert.Equal(t, second, got.Coordinate)
}

// leakyScheduler keeps calling callbacks after Cancel, like a tick that was
// already queued when the cadence was cancelled.
type leakyScheduler struct {
	fns []func()
}

type leakyHandle struct{}

func (leakyHandle) Cancel() {}

func (l *leakyScheduler) Every(_ time.Duration, fn func()) cadence.Handle {
	l.fns = append(l.fns, fn)
	return leakyHandle{}
}

func TestStaleTickIsDropped(t *testing.T) {
	surface := &fakeSurface{mapType: RawHybridFlyover}
	sched := &leakyScheduler{}
	cam, err := New(surface, WithScheduler(sched))
	require.NoError(t, err)

	require.NoError(t, cam.Start(paris))
	require.NoError(t, cam.Start(geo.Coordinate{Latitude: 1, Longitude: 2}))
	require.Len(t, sched.fns, 2)

	sched.fns[0]()
	assert.Empty(t, surface.Pushes(), "first session's tick must not push")

	sched.fns[1]()
	require.Len(t, surface.Pushes(), 1)
	assert.Equal(t, geo.Coordinate{Latitude: 1, Longitude: 2}, surface.Pushes()[0].pose.Center)

	cam.Stop()
	sched.fns[1]()
	assert.Len(t, surface.Pushes(), 1, "tick after stop must not push")
}

func TestCloseStopsTicks(t *testing.T) {
	cam, surface, clock, rec := newTestCamera(t)

	require.NoError(t, cam.Start(paris))
	clock.Advance(3 * time.Second)
	require.NoError(t, cam.Close())
	require.NoError(t, cam.Close())

	clock.Advance(time.Minute)
	assert.Len(t, surface.Pushes(), 1)
	assert.False(t, cam.IsStarted())
	assert.Zero(t, clock.Active())
	assert.ErrorIs(t, cam.Start(paris), ErrClosed)
	assert.Equal(t, []StopReason{StopClosed}, rec.ended)
}

func TestSurfaceGoneStopsOrbit(t *testing.T) {
	cam, surface, clock, rec := newTestCamera(t)

	require.NoError(t, cam.Start(paris))
	clock.Advance(6 * time.Second)
	surface.Fail(ErrSurfaceGone)
	clock.Advance(3 * time.Second)

	assert.False(t, cam.IsStarted())
	assert.Zero(t, clock.Active())
	assert.Len(t, surface.Pushes(), 2)
	assert.Equal(t, 1, rec.errors)
	assert.Equal(t, []StopReason{StopSurfaceGone}, rec.ended)

	// the camera is still usable once the surface recovers
	surface.Fail(nil)
	require.NoError(t, cam.Start(paris))
	assert.True(t, cam.IsStarted())
}

func TestStandardMapTypeParksCamera(t *testing.T) {
	cam, surface, clock, rec := newTestCamera(t)
	surface.SetMapType(RawSatellite)

	require.NoError(t, cam.Start(paris))
	assert.False(t, cam.IsStarted())
	assert.Zero(t, clock.Active())
	assert.Equal(t, Standard, cam.MapType())

	pushes := surface.Pushes()
	require.Len(t, pushes, 1)
	assert.Equal(t, Pose{Center: paris.Coordinate, Altitude: 1000, Pitch: 45}, pushes[0].pose)
	assert.Equal(t, Transition{}, pushes[0].transition)
	assert.Empty(t, rec.started)

	anim := RegionChangeAnimation{Mode: AnimationAnimated, Duration: 2 * time.Second, Curve: CurveEaseInOut}
	require.NoError(t, cam.Start(paris, WithAnimation(anim)))
	pushes = surface.Pushes()
	require.Len(t, pushes, 2)
	assert.Equal(t, Transition{Duration: 2 * time.Second, Curve: CurveEaseInOut}, pushes[1].transition)
}

func TestEntryAnimation(t *testing.T) {
	tests := []struct {
		name string
		anim RegionChangeAnimation
		want []Transition
	}{
		{
			name: "none",
			anim: RegionChangeAnimation{Mode: AnimationNone},
			want: []Transition{{Duration: 3 * time.Second}},
		},
		{
			name: "instant",
			anim: RegionChangeAnimation{Mode: AnimationInstant},
			want: []Transition{{}, {Duration: 3 * time.Second}},
		},
		{
			name: "animated",
			anim: RegionChangeAnimation{Mode: AnimationAnimated, Curve: CurveEaseInOut},
			want: []Transition{{Duration: DefaultEntryDuration, Curve: CurveEaseInOut}, {Duration: 3 * time.Second}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam, surface, clock, _ := newTestCamera(t, WithDefaultAnimation(tt.anim))
			surface.current = Pose{Heading: 90}

			require.NoError(t, cam.Start(paris))
			clock.Advance(3 * time.Second)

			pushes := surface.Pushes()
			require.Len(t, pushes, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want, pushes[i].transition, "push %d", i)
			}
			if len(pushes) == 2 {
				assert.Equal(t, 90.0, pushes[0].pose.Heading, "entry keeps the heading")
			}
			assert.Equal(t, 110.0, pushes[len(pushes)-1].pose.Heading)
		})
	}
}

func TestSetConfigurationRestartsOrbit(t *testing.T) {
	cam, surface, clock, rec := newTestCamera(t)

	require.NoError(t, cam.Start(paris))
	clock.Advance(3 * time.Second)

	err := cam.SetConfiguration(Configuration{Duration: time.Second, Altitude: 10, Pitch: 45})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, DefaultConfiguration(), cam.Configuration())

	low := MustPreset(ThemeLowFlying)
	require.NoError(t, cam.SetConfiguration(low))
	assert.True(t, cam.IsStarted())
	assert.Equal(t, 1, clock.Active())

	clock.Advance(3 * time.Second)
	pushes := surface.Pushes()
	require.Len(t, pushes, 2)
	assert.Equal(t, 70.0, pushes[1].pose.Altitude)
	assert.Equal(t, 40.0, pushes[1].pose.Heading)
	assert.Equal(t, []StopReason{StopReplaced}, rec.ended)

	// an identical configuration does not restart the orbit
	require.NoError(t, cam.SetConfiguration(low))
	assert.Len(t, rec.ended, 1)
}

func TestSetConfigurationWhileIdle(t *testing.T) {
	cam, surface, clock, _ := newTestCamera(t)

	giddy := MustPreset(ThemeGiddy)
	require.NoError(t, cam.SetConfiguration(giddy))
	assert.False(t, cam.IsStarted())
	assert.Empty(t, surface.Pushes())

	require.NoError(t, cam.Start(paris))
	clock.Advance(time.Second)
	require.Len(t, surface.Pushes(), 1)
	assert.Equal(t, 30.0, surface.Pushes()[0].pose.Heading)
}

func TestSetMapType(t *testing.T) {
	cam, surface, clock, rec := newTestCamera(t)

	require.NoError(t, cam.Start(paris))
	cam.SetMapType(HybridFlyover)
	assert.True(t, cam.IsStarted())
	assert.Equal(t, RawHybridFlyover, surface.MapType())

	cam.SetMapType(Standard)
	assert.False(t, cam.IsStarted())
	assert.Equal(t, Standard, cam.MapType())
	assert.Zero(t, clock.Active())
	assert.Equal(t, []StopReason{StopMapType}, rec.ended)
}

func TestInvalidSessionConfigurationKeepsRunningOrbit(t *testing.T) {
	cam, _, clock, _ := newTestCamera(t)

	require.NoError(t, cam.Start(paris))
	err := cam.Start(paris, WithSessionConfiguration(Configuration{Pitch: 45, HeadingStep: 20}))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.True(t, cam.IsStarted())
	assert.Equal(t, 1, clock.Active())
	assert.Equal(t, DefaultConfiguration(), cam.Configuration())
}

func TestSessionSpan(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	cam, _, clock, _ := newTestCamera(t, WithTracer(tp.Tracer("test")))

	require.NoError(t, cam.Start(paris))
	clock.Advance(9 * time.Second)
	cam.Stop()

	ended := spans.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "flyover.session", span.Name())
	assert.Len(t, span.Events(), 3)

	attrs := map[string]any{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(3), attrs["flyover.legs"])
	assert.Equal(t, string(StopRequested), attrs["flyover.stop_reason"])
	assert.Equal(t, "satellite-flyover", attrs["flyover.map_type"])
}

func TestConcurrentStartStop(t *testing.T) {
	surface := &fakeSurface{mapType: RawSatelliteFlyover}
	cfg := Configuration{Duration: time.Millisecond, Altitude: 100, Pitch: 30, HeadingStep: 10}
	cam, err := New(surface, WithConfiguration(cfg))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if (g+i)%3 == 0 {
					cam.Stop()
					continue
				}
				_ = cam.Start(geo.Coordinate{Latitude: float64(g), Longitude: float64(i)})
				_ = cam.IsStarted()
			}
		}(g)
	}
	wg.Wait()

	cam.Stop()
	require.NoError(t, cam.Close())
	settled := len(surface.Pushes())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, len(surface.Pushes()), "no pushes after close")
}

func TestWrappedSurfaceGoneStopsOrbit(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cam, surface, clock, rec := newTestCamera(t, WithLogger(zap.New(core)))

	require.NoError(t, cam.Start(paris))
	clock.Advance(3 * time.Second)
	surface.Fail(fmt.Errorf("view released: %w", ErrSurfaceGone))
	clock.Advance(3 * time.Second)

	assert.False(t, cam.IsStarted())
	assert.Zero(t, clock.Active())
	assert.Len(t, surface.Pushes(), 1)
	assert.Equal(t, 1, rec.errors)
	assert.Equal(t, []StopReason{StopSurfaceGone}, rec.ended)

	entries := logs.FilterMessage("surface rejected flyover pose, stopping").All()
	require.Len(t, entries, 1)
	var found error
	for _, f := range entries[0].Context {
		if f.Key == "error" {
			found, _ = f.Interface.(error)
		}
	}
	assert.True(t, errors.Is(found, ErrSurfaceGone))

	// further ticks of the ended session push nothing
	clock.Advance(9 * time.Second)
	assert.Len(t, surface.Pushes(), 1)
}

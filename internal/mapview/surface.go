// Package mapview is an in-memory host view for the flyover camera. It
// keeps the camera pose, plays animated transitions against a clock and
// filters its rendering mode to the flyover map types.
package mapview

import (
	"sync"
	"time"

	"github.com/Faultbox/flyover/internal/flyover"
	"github.com/Faultbox/flyover/pkg/cadence"
	"github.com/Faultbox/flyover/pkg/geo"
	fmath "github.com/Faultbox/flyover/pkg/math"
)

// Observer is told about every pose the surface accepts.
type Observer func(p flyover.Pose, t flyover.Transition)

// Surface implements flyover.Surface in memory.
type Surface struct {
	mu    sync.Mutex
	clock cadence.Clock

	from       flyover.Pose
	to         flyover.Pose
	transition flyover.Transition
	startedAt  time.Time

	mapType  flyover.RawMapType
	closed   bool
	observer Observer
}

var _ flyover.Surface = (*Surface)(nil)

// NewSurface creates a surface showing initial, timed by clock.
func NewSurface(clock cadence.Clock, initial flyover.Pose) *Surface {
	if clock == nil {
		clock = cadence.NewTicker()
	}
	return &Surface{
		clock:     clock,
		from:      initial,
		to:        initial,
		startedAt: clock.Now(),
	}
}

// SetObserver installs fn as the pose observer.
func (s *Surface) SetObserver(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// Camera implements flyover.Surface. While a transition is in flight it
// reports the interpolated pose.
func (s *Surface) Camera() flyover.Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poseAt(s.clock.Now())
}

// Animating reports whether a transition is still in flight.
func (s *Surface) Animating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress(s.clock.Now()) < 1
}

// Target returns the pose the current transition ends on.
func (s *Surface) Target() flyover.Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.to
}

// AnimateCamera implements flyover.Surface.
func (s *Surface) AnimateCamera(p flyover.Pose, t flyover.Transition) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return flyover.ErrSurfaceGone
	}
	now := s.clock.Now()
	s.from = s.poseAt(now)
	s.to = p
	s.transition = t
	s.startedAt = now
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(p, t)
	}
	return nil
}

// MapType implements flyover.Surface.
func (s *Surface) MapType() flyover.RawMapType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapType
}

// SetMapType implements flyover.Surface. Values outside the flyover map
// types fall back to standard.
func (s *Surface) SetMapType(raw flyover.RawMapType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapType = flyover.Resolve(raw).Raw()
}

// Close releases the surface; later transitions fail with ErrSurfaceGone.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Surface) progress(now time.Time) float64 {
	if s.transition.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(s.startedAt)) / float64(s.transition.Duration)
	t = fmath.Clamp(t, 0, 1)
	if s.transition.Curve == flyover.CurveEaseInOut {
		t = fmath.SmoothStep(t)
	}
	return t
}

func (s *Surface) poseAt(now time.Time) flyover.Pose {
	t := s.progress(now)
	if t >= 1 {
		return s.to
	}
	return flyover.Pose{
		Center: geo.Coordinate{
			Latitude:  fmath.Lerp(s.from.Center.Latitude, s.to.Center.Latitude, t),
			Longitude: fmath.Lerp(s.from.Center.Longitude, s.to.Center.Longitude, t),
		},
		Altitude: fmath.Lerp(s.from.Altitude, s.to.Altitude, t),
		Pitch:    fmath.Lerp(s.from.Pitch, s.to.Pitch, t),
		Heading:  fmath.LerpAngle(s.from.Heading, s.to.Heading, t),
	}
}

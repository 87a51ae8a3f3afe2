package flyover

import "errors"

// ErrSurfaceGone is returned by a Surface that can no longer be animated.
var ErrSurfaceGone = errors.New("flyover surface is gone")

// Surface is the host rendering view a Camera drives. It is referenced,
// never owned, and is called with the Camera's lock held: implementations
// must return promptly and must not call back into the Camera.
type Surface interface {
	// Camera reports the pose currently shown.
	Camera() Pose
	// AnimateCamera begins an animated transition to p. A non-nil error
	// stops the running flyover.
	AnimateCamera(p Pose, t Transition) error
	// MapType reports the surface's rendering mode.
	MapType() RawMapType
	// SetMapType changes the surface's rendering mode.
	SetMapType(RawMapType)
}

package flyover

// StopReason says why a session ended.
type StopReason string

const (
	StopRequested   StopReason = "stopped"
	StopReplaced    StopReason = "replaced"
	StopSurfaceGone StopReason = "surface-gone"
	StopMapType     StopReason = "map-type"
	StopClosed      StopReason = "closed"
)

// Recorder receives flyover lifecycle events, typically for metrics.
// Methods are called with the Camera's lock held.
type Recorder interface {
	SessionStarted(m MapType)
	SessionEnded(reason StopReason)
	LegPushed(m MapType)
	SurfaceError()
}

type nopRecorder struct{}

func (nopRecorder) SessionStarted(MapType)  {}
func (nopRecorder) SessionEnded(StopReason) {}
func (nopRecorder) LegPushed(MapType)       {}
func (nopRecorder) SurfaceError()           {}

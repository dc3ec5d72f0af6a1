// Package navigation drives first-person movement and the pointer-capture
// state machine of a gallery session.
package navigation

// State is the pointer-capture state.
type State int

const (
	// Free: navigation off, no capture.
	Free State = iota
	// RequestingCapture: navigation on, capture requested or about to be.
	RequestingCapture
	// Captured: capture held, movement keys drive the viewer.
	Captured
	// ReleasingForTransition: capture released for a focus transition or
	// awaiting re-capture after one.
	ReleasingForTransition
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case RequestingCapture:
		return "requesting"
	case Captured:
		return "captured"
	case ReleasingForTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// Surface is the platform render surface that owns pointer capture.
// Requests are asynchronous: the outcome arrives later as a CaptureChanged
// or CaptureError event.
type Surface interface {
	RequestPointerCapture()
	ExitPointerCapture()
	PointerCaptured() bool
}

// Event is a platform input delivered to Controller.Handle.
type Event interface {
	event()
}

// CaptureChanged reports that the platform granted or revoked capture.
type CaptureChanged struct {
	Captured bool
}

// CaptureError reports that a capture request failed.
type CaptureError struct {
	Err error
}

// KeyDown and KeyUp carry a physical key code such as "KeyW".
type KeyDown struct {
	Code string
}

type KeyUp struct {
	Code string
}

// Look is a raw pointer movement in pixels.
type Look struct {
	DX, DY float64
}

func (CaptureChanged) event() {}
func (CaptureError) event()   {}
func (KeyDown) event()        {}
func (KeyUp) event()          {}
func (Look) event()           {}

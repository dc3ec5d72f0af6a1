package navigation

import (
	"log/slog"
	"math"
	"time"

	"gallery-engine/internal/camera"
	"gallery-engine/internal/mathutil"
	"gallery-engine/internal/physics"
)

// Defaults for Options.
const (
	DefaultCaptureDelay = 100 * time.Millisecond
	DefaultSpeed        = 10.0
	DefaultSmoothing    = 0.05
	DefaultEyeHeight    = 2.0
)

// Options configures a Controller. Zero fields take defaults.
type Options struct {
	CaptureDelay time.Duration
	Speed        float64
	// Smoothing is the fraction of the gap to the desired velocity closed
	// per 1/60 s.
	Smoothing    float64
	PointerSpeed float64
	EyeHeight    float64
	Keys         KeyMap
	Logger       *slog.Logger
}

func (o Options) resolve() Options {
	if o.CaptureDelay <= 0 {
		o.CaptureDelay = DefaultCaptureDelay
	}
	if o.Speed <= 0 {
		o.Speed = DefaultSpeed
	}
	if o.Smoothing <= 0 || o.Smoothing > 1 {
		o.Smoothing = DefaultSmoothing
	}
	if o.PointerSpeed <= 0 {
		o.PointerSpeed = camera.PointerSpeed
	}
	if o.EyeHeight <= 0 {
		o.EyeHeight = DefaultEyeHeight
	}
	if o.Keys == nil {
		o.Keys = DefaultKeyMap()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Controller is the pointer-capture state machine plus per-frame movement.
// It is owned by a single goroutine.
type Controller struct {
	surface Surface
	state   *camera.State
	opts    Options
	log     *slog.Logger

	active bool
	// captureAt is the debounce deadline; zero means no timer.
	captureAt time.Time
	keys      Keys
	smooth    mathutil.Vec3
}

// New returns a controller in the Free state.
func New(surface Surface, state *camera.State, opts Options) *Controller {
	opts = opts.resolve()
	return &Controller{
		surface: surface,
		state:   state,
		opts:    opts,
		log:     opts.Logger,
	}
}

// Active reports whether navigation is meant to be on.
func (c *Controller) Active() bool {
	return c.active
}

// Pending reports whether a debounced capture request is scheduled.
func (c *Controller) Pending() bool {
	return !c.captureAt.IsZero()
}

// State derives the current state from the controller, the camera state and
// the surface.
func (c *Controller) State() State {
	switch {
	case !c.active:
		return Free
	case c.surface.PointerCaptured():
		return Captured
	case c.transitioning():
		return ReleasingForTransition
	default:
		return RequestingCapture
	}
}

func (c *Controller) transitioning() bool {
	return c.state.Locked || c.state.TransitioningBack
}

// Activate turns navigation on. Capture is requested once the debounce
// delay has elapsed, unless a transition is in progress. After a focus
// transition has ended but before capture came back, Activate retries the
// request at once.
func (c *Controller) Activate(now time.Time) {
	c.active = true
	if c.surface.PointerCaptured() || c.state.Locked {
		c.cancelTimer()
		return
	}
	if c.state.TransitioningBack {
		c.cancelTimer()
		c.surface.RequestPointerCapture()
		return
	}
	if c.captureAt.IsZero() {
		c.captureAt = now.Add(c.opts.CaptureDelay)
	}
}

// Deactivate turns navigation off, cancels any pending request and releases
// capture if it is held.
func (c *Controller) Deactivate() {
	c.active = false
	c.cancelTimer()
	c.releaseInput()
	if c.surface.PointerCaptured() {
		c.surface.ExitPointerCapture()
	}
}

// SuspendForTransition releases capture and disables movement before a
// focus animation starts. Navigation stays logically active.
func (c *Controller) SuspendForTransition() {
	c.cancelTimer()
	c.releaseInput()
	if c.surface.PointerCaptured() {
		c.surface.ExitPointerCapture()
	}
}

// Resume requests capture immediately after a focus transition ends.
// It does nothing when navigation is off.
func (c *Controller) Resume() {
	if !c.active || c.surface.PointerCaptured() {
		return
	}
	c.cancelTimer()
	c.surface.RequestPointerCapture()
}

// Teardown cancels everything and forcibly releases capture.
func (c *Controller) Teardown() {
	c.Deactivate()
	c.smooth = mathutil.Vec3{}
}

// Advance fires the debounce deadline once now reaches it.
func (c *Controller) Advance(now time.Time) {
	if c.captureAt.IsZero() || now.Before(c.captureAt) {
		return
	}
	c.captureAt = time.Time{}
	if c.active && !c.surface.PointerCaptured() && !c.transitioning() {
		c.surface.RequestPointerCapture()
	}
}

// Handle applies one platform event. Look events rotate cam; cam may be nil
// when the caller has no camera to steer.
func (c *Controller) Handle(ev Event, cam *camera.Camera) {
	switch ev := ev.(type) {
	case CaptureChanged:
		if ev.Captured {
			if c.state.TransitioningBack {
				c.state.TransitioningBack = false
			}
			return
		}
		c.releaseInput()
		if c.active && !c.transitioning() {
			c.active = false
			c.cancelTimer()
		}
	case CaptureError:
		c.log.Error("navigation: pointer capture failed", "err", ev.Err)
		c.state.TransitioningBack = false
		c.active = false
		c.cancelTimer()
		c.releaseInput()
	case KeyDown:
		if d, ok := c.opts.Keys[ev.Code]; ok {
			c.keys[d] = true
		}
	case KeyUp:
		if d, ok := c.opts.Keys[ev.Code]; ok {
			c.keys[d] = false
		}
	case Look:
		if cam != nil && c.steering() {
			cam.Look(ev.DX, ev.DY, c.opts.PointerSpeed)
		}
	}
}

// Keys returns the pressed directions.
func (c *Controller) Keys() Keys {
	return c.keys
}

func (c *Controller) steering() bool {
	return c.State() == Captured && !c.state.Locked
}

func (c *Controller) cancelTimer() {
	c.captureAt = time.Time{}
}

func (c *Controller) releaseInput() {
	c.keys = Keys{}
}

// Desired returns the target horizontal velocity for the pressed keys, or
// zero when movement is disabled.
func (c *Controller) Desired(cam camera.Camera) mathutil.Vec3 {
	if !c.steering() {
		return mathutil.Vec3{}
	}
	var fwd, side float64
	if c.keys[Forward] {
		fwd++
	}
	if c.keys[Backward] {
		fwd--
	}
	if c.keys[Right] {
		side++
	}
	if c.keys[Left] {
		side--
	}
	if fwd == 0 && side == 0 {
		return mathutil.Vec3{}
	}
	f, r := cam.Basis()
	dir := f.Scale(fwd).Add(r.Scale(side)).Normalize()
	return dir.Scale(c.opts.Speed)
}

// Drive eases the body's horizontal velocity toward the desired velocity;
// the body's own linear damping is applied by the physics step.
func (c *Controller) Drive(body *physics.Body, cam camera.Camera, dt float64) {
	if dt <= 0 {
		return
	}
	want := c.Desired(cam)
	alpha := 1 - math.Pow(1-c.opts.Smoothing, dt*60)
	c.smooth[0] += (want[0] - c.smooth[0]) * alpha
	c.smooth[2] += (want[2] - c.smooth[2]) * alpha
	body.Velocity[0] = c.smooth[0]
	body.Velocity[2] = c.smooth[2]
}

// Follow places the camera at the body's eye unless the camera is locked by
// a focus transition.
func (c *Controller) Follow(body *physics.Body, cam *camera.Camera) {
	if c.state.Locked {
		return
	}
	cam.Position = body.Position.Add(mathutil.Vec3{0, c.opts.EyeHeight, 0})
}

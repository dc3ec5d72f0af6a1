// Package focus animates the camera to a viewing pose in front of a chosen
// artwork and hands control back to navigation afterwards.
package focus

import (
	"log/slog"
	"time"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/camera"
	"gallery-engine/internal/mathutil"
)

type Vec3 = mathutil.Vec3

const (
	ViewDistance = 2.5
	ViewLift     = 0.2
	Duration     = 1500 * time.Millisecond
	MatchEpsilon = 0.1
)

// Navigator is the part of the navigation controller focus drives.
type Navigator interface {
	Active() bool
	SuspendForTransition()
	Resume()
}

// Request selects an artwork. Target is the selected world position; when
// nil the artwork's placed position is used.
type Request struct {
	ArtworkID string
	Target    *Vec3
}

// Pose is a camera position and orientation.
type Pose struct {
	Position   Vec3          `json:"position"`
	Quaternion mathutil.Quat `json:"quaternion"`
}

// ArtworkFocused is emitted when a focus transition starts.
type ArtworkFocused struct {
	ArtworkID string `json:"artworkId"`
	View      Pose   `json:"view"`
}

// Controller runs focus transitions for one session.
type Controller struct {
	state *camera.State
	nav   Navigator
	scene assemble.Config
	log   *slog.Logger

	handle    *Handle
	OnFocused func(ArtworkFocused)
}

// New returns a controller over the assembled scene.
func New(state *camera.State, nav Navigator, scene assemble.Config, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{state: state, nav: nav, scene: scene, log: log}
}

// Animating reports whether a transition is running.
func (c *Controller) Animating() bool {
	return !c.handle.Done()
}

// Focus starts a transition from cam toward req's artwork, cancelling any
// transition already running. It returns false when the request names no
// known artwork and carries no target.
func (c *Controller) Focus(req Request, cam camera.Camera, now time.Time) (ArtworkFocused, bool) {
	target, rot, ok := c.resolve(req)
	if !ok {
		c.log.Debug("focus: unknown artwork", "artwork", req.ArtworkID)
		return ArtworkFocused{}, false
	}

	c.handle.Kill()
	c.state.SetTarget(req.ArtworkID, target)
	c.nav.SuspendForTransition()

	view := ViewPosition(target, rot)
	c.handle = &Handle{
		tween: Tween{
			From:     cam.Position,
			To:       view,
			Start:    now,
			Duration: Duration,
			Ease:     EaseInOutCubic,
		},
		target: target,
	}

	final := camera.Camera{Position: view}
	final.LookAt(target)
	ev := ArtworkFocused{
		ArtworkID: req.ArtworkID,
		View:      Pose{Position: view, Quaternion: final.Quaternion()},
	}
	if c.OnFocused != nil {
		c.OnFocused(ev)
	}
	return ev, true
}

// Advance moves cam along the running transition and re-aims it at the
// target. It does nothing when no transition is running.
func (c *Controller) Advance(now time.Time, cam *camera.Camera) {
	pos, ok := c.handle.step(now)
	if !ok {
		return
	}
	cam.Position = pos
	cam.LookAt(c.handle.Target())
}

// Clear ends focus and returns control to navigation: the target is dropped
// and capture is requested again.
func (c *Controller) Clear() {
	c.handle.Kill()
	c.handle = nil
	if !c.state.HasTarget() {
		return
	}
	if c.nav.Active() {
		c.state.TransitioningBack = true
	}
	c.state.ClearTarget()
	c.nav.Resume()
}

// Cancel kills a running transition without touching the camera state.
func (c *Controller) Cancel() {
	c.handle.Kill()
	c.handle = nil
}

// ViewPosition is the camera position in front of an artwork at target
// with the given rotation.
func ViewPosition(target, rotation Vec3) Vec3 {
	normal := mathutil.EulerXYZ(rotation).MulVec3(Vec3{0, 0, 1})
	v := target.AddScaled(normal, ViewDistance)
	v[1] += ViewLift
	return v
}

func (c *Controller) resolve(req Request) (target, rot Vec3, ok bool) {
	if a, found := c.scene.Lookup(req.ArtworkID); found {
		if req.Target != nil {
			return *req.Target, a.Rotation, true
		}
		return a.Position, a.Rotation, true
	}
	if req.Target == nil {
		return Vec3{}, Vec3{}, false
	}
	// Unknown id: fall back to the artwork placed at the target.
	t := *req.Target
	for _, a := range c.scene.Artworks {
		if a.Position.Dist(t) < MatchEpsilon {
			rot = a.Rotation
		}
	}
	return t, rot, true
}

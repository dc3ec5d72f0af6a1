// Package session ties the navigation, focus and physics controllers of one
// visitor together around a single frame loop.
package session

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/camera"
	"gallery-engine/internal/collider"
	"gallery-engine/internal/focus"
	"gallery-engine/internal/mathutil"
	"gallery-engine/internal/navigation"
	"gallery-engine/internal/physics"
)

type Vec3 = mathutil.Vec3

// Outbound receives fire-and-forget notifications. Implementations must
// not block.
type Outbound interface {
	ArtworkFocused(exhibitionID string, ev focus.ArtworkFocused)
	LikeToggled(exhibitionID, artworkID string)
	TimeSpent(exhibitionID string, seconds float64)
}

type discard struct{}

func (discard) ArtworkFocused(string, focus.ArtworkFocused) {}
func (discard) LikeToggled(string, string)                  {}
func (discard) TimeSpent(string, float64)                   {}

// Options configures a session.
type Options struct {
	Navigation navigation.Options
	Colliders  collider.Options
	// Spawn is the body's start position; nil picks a point inside the
	// room near the front wall.
	Spawn    *Vec3
	Outbound Outbound
	Logger   *slog.Logger
	// MaxQueue bounds the pending event queue; older events are dropped.
	MaxQueue int
}

const defaultMaxQueue = 256

// Snapshot is the visible result of one frame.
type Snapshot struct {
	State      string                 `json:"state"`
	Position   Vec3                   `json:"position"`
	Quaternion mathutil.Quat          `json:"quaternion"`
	Yaw        float64                `json:"yaw"`
	Pitch      float64                `json:"pitch"`
	Locked     bool                   `json:"locked"`
	TargetID   string                 `json:"targetId,omitempty"`
	Focused    []focus.ArtworkFocused `json:"focused,omitempty"`
}

// Session is one visitor's walk through one exhibition. It is owned by a
// single goroutine: Enqueue, Frame and Close must not be called
// concurrently.
type Session struct {
	Config    assemble.Config
	Colliders collider.Set
	World     *physics.World
	Body      *physics.Body
	Camera    camera.Camera
	State     camera.State

	Nav   *navigation.Controller
	Focus *focus.Controller

	out      Outbound
	log      *slog.Logger
	queue    []Event
	maxQueue int
	started  time.Time
	closed   bool
	focused  []focus.ArtworkFocused
}

// New builds the room's colliders and controllers for cfg.
func New(cfg assemble.Config, surface navigation.Surface, now time.Time, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	out := opts.Outbound
	if out == nil {
		out = discard{}
	}
	maxQueue := opts.MaxQueue
	if maxQueue <= 0 {
		maxQueue = defaultMaxQueue
	}

	s := &Session{
		Config:    cfg,
		Colliders: collider.Synthesize(cfg.Room.Template(), opts.Colliders),
		World:     physics.NewWorld(),
		out:       out,
		log:       log.With("exhibition", cfg.ID),
		maxQueue:  maxQueue,
		started:   now,
	}
	s.World.AddStatic(s.Colliders.Boxes()...)

	spawn := DefaultSpawn(cfg)
	if opts.Spawn != nil {
		spawn = *opts.Spawn
	}
	s.Body = physics.NewBody(spawn)

	navOpts := opts.Navigation
	if navOpts.Logger == nil {
		navOpts.Logger = s.log
	}
	s.Nav = navigation.New(surface, &s.State, navOpts)
	s.Nav.Follow(s.Body, &s.Camera)

	s.Focus = focus.New(&s.State, s.Nav, cfg, s.log)
	s.Focus.OnFocused = func(ev focus.ArtworkFocused) {
		s.focused = append(s.focused, ev)
		s.out.ArtworkFocused(cfg.ID, ev)
	}
	return s
}

// DefaultSpawn stands the visitor a little inside the front wall, facing
// the back wall.
func DefaultSpawn(cfg assemble.Config) Vec3 {
	z := math.Max(0, math.Min(5, cfg.Room.Dimensions.ZAxis/2-1))
	return Vec3{0, 0, z}
}

// Enqueue queues ev for the next frame. When the queue is full the oldest
// event is dropped.
func (s *Session) Enqueue(ev Event) {
	if s.closed {
		return
	}
	if len(s.queue) >= s.maxQueue {
		s.log.Warn("session: event queue full, dropping oldest")
		s.queue = s.queue[1:]
	}
	s.queue = append(s.queue, ev)
}

// Frame drains queued events, fires due timers, advances any focus
// animation and steps the body by dt seconds.
func (s *Session) Frame(now time.Time, dt float64) Snapshot {
	if s.closed {
		return s.snapshot()
	}
	s.focused = s.focused[:0]

	queue := s.queue
	s.queue = nil
	for _, ev := range queue {
		s.apply(ev, now)
	}

	s.Nav.Advance(now)
	s.Focus.Advance(now, &s.Camera)
	s.Nav.Drive(s.Body, s.Camera, dt)
	s.World.Step(s.Body, dt)
	s.Nav.Follow(s.Body, &s.Camera)
	return s.snapshot()
}

func (s *Session) apply(ev Event, now time.Time) {
	switch ev := ev.(type) {
	case navigation.Event:
		s.Nav.Handle(ev, &s.Camera)
	case Activate:
		s.Nav.Activate(now)
	case Deactivate:
		s.Nav.Deactivate()
	case Select:
		s.Focus.Focus(focus.Request{ArtworkID: ev.ArtworkID, Target: ev.Target}, s.Camera, now)
	case CloseArtwork:
		s.Focus.Clear()
	case Resume:
		if s.State.Locked {
			s.Focus.Clear()
		}
		if !s.Nav.Active() {
			s.Nav.Activate(now)
		}
	case Exit:
		s.Nav.Deactivate()
		s.Focus.Clear()
	case Like:
		s.out.LikeToggled(s.Config.ID, ev.ArtworkID)
	default:
		s.log.Debug("session: ignoring event", "type", fmt.Sprintf("%T", ev))
	}
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		State:      s.Nav.State().String(),
		Position:   s.Camera.Position,
		Quaternion: s.Camera.Quaternion(),
		Yaw:        s.Camera.Yaw,
		Pitch:      s.Camera.Pitch,
		Locked:     s.State.Locked,
		TargetID:   s.State.TargetID,
	}
	if len(s.focused) > 0 {
		snap.Focused = append([]focus.ArtworkFocused(nil), s.focused...)
	}
	return snap
}

// Elapsed is the time since the session started.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.started)
}

// Close kills any focus animation, releases capture, reports the time spent
// and tears the physics world down. Further calls do nothing.
func (s *Session) Close(now time.Time) {
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	s.Focus.Cancel()
	s.Nav.Teardown()
	s.State.Reset()
	s.World.Reset()
	s.out.TimeSpent(s.Config.ID, s.Elapsed(now).Seconds())
}

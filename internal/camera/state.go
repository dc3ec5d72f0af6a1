// Package camera holds the per-session camera state and the first-person
// camera pose.
package camera

import "gallery-engine/internal/mathutil"

type Vec3 = mathutil.Vec3

// State is the focus/navigation flags shared by one session's controllers.
// A non-nil Target means a focus transition is in progress or pending.
type State struct {
	Locked            bool
	TransitioningBack bool
	Target            *Vec3
	TargetID          string
}

// SetTarget records a focus target and locks the camera.
func (s *State) SetTarget(id string, p Vec3) {
	s.Target = &p
	s.TargetID = id
	s.Locked = true
}

// ClearTarget drops the focus target and unlocks the camera.
func (s *State) ClearTarget() {
	s.Target = nil
	s.TargetID = ""
	s.Locked = false
}

// HasTarget reports whether a focus target is set.
func (s *State) HasTarget() bool {
	return s.Target != nil
}

// Reset returns the state to its zero value.
func (s *State) Reset() {
	*s = State{}
}

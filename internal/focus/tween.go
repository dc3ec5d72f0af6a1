package focus

import (
	"math"
	"time"

	"gallery-engine/internal/mathutil"
)

// EaseInOutCubic is the power3 in/out curve on [0, 1].
func EaseInOutCubic(t float64) float64 {
	t = mathutil.Clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Tween interpolates a position over a fixed duration.
type Tween struct {
	From     Vec3
	To       Vec3
	Start    time.Time
	Duration time.Duration
	Ease     func(float64) float64
}

// Sample returns the position at now and whether the tween has finished.
func (tw Tween) Sample(now time.Time) (Vec3, bool) {
	if tw.Duration <= 0 {
		return tw.To, true
	}
	t := float64(now.Sub(tw.Start)) / float64(tw.Duration)
	if t >= 1 {
		return tw.To, true
	}
	ease := tw.Ease
	if ease == nil {
		ease = EaseInOutCubic
	}
	return tw.From.Lerp(tw.To, ease(t)), false
}

// Handle owns one running focus animation. Once killed or finished it never
// produces another sample.
type Handle struct {
	tween  Tween
	target Vec3
	done   bool
}

// Kill stops the animation immediately.
func (h *Handle) Kill() {
	if h != nil {
		h.done = true
	}
}

// Done reports whether the animation has finished or been killed.
func (h *Handle) Done() bool {
	return h == nil || h.done
}

// Target is the point the camera keeps aiming at.
func (h *Handle) Target() Vec3 {
	return h.target
}

// step samples the tween. ok is false once the handle is done.
func (h *Handle) step(now time.Time) (pos Vec3, ok bool) {
	if h.Done() {
		return Vec3{}, false
	}
	pos, finished := h.tween.Sample(now)
	if finished {
		h.done = true
	}
	return pos, true
}

package physics

import (
	"math"

	"gallery-engine/internal/mathutil"
)

// Body defaults.
const (
	DefaultRadius        = 0.4
	DefaultHeight        = 2.0
	DefaultStepUp        = 0.5
	DefaultLinearDamping = 0.97
)

// Body is an upright capsule with fixed rotation. Position is the point
// between the feet.
type Body struct {
	Position      Vec3
	Velocity      Vec3
	Radius        float64
	Height        float64
	StepUp        float64
	LinearDamping float64
	Grounded      bool
}

// NewBody returns a body at pos with default dimensions.
func NewBody(pos Vec3) *Body {
	return &Body{
		Position:      pos,
		Radius:        DefaultRadius,
		Height:        DefaultHeight,
		StepUp:        DefaultStepUp,
		LinearDamping: DefaultLinearDamping,
	}
}

// Step advances body by dt seconds: damping, gravity, a per-axis horizontal
// move that stops at blocking boxes and slides along them, penetration
// push-out, then ground snapping.
func (w *World) Step(b *Body, dt float64) {
	if dt <= 0 {
		return
	}

	damp := math.Pow(1-mathutil.Clamp(b.LinearDamping, 0, 1), dt)
	b.Velocity[0] *= damp
	b.Velocity[2] *= damp
	b.Velocity[1] += w.Gravity * dt

	w.moveAxis(b, 0, 2, b.Velocity[0]*dt)
	w.moveAxis(b, 2, 0, b.Velocity[2]*dt)
	w.resolvePenetration(b)
	w.settle(b, dt)
}

// moveAxis moves b along axis. When blocked the move is cancelled, the
// velocity along axis is removed and the velocity along the other
// horizontal axis is scaled by the blocking box's friction.
func (w *World) moveAxis(b *Body, axis, other int, delta float64) {
	if delta == 0 {
		return
	}
	p := b.Position
	p[axis] += delta
	if s := w.blocking(b, p); s != nil {
		b.Velocity[axis] = 0
		b.Velocity[other] *= 1 - mathutil.Clamp(s.box.Friction, 0, 1)
		return
	}
	b.Position = p
}

// blocking returns the first box that would stop b standing at p.
func (w *World) blocking(b *Body, p Vec3) *solid {
	feet := p[1] + b.StepUp
	head := p[1] + b.Height
	for i := range w.solids {
		s := &w.solids[i]
		if s.flat {
			top := s.box.Position[1] + s.half[1]
			bottom := s.box.Position[1] - s.half[1]
			if top <= feet || bottom >= head {
				continue
			}
			if _, hit := s.footprint(p[0], p[2], b.Radius); hit {
				return s
			}
			continue
		}
		for _, o := range probes(b.Radius) {
			bottom, top, hit := s.column(p[0]+o[0], p[2]+o[1])
			if hit && top > feet && bottom < head {
				return s
			}
		}
	}
	return nil
}

func probes(r float64) [5][2]float64 {
	return [5][2]float64{{0, 0}, {r, 0}, {-r, 0}, {0, r}, {0, -r}}
}

// resolvePenetration nudges b out of flat boxes it overlaps.
func (w *World) resolvePenetration(b *Body) {
	feet := b.Position[1] + b.StepUp
	head := b.Position[1] + b.Height
	for i := range w.solids {
		s := &w.solids[i]
		if !s.flat {
			continue
		}
		top := s.box.Position[1] + s.half[1]
		bottom := s.box.Position[1] - s.half[1]
		if top <= feet || bottom >= head {
			continue
		}
		if push, hit := s.footprint(b.Position[0], b.Position[2], b.Radius); hit {
			b.Position[0] += push[0]
			b.Position[2] += push[2]
		}
	}
}

// settle applies vertical velocity and lands b on the highest walkable
// surface below it.
func (w *World) settle(b *Body, dt float64) {
	ground, ok := w.GroundHeight(b.Position, b.StepUp)
	y := b.Position[1] + b.Velocity[1]*dt
	if ok && y <= ground {
		b.Position[1] = ground
		b.Velocity[1] = 0
		b.Grounded = true
		return
	}
	b.Position[1] = y
	b.Grounded = false
}

// GroundHeight returns the highest box top under p that is at most stepUp
// above p.
func (w *World) GroundHeight(p Vec3, stepUp float64) (float64, bool) {
	best, found := math.Inf(-1), false
	limit := p[1] + stepUp
	for i := range w.solids {
		_, top, hit := w.solids[i].column(p[0], p[2])
		if !hit || top > limit {
			continue
		}
		if top > best {
			best, found = top, true
		}
	}
	return best, found
}

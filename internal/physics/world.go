// Package physics steps a first-person body against the static colliders of
// a gallery room.
package physics

import (
	"math"

	"gallery-engine/internal/collider"
	"gallery-engine/internal/mathutil"
)

type Vec3 = mathutil.Vec3

// DefaultGravity is the downward acceleration in units/s².
const DefaultGravity = -30.0

const flatTolerance = 1e-6

type solid struct {
	box  collider.Box
	rot  mathutil.Mat3
	inv  mathutil.Mat3
	half Vec3
	// flat boxes are rotated about Y only and collide by footprint.
	flat bool
	yaw  float64
}

// World is an append-only set of static boxes. It is not safe for
// concurrent use; a room's world is owned by its session.
type World struct {
	Gravity float64
	solids  []solid
}

// NewWorld returns an empty world with default gravity.
func NewWorld() *World {
	return &World{Gravity: DefaultGravity}
}

// AddStatic registers boxes. Boxes are never removed individually.
func (w *World) AddStatic(boxes ...collider.Box) {
	for _, b := range boxes {
		rot := mathutil.EulerXYZ(b.Rotation)
		w.solids = append(w.solids, solid{
			box:  b,
			rot:  rot,
			inv:  rot.Transpose(),
			half: b.Half(),
			flat: math.Abs(b.Rotation[0]) < flatTolerance && math.Abs(b.Rotation[2]) < flatTolerance,
			yaw:  b.Rotation[1],
		})
	}
}

// Len returns the number of registered boxes.
func (w *World) Len() int {
	return len(w.solids)
}

// Reset tears the whole world down.
func (w *World) Reset() {
	w.solids = w.solids[:0]
}

// column returns the vertical span where the line through (x, z) is inside
// the box.
func (s *solid) column(x, z float64) (bottom, top float64, ok bool) {
	o := s.inv.MulVec3(Vec3{x, 0, z}.Sub(s.box.Position))
	d := s.inv.MulVec3(Vec3{0, 1, 0})

	lo, hi := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if math.Abs(o[i]) > s.half[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (-s.half[i] - o[i]) / d[i]
		t2 := (s.half[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		lo = math.Max(lo, t1)
		hi = math.Min(hi, t2)
		if lo > hi {
			return 0, 0, false
		}
	}
	return lo, hi, true
}

// footprint returns the push-out vector separating a circle at (x, z) from
// the box's Y-rotated footprint, or ok=false when they do not overlap.
func (s *solid) footprint(x, z, radius float64) (push Vec3, ok bool) {
	c := s.box.Position
	toLocal := mathutil.RotY(-s.yaw)
	q := toLocal.MulVec3(Vec3{x - c[0], 0, z - c[2]})
	hx, hz := s.half[0], s.half[2]

	cx := mathutil.Clamp(q[0], -hx, hx)
	cz := mathutil.Clamp(q[2], -hz, hz)
	dx, dz := q[0]-cx, q[2]-cz
	distSq := dx*dx + dz*dz
	if distSq >= radius*radius {
		return Vec3{}, false
	}

	var local Vec3
	if distSq == 0 {
		// centre inside: leave through the nearest face
		left := q[0] + hx
		right := hx - q[0]
		back := q[2] + hz
		front := hz - q[2]
		switch m := math.Min(math.Min(left, right), math.Min(back, front)); m {
		case left:
			local = Vec3{-(left + radius), 0, 0}
		case right:
			local = Vec3{right + radius, 0, 0}
		case back:
			local = Vec3{0, 0, -(back + radius)}
		default:
			local = Vec3{0, 0, front + radius}
		}
	} else {
		dist := math.Sqrt(distSq)
		overlap := radius - dist
		local = Vec3{dx / dist * overlap, 0, dz / dist * overlap}
	}
	return mathutil.RotY(s.yaw).MulVec3(local), true
}

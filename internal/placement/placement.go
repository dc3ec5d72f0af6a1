// Package placement computes artwork slot poses along room walls.
package placement

import (
	"math"

	"gallery-engine/internal/gallery"
	"gallery-engine/internal/mathutil"
)

type Vec3 = mathutil.Vec3

// WallType names one of the canonical room walls or a custom divider.
type WallType string

const (
	Back   WallType = "back"
	Front  WallType = "front"
	Left   WallType = "left"
	Right  WallType = "right"
	Custom WallType = "custom"
)

const (
	DefaultWallOffset     = 0.15
	DefaultHeightPosition = 4.0
)

// DefaultOffsetDirection is used for custom walls that declare none.
var DefaultOffsetDirection = Vec3{0, 0, 1}

// WallSpec describes the wall to lay artworks along. Position, Rotation and
// OffsetDirection are only read for Custom walls.
type WallSpec struct {
	Type            WallType
	Position        Vec3
	Rotation        Vec3
	OffsetDirection *Vec3
}

// Options tunes the layout. Nil fields take the defaults; an explicit zero
// hangs artworks flush with the wall or at floor level.
type Options struct {
	WallOffset     *float64
	HeightPosition *float64
}

// Float returns a pointer to v for use in Options literals.
func Float(v float64) *float64 {
	return &v
}

// Resolve returns the wall offset and hanging height with defaults applied.
func (o Options) Resolve() (offset, height float64) {
	offset, height = DefaultWallOffset, DefaultHeightPosition
	if o.WallOffset != nil {
		offset = *o.WallOffset
	}
	if o.HeightPosition != nil {
		height = *o.HeightPosition
	}
	return offset, height
}

// Layout holds one position and rotation per artwork, index-aligned.
type Layout struct {
	Positions []Vec3
	Rotations []Vec3
}

// ArtworkSlot is the pose of one artwork instance.
type ArtworkSlot struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
}

// Offsets returns the along-wall coordinates of count evenly spaced
// artworks on a wall of the given length, centred on the wall midpoint.
func Offsets(wallDimension float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	spacing := wallDimension / float64(count+1)
	out := make([]float64, count)
	for i := range out {
		out[i] = spacing*float64(i+1) - wallDimension/2
	}
	return out
}

// ComputeWallPositions lays artworkCount artworks along wall. Degenerate
// input gives degenerate but well-formed output; it never fails.
func ComputeWallPositions(wall WallSpec, wallDimension float64, artworkCount int, room gallery.RoomDimensions, opts Options) Layout {
	off, h := opts.Resolve()
	offsets := Offsets(wallDimension, artworkCount)
	l := Layout{
		Positions: make([]Vec3, 0, len(offsets)),
		Rotations: make([]Vec3, 0, len(offsets)),
	}

	for _, p := range offsets {
		var pos, rot Vec3
		switch wall.Type {
		case Back:
			pos = Vec3{p, h, -room.ZAxis/2 + off}
		case Front:
			pos = Vec3{p, h, room.ZAxis/2 - off}
			rot = Vec3{0, math.Pi, 0}
		case Left:
			pos = Vec3{-room.XAxis/2 + off, h, p}
			rot = Vec3{0, math.Pi / 2, 0}
		case Right:
			pos = Vec3{room.XAxis/2 - off, h, p}
			rot = Vec3{0, -math.Pi / 2, 0}
		default:
			pos, rot = customSlot(wall, p, h, off)
		}
		l.Positions = append(l.Positions, pos)
		l.Rotations = append(l.Rotations, rot)
	}
	return l
}

func customSlot(wall WallSpec, p, h, off float64) (Vec3, Vec3) {
	dir := DefaultOffsetDirection
	if wall.OffsetDirection != nil {
		dir = *wall.OffsetDirection
	}
	ry := wall.Rotation[1]
	// A wall rotated mostly about Y by ~90 degrees runs along Z.
	if math.Abs(math.Sin(ry)) > math.Abs(math.Cos(ry)) {
		return Vec3{wall.Position[0] + dir[0]*off, h, wall.Position[2] + p}, wall.Rotation
	}
	return Vec3{wall.Position[0] + p, h, wall.Position[2] + dir[2]*off}, wall.Rotation
}

// Slots zips a layout into per-artwork poses.
func Slots(l Layout) []ArtworkSlot {
	n := min(len(l.Positions), len(l.Rotations))
	out := make([]ArtworkSlot, n)
	for i := 0; i < n; i++ {
		out[i] = ArtworkSlot{Position: l.Positions[i], Rotation: l.Rotations[i]}
	}
	return out
}

// WallCounts is the number of artworks to hang on each canonical wall.
type WallCounts struct {
	Back, Front, Left, Right int
}

// PlanRoom lays out all four canonical walls in back, front, left, right
// order and returns them as a template placement list.
func PlanRoom(room gallery.RoomDimensions, counts WallCounts, opts Options) []gallery.Placement {
	walls := []struct {
		t     WallType
		dim   float64
		count int
	}{
		{Back, room.XAxis, counts.Back},
		{Front, room.XAxis, counts.Front},
		{Left, room.ZAxis, counts.Left},
		{Right, room.ZAxis, counts.Right},
	}

	var out []gallery.Placement
	for _, w := range walls {
		l := ComputeWallPositions(WallSpec{Type: w.t}, w.dim, w.count, room, opts)
		for _, s := range Slots(l) {
			out = append(out, gallery.Placement{Position: s.Position, Rotation: s.Rotation})
		}
	}
	if out == nil {
		out = []gallery.Placement{}
	}
	return out
}

// Spread deals n artworks round-robin onto the back, left, right and
// front walls, so the wall facing the entrance fills first.
func Spread(n int) WallCounts {
	var c WallCounts
	for i := 0; i < n; i++ {
		switch i % 4 {
		case 0:
			c.Back++
		case 1:
			c.Left++
		case 2:
			c.Right++
		default:
			c.Front++
		}
	}
	return c
}

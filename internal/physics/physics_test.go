package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-engine/internal/collider"
	"gallery-engine/internal/gallery"
)

const frame = 1.0 / 60

var floor = collider.Box{Position: Vec3{0, -0.05, 0}, Extents: Vec3{40, 0.1, 40}}

func world(boxes ...collider.Box) *World {
	w := NewWorld()
	w.AddStatic(floor)
	w.AddStatic(boxes...)
	return w
}

func TestRestsOnFloor(t *testing.T) {
	w := world()
	b := NewBody(Vec3{})
	for i := 0; i < 30; i++ {
		w.Step(b, frame)
	}
	assert.InDelta(t, 0, b.Position[1], 1e-12)
	assert.True(t, b.Grounded)
}

func TestFallsToFloor(t *testing.T) {
	w := world()
	b := NewBody(Vec3{0, 3, 0})
	w.Step(b, frame)
	assert.False(t, b.Grounded)
	assert.Less(t, b.Position[1], 3.0)

	for i := 0; i < 60; i++ {
		w.Step(b, frame)
	}
	assert.InDelta(t, 0, b.Position[1], 1e-12)
	assert.True(t, b.Grounded)
}

func TestZeroDt(t *testing.T) {
	w := world()
	b := NewBody(Vec3{1, 2, 3})
	b.Velocity = Vec3{1, 1, 1}
	w.Step(b, 0)
	assert.Equal(t, Vec3{1, 2, 3}, b.Position)
	assert.Equal(t, Vec3{1, 1, 1}, b.Velocity)
}

func TestDamping(t *testing.T) {
	w := world()
	b := NewBody(Vec3{})
	b.Velocity = Vec3{6, 0, 0}
	w.Step(b, frame)
	assert.InDelta(t, 6*math.Pow(0.03, frame), b.Velocity[0], 1e-9)
}

var wall = collider.Box{Position: Vec3{2, 1.5, 0}, Extents: Vec3{0.2, 3, 10}, Friction: 0.1}

func TestWallStopsBody(t *testing.T) {
	w := world(wall)
	b := NewBody(Vec3{})
	for i := 0; i < 120; i++ {
		b.Velocity[0] = 5
		w.Step(b, frame)
	}
	assert.LessOrEqual(t, b.Position[0], 1.5+1e-9)
	assert.Greater(t, b.Position[0], 1.4)
	assert.InDelta(t, 0, b.Position[1], 1e-12)
}

func TestWallSlide(t *testing.T) {
	w := world(wall)
	b := NewBody(Vec3{1.45, 0, 0})
	for i := 0; i < 60; i++ {
		b.Velocity[0] = 5
		b.Velocity[2] = 5
		w.Step(b, frame)
	}
	assert.LessOrEqual(t, b.Position[0], 1.5+1e-9)
	assert.Greater(t, b.Position[2], 1.0)
}

func TestStepUp(t *testing.T) {
	step := collider.Box{Position: Vec3{0, 0.15, -2}, Extents: Vec3{2, 0.3, 2}, Friction: 0.1}
	w := world(step)
	b := NewBody(Vec3{})
	for i := 0; i < 30; i++ {
		b.Velocity[2] = -5
		w.Step(b, frame)
	}
	require.Less(t, b.Position[2], -1.0)
	assert.InDelta(t, 0.3, b.Position[1], 1e-9)
	assert.True(t, b.Grounded)
}

func TestTallBoxBlocks(t *testing.T) {
	block := collider.Box{Position: Vec3{0, 0.5, -2}, Extents: Vec3{2, 1, 2}, Friction: 0.1}
	w := world(block)
	b := NewBody(Vec3{})
	for i := 0; i < 60; i++ {
		b.Velocity[2] = -5
		w.Step(b, frame)
	}
	assert.GreaterOrEqual(t, b.Position[2], -0.6-1e-9)
	assert.InDelta(t, 0, b.Position[1], 1e-12)
}

func TestPenetrationRotatedWall(t *testing.T) {
	diag := collider.Box{Rotation: Vec3{0, math.Pi / 4, 0}, Position: Vec3{0, 1.5, 0}, Extents: Vec3{4, 3, 0.2}}
	w := world(diag)
	b := NewBody(Vec3{})
	w.Step(b, frame)

	n := Vec3{math.Sin(math.Pi / 4), 0, math.Cos(math.Pi / 4)}
	assert.GreaterOrEqual(t, math.Abs(b.Position.Dot(n)), 0.5-1e-9)
}

func TestGroundHeightRamp(t *testing.T) {
	ramp := collider.Box{Rotation: Vec3{math.Pi / 4, 0, 0}, Extents: Vec3{2, 0.2, 4}}
	w := NewWorld()
	w.AddStatic(ramp)

	h, ok := w.GroundHeight(Vec3{0, 0, 0}, 10)
	require.True(t, ok)
	assert.InDelta(t, 0.1*math.Sqrt2, h, 1e-9)

	h, ok = w.GroundHeight(Vec3{0, 0, -1}, 10)
	require.True(t, ok)
	assert.InDelta(t, 1+0.1*math.Sqrt2, h, 1e-9)

	_, ok = w.GroundHeight(Vec3{0, 0, -1}, 0.5)
	assert.False(t, ok, "surface above step-up is not ground")

	_, ok = w.GroundHeight(Vec3{5, 0, 0}, 10)
	assert.False(t, ok)
}

func TestRoomColliders(t *testing.T) {
	tpl := gallery.Template{
		Dimensions:    gallery.RoomDimensions{XAxis: 10, YAxis: 4, ZAxis: 10},
		WallThickness: 0.2,
		CustomColliders: []gallery.ColliderConfig{
			{Shape: gallery.ShapeBox, Position: Vec3{0, 1, 0}, Args: Vec3{1, 2, 1}},
		},
	}
	set := collider.Synthesize(tpl, collider.Options{})
	w := NewWorld()
	w.AddStatic(set.Boxes()...)
	assert.Equal(t, len(set.Boxes()), w.Len())

	b := NewBody(Vec3{3, 0, 3})
	for i := 0; i < 300; i++ {
		b.Velocity[0] = 6
		b.Velocity[2] = 6
		w.Step(b, frame)
	}
	assert.Less(t, b.Position[0], 5.0)
	assert.Less(t, b.Position[2], 5.0)
	assert.InDelta(t, 0, b.Position[1], 1e-12)

	w.Reset()
	assert.Zero(t, w.Len())
}

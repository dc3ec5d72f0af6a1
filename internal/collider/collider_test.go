package collider

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-engine/internal/gallery"
	"gallery-engine/internal/mathutil"
)

func template() gallery.Template {
	return gallery.Template{
		Dimensions:    gallery.RoomDimensions{XAxis: 20, YAxis: 10, ZAxis: 40},
		WallThickness: 0.2,
		WallHeight:    6,
	}
}

func TestWalls(t *testing.T) {
	s := Synthesize(template(), Options{})
	require.Len(t, s.Walls, 4)
	require.Empty(t, s.Custom)

	want := []struct {
		name string
		pos  Vec3
		size Vec3
	}{
		{"back", Vec3{0, 3, -20}, Vec3{20, 6, 0.2}},
		{"front", Vec3{0, 3, 20}, Vec3{20, 6, 0.2}},
		{"left", Vec3{-10, 3, 0}, Vec3{0.2, 6, 40}},
		{"right", Vec3{10, 3, 0}, Vec3{0.2, 6, 40}},
	}
	for i, w := range want {
		c := s.Walls[i]
		assert.Equal(t, w.name, c.Name)
		require.Len(t, c.Boxes, 1)
		assert.Equal(t, w.pos, c.Boxes[0].Position)
		assert.Equal(t, w.size, c.Boxes[0].Extents)
		assert.Equal(t, WallFriction, c.Boxes[0].Friction)
	}

	assert.Equal(t, 0.0, s.Floor.Friction)
	assert.InDelta(t, 0.0, s.Floor.Position[1]+s.Floor.Half()[1], 1e-12)
}

func TestWallHeightFallback(t *testing.T) {
	tpl := template()
	tpl.WallHeight = 0
	assert.Equal(t, 10.0, WallHeight(tpl))

	tpl.Dimensions.YAxis = 0
	assert.Equal(t, DefaultWallHeight, WallHeight(tpl))
}

func TestCountIsFourPlusCustom(t *testing.T) {
	shapes := []gallery.ColliderShape{gallery.ShapeBox, gallery.ShapeStairs, gallery.ShapeCurved, "", "unknown"}
	for n := 0; n <= len(shapes); n++ {
		tpl := template()
		for i := 0; i < n; i++ {
			tpl.CustomColliders = append(tpl.CustomColliders, gallery.ColliderConfig{
				Shape:  shapes[i],
				Args:   Vec3{1, 1, 1},
				Radius: 2,
				Height: 3,
			})
		}
		s := Synthesize(tpl, Options{})
		assert.Equal(t, 4+n, s.Count())
		assert.Len(t, s.Walls, 4)
		assert.Len(t, s.Custom, n)
	}
}

func TestCustomBox(t *testing.T) {
	tpl := template()
	tpl.CustomColliders = []gallery.ColliderConfig{
		{Shape: gallery.ShapeBox, Position: Vec3{1, 2, 3}, Rotation: Vec3{0, 0.5, 0}, Args: Vec3{2, 4, 1}},
		{Shape: gallery.ShapeBox, Name: "plinth", Args: Vec3{1, 1, 1}, Friction: 0.7},
	}
	s := Synthesize(tpl, Options{BoxFriction: 0.2})
	require.Len(t, s.Custom, 2)

	b := s.Custom[0].Boxes[0]
	assert.Equal(t, "custom-0", s.Custom[0].Name)
	assert.Equal(t, Vec3{1, 2, 3}, b.Position)
	assert.Equal(t, Vec3{0, 0.5, 0}, b.Rotation)
	assert.Equal(t, Vec3{2, 4, 1}, b.Extents)
	assert.Equal(t, 0.2, b.Friction)

	assert.Equal(t, "plinth", s.Custom[1].Name)
	assert.Equal(t, 0.7, s.Custom[1].Boxes[0].Friction)
}

func TestStairsDefaults(t *testing.T) {
	boxes := Stairs(gallery.ColliderConfig{Shape: gallery.ShapeStairs, Position: Vec3{6.6, 0, 7}})
	require.Len(t, boxes, StairSteps+1)

	base := boxes[0]
	assert.Equal(t, StairBaseSize, base.Extents)
	assert.InDelta(t, 1.5, base.Position[1], 1e-12)
	assert.InDelta(t, math.Pi/4, base.Rotation[0], 1e-9)
	assert.InDelta(t, 0, base.Rotation[1], 1e-9)
	assert.Equal(t, StairFriction, base.Friction)

	for i, b := range boxes[1:] {
		assert.Equal(t, StairStepSize, b.Extents)
		assert.InDelta(t, 6.6, b.Position[0], 1e-9)
		assert.InDelta(t, float64(i)*StairStepHeight, b.Position[1], 1e-9)
		assert.InDelta(t, 7-float64(i)*StairStepDepth, b.Position[2], 1e-9)
	}
}

func TestStairsRotated(t *testing.T) {
	boxes := Stairs(gallery.ColliderConfig{
		Steps:      3,
		StepHeight: 0.25,
		StepDepth:  1,
		Rotation:   Vec3{0, math.Pi / 2, 0},
	})
	require.Len(t, boxes, 4)

	// Climbing toward -Z rotated a quarter turn about Y climbs toward -X.
	last := boxes[3].Position
	assert.InDelta(t, -2, last[0], 1e-9)
	assert.InDelta(t, 0.5, last[1], 1e-9)
	assert.InDelta(t, 0, last[2], 1e-9)

	want := mathutil.Mat3Mul(mathutil.RotY(math.Pi/2), mathutil.RotX(StairTilt))
	got := mathutil.EulerXYZ(boxes[1].Rotation)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

func TestCurved(t *testing.T) {
	c := gallery.ColliderConfig{Shape: gallery.ShapeCurved, Position: Vec3{1, 0, 1}, Radius: 3, Height: 4, Segments: 8, Arc: math.Pi}
	boxes := Curved(c, 0.1)
	require.Len(t, boxes, 8)

	for _, b := range boxes {
		d := b.Position.Sub(c.Position)
		assert.InDelta(t, 3, math.Hypot(d[0], d[2]), 1e-9)
		assert.InDelta(t, 2, d[1], 1e-9)
		assert.InDelta(t, 4, b.Extents[1], 1e-9)
		// local +Z of each segment points away from the centre
		n := mathutil.EulerXYZ(b.Rotation).MulVec3(Vec3{0, 0, 1})
		assert.InDelta(t, 1, n.Dot(Vec3{d[0], 0, d[2]}.Normalize()), 1e-9)
	}
	// half circle centred on +Z stays in z >= c.z
	for _, b := range boxes {
		assert.GreaterOrEqual(t, b.Position[2], 1.0)
	}

	full := Curved(gallery.ColliderConfig{Radius: 1, Height: 1}, 0.1)
	assert.Len(t, full, CurvedSegments)
}

func TestBoxesFlatten(t *testing.T) {
	tpl := template()
	tpl.CustomColliders = []gallery.ColliderConfig{{Shape: gallery.ShapeStairs}}
	s := Synthesize(tpl, Options{})
	boxes := s.Boxes()
	assert.Len(t, boxes, 4+StairSteps+1+1)
	assert.Equal(t, s.Floor, boxes[len(boxes)-1])
}

func TestDegenerateTemplate(t *testing.T) {
	s := Synthesize(gallery.Template{}, Options{})
	assert.Len(t, s.Walls, 4)
	assert.Equal(t, DefaultWallHeight, s.Walls[0].Boxes[0].Extents[1])
}

// Package collider derives the invisible static collision volumes of a
// gallery room from its template.
package collider

import (
	"math"
	"strconv"

	"gallery-engine/internal/gallery"
	"gallery-engine/internal/mathutil"
)

type Vec3 = mathutil.Vec3

const (
	DefaultWallHeight = 3.0
	WallFriction      = 0.1
	BoxFriction       = 0.1
	FloorThickness    = 0.1
)

// Staircase defaults, matching the stock low-poly stair model.
const (
	StairSteps      = 12
	StairStepHeight = 0.4
	StairStepDepth  = 0.5
	StairLift       = 1.5
	StairTilt       = math.Pi / 4
	StairFriction   = 0.3
)

var (
	StairBaseSize = Vec3{4, 0.2, 20}
	StairStepSize = Vec3{4, 0.1, 0.8}
)

// Curved collider defaults.
const (
	CurvedSegments  = 32
	CurvedArc       = 2 * math.Pi
	CurvedThickness = 0.2
)

// Box is one static, invisible collision box. Extents are full sizes;
// Rotation is intrinsic XYZ Euler angles in radians.
type Box struct {
	Position Vec3    `json:"position"`
	Rotation Vec3    `json:"rotation"`
	Extents  Vec3    `json:"extents"`
	Friction float64 `json:"friction"`
}

// Half returns the half extents.
func (b Box) Half() Vec3 {
	return b.Extents.Scale(0.5)
}

// Collider is a named group of boxes created from one wall or one template
// custom collider.
type Collider struct {
	Name  string                `json:"name"`
	Shape gallery.ColliderShape `json:"shape"`
	Boxes []Box                 `json:"boxes"`
}

// Set is every collision volume of a room.
type Set struct {
	Walls  []Collider `json:"walls"`
	Custom []Collider `json:"custom"`
	Floor  Box        `json:"floor"`
}

// Count is the number of colliders (walls and custom), excluding the floor.
func (s Set) Count() int {
	return len(s.Walls) + len(s.Custom)
}

// Boxes flattens the set in registration order: walls, custom, floor.
func (s Set) Boxes() []Box {
	var out []Box
	for _, c := range s.Walls {
		out = append(out, c.Boxes...)
	}
	for _, c := range s.Custom {
		out = append(out, c.Boxes...)
	}
	return append(out, s.Floor)
}

// Options overrides material defaults. Non-positive fields take defaults.
type Options struct {
	WallFriction float64
	BoxFriction  float64
}

func (o Options) resolve() Options {
	if o.WallFriction <= 0 {
		o.WallFriction = WallFriction
	}
	if o.BoxFriction <= 0 {
		o.BoxFriction = BoxFriction
	}
	return o
}

// WallHeight returns the template wall height, falling back to the room
// height and then DefaultWallHeight.
func WallHeight(t gallery.Template) float64 {
	switch {
	case t.WallHeight > 0:
		return t.WallHeight
	case t.Dimensions.YAxis > 0:
		return t.Dimensions.YAxis
	default:
		return DefaultWallHeight
	}
}

// Synthesize builds the four canonical wall colliders, one collider per
// template custom collider, and the floor.
func Synthesize(t gallery.Template, opts Options) Set {
	opts = opts.resolve()
	x, z := t.Dimensions.XAxis, t.Dimensions.ZAxis
	h := WallHeight(t)
	th := t.WallThickness

	wall := func(name string, pos, size Vec3) Collider {
		return Collider{
			Name:  name,
			Shape: gallery.ShapeBox,
			Boxes: []Box{{Position: pos, Extents: size, Friction: opts.WallFriction}},
		}
	}

	s := Set{
		Walls: []Collider{
			wall("back", Vec3{0, h / 2, -z / 2}, Vec3{x, h, th}),
			wall("front", Vec3{0, h / 2, z / 2}, Vec3{x, h, th}),
			wall("left", Vec3{-x / 2, h / 2, 0}, Vec3{th, h, z}),
			wall("right", Vec3{x / 2, h / 2, 0}, Vec3{th, h, z}),
		},
		Custom: make([]Collider, 0, len(t.CustomColliders)),
		Floor: Box{
			Position: Vec3{0, -FloorThickness / 2, 0},
			Extents:  Vec3{x + 2*th, FloorThickness, z + 2*th},
		},
	}

	for i, c := range t.CustomColliders {
		s.Custom = append(s.Custom, Custom(c, i, opts))
	}
	return s
}

// Custom expands one template collider into its boxes. Unknown shapes are
// treated as boxes.
func Custom(c gallery.ColliderConfig, index int, opts Options) Collider {
	opts = opts.resolve()
	name := c.Name
	if name == "" {
		name = "custom-" + strconv.Itoa(index)
	}

	switch c.Shape {
	case gallery.ShapeStairs:
		return Collider{Name: name, Shape: c.Shape, Boxes: Stairs(c)}
	case gallery.ShapeCurved:
		return Collider{Name: name, Shape: c.Shape, Boxes: Curved(c, friction(c, opts.BoxFriction))}
	default:
		return Collider{
			Name:  name,
			Shape: gallery.ShapeBox,
			Boxes: []Box{{
				Position: c.Position,
				Rotation: c.Rotation,
				Extents:  c.Args,
				Friction: friction(c, opts.BoxFriction),
			}},
		}
	}
}

// Stairs builds a sloped base box plus one box per step. The staircase
// climbs toward -Z in its own frame; only the Y component of c.Rotation is
// applied so the treads stay tilted about the stair's own X axis.
func Stairs(c gallery.ColliderConfig) []Box {
	steps := c.Steps
	if steps <= 0 {
		steps = StairSteps
	}
	rise := c.StepHeight
	if rise <= 0 {
		rise = StairStepHeight
	}
	depth := c.StepDepth
	if depth <= 0 {
		depth = StairStepDepth
	}
	stepSize := StairStepSize
	if c.Args != (Vec3{}) {
		stepSize = c.Args
	}
	fr := friction(c, StairFriction)

	yaw := mathutil.RotY(c.Rotation[1])
	rot := mathutil.EulerFromMat3(mathutil.Mat3Mul(yaw, mathutil.RotX(StairTilt)))
	at := func(local Vec3) Vec3 {
		return c.Position.Add(yaw.MulVec3(local))
	}

	boxes := make([]Box, 0, steps+1)
	boxes = append(boxes, Box{
		Position: at(Vec3{0, StairLift, 0}),
		Rotation: rot,
		Extents:  StairBaseSize,
		Friction: fr,
	})
	for i := 0; i < steps; i++ {
		boxes = append(boxes, Box{
			Position: at(Vec3{0, float64(i) * rise, -float64(i) * depth}),
			Rotation: rot,
			Extents:  stepSize,
			Friction: fr,
		})
	}
	return boxes
}

// Curved approximates a cylindrical wall section of c.Radius and c.Height
// with c.Segments flat boxes tangent to the arc. The arc is centred on the
// collider's local +Z axis.
func Curved(c gallery.ColliderConfig, fr float64) []Box {
	segs := c.Segments
	if segs <= 0 {
		segs = CurvedSegments
	}
	arc := c.Arc
	if arc <= 0 {
		arc = CurvedArc
	}
	r, h := c.Radius, c.Height

	frame := mathutil.EulerXYZ(c.Rotation)
	step := arc / float64(segs)
	chord := 2 * r * math.Sin(step/2)

	boxes := make([]Box, 0, segs)
	for i := 0; i < segs; i++ {
		theta := -arc/2 + (float64(i)+0.5)*step
		local := Vec3{r * math.Sin(theta), h / 2, r * math.Cos(theta)}
		boxes = append(boxes, Box{
			Position: c.Position.Add(frame.MulVec3(local)),
			Rotation: mathutil.EulerFromMat3(mathutil.Mat3Mul(frame, mathutil.RotY(theta))),
			Extents:  Vec3{chord, h, CurvedThickness},
			Friction: fr,
		})
	}
	return boxes
}

func friction(c gallery.ColliderConfig, def float64) float64 {
	if c.Friction > 0 {
		return c.Friction
	}
	return def
}

package raster

import (
	"image"
	"image/color"
	"math"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/collider"
	"gallery-engine/internal/mathutil"
	"gallery-engine/internal/texture"
)

// Palette colors the plan layers.
type Palette struct {
	Background color.NRGBA
	Floor      color.NRGBA
	Wall       color.NRGBA
	Custom     color.NRGBA
	Artwork    color.NRGBA
	Spawn      color.NRGBA
}

// DefaultPalette is the palette used when Options leaves it zero.
func DefaultPalette() Palette {
	return Palette{
		Background: color.NRGBA{0, 0, 0, 0},
		Floor:      color.NRGBA{228, 222, 210, 255},
		Wall:       color.NRGBA{70, 74, 84, 255},
		Custom:     color.NRGBA{196, 120, 60, 255},
		Artwork:    color.NRGBA{200, 40, 60, 255},
		Spawn:      color.NRGBA{40, 140, 220, 255},
	}
}

// Options configures RenderPlan.
type Options struct {
	// Size is the long side of the output in pixels.
	Size int
	// Supersample renders at Size*Supersample and filters down.
	Supersample int
	// Margin in output pixels around the room.
	Margin int
	// Spawn, when set, is marked on the plan.
	Spawn *mathutil.Vec3
	// Textures colors artwork frames with their images when set.
	Textures texture.Resolver
	Palette  *Palette
}

const (
	// DefaultArtworkWidth is used for artworks without dimensions, in meters.
	DefaultArtworkWidth = 1.0
	frameDepth          = 0.08
	minFramePixels      = 3.0
)

// plan maps world XZ onto pixels; world -Z is up in the image.
type plan struct {
	minX, minZ float64
	scale      float64
	margin     float64
}

func (p plan) project(v mathutil.Vec3) Vertex {
	return Vertex{
		X: (v[0]-p.minX)*p.scale + p.margin,
		Y: (v[2]-p.minZ)*p.scale + p.margin,
		Z: v[1],
	}
}

// box corner index bits: 1 → +x, 2 → +y, 4 → +z
var boxFaces = [6][4]int{
	{0, 2, 6, 4}, {1, 3, 7, 5},
	{0, 1, 5, 4}, {2, 3, 7, 6},
	{0, 1, 3, 2}, {4, 5, 7, 6},
}

var faceNormals = [6]mathutil.Vec3{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

func corners(b collider.Box) [8]mathutil.Vec3 {
	m := mathutil.Compose(b.Position, b.Rotation)
	h := b.Half()
	var out [8]mathutil.Vec3
	for i := range out {
		local := mathutil.Vec3{-h[0], -h[1], -h[2]}
		if i&1 != 0 {
			local[0] = h[0]
		}
		if i&2 != 0 {
			local[1] = h[1]
		}
		if i&4 != 0 {
			local[2] = h[2]
		}
		out[i] = m.MulPoint(local)
	}
	return out
}

// Projection maps world XZ onto the pixels of a rendered plan.
type Projection struct {
	MinX, MinZ    float64
	Scale         float64 // pixels per meter
	Margin        float64
	Width, Height int
}

// Pixel returns the plan pixel under world point v.
func (p Projection) Pixel(v mathutil.Vec3) (x, y float64) {
	return (v[0]-p.MinX)*p.Scale + p.Margin, (v[2]-p.MinZ)*p.Scale + p.Margin
}

func resolveOptions(opts Options) (size, ss int) {
	size = opts.Size
	if size <= 0 {
		size = 512
	}
	ss = opts.Supersample
	if ss <= 0 {
		ss = 1
	}
	return size, ss
}

// layout frames every box of set at render resolution.
func layout(set collider.Set, size, margin int) (plan, int, int) {
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, b := range set.Boxes() {
		for _, c := range corners(b) {
			minX, maxX = math.Min(minX, c[0]), math.Max(maxX, c[0])
			minZ, maxZ = math.Min(minZ, c[2]), math.Max(maxZ, c[2])
		}
	}
	spanX, spanZ := maxX-minX, maxZ-minZ
	if math.IsInf(minX, 0) || spanX < 1e-3 || spanZ < 1e-3 {
		// nothing to frame
		minX, minZ, spanX, spanZ = -0.5, -0.5, 1, 1
	}

	avail := size - 2*margin
	if avail < 1 {
		avail = 1
		margin = 0
	}
	scale := float64(avail) / math.Max(spanX, spanZ)
	w := int(math.Round(spanX*scale)) + 2*margin
	h := int(math.Round(spanZ*scale)) + 2*margin
	return plan{minX: minX, minZ: minZ, scale: scale, margin: float64(margin)}, w, h
}

// Project returns the mapping RenderPlan uses for set and opts, at output
// resolution.
func Project(set collider.Set, opts Options) Projection {
	size, ss := resolveOptions(opts)
	p, w, h := layout(set, size*ss, opts.Margin*ss)
	w, h = max(w, ss), max(h, ss)
	f := float64(ss)
	return Projection{
		MinX:   p.minX,
		MinZ:   p.minZ,
		Scale:  p.scale / f,
		Margin: p.margin / f,
		Width:  w / ss,
		Height: h / ss,
	}
}

// RenderPlan draws the room from above: floor, walls, custom colliders,
// artwork frames with a facing marker, and the optional spawn point.
func RenderPlan(cfg assemble.Config, set collider.Set, opts Options) *image.NRGBA {
	size, ss := resolveOptions(opts)
	pal := DefaultPalette()
	if opts.Palette != nil {
		pal = *opts.Palette
	}

	p, w, h := layout(set, size*ss, opts.Margin*ss)
	w, h = max(w, ss), max(h, ss)
	fb := NewFrameBuffer(w, h)
	fb.Clear(pal.Background)

	drawBox(fb, p, set.Floor, pal.Floor)
	for _, c := range set.Walls {
		for _, b := range c.Boxes {
			drawBox(fb, p, b, pal.Wall)
		}
	}
	for _, c := range set.Custom {
		for _, b := range c.Boxes {
			drawBox(fb, p, b, pal.Custom)
		}
	}

	overlay := 1.0
	for _, b := range set.Boxes() {
		for _, c := range corners(b) {
			overlay = math.Max(overlay, c[1]+1)
		}
	}
	for _, a := range cfg.Artworks {
		overlay = math.Max(overlay, a.Position[1]+1)
	}
	for _, a := range cfg.Artworks {
		drawArtwork(fb, p, a, overlay, pal.Artwork, opts.Textures)
	}
	if opts.Spawn != nil {
		drawMarker(fb, p, *opts.Spawn, 0.3, overlay, pal.Spawn)
	}

	img := fb.Image()
	if ss > 1 {
		img = Downsample(img, w/ss, h/ss)
	}
	return img
}

func drawBox(fb *FrameBuffer, p plan, b collider.Box, c color.NRGBA) {
	r := mathutil.EulerXYZ(b.Rotation)
	cs := corners(b)
	for fi, face := range boxFaces {
		n := r.MulVec3(faceNormals[fi])
		if n[1] <= 1e-6 {
			continue
		}
		f := Fill{R: c.R, G: c.G, B: c.B, A: c.A, Shade: 0.75 + 0.25*n[1]}
		Quad(fb, p.project(cs[face[0]]), p.project(cs[face[1]]), p.project(cs[face[2]]), p.project(cs[face[3]]), f)
	}
}

// drawArtwork draws the frame as a thin strip along the wall. With a
// texture the strip shows the image's middle band.
func drawArtwork(fb *FrameBuffer, p plan, a assemble.Artwork, z float64, c color.NRGBA, tex texture.Resolver) {
	r := mathutil.EulerXYZ(a.Rotation)
	along := r.MulVec3(mathutil.Vec3{1, 0, 0})
	facing := r.MulVec3(mathutil.Vec3{0, 0, 1})
	along[1], facing[1] = 0, 0
	if along.Len() < 1e-6 || facing.Len() < 1e-6 {
		// frame lies flat; mark its position only
		drawMarker(fb, p, a.Position, 0.2, z, c)
		return
	}
	along, facing = along.Normalize(), facing.Normalize()

	width := DefaultArtworkWidth
	if a.Meta.Dimensions.Width > 0 {
		width = a.Meta.Dimensions.Width / 100
	}
	depth := math.Max(frameDepth, minFramePixels/p.scale)

	half := along.Scale(width / 2)
	back := facing.Scale(-depth / 2)
	front := facing.Scale(depth / 2)
	v0 := p.project(a.Position.Sub(half).Add(back))
	v1 := p.project(a.Position.Add(half).Add(back))
	v2 := p.project(a.Position.Add(half).Add(front))
	v3 := p.project(a.Position.Sub(half).Add(front))
	v0.Z, v1.Z, v2.Z, v3.Z = z, z, z, z

	f := Fill{R: c.R, G: c.G, B: c.B, A: c.A}
	if tex != nil {
		if img := tex.Resolve(a.Meta); img != nil {
			f.Tex = img
			v0.U, v0.V = 0, 0.45
			v1.U, v1.V = 1, 0.45
			v2.U, v2.V = 1, 0.55
			v3.U, v3.V = 0, 0.55
			c.R, c.G, c.B = AverageColor(img)
		}
	}
	Quad(fb, v0, v1, v2, v3, f)

	// facing marker: a small wedge pointing into the room
	tip := a.Position.Add(facing.Scale(depth/2 + math.Min(width, 1)*0.3))
	base := a.Position.Add(front)
	t0 := p.project(base.Sub(along.Scale(width * 0.15)))
	t1 := p.project(base.Add(along.Scale(width * 0.15)))
	t2 := p.project(tip)
	t0.Z, t1.Z, t2.Z = z, z, z
	RasterizeTriangle(fb, t0, t1, t2, Fill{R: c.R, G: c.G, B: c.B, A: 255, Shade: 0.8})
}

func drawMarker(fb *FrameBuffer, p plan, at mathutil.Vec3, radius, z float64, c color.NRGBA) {
	radius = math.Max(radius, minFramePixels/p.scale)
	n := p.project(at.Add(mathutil.Vec3{0, 0, -radius}))
	e := p.project(at.Add(mathutil.Vec3{radius, 0, 0}))
	s := p.project(at.Add(mathutil.Vec3{0, 0, radius}))
	w := p.project(at.Add(mathutil.Vec3{-radius, 0, 0}))
	n.Z, e.Z, s.Z, w.Z = z, z, z, z
	Quad(fb, n, e, s, w, Fill{R: c.R, G: c.G, B: c.B, A: 255})
}

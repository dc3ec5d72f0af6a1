package raster

import (
	"image"
	"math"
)

// Vertex is a projected point: pixel coordinates plus world height.
type Vertex struct {
	X, Y float64
	Z    float64
	U, V float64
}

// Fill describes how a triangle is colored. When Tex is set it is sampled
// with the vertices' UVs; otherwise R, G, B, A is used.
type Fill struct {
	R, G, B, A uint8
	Tex        *image.NRGBA
	// Shade multiplies the color; zero means 1.
	Shade float64
}

// RasterizeTriangle fills one triangle with depth testing against the
// interpolated world height. The inner loop does not allocate.
func RasterizeTriangle(fb *FrameBuffer, v0, v1, v2 Vertex, f Fill) {
	x0, y0, z0 := v0.X, v0.Y, v0.Z
	x1, y1, z1 := v1.X, v1.Y, v1.Z
	x2, y2, z2 := v2.X, v2.Y, v2.Z

	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	shade := f.Shade
	if shade == 0 {
		shade = 1
	}

	for sy := minY; sy <= maxY; sy++ {
		// sample at pixel centres
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			idx := rowOff + sx
			if z < fb.Depth[idx] {
				continue
			}

			cr, cg, cb, ca := f.R, f.G, f.B, f.A
			if f.Tex != nil {
				u := w0*v0.U + w1*v1.U + w2*v2.U
				v := w0*v0.V + w1*v1.V + w2*v2.V
				cr, cg, cb, ca = SampleTexture(f.Tex, u, v)
			}
			if ca < 8 {
				continue
			}
			fb.Depth[idx] = z

			p := idx * 4
			fb.Color[p] = clamp255(float64(cr) * shade)
			fb.Color[p+1] = clamp255(float64(cg) * shade)
			fb.Color[p+2] = clamp255(float64(cb) * shade)
			fb.Color[p+3] = 255
		}
	}
}

// Quad rasterizes the convex quad a, b, c, d as two triangles.
func Quad(fb *FrameBuffer, a, b, c, d Vertex, f Fill) {
	RasterizeTriangle(fb, a, b, c, f)
	RasterizeTriangle(fb, a, c, d, f)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

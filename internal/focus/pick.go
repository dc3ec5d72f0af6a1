package focus

import (
	"math"

	"gallery-engine/internal/assemble"
)

// Pick returns the artwork nearest the line of sight from eye along
// forward, considering only artworks within maxAngle radians of it.
// Ties go to the closer artwork.
func Pick(scene assemble.Config, eye, forward Vec3, maxAngle float64) (assemble.Artwork, bool) {
	if forward.Len() < 1e-9 {
		return assemble.Artwork{}, false
	}
	forward = forward.Normalize()
	minCos := math.Cos(maxAngle)

	best, found := -1, false
	bestCos, bestDist := 0.0, 0.0
	for i, a := range scene.Artworks {
		to := a.Position.Sub(eye)
		d := to.Len()
		if d < 1e-9 {
			continue
		}
		c := forward.Dot(to) / d
		if c < minCos {
			continue
		}
		if !found || c > bestCos+1e-9 || (math.Abs(c-bestCos) <= 1e-9 && d < bestDist) {
			best, bestCos, bestDist, found = i, c, d, true
		}
	}
	if !found {
		return assemble.Artwork{}, false
	}
	return scene.Artworks[best], true
}

package watermark

import "math"

// PageGeometry holds a page's dimensions in points plus the derived diagonal
// used to oversize the tiling bounds. A rotated lattice can expose corners
// outside the unrotated page rectangle, so the grid spans
// [-d/2, W+d/2) x [-d/2, H+d/2) instead of [0,W) x [0,H).
type PageGeometry struct {
	Width    float64
	Height   float64
	Diagonal float64
}

// Geometry derives the tiling geometry for a page of the given size.
func Geometry(width, height float64) PageGeometry {
	return PageGeometry{
		Width:    width,
		Height:   height,
		Diagonal: math.Hypot(width, height),
	}
}

// TilePoint is the anchor of one watermark instance in page coordinates.
type TilePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LatticePoints enumerates every tile anchor for the page, row-major,
// starting at the negative-offset corner and stepping until the positive
// bound is reached (half-open: a point is emitted only while its coordinate
// is strictly below the upper bound). Iteration order is deterministic.
func LatticePoints(g PageGeometry, stepX, stepY float64) []TilePoint {
	stepX = EffectiveSpacing(stepX)
	stepY = EffectiveSpacing(stepY)

	minX := -g.Diagonal / 2
	minY := -g.Diagonal / 2
	maxX := g.Width + g.Diagonal/2
	maxY := g.Height + g.Diagonal/2

	points := make([]TilePoint, 0, TileCount(g, stepX, stepY))
	for y := minY; y < maxY; y += stepY {
		for x := minX; x < maxX; x += stepX {
			points = append(points, TilePoint{X: x, Y: y})
		}
	}
	return points
}

// TileCount returns the number of lattice points LatticePoints will produce.
func TileCount(g PageGeometry, stepX, stepY float64) int {
	stepX = EffectiveSpacing(stepX)
	stepY = EffectiveSpacing(stepY)
	cols := countSteps(g.Width+g.Diagonal, stepX)
	rows := countSteps(g.Height+g.Diagonal, stepY)
	return cols * rows
}

// countSteps walks the same accumulation LatticePoints uses, so float
// rounding cannot make the two disagree.
func countSteps(span, step float64) int {
	n := 0
	for v := 0.0; v < span; v += step {
		n++
	}
	return n
}

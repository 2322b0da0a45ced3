package watermark

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryDiagonal(t *testing.T) {
	g := Geometry(595, 842)
	assert.InDelta(t, math.Sqrt(595*595+842*842), g.Diagonal, 1e-9)
	assert.Equal(t, 595.0, g.Width)
	assert.Equal(t, 842.0, g.Height)
}

func TestLatticePointsCoverOversizedBounds(t *testing.T) {
	cases := []struct {
		w, h         float64
		stepX, stepY float64
	}{
		{595, 842, 250, 250},
		{595, 842, 50, 50},
		{842, 595, 100, 300},
		{200, 200, 1000, 1000},
		{612, 792, 75, 120},
	}

	for _, tc := range cases {
		name := fmt.Sprintf("%gx%g_step%gx%g", tc.w, tc.h, tc.stepX, tc.stepY)
		t.Run(name, func(t *testing.T) {
			g := Geometry(tc.w, tc.h)
			points := LatticePoints(g, tc.stepX, tc.stepY)
			require.NotEmpty(t, points)

			// Every point lies in [-d/2, W+d/2) x [-d/2, H+d/2).
			for _, pt := range points {
				assert.GreaterOrEqual(t, pt.X, -g.Diagonal/2)
				assert.Less(t, pt.X, g.Width+g.Diagonal/2)
				assert.GreaterOrEqual(t, pt.Y, -g.Diagonal/2)
				assert.Less(t, pt.Y, g.Height+g.Diagonal/2)
			}

			// First point is the negative-offset corner.
			assert.Equal(t, -g.Diagonal/2, points[0].X)
			assert.Equal(t, -g.Diagonal/2, points[0].Y)

			// Count matches the closed-form expectation within the
			// off-by-one tolerance of the half-open interval rule.
			wantCols := math.Ceil((tc.w + g.Diagonal) / tc.stepX)
			wantRows := math.Ceil((tc.h + g.Diagonal) / tc.stepY)
			assert.InDelta(t, wantCols*wantRows, float64(len(points)), wantCols+wantRows)

			assert.Equal(t, TileCount(g, tc.stepX, tc.stepY), len(points))
		})
	}
}

func TestLatticePointsRowMajorOrder(t *testing.T) {
	g := Geometry(300, 300)
	points := LatticePoints(g, 200, 200)
	require.Greater(t, len(points), 1)

	// Y never decreases; X resets at each new row.
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if cur.Y == prev.Y {
			assert.Greater(t, cur.X, prev.X)
		} else {
			assert.Greater(t, cur.Y, prev.Y)
			assert.Equal(t, -g.Diagonal/2, cur.X)
		}
	}
}

func TestLatticePointsDeterministic(t *testing.T) {
	g := Geometry(595, 842)
	a := LatticePoints(g, 250, 250)
	b := LatticePoints(g, 250, 250)
	assert.Equal(t, a, b)
}

func TestLatticePointsAppliesSpacingFloor(t *testing.T) {
	g := Geometry(100, 100)

	floored := LatticePoints(g, 5, 5)
	atFloor := LatticePoints(g, SpacingFloor, SpacingFloor)
	assert.Equal(t, atFloor, floored, "sub-floor spacing must behave exactly like the floor")
}

package solvability_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/pathfind"
	"github.com/elsonidoq/cavegen/solvability"
)

func buildGrid(t *testing.T, rows []string) *grid.Grid {
	t.Helper()
	g, err := grid.New(len(rows[0]), len(rows))
	require.NoError(t, err)
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				g.SetAt(x, y, grid.Wall)
			}
		}
	}
	return g
}

// TestValidateSolvability_PrimarySucceeds: A* finds the path, no fallback.
func TestValidateSolvability_PrimarySucceeds(t *testing.T) {
	g := buildGrid(t, []string{
		"#####",
		"#...#",
		"#####",
	})
	res, err := solvability.New().ValidateSolvability(g, grid.Point{X: 1, Y: 1}, grid.Point{X: 3, Y: 1})
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.False(t, res.FallbackUsed)
	require.False(t, res.AllMethodsFailed)
	require.Equal(t, []string{solvability.MethodAStar}, res.VerificationMethods)
	require.Contains(t, res.MethodTimings, solvability.MethodAStar)
	require.NotNil(t, res.Analysis)
	require.Equal(t, 3, res.Analysis.Length)
	require.Equal(t, 2, res.Analysis.Distance)
	require.Zero(t, res.Analysis.Complexity)
}

// TestValidateSolvability_SeparatedRegions: two floor regions fully
// separated by unbroken walls — every method fails.
func TestValidateSolvability_SeparatedRegions(t *testing.T) {
	g := buildGrid(t, []string{
		"..#..",
		"..#..",
		"..#..",
	})
	res, err := solvability.New().ValidateSolvability(g, grid.Point{X: 0, Y: 0}, grid.Point{X: 4, Y: 2})
	require.NoError(t, err)
	require.False(t, res.Valid)
	require.True(t, res.AllMethodsFailed)
	require.Contains(t, res.Issues, "All verification methods failed")
	require.NotEmpty(t, res.Recommendations)
	require.Equal(t, []string{solvability.MethodAStar, solvability.MethodBFS}, res.VerificationMethods)
	require.Contains(t, res.MethodTimings, solvability.MethodBFS)
}

// TestValidateSolvability_InvalidInputs surface as errors, not issues.
func TestValidateSolvability_InvalidInputs(t *testing.T) {
	g := buildGrid(t, []string{"..."})
	v := solvability.New()

	_, err := v.ValidateSolvability(nil, grid.Point{}, grid.Point{})
	require.ErrorIs(t, err, solvability.ErrNilGrid)

	_, err = v.ValidateSolvability(g, grid.Point{X: -1, Y: 0}, grid.Point{X: 1, Y: 0})
	require.ErrorIs(t, err, pathfind.ErrInvalidCoordinate)

	_, err = v.ValidateSolvability(g, grid.Point{X: 0, Y: 0}, grid.Point{X: 3, Y: 0})
	require.ErrorIs(t, err, pathfind.ErrInvalidCoordinate)
}

// TestValidateSolvability_Analysis measures a winding path.
func TestValidateSolvability_Analysis(t *testing.T) {
	g := buildGrid(t, []string{
		"..#",
		".##",
		"...",
	})
	start, end := grid.Point{X: 0, Y: 0}, grid.Point{X: 2, Y: 2}
	res, err := solvability.New().ValidateSolvability(g, start, end)
	require.NoError(t, err)
	require.True(t, res.Valid)
	// Only walk: down, down, right, right — one turn over four steps.
	require.Equal(t, 5, res.Analysis.Length)
	require.Equal(t, 4, res.Analysis.Distance)
	require.InDelta(t, 0.25, res.Analysis.Complexity, 1e-9)
}

// TestValidateSolvability_WallEndpoint: spawn on a wall is unsolvable but
// not an input error.
func TestValidateSolvability_WallEndpoint(t *testing.T) {
	g := buildGrid(t, []string{".#."})
	res, err := solvability.New().ValidateSolvability(g, grid.Point{X: 1, Y: 0}, grid.Point{X: 2, Y: 0})
	require.NoError(t, err)
	require.False(t, res.Valid)
	require.True(t, res.AllMethodsFailed)
}

// TestValidateSolvability_CustomEngine: a diagonal engine still reports
// through the same result shape.
func TestValidateSolvability_CustomEngine(t *testing.T) {
	g := buildGrid(t, []string{
		"...",
		"...",
	})
	v := solvability.New(solvability.WithEngine(pathfind.New(pathfind.WithDiagonal())))
	res, err := v.ValidateSolvability(g, grid.Point{X: 0, Y: 0}, grid.Point{X: 2, Y: 1})
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, 3, res.Analysis.Length)
}

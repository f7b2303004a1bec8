// Package corridor connects disconnected floor regions by carving L-shaped
// corridors between the closest pair of not-yet-merged regions.
//
// Carve never mutates its inputs: it copies the grid, then repeatedly picks
// the unmerged region pair with the smallest nearest-point Manhattan
// distance (brute force over member points), carves one straight run and one
// perpendicular run between the closest points — run order chosen by a
// single seeded draw so identical seeds reproduce identical corridor
// orientation — and merges the pair in a union–find structure. When the
// bookkeeping says everything is merged, the result is re-detected to verify
// a single connected floor component rather than assumed; residual splits
// trigger another round on fresh region data.
//
// The building blocks (ClosestPair, RegionPoints, CarveHorizontalLine,
// CarveVerticalLine, ValidateConnection) are exported for reuse by callers
// that need finer control.
package corridor

import (
	"errors"
	"fmt"

	"github.com/spakin/disjoint"

	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/regions"
	"github.com/elsonidoq/cavegen/rng"
)

// Sentinel errors for carving.
var (
	// ErrNilInput indicates a nil grid, label grid, table, or rng source.
	ErrNilInput = errors.New("corridor: nil input")
	// ErrDimensionMismatch indicates grid and label grid dimensions differ.
	ErrDimensionMismatch = errors.New("corridor: grid and label grid dimensions differ")
	// ErrEmptyRegion indicates a closest-pair query over an empty point set.
	ErrEmptyRegion = errors.New("corridor: region has no points")
)

// maxVerifyRounds bounds re-detection rounds. Carving only adds floor, so
// each round strictly reduces the region count; the initial region count is
// a hard ceiling, and this is a safety net above it.
const maxVerifyRounds = 64

// Carve returns a fresh grid in which every floor region of g has been
// connected into a single component. The inputs are never mutated. When the
// table holds at most one region the result is simply an equivalent copy.
// Complexity: O(R² × P²) point scans for R regions of ≤ P points each,
// dominated by the brute-force closest-pair searches.
func Carve(g *grid.Grid, labels *regions.LabelGrid, table *regions.Table, src *rng.Source) (*grid.Grid, error) {
	if g == nil || labels == nil || table == nil || src == nil {
		return nil, ErrNilInput
	}
	if g.Width() != labels.Width() || g.Height() != labels.Height() {
		return nil, fmt.Errorf("%w: grid %dx%d, labels %dx%d",
			ErrDimensionMismatch, g.Width(), g.Height(), labels.Width(), labels.Height())
	}

	out := g.Copy()
	if table.Count() <= 1 {
		return out, nil
	}
	if err := carveRound(out, labels, table, src); err != nil {
		return nil, err
	}

	// Verified, not assumed: re-detect until the floor mass is one component.
	for round := 0; round < maxVerifyRounds; round++ {
		ok, err := ValidateConnection(out)
		if err != nil {
			return nil, err
		}
		if ok {
			return out, nil
		}
		lg, tbl, err := regions.Detect(out)
		if err != nil {
			return nil, err
		}
		if err := carveRound(out, lg, tbl, src); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("corridor: connectivity not reached after %d rounds", maxVerifyRounds)
}

// carveRound merges every region pair of the given detection, closest pair
// first, writing corridors into out.
func carveRound(out *grid.Grid, labels *regions.LabelGrid, table *regions.Table, src *rng.Source) error {
	count := table.Count()
	if count <= 1 {
		return nil
	}

	// Member points per region, snapshotted once; carving adds floor but
	// never moves the cells a region already owns.
	points := make([][]grid.Point, count)
	sets := make([]*disjoint.Element, count)
	for i, rec := range table.Records() {
		points[i] = RegionPoints(labels, rec.Label)
		sets[i] = disjoint.NewElement()
	}

	// Pairwise closest points, computed once per pair.
	type pairLink struct {
		a, b     int
		from, to grid.Point
		dist     int
	}
	var links []pairLink
	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			from, to, dist, err := ClosestPair(points[i], points[j])
			if err != nil {
				return err
			}
			links = append(links, pairLink{a: i, b: j, from: from, to: to, dist: dist})
		}
	}

	for merged := 1; merged < count; merged++ {
		best := -1
		for i, l := range links {
			if sets[l.a].Find() == sets[l.b].Find() {
				continue
			}
			if best < 0 || l.dist < links[best].dist {
				best = i
			}
		}
		if best < 0 {
			break
		}
		l := links[best]
		carveL(out, l.from, l.to, src)
		disjoint.Union(sets[l.a], sets[l.b])
	}
	return nil
}

// carveL connects from and to with one straight run and one perpendicular
// run. A single uniform draw picks which leg comes first.
func carveL(g *grid.Grid, from, to grid.Point, src *rng.Source) {
	if src.Uniform() < 0.5 {
		CarveHorizontalLine(g, from.Y, from.X, to.X)
		CarveVerticalLine(g, to.X, from.Y, to.Y)
	} else {
		CarveVerticalLine(g, from.X, from.Y, to.Y)
		CarveHorizontalLine(g, to.Y, from.X, to.X)
	}
}

// ClosestPair returns the pair of points (one from a, one from b) with the
// smallest Manhattan distance, scanning every pair. The first minimal pair
// in slice order wins, keeping results deterministic.
// Complexity: O(len(a)×len(b)).
func ClosestPair(a, b []grid.Point) (grid.Point, grid.Point, int, error) {
	if len(a) == 0 || len(b) == 0 {
		return grid.Point{}, grid.Point{}, 0, ErrEmptyRegion
	}
	bestA, bestB := a[0], b[0]
	bestDist := grid.ManhattanDistance(a[0], b[0])
	for _, p := range a {
		for _, q := range b {
			if d := grid.ManhattanDistance(p, q); d < bestDist {
				bestA, bestB, bestDist = p, q, d
			}
		}
	}
	return bestA, bestB, bestDist, nil
}

// RegionPoints returns the coordinates carrying label, in row-major order.
// Complexity: O(W×H).
func RegionPoints(labels *regions.LabelGrid, label int) []grid.Point {
	var pts []grid.Point
	for y := 0; y < labels.Height(); y++ {
		for x := 0; x < labels.Width(); x++ {
			if labels.At(x, y) == label {
				pts = append(pts, grid.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// CarveHorizontalLine sets row y to floor between columns x1 and x2
// inclusive, in either order. Out-of-bounds cells are skipped.
func CarveHorizontalLine(g *grid.Grid, y, x1, x2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		g.Set(x, y, grid.Floor)
	}
}

// CarveVerticalLine sets column x to floor between rows y1 and y2 inclusive,
// in either order. Out-of-bounds cells are skipped.
func CarveVerticalLine(g *grid.Grid, x, y1, y2 int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		g.Set(x, y, grid.Floor)
	}
}

// ValidateConnection re-derives region data from g and reports whether the
// floor mass forms at most one connected component.
func ValidateConnection(g *grid.Grid) (bool, error) {
	if g == nil {
		return false, ErrNilInput
	}
	_, table, err := regions.Detect(g)
	if err != nil {
		return false, err
	}
	return table.Count() <= 1, nil
}

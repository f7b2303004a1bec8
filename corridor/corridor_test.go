package corridor_test

import (
	"errors"
	"testing"

	"github.com/elsonidoq/cavegen/corridor"
	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/regions"
	"github.com/elsonidoq/cavegen/rng"
)

func buildGrid(t *testing.T, rows []string) *grid.Grid {
	t.Helper()
	g, err := grid.New(len(rows[0]), len(rows))
	if err != nil {
		t.Fatal(err)
	}
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				g.SetAt(x, y, grid.Wall)
			}
		}
	}
	return g
}

func mustSource(t *testing.T, seed string) *rng.Source {
	t.Helper()
	src, err := rng.New(seed)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func detect(t *testing.T, g *grid.Grid) (*regions.LabelGrid, *regions.Table) {
	t.Helper()
	lg, table, err := regions.Detect(g)
	if err != nil {
		t.Fatal(err)
	}
	return lg, table
}

// TestCarve_TwoBlocks: the 6×5 two-block scenario ends fully connected.
func TestCarve_TwoBlocks(t *testing.T) {
	g := buildGrid(t, []string{
		"..####",
		"..####",
		"######",
		"####..",
		"####..",
	})
	lg, table := detect(t, g)
	if table.Count() != 2 {
		t.Fatalf("precondition: region count = %d; want 2", table.Count())
	}
	out, err := corridor.Carve(g, lg, table, mustSource(t, "two-blocks"))
	if err != nil {
		t.Fatal(err)
	}
	ok, err := corridor.ValidateConnection(out)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("carved grid is not a single component")
	}
}

// TestCarve_NonMutation: grid and label grid inputs keep their bytes.
func TestCarve_NonMutation(t *testing.T) {
	g := buildGrid(t, []string{
		"..##..",
		"..##..",
		"######",
		"..##..",
	})
	before := g.Copy()
	lg, table := detect(t, g)
	if _, err := corridor.Carve(g, lg, table, mustSource(t, "no-mutate")); err != nil {
		t.Fatal(err)
	}
	if !g.Equal(before) {
		t.Error("Carve mutated its input grid")
	}
	// Label grid must also be untouched: re-read a few labels.
	lg2, _ := detect(t, g)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if lg.At(x, y) != lg2.At(x, y) {
				t.Fatalf("label grid changed at (%d,%d)", x, y)
			}
		}
	}
}

// TestCarve_SingleRegionNoOp returns an equivalent grid untouched.
func TestCarve_SingleRegionNoOp(t *testing.T) {
	g := buildGrid(t, []string{
		"####",
		"#..#",
		"####",
	})
	lg, table := detect(t, g)
	out, err := corridor.Carve(g, lg, table, mustSource(t, "noop"))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(g) {
		t.Error("no-op carve changed the grid")
	}
	if out == g {
		t.Error("no-op carve returned the input instead of a fresh grid")
	}
}

// TestCarve_ManyRegions merges a scattering of pockets into one component.
func TestCarve_ManyRegions(t *testing.T) {
	g := buildGrid(t, []string{
		"..#######",
		"..###..##",
		"#####..##",
		"##.######",
		"##.###...",
		"#########",
	})
	lg, table := detect(t, g)
	if table.Count() < 3 {
		t.Fatalf("precondition: region count = %d; want >= 3", table.Count())
	}
	out, err := corridor.Carve(g, lg, table, mustSource(t, "many"))
	if err != nil {
		t.Fatal(err)
	}
	_, after := detect(t, out)
	if after.Count() != 1 {
		t.Errorf("regions after carve = %d; want 1", after.Count())
	}
	// Carving only adds floor.
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.At(x, y) == grid.Floor && out.At(x, y) != grid.Floor {
				t.Fatalf("carve removed floor at (%d,%d)", x, y)
			}
		}
	}
}

// TestCarve_Determinism: identical seeds give identical corridors.
func TestCarve_Determinism(t *testing.T) {
	rows := []string{
		"..#######",
		"..###..##",
		"#####..##",
		"##.######",
		"##.###...",
		"#########",
	}
	carve := func(seed string) *grid.Grid {
		g := buildGrid(t, rows)
		lg, table := detect(t, g)
		out, err := corridor.Carve(g, lg, table, mustSource(t, seed))
		if err != nil {
			t.Fatal(err)
		}
		return out
	}
	if !carve("fixed").Equal(carve("fixed")) {
		t.Error("identical seeds carved different corridors")
	}
}

// TestCarve_Errors covers nil inputs and dimension mismatches.
func TestCarve_Errors(t *testing.T) {
	g := buildGrid(t, []string{"..", ".."})
	lg, table := detect(t, g)
	src := mustSource(t, "err")

	if _, err := corridor.Carve(nil, lg, table, src); !errors.Is(err, corridor.ErrNilInput) {
		t.Errorf("nil grid: %v; want ErrNilInput", err)
	}
	if _, err := corridor.Carve(g, lg, table, nil); !errors.Is(err, corridor.ErrNilInput) {
		t.Errorf("nil source: %v; want ErrNilInput", err)
	}
	other := buildGrid(t, []string{"...", "...", "..."})
	if _, err := corridor.Carve(other, lg, table, src); !errors.Is(err, corridor.ErrDimensionMismatch) {
		t.Errorf("dim mismatch: %v; want ErrDimensionMismatch", err)
	}
}

// TestClosestPair picks the true minimum and reports its distance.
func TestClosestPair(t *testing.T) {
	a := []grid.Point{{X: 0, Y: 0}, {X: 2, Y: 3}}
	b := []grid.Point{{X: 9, Y: 9}, {X: 3, Y: 4}}
	p, q, d, err := corridor.ClosestPair(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if p != (grid.Point{X: 2, Y: 3}) || q != (grid.Point{X: 3, Y: 4}) || d != 2 {
		t.Errorf("ClosestPair = (%v,%v,%d); want ((2,3),(3,4),2)", p, q, d)
	}
	if _, _, _, err = corridor.ClosestPair(nil, b); !errors.Is(err, corridor.ErrEmptyRegion) {
		t.Errorf("empty region: %v; want ErrEmptyRegion", err)
	}
}

// TestRegionPoints returns member coordinates in row-major order.
func TestRegionPoints(t *testing.T) {
	g := buildGrid(t, []string{
		".#.",
		"##.",
	})
	lg, table := detect(t, g)
	if table.Count() != 2 {
		t.Fatalf("region count = %d; want 2", table.Count())
	}
	pts := corridor.RegionPoints(lg, regions.FirstLabel)
	if len(pts) != 1 || pts[0] != (grid.Point{X: 0, Y: 0}) {
		t.Errorf("first region points = %v; want [(0,0)]", pts)
	}
	pts = corridor.RegionPoints(lg, regions.FirstLabel+1)
	if len(pts) != 2 || pts[0] != (grid.Point{X: 2, Y: 0}) || pts[1] != (grid.Point{X: 2, Y: 1}) {
		t.Errorf("second region points = %v; want [(2,0) (2,1)]", pts)
	}
}

// TestCarveLines covers both primitives, argument order, and bounds.
func TestCarveLines(t *testing.T) {
	g, _ := grid.NewFilled(5, 4, grid.Wall)
	corridor.CarveHorizontalLine(g, 1, 3, 1)
	for x := 1; x <= 3; x++ {
		if g.At(x, 1) != grid.Floor {
			t.Errorf("cell (%d,1) not carved", x)
		}
	}
	corridor.CarveVerticalLine(g, 4, 3, 0)
	for y := 0; y <= 3; y++ {
		if g.At(4, y) != grid.Floor {
			t.Errorf("cell (4,%d) not carved", y)
		}
	}
	// Out-of-bounds spans are clipped, not fatal.
	corridor.CarveHorizontalLine(g, 10, -3, 99)
	corridor.CarveVerticalLine(g, -1, 0, 10)
}

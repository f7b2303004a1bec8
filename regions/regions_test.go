package regions_test

import (
	"errors"
	"testing"

	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/regions"
)

// buildGrid turns rows of '#' (wall) and '.' (floor) into a grid.
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

// TestDetect_NilGrid rejects nil input.
func TestDetect_NilGrid(t *testing.T) {
	if _, _, err := regions.Detect(nil); !errors.Is(err, regions.ErrNilGrid) {
		t.Errorf("Detect(nil) error = %v; want ErrNilGrid", err)
	}
}

// TestDetect_SingleCell covers a 10×10 all-wall grid with one floor cell.
func TestDetect_SingleCell(t *testing.T) {
	g, _ := grid.NewFilled(10, 10, grid.Wall)
	g.SetAt(5, 5, grid.Floor)

	lg, table, err := regions.Detect(g)
	if err != nil {
		t.Fatal(err)
	}
	if table.Count() != 1 {
		t.Fatalf("region count = %d; want 1", table.Count())
	}
	rec, err := table.ByLabel(regions.FirstLabel)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Area != 1 {
		t.Errorf("area = %d; want 1", rec.Area)
	}
	want := regions.Bounds{Min: grid.Point{X: 5, Y: 5}, Max: grid.Point{X: 5, Y: 5}}
	if rec.Bounds != want {
		t.Errorf("bounds = %+v; want %+v", rec.Bounds, want)
	}
	if lg.At(5, 5) != regions.FirstLabel {
		t.Errorf("label at (5,5) = %d; want %d", lg.At(5, 5), regions.FirstLabel)
	}
	if lg.At(0, 0) != regions.WallLabel {
		t.Errorf("wall label = %d; want %d", lg.At(0, 0), regions.WallLabel)
	}
}

// TestDetect_TwoBlocks finds two regions separated by a wall row.
func TestDetect_TwoBlocks(t *testing.T) {
	g := buildGrid(t, []string{
		"..####",
		"..####",
		"######",
		"####..",
		"####..",
	})
	_, table, err := regions.Detect(g)
	if err != nil {
		t.Fatal(err)
	}
	if table.Count() != 2 {
		t.Fatalf("region count = %d; want 2", table.Count())
	}
	for _, rec := range table.Records() {
		if rec.Area != 4 {
			t.Errorf("label %d area = %d; want 4", rec.Label, rec.Area)
		}
	}
	if table.TotalArea() != 8 {
		t.Errorf("total area = %d; want 8", table.TotalArea())
	}
}

// TestDetect_DiagonalNotConnected: 4-connectivity must split diagonal touches.
func TestDetect_DiagonalNotConnected(t *testing.T) {
	g := buildGrid(t, []string{
		".#",
		"#.",
	})
	_, table, _ := regions.Detect(g)
	if table.Count() != 2 {
		t.Errorf("region count = %d; want 2 (diagonals are not adjacent)", table.Count())
	}
}

// TestDetect_NonMutation verifies the input buffer is untouched.
func TestDetect_NonMutation(t *testing.T) {
	g := buildGrid(t, []string{
		"..#..",
		"..#..",
		".....",
	})
	before := g.Copy()
	if _, _, err := regions.Detect(g); err != nil {
		t.Fatal(err)
	}
	if !g.Equal(before) {
		t.Error("Detect mutated its input grid")
	}
}

// TestDetect_AreasMatchLabels: each record's area equals its label's cell count.
func TestDetect_AreasMatchLabels(t *testing.T) {
	g := buildGrid(t, []string{
		"..#...#.",
		".##.#.#.",
		"..#.#...",
		"#...####",
	})
	lg, table, _ := regions.Detect(g)
	counts := map[int]int{}
	for y := 0; y < lg.Height(); y++ {
		for x := 0; x < lg.Width(); x++ {
			if l := lg.At(x, y); l >= regions.FirstLabel {
				counts[l]++
			}
		}
	}
	if len(counts) != table.Count() {
		t.Fatalf("distinct labels = %d; records = %d", len(counts), table.Count())
	}
	for _, rec := range table.Records() {
		if counts[rec.Label] != rec.Area {
			t.Errorf("label %d: area %d, counted %d", rec.Label, rec.Area, counts[rec.Label])
		}
	}
}

// TestTable_Lookups covers ByLabel errors and Largest.
func TestTable_Lookups(t *testing.T) {
	g := buildGrid(t, []string{
		"...#.",
		"####.",
	})
	_, table, _ := regions.Detect(g)
	if _, err := table.ByLabel(regions.WallLabel); !errors.Is(err, regions.ErrUnknownLabel) {
		t.Errorf("ByLabel(1) error = %v; want ErrUnknownLabel", err)
	}
	largest, ok := table.Largest()
	if !ok || largest.Area != 3 {
		t.Errorf("Largest = (%+v,%v); want area 3", largest, ok)
	}
}

// TestDetect_AllWall yields an empty table.
func TestDetect_AllWall(t *testing.T) {
	g, _ := grid.NewFilled(4, 4, grid.Wall)
	_, table, _ := regions.Detect(g)
	if table.Count() != 0 {
		t.Errorf("region count = %d; want 0", table.Count())
	}
	if _, ok := table.Largest(); ok {
		t.Error("Largest reported ok on an empty table")
	}
}

// Package regions performs connected-component labeling of floor tiles.
//
// Detect flood-fills every 4-connected floor component of a grid, visiting
// each floor cell exactly once. Wall cells keep label 1; floor components
// receive sequential labels starting at FirstLabel (2), assigned in
// row-major discovery order so labeling is deterministic. Region metadata
// (area, bounding box) lives in an arena-style table indexed by small
// integers rather than a string-keyed map, avoiding incidental ordering
// drift and keeping the fill allocation-light.
//
// Detect never mutates its input grid.
//
// Complexity: O(W×H) time and memory.
package regions

import (
	"errors"
	"fmt"

	"github.com/elsonidoq/cavegen/grid"
)

// Labels reserved by the detector.
const (
	// WallLabel is the label kept by every wall cell.
	WallLabel = 1
	// FirstLabel is the label of the first detected floor region.
	// Label 1 is never reused for a region.
	FirstLabel = 2
)

// Sentinel errors for region detection and lookup.
var (
	// ErrNilGrid indicates a nil grid input.
	ErrNilGrid = errors.New("regions: grid is nil")
	// ErrUnknownLabel indicates a label with no region record.
	ErrUnknownLabel = errors.New("regions: unknown region label")
)

// LabelGrid holds one integer label per cell of the detected grid: WallLabel
// for walls, a region label ≥ FirstLabel for floor cells.
type LabelGrid struct {
	width, height int
	labels        []int
}

// Width returns the label grid width.
func (lg *LabelGrid) Width() int { return lg.width }

// Height returns the label grid height.
func (lg *LabelGrid) Height() int { return lg.height }

// Contains reports whether (x, y) lies inside the label grid.
func (lg *LabelGrid) Contains(x, y int) bool {
	return x >= 0 && x < lg.width && y >= 0 && y < lg.height
}

// At returns the label at (x, y). Out-of-bounds reads return WallLabel.
func (lg *LabelGrid) At(x, y int) int {
	if !lg.Contains(x, y) {
		return WallLabel
	}
	return lg.labels[y*lg.width+x]
}

// Bounds is the inclusive bounding box of a region.
type Bounds struct {
	Min, Max grid.Point
}

// Record describes one detected region.
type Record struct {
	// Label is the region's label in the LabelGrid.
	Label int
	// Area is the number of cells carrying the label.
	Area int
	// Bounds is the region's inclusive bounding box.
	Bounds Bounds
}

// Table is the arena of region records, indexed by label.
type Table struct {
	records []Record
}

// Count returns the number of detected regions.
func (t *Table) Count() int { return len(t.records) }

// Records returns all records in ascending label order. The slice is owned
// by the table; callers must not modify it.
func (t *Table) Records() []Record { return t.records }

// ByLabel returns the record for a region label.
func (t *Table) ByLabel(label int) (Record, error) {
	idx := label - FirstLabel
	if idx < 0 || idx >= len(t.records) {
		return Record{}, fmt.Errorf("%w: %d", ErrUnknownLabel, label)
	}
	return t.records[idx], nil
}

// Largest returns the record with the greatest area, and false when the
// table is empty. Ties resolve to the lowest label.
func (t *Table) Largest() (Record, bool) {
	if len(t.records) == 0 {
		return Record{}, false
	}
	best := t.records[0]
	for _, r := range t.records[1:] {
		if r.Area > best.Area {
			best = r
		}
	}
	return best, true
}

// TotalArea returns the summed area of all regions, i.e. the floor tile count.
func (t *Table) TotalArea() int {
	total := 0
	for _, r := range t.records {
		total += r.Area
	}
	return total
}

// neighbors4 is the fixed 4-connectivity scan order: N, E, S, W.
var neighbors4 = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Detect labels every 4-connected floor component of g.
// It reads g without mutating it and returns the label grid together with
// the region table.
// Complexity: O(W×H) time and memory; each floor cell is visited once.
func Detect(g *grid.Grid) (*LabelGrid, *Table, error) {
	if g == nil {
		return nil, nil, ErrNilGrid
	}
	w, h := g.Dimensions()
	lg := &LabelGrid{width: w, height: h, labels: make([]int, w*h)}
	table := &Table{}

	// Walls keep label 1; floor cells start unlabeled (0) until filled.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.At(x, y) == grid.Wall {
				lg.labels[y*w+x] = WallLabel
			}
		}
	}

	next := FirstLabel
	queue := make([]int, 0, w*h/4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if lg.labels[y*w+x] != 0 {
				continue
			}
			// BFS fill of one component, tracking area and bounds.
			rec := Record{
				Label:  next,
				Bounds: Bounds{Min: grid.Point{X: x, Y: y}, Max: grid.Point{X: x, Y: y}},
			}
			queue = queue[:0]
			queue = append(queue, y*w+x)
			lg.labels[y*w+x] = next
			for qi := 0; qi < len(queue); qi++ {
				idx := queue[qi]
				cx, cy := idx%w, idx/w
				rec.Area++
				if cx < rec.Bounds.Min.X {
					rec.Bounds.Min.X = cx
				}
				if cy < rec.Bounds.Min.Y {
					rec.Bounds.Min.Y = cy
				}
				if cx > rec.Bounds.Max.X {
					rec.Bounds.Max.X = cx
				}
				if cy > rec.Bounds.Max.Y {
					rec.Bounds.Max.Y = cy
				}
				for _, d := range neighbors4 {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if lg.labels[nidx] == 0 {
						lg.labels[nidx] = next
						queue = append(queue, nidx)
					}
				}
			}
			table.records = append(table.records, rec)
			next++
		}
	}
	return lg, table, nil
}

// Package quality computes structural acceptance metrics for a generated
// cave and converts them into a 0–100 score.
//
// Metrics: floor ratio, size of the largest connected floor region, count
// of isolated floor regions beyond the largest, average region size, and
// count of wall islands (4-connected wall components not touching the
// border). Each metric that crosses its configurable threshold subtracts a
// fixed penalty from 100; the score floors at 0. A cave is valid iff no
// threshold is violated, including a minimum grid size of 10×10.
package quality

import (
	"errors"
	"fmt"

	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/regions"
)

// ErrNilGrid indicates a nil grid input.
var ErrNilGrid = errors.New("quality: grid is nil")

// MinGridDimension is the smallest acceptable width and height.
const MinGridDimension = 10

// Fixed penalties per violated threshold.
const (
	penaltyFloorRatio    = 30
	penaltyLargestRegion = 25
	penaltyIsolated      = 20
	penaltyAverageSize   = 15
	penaltyWallIslands   = 10
	penaltyGridSize      = 100
)

// Thresholds are the acceptance bounds for each metric.
type Thresholds struct {
	FloorRatioMin          float64
	FloorRatioMax          float64
	MinConnectedFloorTiles int
	MaxIsolatedRegions     int
	MinAverageRegionSize   int
	MaxWallIslands         int
}

// DefaultThresholds returns the documented default acceptance bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FloorRatioMin:          0.1,
		FloorRatioMax:          0.8,
		MinConnectedFloorTiles: 50,
		MaxIsolatedRegions:     3,
		MinAverageRegionSize:   20,
		MaxWallIslands:         5,
	}
}

// Metrics are the raw structural measurements of a cave.
type Metrics struct {
	FloorRatio        float64
	LargestRegionSize int
	IsolatedRegions   int
	AverageRegionSize float64
	WallIslands       int
}

// Report is the outcome of ValidateCave.
type Report struct {
	IsValid     bool
	Score       int
	Issues      []string
	Suggestions []string
	Metrics     Metrics
}

// Scorer evaluates caves against a set of thresholds.
type Scorer struct {
	thresholds Thresholds
}

// New builds a Scorer. Pass DefaultThresholds() for the standard bounds.
func New(t Thresholds) *Scorer {
	return &Scorer{thresholds: t}
}

// Measure computes the raw metrics without judging them.
// Complexity: O(W×H).
func (s *Scorer) Measure(g *grid.Grid) (Metrics, error) {
	if g == nil {
		return Metrics{}, ErrNilGrid
	}
	w, h := g.Dimensions()
	var m Metrics

	_, floorTable, err := regions.Detect(g)
	if err != nil {
		return Metrics{}, err
	}
	total := floorTable.TotalArea()
	m.FloorRatio = float64(total) / float64(w*h)
	if largest, ok := floorTable.Largest(); ok {
		m.LargestRegionSize = largest.Area
		m.IsolatedRegions = floorTable.Count() - 1
		m.AverageRegionSize = float64(total) / float64(floorTable.Count())
	}
	m.WallIslands = countWallIslands(g)
	return m, nil
}

// ValidateCave measures g and applies the thresholds, returning the score,
// per-violation issues, and actionable suggestions.
func (s *Scorer) ValidateCave(g *grid.Grid) (*Report, error) {
	m, err := s.Measure(g)
	if err != nil {
		return nil, err
	}
	rep := &Report{Metrics: m, Score: 100}
	w, h := g.Dimensions()

	if w < MinGridDimension || h < MinGridDimension {
		rep.penalize(penaltyGridSize,
			fmt.Sprintf("grid %dx%d is below the %dx%d minimum", w, h, MinGridDimension, MinGridDimension),
			"increase width and height")
	}
	t := s.thresholds
	if m.FloorRatio < t.FloorRatioMin || m.FloorRatio > t.FloorRatioMax {
		rep.penalize(penaltyFloorRatio,
			fmt.Sprintf("floor ratio %.2f outside [%.2f, %.2f]", m.FloorRatio, t.FloorRatioMin, t.FloorRatioMax),
			"adjust initialWallRatio or simulation steps")
	}
	if m.LargestRegionSize < t.MinConnectedFloorTiles {
		rep.penalize(penaltyLargestRegion,
			fmt.Sprintf("largest region %d below minimum %d", m.LargestRegionSize, t.MinConnectedFloorTiles),
			"lower the wall ratio to open more floor")
	}
	if m.IsolatedRegions > t.MaxIsolatedRegions {
		rep.penalize(penaltyIsolated,
			fmt.Sprintf("%d isolated regions exceed maximum %d", m.IsolatedRegions, t.MaxIsolatedRegions),
			"run corridor carving to merge regions")
	}
	if m.AverageRegionSize < float64(t.MinAverageRegionSize) {
		rep.penalize(penaltyAverageSize,
			fmt.Sprintf("average region size %.1f below minimum %d", m.AverageRegionSize, t.MinAverageRegionSize),
			"increase smoothing passes to absorb fragments")
	}
	if m.WallIslands > t.MaxWallIslands {
		rep.penalize(penaltyWallIslands,
			fmt.Sprintf("%d wall islands exceed maximum %d", m.WallIslands, t.MaxWallIslands),
			"raise the birth threshold to consolidate walls")
	}

	rep.IsValid = len(rep.Issues) == 0
	if rep.Score < 0 {
		rep.Score = 0
	}
	return rep, nil
}

func (r *Report) penalize(points int, issue, suggestion string) {
	r.Score -= points
	r.Issues = append(r.Issues, issue)
	r.Suggestions = append(r.Suggestions, suggestion)
}

// countWallIslands counts 4-connected wall components that do not touch the
// grid border. Border-touching wall mass is the cave shell, not an island.
func countWallIslands(g *grid.Grid) int {
	w, h := g.Dimensions()
	seen := make([]bool, w*h)
	steps := [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	islands := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.At(x, y) != grid.Wall || seen[y*w+x] {
				continue
			}
			touchesBorder := false
			queue := []int{y*w + x}
			seen[y*w+x] = true
			for qi := 0; qi < len(queue); qi++ {
				cur := queue[qi]
				cx, cy := cur%w, cur/w
				if cx == 0 || cy == 0 || cx == w-1 || cy == h-1 {
					touchesBorder = true
				}
				for _, d := range steps {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if !seen[nidx] && g.At(nx, ny) == grid.Wall {
						seen[nidx] = true
						queue = append(queue, nidx)
					}
				}
			}
			if !touchesBorder {
				islands++
			}
		}
	}
	return islands
}

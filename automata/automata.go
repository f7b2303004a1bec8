// Package automata implements the cellular-automata smoothing stage of cave
// generation.
//
// The rule is evaluated against the 8-neighborhood of every cell, counting
// only neighbors inside the grid: out-of-bounds positions are omitted from
// the count, not treated as walls. This open boundary deliberately changes
// edge behavior relative to the usual cave-CA convention and is part of the
// engine's contract — do not "fix" it.
//
// Rule per iteration:
//
//   - wall cell:  stays wall iff wallNeighbors ≥ survival threshold
//   - floor cell: becomes wall iff wallNeighbors ≥ birth threshold
//
// Every iteration computes the whole next grid from a frozen snapshot of the
// previous one, so results are independent of cell visit order. A separate
// micro-smoothing pass rewrites small one-cell noise in the interior while
// leaving solid interiors of large uniform regions untouched.
//
// Complexity: O(W×H) per iteration, two W×H buffers.
package automata

import (
	"errors"
	"fmt"

	"github.com/elsonidoq/cavegen/grid"
)

// Sentinel errors for engine construction and runs.
var (
	// ErrNilGrid indicates a nil grid input.
	ErrNilGrid = errors.New("automata: grid is nil")
	// ErrThreshold indicates a birth or survival threshold outside [0,8].
	ErrThreshold = errors.New("automata: threshold outside [0,8]")
	// ErrNegativeCount indicates a negative step or pass count.
	ErrNegativeCount = errors.New("automata: step count must be non-negative")
)

// Micro-smoothing kernel bounds: interior cells with more than
// microWallAbove wall neighbors become wall, fewer than microFloorBelow
// become floor. Anything in between is left alone, which keeps the interior
// of large uniform regions stable.
const (
	microWallAbove  = 5
	microFloorBelow = 3
)

// ProgressFunc is invoked once per CA iteration with the zero-based
// iteration index and the total iteration count.
type ProgressFunc func(iteration, total int)

// Option customizes a Run.
type Option func(*runOptions)

type runOptions struct {
	progress ProgressFunc
}

// WithProgress registers a per-iteration progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *runOptions) {
		if fn != nil {
			o.progress = fn
		}
	}
}

// Engine applies the majority-rule smoothing with fixed thresholds.
type Engine struct {
	birth    int
	survival int
}

// New builds an Engine. Thresholds count 8-neighborhood walls, so both must
// lie in [0,8].
func New(birth, survival int) (*Engine, error) {
	if birth < 0 || birth > 8 {
		return nil, fmt.Errorf("%w: birth=%d", ErrThreshold, birth)
	}
	if survival < 0 || survival > 8 {
		return nil, fmt.Errorf("%w: survival=%d", ErrThreshold, survival)
	}
	return &Engine{birth: birth, survival: survival}, nil
}

// Run applies steps CA iterations to g and returns a fresh grid of the same
// dimensions. g itself is never mutated; steps == 0 returns a plain copy.
// Complexity: O(steps × W×H).
func (e *Engine) Run(g *grid.Grid, steps int, opts ...Option) (*grid.Grid, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps=%d", ErrNegativeCount, steps)
	}
	var ro runOptions
	for _, opt := range opts {
		opt(&ro)
	}

	cur := g.Copy()
	if steps == 0 {
		return cur, nil
	}
	next := cur.Copy()
	for i := 0; i < steps; i++ {
		e.step(cur, next)
		cur, next = next, cur
		if ro.progress != nil {
			ro.progress(i, steps)
		}
	}
	return cur, nil
}

// step writes one full iteration of cur into next. cur is the frozen
// snapshot; next is overwritten entirely.
func (e *Engine) step(cur, next *grid.Grid) {
	w, h := cur.Dimensions()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := WallNeighbors(cur, x, y)
			if cur.At(x, y) == grid.Wall {
				if n >= e.survival {
					next.SetAt(x, y, grid.Wall)
				} else {
					next.SetAt(x, y, grid.Floor)
				}
			} else {
				if n >= e.birth {
					next.SetAt(x, y, grid.Wall)
				} else {
					next.SetAt(x, y, grid.Floor)
				}
			}
		}
	}
}

// MicroSmooth runs passes micro-smoothing sweeps over a copy of g and
// returns the result. Only interior cells (x,y ∈ [1, dim−2]) are rewritten;
// the border is left exactly as produced by the CA loop.
// Complexity: O(passes × W×H).
func (e *Engine) MicroSmooth(g *grid.Grid, passes int) (*grid.Grid, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if passes < 0 {
		return nil, fmt.Errorf("%w: passes=%d", ErrNegativeCount, passes)
	}
	cur := g.Copy()
	if passes == 0 {
		return cur, nil
	}
	next := cur.Copy()
	w, h := cur.Dimensions()
	for p := 0; p < passes; p++ {
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				switch n := WallNeighbors(cur, x, y); {
				case n > microWallAbove:
					next.SetAt(x, y, grid.Wall)
				case n < microFloorBelow:
					next.SetAt(x, y, grid.Floor)
				default:
					next.SetAt(x, y, cur.At(x, y))
				}
			}
		}
		cur, next = next, cur
	}
	return cur, nil
}

// WallNeighbors counts wall cells among the up-to-8 in-bounds neighbors of
// (x, y). Out-of-bounds positions are omitted from the count.
func WallNeighbors(g *grid.Grid, x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if g.Contains(nx, ny) && g.At(nx, ny) == grid.Wall {
				n++
			}
		}
	}
	return n
}

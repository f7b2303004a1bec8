// Package solvability verifies that a goal position can actually be reached
// from a spawn position, trying independent strategies in a fixed priority
// order and falling back when one fails.
//
// The primary strategy is the configurable A* engine; the fallback is a
// plain breadth-first reachability sweep that shares no code with the
// primary search. Verification stops at the first success. Failures inside
// a strategy are captured as diagnostic issues instead of aborting the
// whole verification — only structurally invalid inputs (nil grid,
// out-of-bounds endpoints) surface as errors.
package solvability

import (
	"errors"
	"fmt"
	"time"

	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/monitor"
	"github.com/elsonidoq/cavegen/pathfind"
)

// ErrNilGrid indicates a nil grid input.
var ErrNilGrid = errors.New("solvability: grid is nil")

// Strategy names recorded in Result.VerificationMethods.
const (
	MethodAStar = "astar"
	MethodBFS   = "bfs"
)

// allFailedIssue is the issue recorded when no strategy found a path.
const allFailedIssue = "All verification methods failed"

// PathAnalysis summarizes the verified path.
type PathAnalysis struct {
	// Length is the number of points on the path.
	Length int
	// Distance is the Manhattan distance between spawn and goal.
	Distance int
	// Complexity is the fraction of steps that change direction; straight
	// corridors score near 0, winding paths approach 1.
	Complexity float64
}

// Result is the structured outcome of a verification.
type Result struct {
	Valid               bool
	VerificationMethods []string
	FallbackUsed        bool
	AllMethodsFailed    bool
	MethodTimings       map[string]time.Duration
	Path                []grid.Point
	Analysis            *PathAnalysis
	Issues              []string
	Recommendations     []string
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithEngine replaces the primary A* engine, e.g. to allow diagonals.
func WithEngine(e *pathfind.Engine) Option {
	return func(v *Verifier) {
		if e != nil {
			v.engine = e
		}
	}
}

// WithObserver attaches a monitoring observer.
func WithObserver(obs monitor.Observer) Option {
	return func(v *Verifier) {
		if obs != nil {
			v.obs = obs
		}
	}
}

// Verifier runs the strategy chain.
type Verifier struct {
	engine *pathfind.Engine
	obs    monitor.Observer
}

// New builds a Verifier with the default 4-connected A* engine.
func New(opts ...Option) *Verifier {
	v := &Verifier{engine: pathfind.New(), obs: monitor.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateSolvability checks that end is reachable from start, recording
// which strategies were attempted and how long each took. Invalid inputs
// return an error; an ordinary "no path exists" is a Valid=false Result.
func (v *Verifier) ValidateSolvability(g *grid.Grid, start, end grid.Point) (*Result, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if !g.ContainsPoint(start) {
		return nil, fmt.Errorf("%w: start (%d,%d)", pathfind.ErrInvalidCoordinate, start.X, start.Y)
	}
	if !g.ContainsPoint(end) {
		return nil, fmt.Errorf("%w: end (%d,%d)", pathfind.ErrInvalidCoordinate, end.X, end.Y)
	}

	res := &Result{MethodTimings: make(map[string]time.Duration)}
	for i, m := range []struct {
		name string
		run  func(*grid.Grid, grid.Point, grid.Point) ([]grid.Point, error)
	}{
		{MethodAStar, v.runAStar},
		{MethodBFS, runBFS},
	} {
		v.obs.StageStarted("solvability:" + m.name)
		began := time.Now()
		path, err := m.run(g, start, end)
		elapsed := time.Since(began)
		res.VerificationMethods = append(res.VerificationMethods, m.name)
		res.MethodTimings[m.name] = elapsed
		v.obs.StageCompleted("solvability:"+m.name, elapsed, monitor.Fields{
			"found": err == nil && len(path) > 0,
		})
		if err != nil {
			// One failing strategy must not abort the chain.
			res.Issues = append(res.Issues, fmt.Sprintf("%s verification error: %v", m.name, err))
			continue
		}
		if len(path) > 0 {
			res.Valid = true
			res.FallbackUsed = i > 0
			res.Path = path
			res.Analysis = analyze(path, start, end)
			return res, nil
		}
		res.Issues = append(res.Issues, fmt.Sprintf("%s found no path", m.name))
	}

	res.AllMethodsFailed = true
	res.Issues = append(res.Issues, allFailedIssue)
	res.Recommendations = append(res.Recommendations,
		"run connectivity validation with fallback carving before placement",
		"choose spawn and goal inside the largest floor region",
	)
	return res, nil
}

func (v *Verifier) runAStar(g *grid.Grid, start, end grid.Point) ([]grid.Point, error) {
	return v.engine.FindPath(g, start, end)
}

// runBFS is the independent fallback: a 4-connected breadth-first sweep
// with parent links for path reconstruction.
func runBFS(g *grid.Grid, start, end grid.Point) ([]grid.Point, error) {
	if g.At(start.X, start.Y) == grid.Wall || g.At(end.X, end.Y) == grid.Wall {
		return nil, nil
	}
	w, h := g.Dimensions()
	startIdx := start.Y*w + start.X
	endIdx := end.Y*w + end.X
	parent := make([]int, w*h)
	for i := range parent {
		parent[i] = -1
	}
	parent[startIdx] = startIdx
	queue := []int{startIdx}
	steps := [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for qi := 0; qi < len(queue); qi++ {
		cur := queue[qi]
		if cur == endIdx {
			break
		}
		cx, cy := cur%w, cur/w
		for _, d := range steps {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h || g.At(nx, ny) == grid.Wall {
				continue
			}
			nidx := ny*w + nx
			if parent[nidx] < 0 {
				parent[nidx] = cur
				queue = append(queue, nidx)
			}
		}
	}
	if parent[endIdx] < 0 {
		return nil, nil
	}
	var path []grid.Point
	for at := endIdx; ; at = parent[at] {
		path = append(path, grid.Point{X: at % w, Y: at / w})
		if at == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// analyze derives the path analysis block from a non-empty path.
func analyze(path []grid.Point, start, end grid.Point) *PathAnalysis {
	a := &PathAnalysis{
		Length:   len(path),
		Distance: grid.ManhattanDistance(start, end),
	}
	if len(path) > 2 {
		turns := 0
		for i := 2; i < len(path); i++ {
			prev := grid.Point{X: path[i-1].X - path[i-2].X, Y: path[i-1].Y - path[i-2].Y}
			cur := grid.Point{X: path[i].X - path[i-1].X, Y: path[i].Y - path[i-1].Y}
			if prev != cur {
				turns++
			}
		}
		a.Complexity = float64(turns) / float64(len(path)-1)
	}
	return a
}

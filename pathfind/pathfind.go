// Package pathfind provides grid-aware A* search with a validated-path
// primitive.
//
// The engine is configurable for diagonal movement and corner cutting, and
// keeps no state between queries: every FindPath call allocates its own open
// list and score buffers, so consecutive searches never interfere.
//
// Coordinates outside the grid (including negative ones) are an input error,
// reported as ErrInvalidCoordinate — distinct from "unreachable", which is a
// successful search returning an empty path.
//
// Complexity: O(W×H log(W×H)) time, O(W×H) memory per query.
package pathfind

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/heap"

	"github.com/elsonidoq/cavegen/grid"
)

// Sentinel errors for pathfinding queries.
var (
	// ErrNilGrid indicates a nil grid input.
	ErrNilGrid = errors.New("pathfind: grid is nil")
	// ErrInvalidCoordinate indicates a start or end outside the grid.
	ErrInvalidCoordinate = errors.New("pathfind: coordinate outside grid bounds")
)

// Option configures an Engine.
type Option func(*Engine)

// WithDiagonal enables 8-directional movement.
func WithDiagonal() Option {
	return func(e *Engine) { e.allowDiagonal = true }
}

// WithCornerCutting allows diagonal steps to pass between two orthogonally
// adjacent walls. Only meaningful together with WithDiagonal.
func WithCornerCutting() Option {
	return func(e *Engine) { e.cutCorners = true }
}

// Engine performs A* searches over a grid. The zero-value-equivalent
// default (New with no options) is 4-connected movement without corner
// cutting.
type Engine struct {
	allowDiagonal bool
	cutCorners    bool
}

// New builds an Engine from options.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// orthoSteps is the fixed 4-connected neighbor order: N, E, S, W.
var orthoSteps = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// diagSteps extends the scan with NE, SE, SW, NW, after the orthogonals.
var diagSteps = [4][2]int{{1, -1}, {1, 1}, {-1, 1}, {-1, -1}}

// node is one open-list entry. order is the insertion sequence number and
// breaks f/g ties, keeping expansion order — and therefore returned paths —
// deterministic across runs.
type node struct {
	idx   int
	f, g  int
	order int
}

// FindPath runs A* from start to end and returns the ordered sequence of
// points, start and end included. An empty (nil) path means end is
// unreachable from start; that is not an error. Invalid coordinates return
// ErrInvalidCoordinate.
func (e *Engine) FindPath(g *grid.Grid, start, end grid.Point) ([]grid.Point, error) {
	if err := checkEndpoints(g, start, end); err != nil {
		return nil, err
	}
	// Endpoints on walls are valid queries with no possible path.
	if g.At(start.X, start.Y) == grid.Wall || g.At(end.X, end.Y) == grid.Wall {
		return nil, nil
	}
	w, h := g.Dimensions()
	startIdx := start.Y*w + start.X
	endIdx := end.Y*w + end.X

	const unvisited = int(^uint(0) >> 1)
	gScore := make([]int, w*h)
	for i := range gScore {
		gScore[i] = unvisited
	}
	cameFrom := make([]int, w*h)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	closed := make([]bool, w*h)

	open := heap.New[node](func(a, b node) bool {
		if a.f != b.f {
			return a.f < b.f
		}
		if a.g != b.g {
			return a.g > b.g
		}
		return a.order < b.order
	})
	order := 0
	gScore[startIdx] = 0
	open.Push(node{idx: startIdx, f: e.heuristic(start, end), g: 0, order: order})

	for {
		cur, ok := open.Pop()
		if !ok {
			return nil, nil // open list exhausted: unreachable
		}
		if closed[cur.idx] {
			continue // stale duplicate from lazy decrease-key
		}
		closed[cur.idx] = true
		if cur.idx == endIdx {
			return reconstruct(cameFrom, cur.idx, w), nil
		}
		cx, cy := cur.idx%w, cur.idx/w
		e.eachNeighbor(g, cx, cy, func(nx, ny int) {
			nidx := ny*w + nx
			if closed[nidx] {
				return
			}
			tentative := gScore[cur.idx] + 1
			if tentative >= gScore[nidx] {
				return
			}
			gScore[nidx] = tentative
			cameFrom[nidx] = cur.idx
			order++
			open.Push(node{
				idx:   nidx,
				g:     tentative,
				f:     tentative + e.heuristic(grid.Point{X: nx, Y: ny}, end),
				order: order,
			})
		})
	}
}

// IsReachable reports whether any path exists from start to end.
func (e *Engine) IsReachable(g *grid.Grid, start, end grid.Point) (bool, error) {
	path, err := e.FindPath(g, start, end)
	if err != nil {
		return false, err
	}
	return len(path) > 0, nil
}

// ValidatePath checks that path is a plausible walk of g from start to end:
// non-empty, correct endpoints, every cell walkable, and each consecutive
// pair 4-adjacent. It never panics on malformed input; it just reports
// false.
func (e *Engine) ValidatePath(g *grid.Grid, path []grid.Point, start, end grid.Point) bool {
	if g == nil || len(path) == 0 {
		return false
	}
	if path[0] != start || path[len(path)-1] != end {
		return false
	}
	for i, p := range path {
		if !g.ContainsPoint(p) || g.At(p.X, p.Y) != grid.Floor {
			return false
		}
		if i > 0 && grid.ManhattanDistance(path[i-1], p) != 1 {
			return false
		}
	}
	return true
}

// eachNeighbor visits the walkable neighbors of (x, y) in the engine's
// fixed scan order.
func (e *Engine) eachNeighbor(g *grid.Grid, x, y int, visit func(nx, ny int)) {
	for _, d := range orthoSteps {
		nx, ny := x+d[0], y+d[1]
		if g.Contains(nx, ny) && g.At(nx, ny) == grid.Floor {
			visit(nx, ny)
		}
	}
	if !e.allowDiagonal {
		return
	}
	for _, d := range diagSteps {
		nx, ny := x+d[0], y+d[1]
		if !g.Contains(nx, ny) || g.At(nx, ny) != grid.Floor {
			continue
		}
		if !e.cutCorners {
			// Both orthogonal flanks must be open to slip through.
			sideA, _ := g.Get(x+d[0], y)
			sideB, _ := g.Get(x, y+d[1])
			if sideA == grid.Wall || sideB == grid.Wall {
				continue
			}
		}
		visit(nx, ny)
	}
}

// heuristic is Manhattan distance for 4-connected movement and Chebyshev
// distance when diagonals are allowed; both are admissible for unit step
// costs.
func (e *Engine) heuristic(a, b grid.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if e.allowDiagonal {
		if dx > dy {
			return dx
		}
		return dy
	}
	return dx + dy
}

// reconstruct walks cameFrom links back from end and reverses in place.
func reconstruct(cameFrom []int, end, width int) []grid.Point {
	var path []grid.Point
	for at := end; at >= 0; at = cameFrom[at] {
		path = append(path, grid.Point{X: at % width, Y: at / width})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// checkEndpoints validates the query inputs.
func checkEndpoints(g *grid.Grid, start, end grid.Point) error {
	if g == nil {
		return ErrNilGrid
	}
	if !g.ContainsPoint(start) {
		return fmt.Errorf("%w: start (%d,%d)", ErrInvalidCoordinate, start.X, start.Y)
	}
	if !g.ContainsPoint(end) {
		return fmt.Errorf("%w: end (%d,%d)", ErrInvalidCoordinate, end.X, end.Y)
	}
	return nil
}

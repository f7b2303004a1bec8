package seeder

import (
	"fmt"

	"github.com/elsonidoq/cavegen/config"
	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/rng"
)

// Structural constants of the graph strategy.
const (
	// minAnchors and maxAnchors bound the anchor count drawn per seeding.
	minAnchors = 2
	maxAnchors = 5
	// interiorMargin excludes a border band from anchor placement.
	interiorMargin = 3
	// anchorSafetyRadius is the circular radius cleared around each anchor
	// to guarantee an open starting pocket.
	anchorSafetyRadius = 5
	// defaultBandHeight is the thickness of the relaxed-threshold corridor
	// band interpolated between linked anchors.
	defaultBandHeight = 3
	// bandRelaxFactor scales the wall threshold inside a corridor band, so
	// band cells are much more likely to come out floor.
	bandRelaxFactor = 0.25
	// maxPlacementTries bounds rejection sampling of distinct anchors.
	maxPlacementTries = 64
)

// GraphOption tunes the graph-based strategy.
type GraphOption func(*Graph)

// WithBandHeight overrides the corridor band thickness. Values < 1 are
// ignored.
func WithBandHeight(h int) GraphOption {
	return func(g *Graph) {
		if h >= 1 {
			g.bandHeight = h
		}
	}
}

// Graph seeds the grid around a small anchor graph: open pockets at the
// anchors, likely-open corridor bands between them, noise elsewhere.
type Graph struct {
	bandHeight int
}

// NewGraph returns the graph-based strategy with default band thickness.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{bandHeight: defaultBandHeight}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// anchorGraph is the transient adjacency structure built once per seeding
// call and discarded. Nodes are indexed; adjacency is an integer list per
// node (1–2 nearest neighbors), never a coordinate-keyed map.
type anchorGraph struct {
	nodes []grid.Point
	adj   [][]int
}

// edges yields each undirected link once, as (lower index, higher index).
func (ag *anchorGraph) edges() [][2]int {
	var es [][2]int
	for i, ns := range ag.adj {
		for _, j := range ns {
			if i < j {
				es = append(es, [2]int{i, j})
			}
		}
	}
	return es
}

// Seed builds the anchor graph, shapes a per-cell threshold field from it,
// and samples every cell in row-major order — one uniform draw per cell, so
// the stream layout matches the uniform strategy.
// Complexity: O(W×H + A²) for A ≤ 5 anchors.
func (s *Graph) Seed(cfg config.Config, src *rng.Source) (*grid.Grid, error) {
	if err := checkSeedConfig(cfg, src); err != nil {
		return nil, err
	}
	w, h := cfg.Width, cfg.Height
	if w <= 2*interiorMargin || h <= 2*interiorMargin {
		return nil, fmt.Errorf("%w: %dx%d leaves no interior beyond the %d-tile margin",
			ErrSeedConfig, w, h, interiorMargin)
	}

	ag, err := buildAnchorGraph(w, h, src)
	if err != nil {
		return nil, err
	}

	// Threshold field: base noise everywhere, relaxed along corridor bands,
	// zero inside anchor safety pockets.
	thresholds := make([]float64, w*h)
	for i := range thresholds {
		thresholds[i] = cfg.InitialWallRatio
	}
	for _, e := range ag.edges() {
		relaxBand(thresholds, w, h, ag.nodes[e[0]], ag.nodes[e[1]], s.bandHeight, cfg.InitialWallRatio*bandRelaxFactor)
	}
	for _, a := range ag.nodes {
		clearPocket(thresholds, w, h, a, anchorSafetyRadius)
	}

	g, err := grid.New(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.Uniform() < thresholds[y*w+x] {
				g.SetAt(x, y, grid.Wall)
			}
		}
	}
	return g, nil
}

// buildAnchorGraph places 2–5 distinct anchors inside the interior margin
// and links each to its 1–2 nearest not-yet-linked anchors, breaking
// distance ties with a seeded draw.
func buildAnchorGraph(w, h int, src *rng.Source) (*anchorGraph, error) {
	count, err := src.IntRange(minAnchors, maxAnchors)
	if err != nil {
		return nil, err
	}
	ag := &anchorGraph{adj: make([][]int, count)}
	for len(ag.nodes) < count {
		p, err := placeAnchor(w, h, src, ag.nodes)
		if err != nil {
			return nil, err
		}
		ag.nodes = append(ag.nodes, p)
	}

	for i := range ag.nodes {
		links, err := src.IntRange(1, 2)
		if err != nil {
			return nil, err
		}
		if links > count-1 {
			links = count - 1
		}
		for n := 0; n < links; n++ {
			j, err := nearestUnlinked(ag, i, src)
			if err != nil {
				return nil, err
			}
			if j < 0 {
				break
			}
			ag.adj[i] = append(ag.adj[i], j)
			ag.adj[j] = append(ag.adj[j], i)
		}
	}
	return ag, nil
}

// placeAnchor rejection-samples a point inside the interior margin that is
// distinct from the anchors placed so far. After maxPlacementTries it
// accepts a duplicate rather than loop forever on tiny interiors.
func placeAnchor(w, h int, src *rng.Source, taken []grid.Point) (grid.Point, error) {
	var p grid.Point
	for try := 0; try < maxPlacementTries; try++ {
		x, err := src.IntRange(interiorMargin, w-1-interiorMargin)
		if err != nil {
			return grid.Point{}, err
		}
		y, err := src.IntRange(interiorMargin, h-1-interiorMargin)
		if err != nil {
			return grid.Point{}, err
		}
		p = grid.Point{X: x, Y: y}
		dup := false
		for _, q := range taken {
			if p == q {
				dup = true
				break
			}
		}
		if !dup {
			return p, nil
		}
	}
	return p, nil
}

// nearestUnlinked returns the index of the anchor closest to anchor i among
// those not already linked to it, or −1 when every other anchor is linked.
// Distance ties are broken by a seeded uniform draw so identical seeds pick
// identical partners.
func nearestUnlinked(ag *anchorGraph, i int, src *rng.Source) (int, error) {
	linked := map[int]bool{i: true}
	for _, j := range ag.adj[i] {
		linked[j] = true
	}
	best, bestDist := -1, 0
	var ties []int
	for j := range ag.nodes {
		if linked[j] {
			continue
		}
		d := grid.ManhattanDistance(ag.nodes[i], ag.nodes[j])
		switch {
		case best < 0 || d < bestDist:
			best, bestDist = j, d
			ties = ties[:0]
			ties = append(ties, j)
		case d == bestDist:
			ties = append(ties, j)
		}
	}
	if best < 0 {
		return -1, nil
	}
	if len(ties) > 1 {
		return rng.Choice(src, ties)
	}
	return best, nil
}

// relaxBand lowers the threshold in a band of the given height along the
// linear interpolation between anchors a and b.
func relaxBand(thresholds []float64, w, h int, a, b grid.Point, bandHeight int, relaxed float64) {
	steps := grid.ManhattanDistance(a, b)
	if steps == 0 {
		steps = 1
	}
	half := bandHeight / 2
	for t := 0; t <= steps; t++ {
		// Integer lerp with round-to-nearest keeps the band seed-independent.
		cx := a.X + ((b.X-a.X)*t+steps/2)/steps
		cy := a.Y + ((b.Y-a.Y)*t+steps/2)/steps
		for dy := -half; dy <= half; dy++ {
			for dx := -half; dx <= half; dx++ {
				x, y := cx+dx, cy+dy
				if x < 0 || x >= w || y < 0 || y >= h {
					continue
				}
				if idx := y*w + x; thresholds[idx] > relaxed {
					thresholds[idx] = relaxed
				}
			}
		}
	}
}

// clearPocket zeroes the threshold inside a circular radius around an
// anchor, guaranteeing the pocket samples as floor.
func clearPocket(thresholds []float64, w, h int, center grid.Point, radius int) {
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			x, y := center.X+dx, center.Y+dy
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			thresholds[y*w+x] = 0
		}
	}
}

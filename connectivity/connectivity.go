// Package connectivity validates that a cave's floor tiles form a single
// connected component, and repairs disconnected caves through a bounded
// corridor-carving fallback loop.
//
// Validate is the pure query: region count, connectivity score (largest
// region area over total floor, 0 for a floorless grid), and the connected
// verdict (at most one region).
//
// ValidateWithFallback loops carve → re-detect while the cave is
// disconnected, the attempt budget lasts, and the wall-clock deadline has
// not passed. The deadline is polled between attempts — cooperative,
// coarse-grained cancellation, not preemptive interruption of an
// in-progress carve. Disconnection, exhaustion, and timeout are structured
// results, never errors; only invalid inputs and invalid settings throw.
package connectivity

import (
	"errors"
	"fmt"
	"time"

	"github.com/elsonidoq/cavegen/corridor"
	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/monitor"
	"github.com/elsonidoq/cavegen/regions"
	"github.com/elsonidoq/cavegen/rng"
)

// Sentinel errors for invalid inputs and settings.
var (
	// ErrNilGrid indicates a nil grid input.
	ErrNilGrid = errors.New("connectivity: grid is nil")
	// ErrNilSource indicates a nil rng source.
	ErrNilSource = errors.New("connectivity: rng source is nil")
	// ErrSettings indicates an invalid settings field.
	ErrSettings = errors.New("connectivity: invalid settings")
)

// FallbackMethodCarving names the only repair method currently wired.
const FallbackMethodCarving = "corridor_carving"

// Settings tune the fallback loop.
type Settings struct {
	// MaxFallbackAttempts bounds carve→re-detect iterations.
	MaxFallbackAttempts int
	// FallbackTimeoutMs is the wall-clock budget in milliseconds.
	FallbackTimeoutMs int
	// MinConnectivityScore accepts a cave whose dominant region holds at
	// least this fraction of the floor, even if smaller fragments remain.
	// At the default 1.0 only full connectivity passes.
	MinConnectivityScore float64
	// CollectPerformance attaches timing/allocation data to results.
	CollectPerformance bool
	// BuildReport attaches a structured region report to results.
	BuildReport bool
}

// DefaultSettings returns the documented fallback defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxFallbackAttempts:  3,
		FallbackTimeoutMs:    5000,
		MinConnectivityScore: 1.0,
	}
}

// validate rejects malformed settings up front.
func (s Settings) validate() error {
	if s.MaxFallbackAttempts < 0 {
		return fmt.Errorf("%w: maxFallbackAttempts=%d", ErrSettings, s.MaxFallbackAttempts)
	}
	if s.FallbackTimeoutMs <= 0 {
		return fmt.Errorf("%w: fallbackTimeoutMs=%d", ErrSettings, s.FallbackTimeoutMs)
	}
	if s.MinConnectivityScore < 0 || s.MinConnectivityScore > 1 {
		return fmt.Errorf("%w: minConnectivityScore=%g", ErrSettings, s.MinConnectivityScore)
	}
	return nil
}

// Result is the outcome of a plain connectivity validation.
type Result struct {
	// IsConnected is true iff the floor forms at most one region.
	IsConnected bool
	// ConnectivityScore is largest-region area over total floor tiles;
	// 0 when the grid has no floor at all.
	ConnectivityScore float64
	// RegionCount is the number of distinct floor regions.
	RegionCount int
	// Performance holds optional timing data.
	Performance *monitor.Performance
}

// RegionInfo is one region's entry in a Report.
type RegionInfo struct {
	Label  int
	Area   int
	Bounds regions.Bounds
}

// Report is the optional structured analysis block.
type Report struct {
	Summary         string
	RegionAnalysis  []RegionInfo
	Recommendations []string
}

// FallbackResult extends Result with the repair outcome.
type FallbackResult struct {
	Result
	// Grid is the cave satisfying the verdict: the input when it was
	// already acceptable, otherwise the freshly carved output.
	Grid *grid.Grid
	// FallbackMethod names the repair method when one succeeded.
	FallbackMethod string
	// FallbackAttempts counts carve→re-detect iterations performed.
	FallbackAttempts int
	// TimedOut is true when the wall-clock budget expired first.
	TimedOut bool
	// Error describes a non-throwing failure (timeout or exhaustion).
	Error string
	// Report is the optional structured analysis of the final state.
	Report *Report
}

// Option configures a validation call.
type Option func(*callOptions)

type callOptions struct {
	obs monitor.Observer
}

// WithObserver attaches a monitoring observer to the fallback loop.
func WithObserver(obs monitor.Observer) Option {
	return func(o *callOptions) {
		if obs != nil {
			o.obs = obs
		}
	}
}

// Validate computes the connectivity verdict for g without modifying it.
// Complexity: O(W×H).
func Validate(g *grid.Grid) (*Result, error) {
	return validateWith(g, Settings{})
}

func validateWith(g *grid.Grid, s Settings) (*Result, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	var timer *monitor.Timer
	if s.CollectPerformance {
		timer = monitor.StartTimer()
	}
	_, table, err := regions.Detect(g)
	if err != nil {
		return nil, err
	}
	res := &Result{RegionCount: table.Count()}
	res.IsConnected = table.Count() <= 1
	if total := table.TotalArea(); total > 0 {
		largest, _ := table.Largest()
		res.ConnectivityScore = float64(largest.Area) / float64(total)
	} else {
		// No floor at all: score 0 and, by convention, not connected.
		res.IsConnected = false
	}
	if timer != nil {
		perf := timer.Stop()
		res.Performance = &perf
	}
	return res, nil
}

// accepted reports whether res satisfies the settings: fully connected, or
// dominant enough when MinConnectivityScore < 1.
func accepted(res *Result, s Settings) bool {
	if res.IsConnected {
		return true
	}
	return s.MinConnectivityScore < 1 && res.ConnectivityScore >= s.MinConnectivityScore
}

// ValidateWithFallback validates g and, while it is disconnected, repairs
// it by corridor carving, bounded by the settings' attempt and time
// budgets. g itself is never mutated; the (possibly carved) cave is
// returned in FallbackResult.Grid.
func ValidateWithFallback(g *grid.Grid, src *rng.Source, s Settings, opts ...Option) (*FallbackResult, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if src == nil {
		return nil, ErrNilSource
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	co := callOptions{obs: monitor.Nop()}
	for _, opt := range opts {
		opt(&co)
	}

	deadline := time.Now().Add(time.Duration(s.FallbackTimeoutMs) * time.Millisecond)
	res, err := validateWith(g, s)
	if err != nil {
		return nil, err
	}
	out := &FallbackResult{Result: *res, Grid: g}

	cur := g
	for !accepted(&out.Result, s) && out.FallbackAttempts < s.MaxFallbackAttempts {
		if out.RegionCount == 0 {
			// Nothing to connect: carving cannot invent floor.
			out.Error = "grid has no floor tiles to connect"
			break
		}
		if time.Now().After(deadline) {
			out.TimedOut = true
			out.Error = fmt.Sprintf("connectivity fallback timed out after %dms (%d attempts)",
				s.FallbackTimeoutMs, out.FallbackAttempts)
			break
		}
		co.obs.StageStarted(FallbackMethodCarving)
		began := time.Now()

		lg, table, err := regions.Detect(cur)
		if err != nil {
			return nil, err
		}
		carved, err := corridor.Carve(cur, lg, table, src)
		if err != nil {
			return nil, err
		}
		out.FallbackAttempts++
		cur = carved

		res, err = validateWith(cur, s)
		if err != nil {
			return nil, err
		}
		out.Result = *res
		out.Grid = cur
		co.obs.StageCompleted(FallbackMethodCarving, time.Since(began), monitor.Fields{
			"attempt":      out.FallbackAttempts,
			"region_count": res.RegionCount,
			"connected":    res.IsConnected,
		})
		if accepted(&out.Result, s) {
			out.FallbackMethod = FallbackMethodCarving
		}
	}

	if !accepted(&out.Result, s) && !out.TimedOut && out.Error == "" {
		out.Error = fmt.Sprintf("connectivity not reached after %d fallback attempts", out.FallbackAttempts)
	}
	if s.BuildReport {
		out.Report = buildReport(out)
	}
	return out, nil
}

// buildReport assembles the structured analysis of the final grid state.
func buildReport(fr *FallbackResult) *Report {
	rep := &Report{}
	_, table, err := regions.Detect(fr.Grid)
	if err != nil {
		return rep
	}
	for _, rec := range table.Records() {
		rep.RegionAnalysis = append(rep.RegionAnalysis, RegionInfo{
			Label:  rec.Label,
			Area:   rec.Area,
			Bounds: rec.Bounds,
		})
	}
	switch {
	case fr.IsConnected:
		rep.Summary = fmt.Sprintf("connected: 1 region, score %.2f, %d fallback attempts",
			fr.ConnectivityScore, fr.FallbackAttempts)
	case fr.TimedOut:
		rep.Summary = fmt.Sprintf("timed out with %d regions remaining", fr.RegionCount)
		rep.Recommendations = append(rep.Recommendations, "increase fallbackTimeoutMs or retry with a new seed")
	default:
		rep.Summary = fmt.Sprintf("disconnected: %d regions, score %.2f",
			fr.RegionCount, fr.ConnectivityScore)
		rep.Recommendations = append(rep.Recommendations, "increase maxFallbackAttempts or retry with a new seed")
	}
	return rep
}

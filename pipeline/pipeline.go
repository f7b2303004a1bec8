// Package pipeline runs the full cave generation flow end to end: seed the
// grid, smooth it with cellular automata, enforce connectivity with the
// corridor fallback, then gate the result on structural quality.
//
// Each attempt draws from an independent substream of the caller's seed, so
// a rejected attempt never perturbs the next one and the whole run is
// reproducible from (seed, config) alone. Rejection outcomes (quality,
// exhaustion, timeout) are reported through Report.Status; the error return
// is reserved for invalid seeds, configs, and options.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/elsonidoq/cavegen/automata"
	"github.com/elsonidoq/cavegen/config"
	"github.com/elsonidoq/cavegen/connectivity"
	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/monitor"
	"github.com/elsonidoq/cavegen/quality"
	"github.com/elsonidoq/cavegen/rng"
	"github.com/elsonidoq/cavegen/seeder"
)

// ErrMaxAttempts indicates a non-positive attempt budget.
var ErrMaxAttempts = errors.New("pipeline: max attempts must be positive")

// Status classifies the outcome of a generation run.
type Status string

// Generation outcomes. Only Accepted carries a usable grid.
const (
	StatusAccepted        Status = "accepted"
	StatusQualityRejected Status = "quality_rejected"
	StatusExhausted       Status = "exhausted"
	StatusTimedOut        Status = "timed_out"
)

// Stage names reported to the observer.
const (
	stageSeed       = "seed"
	stageAutomata   = "automata"
	stageSmoothing  = "smoothing"
	stageConnect    = "connectivity"
	stageQuality    = "quality"
	stageGeneration = "generation"
)

// DefaultMaxAttempts bounds full regeneration retries.
const DefaultMaxAttempts = 5

// Report summarizes a generation run.
type Report struct {
	Status   Status
	Seed     string
	Attempts int
	Elapsed  time.Duration
	// Quality is the scorer's verdict on the final attempt, nil when the
	// quality gate is disabled or no attempt survived connectivity.
	Quality *quality.Report
	// Connectivity is the fallback outcome of the final attempt.
	Connectivity *connectivity.FallbackResult
}

// Option configures a generation run.
type Option func(*settings)

type settings struct {
	strategy    seeder.Strategy
	obs         monitor.Observer
	maxAttempts int
	connect     connectivity.Settings
	thresholds  quality.Thresholds
	qualityGate bool
}

// WithStrategy selects the seeding strategy. Default is uniform noise.
func WithStrategy(s seeder.Strategy) Option {
	return func(o *settings) {
		if s != nil {
			o.strategy = s
		}
	}
}

// WithObserver attaches a monitoring observer to every stage. Observation
// never changes the generated bytes.
func WithObserver(obs monitor.Observer) Option {
	return func(o *settings) {
		if obs != nil {
			o.obs = obs
		}
	}
}

// WithMaxAttempts overrides the regeneration budget.
func WithMaxAttempts(n int) Option {
	return func(o *settings) { o.maxAttempts = n }
}

// WithConnectivitySettings overrides the fallback settings.
func WithConnectivitySettings(s connectivity.Settings) Option {
	return func(o *settings) { o.connect = s }
}

// WithQualityThresholds overrides the acceptance bounds of the quality gate.
func WithQualityThresholds(t quality.Thresholds) Option {
	return func(o *settings) { o.thresholds = t }
}

// WithoutQualityGate accepts any connected cave regardless of its score.
func WithoutQualityGate() Option {
	return func(o *settings) { o.qualityGate = false }
}

func defaultSettings() settings {
	return settings{
		strategy:    seeder.NewUniformNoise(),
		obs:         monitor.Nop(),
		maxAttempts: DefaultMaxAttempts,
		connect:     connectivity.DefaultSettings(),
		thresholds:  quality.DefaultThresholds(),
		qualityGate: true,
	}
}

// Generate produces a validated cave from a seed string and a config.
// The same (seed, cfg, opts) always yields byte-identical output. On a
// non-accepted status the grid return is nil and the Report explains why;
// the error return fires only for invalid inputs.
func Generate(seed string, cfg config.Config, opts ...Option) (*grid.Grid, *Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	root, err := rng.New(seed)
	if err != nil {
		return nil, nil, err
	}
	st := defaultSettings()
	for _, opt := range opts {
		opt(&st)
	}
	if st.maxAttempts <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrMaxAttempts, st.maxAttempts)
	}

	engine, err := automata.New(cfg.BirthThreshold, cfg.SurvivalThreshold)
	if err != nil {
		return nil, nil, err
	}
	scorer := quality.New(st.thresholds)

	rep := &Report{Status: StatusExhausted, Seed: seed}
	st.obs.StageStarted(stageGeneration)
	began := time.Now()
	defer func() {
		rep.Elapsed = time.Since(began)
		st.obs.StageCompleted(stageGeneration, rep.Elapsed, monitor.Fields{
			"status":   string(rep.Status),
			"attempts": rep.Attempts,
		})
	}()

	for attempt := 0; attempt < st.maxAttempts; attempt++ {
		rep.Attempts = attempt + 1
		src := root.Derive(uint64(attempt))

		g, err := runAttempt(cfg, src, engine, st)
		if err != nil {
			return nil, nil, err
		}

		cBegan := time.Now()
		fr, err := connectivity.ValidateWithFallback(g, src, st.connect, connectivity.WithObserver(st.obs))
		if err != nil {
			return nil, nil, err
		}
		st.obs.StageCompleted(stageConnect, time.Since(cBegan), monitor.Fields{
			"attempt":           rep.Attempts,
			"connected":         fr.IsConnected,
			"region_count":      fr.RegionCount,
			"fallback_attempts": fr.FallbackAttempts,
		})
		rep.Connectivity = fr
		rep.Quality = nil
		if fr.TimedOut {
			rep.Status = StatusTimedOut
			return nil, rep, nil
		}
		if !fr.IsConnected && fr.ConnectivityScore < st.connect.MinConnectivityScore {
			rep.Status = StatusExhausted
			continue
		}

		if !st.qualityGate {
			rep.Status = StatusAccepted
			return fr.Grid, rep, nil
		}
		qBegan := time.Now()
		qr, err := scorer.ValidateCave(fr.Grid)
		if err != nil {
			return nil, nil, err
		}
		rep.Quality = qr
		st.obs.StageCompleted(stageQuality, time.Since(qBegan), monitor.Fields{
			"attempt": rep.Attempts,
			"score":   qr.Score,
			"valid":   qr.IsValid,
		})
		if qr.IsValid {
			rep.Status = StatusAccepted
			return fr.Grid, rep, nil
		}
		rep.Status = StatusQualityRejected
	}
	return nil, rep, nil
}

// runAttempt executes the deterministic content stages of one attempt:
// seed, automata simulation, micro smoothing.
func runAttempt(cfg config.Config, src *rng.Source, engine *automata.Engine, st settings) (*grid.Grid, error) {
	began := time.Now()
	g, err := st.strategy.Seed(cfg, src)
	if err != nil {
		return nil, err
	}
	st.obs.StageCompleted(stageSeed, time.Since(began), monitor.Fields{
		"walls": g.CountValue(grid.Wall),
	})

	began = time.Now()
	g, err = engine.Run(g, cfg.SimulationSteps)
	if err != nil {
		return nil, err
	}
	st.obs.StageCompleted(stageAutomata, time.Since(began), monitor.Fields{
		"steps": cfg.SimulationSteps,
	})

	began = time.Now()
	g, err = engine.MicroSmooth(g, cfg.SmoothingPasses)
	if err != nil {
		return nil, err
	}
	st.obs.StageCompleted(stageSmoothing, time.Since(began), monitor.Fields{
		"passes": cfg.SmoothingPasses,
	})
	return g, nil
}

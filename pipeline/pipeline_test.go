package pipeline_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elsonidoq/cavegen/config"
	"github.com/elsonidoq/cavegen/connectivity"
	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/monitor"
	"github.com/elsonidoq/cavegen/pipeline"
	"github.com/elsonidoq/cavegen/quality"
	"github.com/elsonidoq/cavegen/regions"
	"github.com/elsonidoq/cavegen/seeder"
)

// recordingObserver captures completed stage names for assertions.
type recordingObserver struct {
	stages []string
}

func (r *recordingObserver) StageStarted(string) {}

func (r *recordingObserver) StageCompleted(stage string, _ time.Duration, _ monitor.Fields) {
	r.stages = append(r.stages, stage)
}

func TestGenerate_Accepted(t *testing.T) {
	g, rep, err := pipeline.Generate("pipeline-accept", config.Default(),
		pipeline.WithoutQualityGate())
	require.NoError(t, err)
	require.Equal(t, pipeline.StatusAccepted, rep.Status)
	require.NotNil(t, g)
	require.Equal(t, "pipeline-accept", rep.Seed)
	require.GreaterOrEqual(t, rep.Attempts, 1)
	require.NotNil(t, rep.Connectivity)

	// An accepted cave is a single connected floor region.
	_, table, err := regions.Detect(g)
	require.NoError(t, err)
	require.Equal(t, 1, table.Count())

	w, h := g.Dimensions()
	require.Equal(t, config.Default().Width, w)
	require.Equal(t, config.Default().Height, h)
}

func TestGenerate_Deterministic(t *testing.T) {
	run := func() (*grid.Grid, *pipeline.Report) {
		g, rep, err := pipeline.Generate("determinism", config.Default(),
			pipeline.WithoutQualityGate())
		require.NoError(t, err)
		require.Equal(t, pipeline.StatusAccepted, rep.Status)
		return g, rep
	}
	first, repA := run()
	second, repB := run()
	require.True(t, first.Equal(second), "identical seed and config must yield identical bytes")
	require.Equal(t, repA.Attempts, repB.Attempts)
}

func TestGenerate_ObserverDoesNotChangeOutput(t *testing.T) {
	obs := &recordingObserver{}
	plain, _, err := pipeline.Generate("observed", config.Default(),
		pipeline.WithoutQualityGate())
	require.NoError(t, err)
	watched, _, err := pipeline.Generate("observed", config.Default(),
		pipeline.WithoutQualityGate(), pipeline.WithObserver(obs))
	require.NoError(t, err)

	require.True(t, plain.Equal(watched), "observation changed the generated bytes")
	require.Contains(t, obs.stages, "seed")
	require.Contains(t, obs.stages, "automata")
	require.Contains(t, obs.stages, "smoothing")
	require.Contains(t, obs.stages, "connectivity")
	require.Contains(t, obs.stages, "generation")
}

func TestGenerate_GraphStrategy(t *testing.T) {
	g, rep, err := pipeline.Generate("graph-run", config.Default(),
		pipeline.WithStrategy(seeder.NewGraph()),
		pipeline.WithoutQualityGate())
	require.NoError(t, err)
	require.Equal(t, pipeline.StatusAccepted, rep.Status)
	require.NotNil(t, g)

	again, _, err := pipeline.Generate("graph-run", config.Default(),
		pipeline.WithStrategy(seeder.NewGraph()),
		pipeline.WithoutQualityGate())
	require.NoError(t, err)
	require.True(t, g.Equal(again))
}

func TestGenerate_QualityGateReports(t *testing.T) {
	// Impossible thresholds force rejection on every attempt.
	thresholds := quality.DefaultThresholds()
	thresholds.FloorRatioMin = 0.99
	_, rep, err := pipeline.Generate("rejected", config.Default(),
		pipeline.WithQualityThresholds(thresholds),
		pipeline.WithMaxAttempts(2))
	require.NoError(t, err)
	require.Equal(t, pipeline.StatusQualityRejected, rep.Status)
	require.Equal(t, 2, rep.Attempts)
	require.NotNil(t, rep.Quality)
	require.False(t, rep.Quality.IsValid)
	require.NotEmpty(t, rep.Quality.Issues)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Width = 10
	_, _, err := pipeline.Generate("bad-config", cfg)
	if !errors.Is(err, config.ErrConfigRange) {
		t.Fatalf("err = %v; want ErrConfigRange", err)
	}
}

func TestGenerate_EmptySeed(t *testing.T) {
	_, _, err := pipeline.Generate("", config.Default())
	if err == nil {
		t.Fatal("expected error for empty seed")
	}
}

func TestGenerate_InvalidMaxAttempts(t *testing.T) {
	_, _, err := pipeline.Generate("x", config.Default(), pipeline.WithMaxAttempts(0))
	if !errors.Is(err, pipeline.ErrMaxAttempts) {
		t.Fatalf("err = %v; want ErrMaxAttempts", err)
	}
}

func TestGenerate_InvalidConnectivitySettings(t *testing.T) {
	s := connectivity.DefaultSettings()
	s.FallbackTimeoutMs = 0
	_, _, err := pipeline.Generate("x", config.Default(),
		pipeline.WithConnectivitySettings(s))
	if !errors.Is(err, connectivity.ErrSettings) {
		t.Fatalf("err = %v; want ErrSettings", err)
	}
}

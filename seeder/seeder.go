package seeder

import (
	"errors"
	"fmt"

	"github.com/elsonidoq/cavegen/config"
	"github.com/elsonidoq/cavegen/grid"
	"github.com/elsonidoq/cavegen/rng"
)

// Sentinel errors shared by both strategies.
var (
	// ErrNilSource indicates a nil random source.
	ErrNilSource = errors.New("seeder: rng source is nil")
	// ErrSeedConfig indicates a config field unusable for seeding.
	ErrSeedConfig = errors.New("seeder: invalid seeding config")
)

// Strategy is the shared seeding contract: given a validated config and a
// deterministic random source, produce the initial wall/floor grid.
type Strategy interface {
	Seed(cfg config.Config, src *rng.Source) (*grid.Grid, error)
}

// checkSeedConfig rejects configs no strategy can seed from. It runs before
// any randomness is drawn.
func checkSeedConfig(cfg config.Config, src *rng.Source) error {
	if src == nil {
		return ErrNilSource
	}
	if cfg.Width <= 0 {
		return fmt.Errorf("%w: width=%d", ErrSeedConfig, cfg.Width)
	}
	if cfg.Height <= 0 {
		return fmt.Errorf("%w: height=%d", ErrSeedConfig, cfg.Height)
	}
	if cfg.InitialWallRatio < 0 || cfg.InitialWallRatio > 1 {
		return fmt.Errorf("%w: initialWallRatio=%g", ErrSeedConfig, cfg.InitialWallRatio)
	}
	return nil
}

// UniformNoise seeds the grid with independent per-cell noise.
type UniformNoise struct{}

// NewUniformNoise returns the uniform-noise strategy.
func NewUniformNoise() *UniformNoise { return &UniformNoise{} }

// Seed draws one uniform value per cell in row-major order. Border cells
// sample against threshold 1 and therefore always come out wall; interior
// cells sample against a threshold calibrated so that the expected
// whole-grid wall ratio equals initialWallRatio despite the forced border.
// Complexity: O(W×H); exactly W×H draws.
func (s *UniformNoise) Seed(cfg config.Config, src *rng.Source) (*grid.Grid, error) {
	if err := checkSeedConfig(cfg, src); err != nil {
		return nil, err
	}
	g, err := grid.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	w, h := cfg.Width, cfg.Height
	threshold := interiorThreshold(w, h, cfg.InitialWallRatio)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := threshold
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				t = 1.0
			}
			if src.Uniform() < t {
				g.SetAt(x, y, grid.Wall)
			}
		}
	}
	return g, nil
}

// interiorThreshold compensates for the always-wall border: with b border
// cells out of n total, interior cells need P(wall) = (ratio·n − b)/(n − b)
// for the overall expectation to hit ratio. The result is clamped to [0,1];
// on grids too small to compensate (border alone exceeds the target) the
// interior is simply all floor.
func interiorThreshold(w, h int, ratio float64) float64 {
	n := w * h
	interior := (w - 2) * (h - 2)
	if interior <= 0 {
		return 1.0
	}
	border := n - interior
	t := (ratio*float64(n) - float64(border)) / float64(interior)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

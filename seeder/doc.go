// Package seeder produces the initial wall/floor grid that the cellular
// automata stage smooths into a cave.
//
// Two interchangeable strategies share one contract, Strategy.Seed:
//
//   - UniformNoise draws one uniform value per cell against a threshold
//     calibrated so that the whole-grid wall ratio approximates the
//     configured initialWallRatio within a few percentage points on large
//     grids, with the outer border forced to wall.
//   - Graph scatters 2–5 anchor points inside an interior margin, links each
//     anchor to its nearest neighbors into a small anchor graph, relaxes the
//     wall threshold along interpolated corridor bands between linked
//     anchors, zeroes the threshold in a safety radius around every anchor,
//     and then samples every cell. The resulting caves have their major
//     pockets likely — but not guaranteed — connected; later stages still
//     validate connectivity.
//
// Both strategies are fully deterministic for a fixed seed and config, and
// both validate their config fields before drawing any randomness, so a
// rejected config never perturbs the stream.
//
// Errors:
//
//   - ErrNilSource: a nil *rng.Source.
//   - ErrSeedConfig: width ≤ 0, height ≤ 0, or wallRatio outside [0,1].
package seeder

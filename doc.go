// Package cavegen is a deterministic toolkit for generating and validating
// cave-style 2D levels — from seeded noise to a fully connected, quality
// scored cave.
//
// 🚀 What is cavegen?
//
//	A reproducible, seed-driven cave generation library that brings together:
//		• Grid model: compact byte grids with cheap aliased sub-views
//		• Seeded RNG: string seeds, independent derived substreams
//		• Seeding: uniform noise & graph-guided anchor layouts
//		• Smoothing: cellular automata with micro-kernel cleanup
//		• Regions: flood-fill detection with per-region bounds & areas
//		• Connectivity: validation plus bounded corridor-carving repair
//		• Pathfinding: A* with Manhattan/Chebyshev heuristics & BFS cross-check
//		• Quality: structural metrics, penalty scoring, acceptance gating
//
// ✨ Why choose cavegen?
//
//   - Deterministic – the same seed and config always produce identical bytes
//   - Explainable – rejections come back as structured reports, not errors
//   - Observable – optional stage monitoring that never alters the output
//   - Composable – every stage is a standalone package with a small API
//
// Under the hood, everything is organized into per-stage subpackages:
//
//	grid/         — cell grid, points, views, coordinate conversion
//	rng/          — seeded source, substream derivation, sampling helpers
//	config/       — parameter record, range validation, YAML loading
//	seeder/       — uniform-noise & graph seeding strategies
//	automata/     — cellular automata engine & micro smoothing
//	regions/      — connected floor region detection
//	corridor/     — L-shaped corridor carving between regions
//	connectivity/ — connectivity validation with carving fallback
//	pathfind/     — A* engine over walkable floor tiles
//	solvability/  — start→end verification with method fallback
//	quality/      — metrics, scoring, acceptance thresholds
//	pipeline/     — end-to-end orchestration (seed+config → accepted cave)
//	monitor/      — stage observers & performance capture
//
// Quick ASCII example:
//
//	    ########
//	    ##..####
//	    #....###
//	    ##....##
//	    ########
//
//	a small cave: '#' walls enclosing one connected floor region.
//
//	go get github.com/elsonidoq/cavegen
package cavegen

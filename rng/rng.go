// Package rng provides the deterministic pseudo-random stream threaded
// through every generation stage.
//
// A Source is bound to a seed string at construction. Two Sources built from
// the same seed and driven with the same call sequence produce identical
// outputs forever: no wall-clock, goroutine identity, or external entropy is
// ever consulted. Reset rewinds a Source to its exact original sequence, and
// Derive spawns independent substreams (one per generation attempt) that
// depend only on the parent seed and the stream index.
//
// Errors:
//
//   - ErrEmptySeed: the seed string is empty.
//   - ErrInvalidRange: min > max in IntRange or FloatRange.
//   - ErrEmptyChoice: Choice or WeightedChoice over an empty slice.
//   - ErrWeightMismatch: weights length differs from items length.
//   - ErrNegativeWeight: a negative weight in WeightedChoice.
//   - ErrZeroWeightSum: the weights of WeightedChoice sum to zero.
package rng

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
)

// Sentinel errors for Source construction and draws.
var (
	// ErrEmptySeed indicates an empty seed string.
	ErrEmptySeed = errors.New("rng: seed must be non-empty")
	// ErrInvalidRange indicates min > max in a ranged draw.
	ErrInvalidRange = errors.New("rng: min must not exceed max")
	// ErrEmptyChoice indicates a choice over an empty slice.
	ErrEmptyChoice = errors.New("rng: cannot choose from an empty slice")
	// ErrWeightMismatch indicates len(weights) != len(items).
	ErrWeightMismatch = errors.New("rng: weights length must match items length")
	// ErrNegativeWeight indicates a negative weight.
	ErrNegativeWeight = errors.New("rng: weights must be non-negative")
	// ErrZeroWeightSum indicates all weights are zero.
	ErrZeroWeightSum = errors.New("rng: total weight must be positive")
)

// Source is a deterministic pseudo-random stream bound to a seed.
// It is not safe for concurrent use; give each worker its own Source.
type Source struct {
	seed  string
	state int64
	rand  *rand.Rand
}

// New builds a Source from a seed string.
// Returns ErrEmptySeed when seed is empty.
// Complexity: O(len(seed)).
func New(seed string) (*Source, error) {
	if seed == "" {
		return nil, ErrEmptySeed
	}
	state := int64(mix(hashSeed(seed)))
	return &Source{seed: seed, state: state, rand: rand.New(rand.NewSource(state))}, nil
}

// NewFromInt64 builds a Source from a numeric seed by formatting it as a
// decimal string, so NewFromInt64(42) and New("42") are the same stream.
func NewFromInt64(seed int64) *Source {
	s, _ := New(strconv.FormatInt(seed, 10))
	return s
}

// Seed returns the seed string the Source was built from.
func (s *Source) Seed() string { return s.seed }

// Reset re-derives the stream from the original seed, restoring the exact
// original draw sequence.
func (s *Source) Reset() {
	s.rand = rand.New(rand.NewSource(s.state))
}

// Derive returns an independent Source for substream index stream. The child
// depends only on the parent seed and the index, never on how far the parent
// stream has been consumed, so attempt n always sees the same child stream.
// Complexity: O(1).
func (s *Source) Derive(stream uint64) *Source {
	state := int64(mix(uint64(s.state) ^ (stream + splitmixGamma)))
	return &Source{
		seed:  fmt.Sprintf("%s#%d", s.seed, stream),
		state: state,
		rand:  rand.New(rand.NewSource(state)),
	}
}

// Uniform returns a draw in [0, 1).
func (s *Source) Uniform() float64 {
	return s.rand.Float64()
}

// IntRange returns a draw in [min, max], inclusive on both ends.
// Returns ErrInvalidRange when min > max.
func (s *Source) IntRange(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: [%d,%d]", ErrInvalidRange, min, max)
	}
	return min + s.rand.Intn(max-min+1), nil
}

// FloatRange returns a draw in [min, max).
// Returns ErrInvalidRange when min > max.
func (s *Source) FloatRange(min, max float64) (float64, error) {
	if min > max {
		return 0, fmt.Errorf("%w: [%g,%g]", ErrInvalidRange, min, max)
	}
	return min + s.rand.Float64()*(max-min), nil
}

// Shuffle performs a Fisher–Yates shuffle over n elements using swap.
// Complexity: O(n).
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.rand.Intn(i + 1)
		swap(i, j)
	}
}

// Choice returns a uniformly drawn element of items.
// Returns ErrEmptyChoice when items is empty.
func Choice[T any](s *Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyChoice
	}
	return items[s.rand.Intn(len(items))], nil
}

// WeightedChoice returns an element of items drawn with probability
// proportional to its weight. Weights must be non-negative, match items in
// length, and sum to a positive total.
// Complexity: O(n).
func WeightedChoice[T any](s *Source, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyChoice
	}
	if len(weights) != len(items) {
		return zero, fmt.Errorf("%w: %d items, %d weights", ErrWeightMismatch, len(items), len(weights))
	}
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return zero, fmt.Errorf("%w: weights[%d]=%g", ErrNegativeWeight, i, w)
		}
		total += w
	}
	if total <= 0 {
		return zero, ErrZeroWeightSum
	}
	target := s.rand.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target < acc {
			return items[i], nil
		}
	}
	// Floating-point accumulation can land exactly on total; take the last
	// positively weighted item.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return items[i], nil
		}
	}
	return zero, ErrZeroWeightSum
}

// splitmixGamma is the canonical SplitMix64 increment.
const splitmixGamma = 0x9e3779b97f4a7c15

// hashSeed folds a seed string into 64 bits with FNV-1a.
func hashSeed(seed string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return h.Sum64()
}

// mix applies a SplitMix64-style finalizer so nearby seed hashes yield
// well-separated generator states.
func mix(x uint64) uint64 {
	x += splitmixGamma
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

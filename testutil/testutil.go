package testutil

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colblock/block"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Longs returns n int64 values in [-1000, 1000) as []any, with nil for
// roughly nullRate of them.
func (r *RNG) Longs(n int, nullRate float64) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]any, n)
	for i := range out {
		if r.rand.Float64() < nullRate {
			continue
		}
		out[i] = r.rand.Int63n(2000) - 1000
	}
	return out
}

// Doubles returns n float64 values in [0, 1) as []any, with nil for
// roughly nullRate of them.
func (r *RNG) Doubles(n int, nullRate float64) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]any, n)
	for i := range out {
		if r.rand.Float64() < nullRate {
			continue
		}
		out[i] = r.rand.Float64()
	}
	return out
}

const letters = "abcdefghijklmnopqrstuvwxyz"

// Strings returns n lowercase strings of length [0, maxLen] as []any, with
// nil for roughly nullRate of them.
func (r *RNG) Strings(n, maxLen int, nullRate float64) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]any, n)
	for i := range out {
		if r.rand.Float64() < nullRate {
			continue
		}
		b := make([]byte, r.rand.Intn(maxLen+1))
		for j := range b {
			b[j] = letters[r.rand.Intn(len(letters))]
		}
		out[i] = string(b)
	}
	return out
}

// Append appends v to bb. nil appends a null; []any appends an array
// through an *block.ArrayBuilder.
func Append(bb block.Builder, v any) error {
	switch v := v.(type) {
	case nil:
		return bb.AppendNull()
	case bool:
		return bb.AppendBoolean(v)
	case int:
		return bb.AppendLong(int64(v))
	case int32:
		return bb.AppendLong(int64(v))
	case int64:
		return bb.AppendLong(v)
	case float64:
		return bb.AppendDouble(v)
	case string:
		return bb.AppendSlice([]byte(v))
	case []byte:
		return bb.AppendSlice(v)
	case []any:
		ab, ok := bb.(*block.ArrayBuilder)
		if !ok {
			return fmt.Errorf("array value appended to %T", bb)
		}
		for _, e := range v {
			if err := Append(ab.ElementBuilder(), e); err != nil {
				return err
			}
		}
		return ab.CloseEntry()
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
}

// Build builds a block of type t holding values.
func Build(t block.Type, values ...any) (block.Block, error) {
	bb := t.NewBuilder(len(values))
	for _, v := range values {
		if err := Append(bb, v); err != nil {
			return nil, err
		}
	}
	return bb.Build()
}

// MustBuild is like Build but fails the test on error.
func MustBuild(tb testing.TB, t block.Type, values ...any) block.Block {
	tb.Helper()
	b, err := Build(t, values...)
	require.NoError(tb, err)
	return b
}

package rand

import (
	"github.com/pkg/errors"
	"github.com/seehuhn/mt19937"
)

// A Generator uses a goroutine to populate batches of random numbers from a
// seeded Mersenne twister. It satisfies the Src contract used by gonum's
// distuv distributions (Uint64), so a single Generator drives every draw a
// chain makes, in a fixed order.
type Generator struct {
	ch chan uint64
}

// NewGenerator starts a new background PRNG based on the given seed.
func NewGenerator(seed int64) (*Generator, error) {
	numChan := make(chan uint64, 1024)

	go func() {
		r := mt19937.New()
		r.Seed(seed)
		for {
			numChan <- r.Uint64()
		}
	}()

	g := &Generator{
		ch: numChan,
	}

	return g, nil
}

// NewGeneratorSlice is like NewGenerator but seeds from a slice, using the
// canonical mt19937-64 seeding scheme.
func NewGeneratorSlice(seed []uint64) (*Generator, error) {
	if len(seed) < 1 {
		return nil, errors.Errorf("Invalid seed slice of length %d", len(seed))
	}

	numChan := make(chan uint64, 1024)

	go func() {
		r := mt19937.New()
		r.SeedFromSlice(seed)
		for {
			numChan <- r.Uint64()
		}
	}()

	g := &Generator{
		ch: numChan,
	}

	return g, nil
}

// Seed exists only to satisfy golang.org/x/exp/rand.Source, which gonum's
// distuv distributions require for their Src field (but never call). A
// Generator is seeded once at construction and cannot be reseeded, so this
// panics if invoked.
func (g *Generator) Seed(seed uint64) {
	panic("rand: Generator cannot be reseeded; construct a new one instead")
}

// Uint64 returns the next raw PRNG output.
func (g *Generator) Uint64() uint64 {
	return <-g.ch
}

// Int63 provides the same interface as Go's math/rand, but with pre-generation.
func (g *Generator) Int63() int64 {
	return int64(g.Uint64() & 0x7fffffffffffffff)
}

// Int63n is a copy of the current Go code
func (g *Generator) Int63n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int63n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int63() & (n - 1)
	}

	max := int64((1 << 63) - 1 - (1<<63)%uint64(n))
	v := g.Int63()
	for v > max {
		v = g.Int63()
	}

	return v % n
}

// Float64 uses the commented, simpler implmentation since we don't have the
// same support requirements for users
func (g *Generator) Float64() float64 {
	// See the Go lang comments for Rand Float64 implementation for details
	return float64(g.Int63n(1<<53)) / (1 << 53)
}

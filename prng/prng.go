// Package prng provides the random sources that drive domain generation and
// mutation.
//
// Every domain operation that needs randomness receives a Source explicitly.
// There is no package-level stream, so a domain can be shared by many search
// workers as long as each worker owns its own Source.
package prng

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"
)

// Source supplies uniform random bits and biased boolean draws.
//
// A whole generation or mutation session reads from a single Source, and the
// results of a run depend only on the sequence of draws.
type Source interface {
	// Uint64 returns 64 uniformly distributed bits.
	Uint64() uint64

	// Bernoulli returns true with probability p. Implementations consume
	// exactly one draw regardless of p.
	Bernoulli(p float64) bool
}

// Rand is the default Source, backed by a PCG generator.
type Rand struct {
	r *rand.Rand
}

// New creates a deterministic Source for the given seed.
func New(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generator names accepted by NewSource.
const (
	GeneratorPCG   = "pcg"
	GeneratorLCG48 = "lcg48"
)

// NewSource returns a Source of the named generator. An empty name selects
// GeneratorPCG.
func NewSource(generator string, seed uint64) (Source, error) {
	switch generator {
	case "", GeneratorPCG:
		return New(seed), nil
	case GeneratorLCG48:
		return NewLCG48(seed), nil
	default:
		return nil, fmt.Errorf("unknown generator %q (supported: %s, %s)", generator, GeneratorPCG, GeneratorLCG48)
	}
}

// Uint64 returns 64 uniformly distributed bits.
func (r *Rand) Uint64() uint64 {
	return r.r.Uint64()
}

// Bernoulli returns true with probability p.
func (r *Rand) Bernoulli(p float64) bool {
	return bernoulli(r.Uint64(), p)
}

// Float64 returns a float64 in [0.0, 1.0) built from one draw of src.
func Float64(src Source) float64 {
	return unitFloat(src.Uint64())
}

// Uint64n returns a uniform value in [0, n). It returns 0 when n is 0.
func Uint64n(src Source, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	if n&(n-1) == 0 {
		return src.Uint64() & (n - 1)
	}
	// Lemire's multiply-shift with rejection of the biased low range.
	hi, lo := bits.Mul64(src.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(src.Uint64(), n)
		}
	}
	return hi
}

// Intn returns a uniform int in [0, n). It returns 0 when n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	return int(Uint64n(src, uint64(n)))
}

func unitFloat(u uint64) float64 {
	return float64(u>>11) / (1 << 53)
}

func bernoulli(u uint64, p float64) bool {
	if math.IsNaN(p) || p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return unitFloat(u) < p
}

package domains

import (
	"math"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
)

// Integer is the set of integer types supported by InRange.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// maxStep bounds the distance of a small exploring step.
const maxStep = 16

// IntRange generates integers in a closed range. The corpus value is the
// integer itself.
type IntRange[T Integer] struct {
	lo, hi T
	seeds  domain.Seeds[T]
}

var _ domain.Domain[int, int] = (*IntRange[int])(nil)

// InRange returns a domain of integers in [lo, hi]. It panics when lo > hi.
func InRange[T Integer](lo, hi T) *IntRange[T] {
	if lo > hi {
		panic("domains: InRange with lo > hi")
	}
	return &IntRange[T]{lo: lo, hi: hi}
}

// WithSeeds returns a copy of d whose Init may return one of seeds.
func (d *IntRange[T]) WithSeeds(seeds ...T) *IntRange[T] {
	c := *d
	c.seeds = d.seeds.With(seeds...)
	return &c
}

// Init returns a seed or a uniformly drawn integer.
func (d *IntRange[T]) Init(src prng.Source) T {
	if seed, ok := d.seeds.MaybeSeed(src); ok {
		return seed
	}
	return d.uniform(src)
}

// Mutate either draws a fresh integer or steps a short distance. When
// shrinking, it moves strictly toward the in-range value closest to zero.
func (d *IntRange[T]) Mutate(c T, src prng.Source, shrinkOnly bool) T {
	v := widen(c)
	if shrinkOnly {
		t := widen(d.simplest())
		switch {
		case v > t:
			return narrow[T](t + prng.Uint64n(src, v-t))
		case v < t:
			return narrow[T](v + 1 + prng.Uint64n(src, t-v))
		default:
			return c
		}
	}

	lo, hi := widen(d.lo), widen(d.hi)
	if lo == hi {
		return c
	}
	if src.Bernoulli(0.5) {
		return d.uniform(src)
	}
	step := 1 + prng.Uint64n(src, maxStep)
	if src.Bernoulli(0.5) {
		if hi-v < step {
			return d.hi
		}
		return narrow[T](v + step)
	}
	if v-lo < step {
		return d.lo
	}
	return narrow[T](v - step)
}

// Value returns c.
func (d *IntRange[T]) Value(c T) T {
	return c
}

// FromValue returns v when it lies in the range.
func (d *IntRange[T]) FromValue(v T) (T, bool) {
	if v < d.lo || v > d.hi {
		return v, false
	}
	return v, true
}

// ParseCorpus reads a uint atom holding the two's complement bits of the
// value. Atoms that do not fit T fail to parse.
func (d *IntRange[T]) ParseCorpus(obj ir.Object) (T, bool) {
	u, ok := obj.AsUint()
	if !ok {
		return 0, false
	}
	v := T(u)
	if uint64(v) != u {
		return 0, false
	}
	return v, true
}

// SerializeCorpus writes c as a uint atom.
func (d *IntRange[T]) SerializeCorpus(c T) ir.Object {
	return ir.Uint(uint64(c))
}

// ValidateCorpusValue rejects values outside the range.
func (d *IntRange[T]) ValidateCorpusValue(c T) error {
	if c < d.lo || c > d.hi {
		return domain.Invalid(domain.CodeOutOfRange, "value %v is not in [%v, %v]", c, d.lo, d.hi)
	}
	return nil
}

// Printer formats the integer.
func (d *IntRange[T]) Printer() domain.Printer[T] {
	return domain.ValuePrinter(d.Value)
}

func (d *IntRange[T]) uniform(src prng.Source) T {
	lo, hi := widen(d.lo), widen(d.hi)
	span := hi - lo
	if span == math.MaxUint64 {
		return narrow[T](src.Uint64())
	}
	return narrow[T](lo + prng.Uint64n(src, span+1))
}

// simplest returns the in-range value closest to zero.
func (d *IntRange[T]) simplest() T {
	var zero T
	switch {
	case d.lo > zero:
		return d.lo
	case d.hi < zero:
		return d.hi
	default:
		return zero
	}
}

func isSigned[T Integer]() bool {
	var zero T
	return ^zero < zero
}

// widen maps v to uint64 preserving order, so range arithmetic works the
// same for signed and unsigned types.
func widen[T Integer](v T) uint64 {
	if isSigned[T]() {
		return uint64(int64(v)) ^ (1 << 63)
	}
	return uint64(v)
}

func narrow[T Integer](u uint64) T {
	if isSigned[T]() {
		return T(int64(u ^ (1 << 63)))
	}
	return T(u)
}

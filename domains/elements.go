package domains

import (
	"math"
	"reflect"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
)

// Elements picks one of a fixed list of values. The corpus value is the
// index into the list, so shrinking prefers earlier elements.
type Elements[T any] struct {
	values []T
	seeds  domain.Seeds[int]
}

var _ domain.Domain[string, int] = (*Elements[string])(nil)

// ElementOf returns a domain choosing among values. It panics when values is
// empty.
func ElementOf[T any](values ...T) *Elements[T] {
	if len(values) == 0 {
		panic("domains: ElementOf with no values")
	}
	return &Elements[T]{values: append([]T(nil), values...)}
}

// WithSeeds returns a copy of d whose Init may return one of the given
// indexes.
func (d *Elements[T]) WithSeeds(indexes ...int) *Elements[T] {
	c := *d
	c.seeds = d.seeds.With(indexes...)
	return &c
}

func (d *Elements[T]) Init(src prng.Source) int {
	if seed, ok := d.seeds.MaybeSeed(src); ok {
		return seed
	}
	return prng.Intn(src, len(d.values))
}

// Mutate picks a different index. Shrinking picks a lower one.
func (d *Elements[T]) Mutate(c int, src prng.Source, shrinkOnly bool) int {
	if shrinkOnly {
		if c <= 0 {
			return c
		}
		return prng.Intn(src, c)
	}
	if len(d.values) == 1 {
		return c
	}
	i := prng.Intn(src, len(d.values)-1)
	if i >= c {
		i++
	}
	return i
}

func (d *Elements[T]) Value(c int) T {
	return d.values[c]
}

// FromValue returns the index of the first element deeply equal to v.
func (d *Elements[T]) FromValue(v T) (int, bool) {
	for i, candidate := range d.values {
		if reflect.DeepEqual(candidate, v) {
			return i, true
		}
	}
	return 0, false
}

func (d *Elements[T]) ParseCorpus(obj ir.Object) (int, bool) {
	u, ok := obj.AsUint()
	if !ok || u > math.MaxInt {
		return 0, false
	}
	return int(u), true
}

func (d *Elements[T]) SerializeCorpus(c int) ir.Object {
	return ir.Uint(uint64(c))
}

func (d *Elements[T]) ValidateCorpusValue(c int) error {
	if c < 0 || c >= len(d.values) {
		return domain.Invalid(domain.CodeOutOfRange, "element index %d is not in [0, %d)", c, len(d.values))
	}
	return nil
}

func (d *Elements[T]) Printer() domain.Printer[int] {
	return domain.ValuePrinter(d.Value)
}

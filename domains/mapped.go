package domains

import (
	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
)

// Mapped applies a function to the values of an inner domain. The corpus
// value is the inner corpus value; every operation other than Value and
// FromValue delegates to the inner domain.
type Mapped[A, C, V any] struct {
	fn    func(A) V
	inner domain.Domain[A, C]
}

// Map returns a domain of fn applied to inner's values. fn must be pure.
func Map[A, C, V any](fn func(A) V, inner domain.Domain[A, C]) *Mapped[A, C, V] {
	return &Mapped[A, C, V]{fn: fn, inner: inner}
}

func (d *Mapped[A, C, V]) Init(src prng.Source) C {
	return d.inner.Init(src)
}

func (d *Mapped[A, C, V]) Mutate(c C, src prng.Source, shrinkOnly bool) C {
	return d.inner.Mutate(c, src, shrinkOnly)
}

func (d *Mapped[A, C, V]) Value(c C) V {
	return d.fn(d.inner.Value(c))
}

// FromValue is unsupported: fn has no inverse.
func (d *Mapped[A, C, V]) FromValue(V) (C, bool) {
	var zero C
	return zero, false
}

func (d *Mapped[A, C, V]) ParseCorpus(obj ir.Object) (C, bool) {
	return d.inner.ParseCorpus(obj)
}

func (d *Mapped[A, C, V]) SerializeCorpus(c C) ir.Object {
	return d.inner.SerializeCorpus(c)
}

func (d *Mapped[A, C, V]) ValidateCorpusValue(c C) error {
	return d.inner.ValidateCorpusValue(c)
}

func (d *Mapped[A, C, V]) Printer() domain.Printer[C] {
	return domain.ValuePrinter(d.Value)
}

package domains

import (
	"slices"
	"strings"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
)

// DefaultMaxSize is the largest vector VectorOf generates unless configured.
const DefaultMaxSize = 32

type vectorOp int

const (
	opInsert vectorOp = iota
	opErase
	opMutate
)

// Vector generates slices whose elements come from an element domain. The
// corpus value is the slice of element corpus values.
type Vector[V, C any] struct {
	elem    domain.Domain[V, C]
	minSize int
	maxSize int
	seeds   domain.Seeds[[]C]
}

var _ domain.Domain[[]int, []int] = (*Vector[int, int])(nil)

// VectorOf returns a domain of slices of elem values with sizes in
// [0, DefaultMaxSize].
func VectorOf[V, C any](elem domain.Domain[V, C]) *Vector[V, C] {
	return &Vector[V, C]{elem: elem, maxSize: DefaultMaxSize}
}

// WithSize returns a copy of d that only generates slices of length n.
func (d *Vector[V, C]) WithSize(n int) *Vector[V, C] {
	return d.WithMinSize(n).WithMaxSize(n)
}

// WithMinSize returns a copy of d with the given minimum size. The maximum
// size is raised when it is below n.
func (d *Vector[V, C]) WithMinSize(n int) *Vector[V, C] {
	if n < 0 {
		panic("domains: negative vector size")
	}
	c := *d
	c.minSize = n
	if c.maxSize < n {
		c.maxSize = n
	}
	return &c
}

// WithMaxSize returns a copy of d with the given maximum size. It panics
// when n is below the minimum size.
func (d *Vector[V, C]) WithMaxSize(n int) *Vector[V, C] {
	if n < d.minSize {
		panic("domains: vector max size below min size")
	}
	c := *d
	c.maxSize = n
	return &c
}

// WithSeeds returns a copy of d whose Init may return one of seeds.
func (d *Vector[V, C]) WithSeeds(seeds ...[]C) *Vector[V, C] {
	c := *d
	c.seeds = d.seeds.With(seeds...)
	return &c
}

func (d *Vector[V, C]) Init(src prng.Source) []C {
	if seed, ok := d.seeds.MaybeSeed(src); ok {
		return slices.Clone(seed)
	}
	n := d.minSize + prng.Intn(src, d.maxSize-d.minSize+1)
	out := make([]C, n)
	for i := range out {
		out[i] = d.elem.Init(src)
	}
	return out
}

// Mutate inserts, erases or mutates one element. Shrinking only erases an
// element or shrinks one.
func (d *Vector[V, C]) Mutate(c []C, src prng.Source, shrinkOnly bool) []C {
	out := slices.Clone(c)
	if out == nil {
		out = []C{}
	}

	if shrinkOnly {
		if len(out) > d.minSize && src.Bernoulli(0.5) {
			i := prng.Intn(src, len(out))
			return slices.Delete(out, i, i+1)
		}
		if len(out) == 0 {
			return out
		}
		i := prng.Intn(src, len(out))
		out[i] = d.elem.Mutate(out[i], src, true)
		return out
	}

	ops := make([]vectorOp, 0, 3)
	if len(out) < d.maxSize {
		ops = append(ops, opInsert)
	}
	if len(out) > d.minSize {
		ops = append(ops, opErase)
	}
	if len(out) > 0 {
		ops = append(ops, opMutate)
	}
	if len(ops) == 0 {
		return out
	}

	switch ops[prng.Intn(src, len(ops))] {
	case opInsert:
		i := prng.Intn(src, len(out)+1)
		out = slices.Insert(out, i, d.elem.Init(src))
	case opErase:
		i := prng.Intn(src, len(out))
		out = slices.Delete(out, i, i+1)
	case opMutate:
		i := prng.Intn(src, len(out))
		out[i] = d.elem.Mutate(out[i], src, false)
	}
	return out
}

func (d *Vector[V, C]) Value(c []C) []V {
	values := make([]V, len(c))
	for i, e := range c {
		values[i] = d.elem.Value(e)
	}
	return values
}

// FromValue converts each element. It fails when any element cannot be
// converted.
func (d *Vector[V, C]) FromValue(v []V) ([]C, bool) {
	out := make([]C, len(v))
	for i, e := range v {
		c, ok := d.elem.FromValue(e)
		if !ok {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

func (d *Vector[V, C]) ParseCorpus(obj ir.Object) ([]C, bool) {
	subs, ok := obj.AsSeq()
	if !ok {
		return nil, false
	}
	out := make([]C, len(subs))
	for i, sub := range subs {
		c, ok := d.elem.ParseCorpus(sub)
		if !ok {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

func (d *Vector[V, C]) SerializeCorpus(c []C) ir.Object {
	subs := make([]ir.Object, len(c))
	for i, e := range c {
		subs[i] = d.elem.SerializeCorpus(e)
	}
	return ir.Seq(subs...)
}

// ValidateCorpusValue checks the size, then each element in order.
func (d *Vector[V, C]) ValidateCorpusValue(c []C) error {
	if len(c) < d.minSize || len(c) > d.maxSize {
		return domain.Invalid(domain.CodeOutOfRange, "size %d is not in [%d, %d]", len(c), d.minSize, d.maxSize)
	}
	for i, e := range c {
		if err := d.elem.ValidateCorpusValue(e); err != nil {
			return domain.ElementError(i, "invalid value in container", err)
		}
	}
	return nil
}

// Printer renders the elements with the element printer, e.g. "{1, 2}".
func (d *Vector[V, C]) Printer() domain.Printer[[]C] {
	return vectorPrinter[C]{elem: d.elem.Printer()}
}

type vectorPrinter[C any] struct {
	elem domain.Printer[C]
}

func (p vectorPrinter[C]) PrintCorpusValue(c []C, out *strings.Builder, mode domain.PrintMode) {
	out.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			out.WriteString(", ")
		}
		p.elem.PrintCorpusValue(e, out, mode)
	}
	out.WriteByte('}')
}

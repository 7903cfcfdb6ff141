// Package flatmap implements the dependent-domain combinator.
//
// A flat-map domain is built from N input domains and a mapping function
// that turns one value per input domain into a fresh output domain. The
// output domain is never stored: it is rebuilt from the current input values
// whenever an operation needs it. The corpus value keeps the output corpus
// value first and the input corpus values after it, in declared order, and
// the output corpus value is always valid for the output domain rebuilt from
// the inputs next to it.
//
// The mapping function must be pure. Given equal input values it must return
// output domains that generate, parse and validate identically; the
// combinator calls it on nearly every operation and cannot detect a
// violation. Because the output domain is rebuilt on every call, output
// domains that keep state across calls lose that state.
package flatmap

import (
	"slices"
	"strings"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
)

// DefaultInputMutationProbability is the chance that an exploring Mutate
// changes the inputs instead of the output.
const DefaultInputMutationProbability = 0.1

const invalidValueMessage = "invalid value for flat-mapped domain"

// Corpus is the corpus value of a flat-map domain.
type Corpus[C any] struct {
	// Output is valid for the output domain built from Inputs.
	Output C
	// Inputs holds one corpus value per input domain, in declared order.
	Inputs []any
}

// Mapper builds the output domain from one value per input domain.
type Mapper[V, C any] func(values []any) domain.Domain[V, C]

// Domain is a flat-map domain producing values of type V. C is the corpus
// type of the output domains the mapper returns.
type Domain[V, C any] struct {
	mapper         Mapper[V, C]
	inputs         []domain.Untyped
	inputMutationP float64
	seeds          domain.Seeds[Corpus[C]]
}

var _ domain.Domain[int, Corpus[int]] = (*Domain[int, int])(nil)

// New returns a flat-map domain over inputs. mapper receives the input
// values in the order the inputs are given.
func New[V, C any](mapper Mapper[V, C], inputs ...domain.Untyped) *Domain[V, C] {
	return &Domain[V, C]{
		mapper:         mapper,
		inputs:         slices.Clone(inputs),
		inputMutationP: DefaultInputMutationProbability,
	}
}

// Of1 returns a flat-map domain over one typed input domain.
func Of1[A, AC, V, C any](fn func(A) domain.Domain[V, C], a domain.Domain[A, AC]) *Domain[V, C] {
	return New(func(values []any) domain.Domain[V, C] {
		return fn(values[0].(A))
	}, domain.Erase(a))
}

// Of2 returns a flat-map domain over two typed input domains.
func Of2[A, AC, B, BC, V, C any](
	fn func(A, B) domain.Domain[V, C],
	a domain.Domain[A, AC],
	b domain.Domain[B, BC],
) *Domain[V, C] {
	return New(func(values []any) domain.Domain[V, C] {
		return fn(values[0].(A), values[1].(B))
	}, domain.Erase(a), domain.Erase(b))
}

// Of3 returns a flat-map domain over three typed input domains.
func Of3[A, AC, B, BC, D, DC, V, C any](
	fn func(A, B, D) domain.Domain[V, C],
	a domain.Domain[A, AC],
	b domain.Domain[B, BC],
	d domain.Domain[D, DC],
) *Domain[V, C] {
	return New(func(values []any) domain.Domain[V, C] {
		return fn(values[0].(A), values[1].(B), values[2].(D))
	}, domain.Erase(a), domain.Erase(b), domain.Erase(d))
}

// WithInputMutationProbability returns a copy of d whose exploring Mutate
// changes the inputs with probability p.
func (d *Domain[V, C]) WithInputMutationProbability(p float64) *Domain[V, C] {
	c := *d
	c.inputMutationP = p
	return &c
}

// InputMutationProbability returns the configured input mutation chance.
func (d *Domain[V, C]) InputMutationProbability() float64 {
	return d.inputMutationP
}

// WithSeeds returns a copy of d whose Init may return one of seeds.
func (d *Domain[V, C]) WithSeeds(seeds ...Corpus[C]) *Domain[V, C] {
	c := *d
	c.seeds = d.seeds.With(seeds...)
	return &c
}

// Arity returns the number of input domains.
func (d *Domain[V, C]) Arity() int {
	return len(d.inputs)
}

// Init initializes every input in order, builds the output domain from their
// values and initializes the output.
func (d *Domain[V, C]) Init(src prng.Source) Corpus[C] {
	if seed, ok := d.seeds.MaybeSeed(src); ok {
		return Corpus[C]{Output: seed.Output, Inputs: slices.Clone(seed.Inputs)}
	}
	inputs := make([]any, len(d.inputs))
	for i, in := range d.inputs {
		inputs[i] = in.InitAny(src)
	}
	return Corpus[C]{
		Output: d.outputDomain(inputs).Init(src),
		Inputs: inputs,
	}
}

// Mutate changes either the inputs or the output, never both.
//
// Changing the inputs can change the output domain's structure, and there is
// no general way to tell whether the old output corpus value still fits it,
// so the output is re-initialized after the inputs change. A shrinking
// Mutate therefore never touches the inputs: re-initializing would throw
// away the output value that still reproduces the failure.
func (d *Domain[V, C]) Mutate(c Corpus[C], src prng.Source, shrinkOnly bool) Corpus[C] {
	out := Corpus[C]{Output: c.Output, Inputs: slices.Clone(c.Inputs)}
	if !shrinkOnly && src.Bernoulli(d.inputMutationP) {
		for i, in := range d.inputs {
			out.Inputs[i] = in.MutateAny(out.Inputs[i], src, shrinkOnly)
		}
		out.Output = d.outputDomain(out.Inputs).Init(src)
		return out
	}
	out.Output = d.outputDomain(out.Inputs).Mutate(out.Output, src, shrinkOnly)
	return out
}

// Value returns the output value under the output domain built from the
// inputs.
func (d *Domain[V, C]) Value(c Corpus[C]) V {
	return d.outputDomain(c.Inputs).Value(c.Output)
}

// FromValue is unsupported: any number of input combinations could have
// produced v, and the mapper cannot be inverted.
func (d *Domain[V, C]) FromValue(V) (Corpus[C], bool) {
	return Corpus[C]{}, false
}

// ParseCorpus parses the inputs from children 1..N, builds the output domain
// from them and parses child 0 against it. The inputs are not validated
// first, so a mapper that panics on an input outside its domain makes the
// parse fail rather than unwind.
func (d *Domain[V, C]) ParseCorpus(obj ir.Object) (Corpus[C], bool) {
	subs, ok := obj.AsSeq()
	if !ok || len(subs) != len(d.inputs)+1 {
		return Corpus[C]{}, false
	}
	inputs, ok := domain.ParseTuple(d.inputs, subs[1:])
	if !ok {
		return Corpus[C]{}, false
	}
	output, ok := d.parseOutput(inputs, subs[0])
	if !ok {
		return Corpus[C]{}, false
	}
	return Corpus[C]{Output: output, Inputs: inputs}, true
}

func (d *Domain[V, C]) parseOutput(inputs []any, obj ir.Object) (c C, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			var zero C
			c, ok = zero, false
		}
	}()
	return d.outputDomain(inputs).ParseCorpus(obj)
}

// SerializeCorpus writes the sequence (output, input 1, ..., input N).
func (d *Domain[V, C]) SerializeCorpus(c Corpus[C]) ir.Object {
	subs := make([]ir.Object, 0, len(d.inputs)+1)
	subs = append(subs, d.outputDomain(c.Inputs).SerializeCorpus(c.Output))
	subs = append(subs, domain.SerializeTuple(d.inputs, c.Inputs)...)
	return ir.Seq(subs...)
}

// ValidateCorpusValue validates the inputs in order and stops at the first
// invalid one. Only when every input is valid is the output validated
// against the output domain built from them.
func (d *Domain[V, C]) ValidateCorpusValue(c Corpus[C]) error {
	if len(c.Inputs) != len(d.inputs) {
		return domain.Invalid(domain.CodeArity, "%s: got %d inputs, want %d",
			invalidValueMessage, len(c.Inputs), len(d.inputs))
	}
	for i, in := range d.inputs {
		if err := in.ValidateCorpusValueAny(c.Inputs[i]); err != nil {
			return domain.InputError(i, invalidValueMessage, err)
		}
	}
	if err := d.outputDomain(c.Inputs).ValidateCorpusValue(c.Output); err != nil {
		return domain.OutputError(invalidValueMessage, err)
	}
	return nil
}

// Printer prints the output value with the printer of the output domain
// built from the inputs.
func (d *Domain[V, C]) Printer() domain.Printer[Corpus[C]] {
	return printer[V, C]{d: d}
}

func (d *Domain[V, C]) outputDomain(inputs []any) domain.Domain[V, C] {
	return d.mapper(domain.Values(d.inputs, inputs))
}

type printer[V, C any] struct {
	d *Domain[V, C]
}

func (p printer[V, C]) PrintCorpusValue(c Corpus[C], out *strings.Builder, mode domain.PrintMode) {
	p.d.outputDomain(c.Inputs).Printer().PrintCorpusValue(c.Output, out, mode)
}

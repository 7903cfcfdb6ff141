package domain

import (
	"fmt"
	"strings"

	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
)

// Domain is the contract every domain variant implements. V is the user
// value type and C the corpus value type.
type Domain[V, C any] interface {
	// Init returns an initial corpus value. When seeds are configured, a seed
	// may be returned instead of a random value.
	Init(src prng.Source) C

	// Mutate applies one exploring step, or one simplifying step when
	// shrinkOnly is set, and returns the result. The argument is not modified.
	Mutate(c C, src prng.Source, shrinkOnly bool) C

	// Value projects a corpus value to the user value. It is deterministic
	// and free of side effects.
	Value(c C) V

	// FromValue returns a corpus value denoting v, or false when the domain
	// cannot invert its projection.
	FromValue(v V) (C, bool)

	// ParseCorpus reads a corpus value from its IR form, or returns false on
	// a structural mismatch.
	ParseCorpus(obj ir.Object) (C, bool)

	// SerializeCorpus writes a corpus value to its IR form.
	SerializeCorpus(c C) ir.Object

	// ValidateCorpusValue reports why c is not a valid corpus value, or nil.
	ValidateCorpusValue(c C) error

	// Printer returns the printer used for diagnostics.
	Printer() Printer[C]
}

// PrintMode selects how a printer renders a value.
type PrintMode int

const (
	// HumanReadable renders values for logs and reports.
	HumanReadable PrintMode = iota
	// SourceCode renders values as Go source where possible.
	SourceCode
)

// String returns the string representation of the mode.
func (m PrintMode) String() string {
	switch m {
	case HumanReadable:
		return "human"
	case SourceCode:
		return "source"
	default:
		return "unknown"
	}
}

// Printer renders corpus values of one domain.
type Printer[C any] interface {
	PrintCorpusValue(c C, out *strings.Builder, mode PrintMode)
}

// ValuePrinter returns a Printer that formats the projected value with %v,
// or %#v in SourceCode mode.
func ValuePrinter[V, C any](value func(C) V) Printer[C] {
	return valuePrinter[V, C]{value: value}
}

type valuePrinter[V, C any] struct {
	value func(C) V
}

func (p valuePrinter[V, C]) PrintCorpusValue(c C, out *strings.Builder, mode PrintMode) {
	if mode == SourceCode {
		fmt.Fprintf(out, "%#v", p.value(c))
		return
	}
	fmt.Fprintf(out, "%v", p.value(c))
}

// Untyped is the type-erased form of a Domain. Corpus values and user
// values travel as any; combinators use it to hold input domains of
// different types in one ordered list.
//
// Passing a corpus value of the wrong dynamic type is a programming error:
// ValidateCorpusValueAny reports it, every other method panics.
type Untyped interface {
	InitAny(src prng.Source) any
	MutateAny(c any, src prng.Source, shrinkOnly bool) any
	ValueAny(c any) any
	FromValueAny(v any) (any, bool)
	ParseCorpusAny(obj ir.Object) (any, bool)
	SerializeCorpusAny(c any) ir.Object
	ValidateCorpusValueAny(c any) error
	PrintCorpusValueAny(c any, out *strings.Builder, mode PrintMode)
}

// Erase adapts a typed domain to Untyped.
func Erase[V, C any](d Domain[V, C]) Untyped {
	return erased[V, C]{d: d}
}

// Print renders c with the domain's printer and returns the text.
func Print[V, C any](d Domain[V, C], c C, mode PrintMode) string {
	var sb strings.Builder
	d.Printer().PrintCorpusValue(c, &sb, mode)
	return sb.String()
}

type erased[V, C any] struct {
	d Domain[V, C]
}

func (e erased[V, C]) corpus(c any) C {
	v, ok := c.(C)
	if !ok {
		var want C
		panic(fmt.Sprintf("domain: corpus value has type %T, want %T", c, want))
	}
	return v
}

func (e erased[V, C]) InitAny(src prng.Source) any {
	return e.d.Init(src)
}

func (e erased[V, C]) MutateAny(c any, src prng.Source, shrinkOnly bool) any {
	return e.d.Mutate(e.corpus(c), src, shrinkOnly)
}

func (e erased[V, C]) ValueAny(c any) any {
	return e.d.Value(e.corpus(c))
}

func (e erased[V, C]) FromValueAny(v any) (any, bool) {
	typed, ok := v.(V)
	if !ok {
		return nil, false
	}
	c, ok := e.d.FromValue(typed)
	if !ok {
		return nil, false
	}
	return c, true
}

func (e erased[V, C]) ParseCorpusAny(obj ir.Object) (any, bool) {
	c, ok := e.d.ParseCorpus(obj)
	if !ok {
		return nil, false
	}
	return c, true
}

func (e erased[V, C]) SerializeCorpusAny(c any) ir.Object {
	return e.d.SerializeCorpus(e.corpus(c))
}

func (e erased[V, C]) ValidateCorpusValueAny(c any) error {
	v, ok := c.(C)
	if !ok {
		var want C
		return &CorpusError{
			Code:    CodeCorpusType,
			Message: fmt.Sprintf("corpus value has type %T, want %T", c, want),
			Err:     ErrCorpusType,
		}
	}
	return e.d.ValidateCorpusValue(v)
}

func (e erased[V, C]) PrintCorpusValueAny(c any, out *strings.Builder, mode PrintMode) {
	e.d.Printer().PrintCorpusValue(e.corpus(c), out, mode)
}

package domains

import (
	"reflect"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
)

// Constant always produces the same value. Its corpus value carries no
// information and serializes as an empty sequence.
type Constant[T any] struct {
	value T
}

var _ domain.Domain[int, struct{}] = (*Constant[int])(nil)

// Just returns a domain producing only v.
func Just[T any](v T) *Constant[T] {
	return &Constant[T]{value: v}
}

func (d *Constant[T]) Init(prng.Source) struct{} {
	return struct{}{}
}

func (d *Constant[T]) Mutate(c struct{}, _ prng.Source, _ bool) struct{} {
	return c
}

func (d *Constant[T]) Value(struct{}) T {
	return d.value
}

// FromValue succeeds only for a value deeply equal to the constant.
func (d *Constant[T]) FromValue(v T) (struct{}, bool) {
	return struct{}{}, reflect.DeepEqual(v, d.value)
}

func (d *Constant[T]) ParseCorpus(obj ir.Object) (struct{}, bool) {
	if obj.Kind() != ir.KindSeq || obj.Len() != 0 {
		return struct{}{}, false
	}
	return struct{}{}, true
}

func (d *Constant[T]) SerializeCorpus(struct{}) ir.Object {
	return ir.Seq()
}

func (d *Constant[T]) ValidateCorpusValue(struct{}) error {
	return nil
}

func (d *Constant[T]) Printer() domain.Printer[struct{}] {
	return domain.ValuePrinter(d.Value)
}

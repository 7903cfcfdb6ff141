package domains

import (
	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
)

// Boolean generates true and false.
type Boolean struct {
	seeds domain.Seeds[bool]
}

var _ domain.Domain[bool, bool] = (*Boolean)(nil)

// Bool returns the boolean domain.
func Bool() *Boolean {
	return &Boolean{}
}

// WithSeeds returns a copy of d whose Init may return one of seeds.
func (d *Boolean) WithSeeds(seeds ...bool) *Boolean {
	return &Boolean{seeds: d.seeds.With(seeds...)}
}

func (d *Boolean) Init(src prng.Source) bool {
	if seed, ok := d.seeds.MaybeSeed(src); ok {
		return seed
	}
	return src.Uint64()&1 == 1
}

// Mutate flips the value. Shrinking always yields false.
func (d *Boolean) Mutate(c bool, _ prng.Source, shrinkOnly bool) bool {
	if shrinkOnly {
		return false
	}
	return !c
}

func (d *Boolean) Value(c bool) bool {
	return c
}

func (d *Boolean) FromValue(v bool) (bool, bool) {
	return v, true
}

func (d *Boolean) ParseCorpus(obj ir.Object) (bool, bool) {
	u, ok := obj.AsUint()
	if !ok || u > 1 {
		return false, false
	}
	return u == 1, true
}

func (d *Boolean) SerializeCorpus(c bool) ir.Object {
	if c {
		return ir.Uint(1)
	}
	return ir.Uint(0)
}

func (d *Boolean) ValidateCorpusValue(bool) error {
	return nil
}

func (d *Boolean) Printer() domain.Printer[bool] {
	return domain.ValuePrinter(d.Value)
}

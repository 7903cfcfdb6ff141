package domain

import "github.com/lex00/fuzzdomain-go/prng"

// Seeds holds corpus values that Init may return instead of generating a
// fresh one. Seeds are shared between all Init calls and must be treated as
// read-only by the caller.
type Seeds[C any] struct {
	values []C
}

// With returns a new seed set extended by values.
func (s Seeds[C]) With(values ...C) Seeds[C] {
	merged := make([]C, 0, len(s.values)+len(values))
	merged = append(merged, s.values...)
	merged = append(merged, values...)
	return Seeds[C]{values: merged}
}

// Len returns the number of seeds.
func (s Seeds[C]) Len() int {
	return len(s.values)
}

// MaybeSeed draws one index in [0, 2n) for n seeds and returns the seed at
// that index when there is one, so a configured seed set answers half of the
// Init calls. It draws nothing when no seeds are configured.
func (s Seeds[C]) MaybeSeed(src prng.Source) (C, bool) {
	var zero C
	if len(s.values) == 0 {
		return zero, false
	}
	i := prng.Uint64n(src, 2*uint64(len(s.values)))
	if i >= uint64(len(s.values)) {
		return zero, false
	}
	return s.values[i], true
}

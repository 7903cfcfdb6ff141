// Package catalog holds named example domains built with the flat-map
// combinator and the service that exposes them to the fuzzdomain CLI.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/domains"
	"github.com/lex00/fuzzdomain-go/flatmap"
)

// ErrNotFound is returned for names not in the catalog.
var ErrNotFound = errors.New("domain not found")

// Entry is a named domain.
type Entry struct {
	Name        string
	Description string
	// Build returns the domain with the given input mutation probability.
	Build func(inputMutationP float64) domain.Untyped
}

var words = []string{"alpha", "beta", "gamma", "delta"}

var entries = []Entry{
	{
		Name:        "vector-of-copies",
		Description: "n in [1, 5] and a bool b give a vector of n copies of b",
		Build: func(p float64) domain.Untyped {
			return domain.Erase(vectorOfCopies().WithInputMutationProbability(p))
		},
	},
	{
		Name:        "constant",
		Description: "ignores an int in [1, 5] and a string from {a, b}; always 42",
		Build: func(p float64) domain.Untyped {
			return domain.Erase(constant().WithInputMutationProbability(p))
		},
	},
	{
		Name:        "nested",
		Description: "n in [1, 3] gives a flat-mapped vector of at most n ints in [0, m] with m in [0, 10n]",
		Build: func(p float64) domain.Untyped {
			return domain.Erase(nested(p))
		},
	},
	{
		Name:        "ranged-element",
		Description: "n in [1, 4] gives one of the first n words",
		Build: func(p float64) domain.Untyped {
			return domain.Erase(rangedElement().WithInputMutationProbability(p))
		},
	},
	{
		Name:        "dependent-range",
		Description: "lo in [-10, 10] and width in [0, 20] give an int in [lo, lo+width]",
		Build: func(p float64) domain.Untyped {
			return domain.Erase(dependentRange().WithInputMutationProbability(p))
		},
	},
}

func vectorOfCopies() *flatmap.Domain[[]bool, []struct{}] {
	return flatmap.Of2(func(n int, b bool) domain.Domain[[]bool, []struct{}] {
		return domains.VectorOf(domains.Just(b)).WithSize(n)
	}, domains.InRange(1, 5), domains.Bool())
}

func constant() *flatmap.Domain[int, struct{}] {
	return flatmap.Of2(func(int, string) domain.Domain[int, struct{}] {
		return domains.Just(42)
	}, domains.InRange(1, 5), domains.ElementOf("a", "b"))
}

func nested(p float64) *flatmap.Domain[[]int, flatmap.Corpus[[]int]] {
	return flatmap.Of1(func(n int) domain.Domain[[]int, flatmap.Corpus[[]int]] {
		inner := flatmap.Of1(func(m int) domain.Domain[[]int, []int] {
			return domains.VectorOf(domains.InRange(0, m)).WithMaxSize(n)
		}, domains.InRange(0, 10*n))
		return inner.WithInputMutationProbability(p)
	}, domains.InRange(1, 3)).WithInputMutationProbability(p)
}

func rangedElement() *flatmap.Domain[string, int] {
	return flatmap.Of1(func(n int) domain.Domain[string, int] {
		return domains.ElementOf(words[:n]...)
	}, domains.InRange(1, len(words)))
}

func dependentRange() *flatmap.Domain[int, int] {
	return flatmap.Of2(func(lo, width int) domain.Domain[int, int] {
		return domains.InRange(lo, lo+width)
	}, domains.InRange(-10, 10), domains.InRange(0, 20))
}

// Entries returns all entries ordered by name.
func Entries() []Entry {
	out := append([]Entry(nil), entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the entry with the given name.
func Lookup(name string) (Entry, error) {
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

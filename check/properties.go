package check

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
	"github.com/lex00/fuzzdomain-go/serialize"
)

// Builtins returns the built-in properties ordered by ID.
func Builtins() []Property {
	return []Property{
		InitValid{},
		ExploreValid{},
		ShrinkValid{},
		MutateKeepsArgument{},
		IRRoundTrip{},
		JSONRoundTrip{},
		YAMLRoundTrip{},
		Deterministic{},
		FromValueInverts{},
	}
}

// InitValid checks that Init returns valid corpus values.
type InitValid struct{}

func (InitValid) ID() string { return "INIT001" }
func (InitValid) Description() string { return "Init returns a valid corpus value" }

func (p InitValid) Check(d domain.Untyped, trial Trial) []Issue {
	c := d.InitAny(trial.Source())
	if err := d.ValidateCorpusValueAny(c); err != nil {
		return []Issue{issue(p, trial, d, c, "initial value is invalid: %v", err)}
	}
	return nil
}

// ExploreValid checks that exploring mutations keep corpus values valid.
type ExploreValid struct{}

func (ExploreValid) ID() string { return "MUT001" }
func (ExploreValid) Description() string { return "Mutate keeps corpus values valid" }

func (p ExploreValid) Check(d domain.Untyped, trial Trial) []Issue {
	return mutateValid(p, d, trial, false)
}

// ShrinkValid checks that shrinking mutations keep corpus values valid.
type ShrinkValid struct{}

func (ShrinkValid) ID() string { return "MUT002" }
func (ShrinkValid) Description() string { return "shrinking Mutate keeps corpus values valid" }

func (p ShrinkValid) Check(d domain.Untyped, trial Trial) []Issue {
	return mutateValid(p, d, trial, true)
}

func mutateValid(p Property, d domain.Untyped, trial Trial, shrinkOnly bool) []Issue {
	src := trial.Source()
	c := d.InitAny(src)
	if shrinkOnly {
		c = explore(d, c, src, trial.Mutations)
	}
	for step := 0; step < trial.Mutations; step++ {
		next := d.MutateAny(c, src, shrinkOnly)
		if err := d.ValidateCorpusValueAny(next); err != nil {
			return []Issue{issue(p, trial, d, c, "mutation %d produced an invalid value: %v", step, err)}
		}
		c = next
	}
	return nil
}

// MutateKeepsArgument checks that Mutate leaves its argument unchanged.
type MutateKeepsArgument struct{}

func (MutateKeepsArgument) ID() string { return "MUT003" }
func (MutateKeepsArgument) Description() string {
	return "Mutate does not modify the value it is given"
}

func (p MutateKeepsArgument) Check(d domain.Untyped, trial Trial) []Issue {
	src := trial.Source()
	c := d.InitAny(src)
	for step := 0; step < trial.Mutations; step++ {
		before := d.SerializeCorpusAny(c)
		next := d.MutateAny(c, src, step%2 == 1)
		if !d.SerializeCorpusAny(c).Equal(before) {
			return []Issue{issue(p, trial, d, c, "mutation %d modified its argument, was %s", step, before.Format())}
		}
		c = next
	}
	return nil
}

// IRRoundTrip checks that serializing then parsing preserves the value.
type IRRoundTrip struct{}

func (IRRoundTrip) ID() string { return "SER001" }
func (IRRoundTrip) Description() string { return "ParseCorpus inverts SerializeCorpus" }

func (p IRRoundTrip) Check(d domain.Untyped, trial Trial) []Issue {
	src := trial.Source()
	c := explore(d, d.InitAny(src), src, trial.Mutations)
	obj := d.SerializeCorpusAny(c)

	parsed, ok := d.ParseCorpusAny(obj)
	if !ok {
		return []Issue{issue(p, trial, d, c, "serialized value %s does not parse", obj.Format())}
	}
	if err := d.ValidateCorpusValueAny(parsed); err != nil {
		return []Issue{issue(p, trial, d, c, "parsed value is invalid: %v", err)}
	}
	if again := d.SerializeCorpusAny(parsed); !again.Equal(obj) {
		return []Issue{issue(p, trial, d, c, "reserialized %s, want %s", again.Format(), obj.Format())}
	}
	if !reflect.DeepEqual(d.ValueAny(parsed), d.ValueAny(c)) {
		return []Issue{issue(p, trial, d, c, "parsed value %v differs from %v", d.ValueAny(parsed), d.ValueAny(c))}
	}
	return nil
}

// JSONRoundTrip checks that the JSON text form of a corpus value reads
// back to the same IR object.
type JSONRoundTrip struct{}

func (JSONRoundTrip) ID() string { return "SER002" }
func (JSONRoundTrip) Description() string { return "JSON encoding round trips" }

func (p JSONRoundTrip) Check(d domain.Untyped, trial Trial) []Issue {
	return textRoundTrip(p, d, trial, "JSON", func(c any) ([]byte, error) {
		return serialize.ToJSON(d.SerializeCorpusAny(c))
	}, serialize.FromJSON)
}

// YAMLRoundTrip checks that the YAML text form of a corpus value reads
// back to the same IR object.
type YAMLRoundTrip struct{}

func (YAMLRoundTrip) ID() string { return "SER003" }
func (YAMLRoundTrip) Description() string { return "YAML encoding round trips" }

func (p YAMLRoundTrip) Check(d domain.Untyped, trial Trial) []Issue {
	return textRoundTrip(p, d, trial, "YAML", func(c any) ([]byte, error) {
		return serialize.ToYAML(d.SerializeCorpusAny(c))
	}, serialize.FromYAML)
}

func textRoundTrip(
	p Property,
	d domain.Untyped,
	trial Trial,
	name string,
	encode func(any) ([]byte, error),
	decode func([]byte) (ir.Object, error),
) []Issue {
	src := trial.Source()
	c := explore(d, d.InitAny(src), src, trial.Mutations)

	data, err := encode(c)
	if err != nil {
		return []Issue{issue(p, trial, d, c, "%s encoding failed: %v", name, err)}
	}
	obj, err := decode(data)
	if err != nil {
		return []Issue{issue(p, trial, d, c, "%s decoding failed: %v", name, err)}
	}
	if want := d.SerializeCorpusAny(c); !obj.Equal(want) {
		return []Issue{issue(p, trial, d, c, "%s round trip gave %s, want %s", name, obj.Format(), want.Format())}
	}
	if _, ok := d.ParseCorpusAny(obj); !ok {
		return []Issue{issue(p, trial, d, c, "decoded %s does not parse", name)}
	}
	return nil
}

// Deterministic checks that equal seeds produce equal corpus values and
// take the same number of draws.
type Deterministic struct{}

func (Deterministic) ID() string { return "DET001" }
func (Deterministic) Description() string { return "equal seeds give equal results" }

func (p Deterministic) Check(d domain.Untyped, trial Trial) []Issue {
	run := func() (any, int) {
		src := prng.NewCounter(trial.Source())
		c := explore(d, d.InitAny(src), src, trial.Mutations)
		for step := 0; step < trial.Mutations; step++ {
			c = d.MutateAny(c, src, true)
		}
		return c, src.Draws()
	}

	first, firstDraws := run()
	second, secondDraws := run()
	a, b := d.SerializeCorpusAny(first), d.SerializeCorpusAny(second)
	if !a.Equal(b) {
		return []Issue{issue(p, trial, d, first, "second run gave %s, want %s", b.Format(), a.Format())}
	}
	if firstDraws != secondDraws {
		return []Issue{issue(p, trial, d, first, "second run took %d draws, want %d", secondDraws, firstDraws)}
	}
	return nil
}

// FromValueInverts checks that FromValue maps a value back to a corpus value
// denoting the same value. Domains without FromValue get an info issue.
type FromValueInverts struct{}

func (FromValueInverts) ID() string { return "INV001" }
func (FromValueInverts) Description() string { return "FromValue inverts Value" }

func (p FromValueInverts) Check(d domain.Untyped, trial Trial) []Issue {
	src := trial.Source()
	c := explore(d, d.InitAny(src), src, trial.Mutations)
	v := d.ValueAny(c)

	back, ok := d.FromValueAny(v)
	if !ok {
		is := issue(p, trial, d, c, "FromValue is not supported")
		is.Severity = SeverityInfo
		return []Issue{is}
	}
	if err := d.ValidateCorpusValueAny(back); err != nil {
		return []Issue{issue(p, trial, d, c, "FromValue returned an invalid value: %v", err)}
	}
	if got := d.ValueAny(back); !reflect.DeepEqual(got, v) {
		return []Issue{issue(p, trial, d, c, "FromValue gave %v, want %v", got, v)}
	}
	return nil
}

func explore(d domain.Untyped, c any, src prng.Source, steps int) any {
	for i := 0; i < steps; i++ {
		c = d.MutateAny(c, src, false)
	}
	return c
}

func issue(p Property, trial Trial, d domain.Untyped, c any, format string, args ...any) Issue {
	return Issue{
		Property: p.ID(),
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Trial:    trial.Index,
		Seed:     trial.Seed,
		Corpus:   printCorpus(d, c),
	}
}

// printCorpus renders c, or returns "" when the domain cannot print it.
func printCorpus(d domain.Untyped, c any) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	var sb strings.Builder
	d.PrintCorpusValueAny(c, &sb, domain.HumanReadable)
	return sb.String()
}

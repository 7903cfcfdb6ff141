package check

import (
	"sort"
	"sync"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/prng"
)

// Trial parameterizes one execution of a property.
type Trial struct {
	// Index is the position of the trial in the run.
	Index int
	// Seed seeds the random source of the trial.
	Seed uint64
	// Mutations is the number of mutation steps to apply.
	Mutations int
	// Generator names the prng generator; empty selects the default.
	Generator string
}

// Source returns a fresh random source for the trial. Run rejects unknown
// generators before any trial starts, so an unknown name here is misuse.
func (t Trial) Source() prng.Source {
	src, err := prng.NewSource(t.Generator, t.Seed)
	if err != nil {
		panic(err)
	}
	return src
}

// Property defines the interface for conformance properties.
type Property interface {
	// ID returns the unique identifier for this property (e.g., "INIT001").
	ID() string
	// Description returns a brief description of what the property checks.
	Description() string
	// Check runs one trial against d and returns any issues found.
	Check(d domain.Untyped, trial Trial) []Issue
}

// Registry maintains a collection of properties.
type Registry struct {
	mu    sync.RWMutex
	props map[string]Property
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		props: make(map[string]Property),
	}
}

// DefaultRegistry returns a registry holding every built-in property.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range Builtins() {
		r.Register(p)
	}
	return r
}

// Register adds a property to the registry.
// If a property with the same ID already exists, it will be replaced.
func (r *Registry) Register(p Property) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.props[p.ID()] = p
}

// Get returns the property with the given ID, or nil if not found.
func (r *Registry) Get(id string) Property {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.props[id]
}

// All returns all registered properties ordered by ID.
func (r *Registry) All() []Property {
	ids := r.IDs()
	r.mu.RLock()
	defer r.mu.RUnlock()
	props := make([]Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.props[id]; ok {
			props = append(props, p)
		}
	}
	return props
}

// IDs returns all registered property IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.props))
	for id := range r.props {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

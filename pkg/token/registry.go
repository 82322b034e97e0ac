package token

import (
	"sort"
	"sync"

	"github.com/beevik/etree"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gobubble/pkg/document"
)

// Definition describes one token variant.
type Definition struct {
	Name  string
	Phase Phase
	New   Constructor
}

// Registry maps tag names to token definitions. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// DefaultRegistry returns a registry holding every built-in token.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Definition{Name: TextName, Phase: PreParse, New: NewText})
	r.MustRegister(Definition{Name: MarkupName, Phase: PreParse, New: NewMarkup})
	return r
}

// Register adds a definition. Empty and duplicate names are rejected, as is
// a phase that disagrees with the Type of the tokens New builds. An empty
// phase is taken from the token.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return errors.New("token name is required")
	}
	if def.New == nil {
		return errors.Errorf("token %q has no constructor", def.Name)
	}
	phase := def.New(etree.NewElement(def.Name), document.New()).Type()
	if def.Phase == "" {
		def.Phase = phase
	}
	if def.Phase != phase {
		return errors.Errorf("token %q registered for phase %s but renders in %s", def.Name, def.Phase, phase)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return errors.Errorf("token %q already registered", def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition for a tag name. A missing name is not an
// error; the walker leaves such elements untouched.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	return def, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered tag names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subset returns a registry restricted to names. Unknown names fail.
func (r *Registry) Subset(names ...string) (*Registry, error) {
	out := NewRegistry()
	for _, name := range names {
		def, ok := r.Lookup(name)
		if !ok {
			return nil, errors.Errorf("unknown token %q", name)
		}
		if err := out.Register(def); err != nil {
			return nil, err
		}
	}
	return out, nil
}

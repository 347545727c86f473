package tables

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// Registry maps table names to their definitions.
// Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]ingest.TableDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]ingest.TableDefinition)}
}

// Register adds def. A definition that fails validation or reuses a name
// is rejected.
func (r *Registry) Register(def ingest.TableDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("table %q is already registered: %w", def.Name, ingest.ErrInvalidConfig)
	}
	r.defs[def.Name] = def
	return nil
}

// MustRegister is Register for package initialization; it panics on error.
func (r *Registry) MustRegister(def ingest.TableDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (ingest.TableDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return ingest.TableDefinition{}, fmt.Errorf("table %q (known: %v): %w", name, r.namesLocked(), ingest.ErrUnknownTable)
	}
	return def, nil
}

// Names returns the registered table names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Builtin returns the registry of the NAICS reference tables.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtin = NewRegistry()
		builtin.MustRegister(NAICSIndex())
		builtin.MustRegister(NAICSDescriptions())
		builtin.MustRegister(IndustryDetail())
	})
	return builtin
}

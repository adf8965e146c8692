package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/pkg/chain"
)

// Registry errors
var (
	ErrAlreadyRegistered = errors.New("serialization already registered")
	ErrNotRegistered     = errors.New("serialization not registered")
	ErrEmptyName         = errors.New("serialization name cannot be empty")
	ErrNilChain          = errors.New("chain cannot be nil")
	ErrNilBase           = errors.New("base object cannot be nil")
)

// Registry maps serialization names to their chain and base object.
// Entries are permanent: there is no removal or overwrite.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Serialization
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*Serialization),
	}
}

// Register stores c and base under name. It fails if name is taken or if c
// carries a build error.
func (r *Registry) Register(name string, c *chain.Chain, base chain.Target) (*Serialization, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	s, err := newSerialization(name, c, base)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		log.Debug(log.CatRegistry, "Duplicate registration", "name", name)
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.entries[name] = s

	log.Debug(log.CatRegistry, "Registered serialization", "name", name,
		"operations", c.Len(), "placeholders", len(s.placeholders))
	return s, nil
}

// Get returns the serialization registered under name.
func (r *Registry) Get(name string) (*Serialization, error) {
	r.mu.RLock()
	s, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return s, nil
}

// Execute replays the serialization registered under name with params.
func (r *Registry) Execute(name string, params map[string]any) (chain.Target, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return s.Execute(params)
}

// Names returns all registered names, sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered serializations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Instant pairs c with base without registering it, for one-off replays.
func Instant(c *chain.Chain, base chain.Target) (*Serialization, error) {
	return newSerialization("", c, base)
}

package registry

import "github.com/zjrosen/dqs/pkg/chain"

// Provider defines read-only access to a registry of serializations.
// Decoders and services depend on Provider so tests can substitute fakes.
type Provider interface {
	// Get returns the serialization registered under name.
	// Returns ErrNotRegistered if no serialization matches.
	Get(name string) (*Serialization, error)

	// Execute replays the serialization registered under name.
	Execute(name string, params map[string]any) (chain.Target, error)

	// Names returns all registered names, sorted alphabetically.
	Names() []string
}

// Compile-time check that Registry implements Provider.
var _ Provider = (*Registry)(nil)

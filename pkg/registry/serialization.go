package registry

import (
	"fmt"

	"github.com/zjrosen/dqs/pkg/chain"
)

// Serialization is a chain paired with the base object it replays against.
type Serialization struct {
	name         string
	chain        *chain.Chain
	base         chain.Target
	placeholders []string
}

func newSerialization(name string, c *chain.Chain, base chain.Target) (*Serialization, error) {
	if c == nil {
		return nil, ErrNilChain
	}
	if base == nil {
		return nil, ErrNilBase
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("invalid chain for %q: %w", name, err)
	}
	return &Serialization{
		name:         name,
		chain:        c,
		base:         base,
		placeholders: c.Placeholders(),
	}, nil
}

// Name returns the registered name. Instant serializations have no name.
func (s *Serialization) Name() string {
	return s.name
}

// Chain returns the recorded chain.
func (s *Serialization) Chain() *chain.Chain {
	return s.chain
}

// Base returns the base object.
func (s *Serialization) Base() chain.Target {
	return s.base
}

// Placeholders returns the declared placeholder names in declaration order.
func (s *Serialization) Placeholders() []string {
	return append([]string(nil), s.placeholders...)
}

// Execute replays the chain against the base object.
func (s *Serialization) Execute(params map[string]any) (chain.Target, error) {
	return s.chain.Replay(s.base, params)
}

package decode

import (
	"fmt"

	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

// Positional zips values onto placeholders one to one. There are no optional
// placeholders: the lengths must match exactly.
func Positional(placeholders []string, values []any) (map[string]any, error) {
	if len(values) != len(placeholders) {
		log.Debug(log.CatDecode, "Arity mismatch", "placeholders", len(placeholders), "values", len(values))
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArityMismatch, len(placeholders), len(values))
	}

	params := make(map[string]any, len(values))
	for i, name := range placeholders {
		params[name] = values[i]
	}
	return params, nil
}

// Values executes s with values given in placeholder declaration order.
func Values(s *registry.Serialization, values []any) (chain.Target, error) {
	params, err := Positional(s.Placeholders(), values)
	if err != nil {
		return nil, err
	}
	return s.Execute(params)
}

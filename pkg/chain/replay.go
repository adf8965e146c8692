package chain

import (
	"fmt"

	"github.com/zjrosen/dqs/internal/log"
)

// Replay applies the recorded operations, in order, to base and returns the
// final object. params maps placeholder names to values of any type; keys may
// carry their marker ("$name", "__name") or be bare. Each declared placeholder
// is substituted once, at the position that declared it.
//
// Replay reads only immutable chain state and is safe for concurrent use.
func (c *Chain) Replay(base Target, params map[string]any) (Target, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	if base == nil {
		return nil, ErrNilTarget
	}

	declared := c.Placeholders()
	if len(declared) > 0 && len(params) == 0 {
		log.Debug(log.CatChain, "Replay without parameters", "placeholders", len(declared))
		return nil, &MissingParametersError{Names: declared}
	}

	normalized, err := normalizeParameters(params)
	if err != nil {
		return nil, err
	}

	var missing []string
	pending := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		if _, ok := normalized[name]; !ok {
			missing = append(missing, name)
		}
		pending[name] = struct{}{}
	}
	if len(missing) > 0 {
		log.Debug(log.CatChain, "Replay missing parameters", "missing", missing)
		return nil, &MissingParametersError{Names: missing}
	}

	current := base
	for i, op := range c.stack {
		call, err := op.resolve(normalized, pending)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.name, err)
		}

		next, err := current.Apply(call)
		if err != nil {
			log.Debug(log.CatChain, "Operation failed", "index", i, "operation", op.name, "error", err)
			return nil, fmt.Errorf("apply %s: %w", op.name, err)
		}
		if next == nil {
			return nil, fmt.Errorf("apply %s: %w", op.name, ErrNilTarget)
		}
		current = next
	}

	if len(pending) > 0 {
		var left []string
		for _, name := range declared {
			if _, ok := pending[name]; ok {
				left = append(left, name)
			}
		}
		return nil, &MissingParametersError{Names: left}
	}

	return current, nil
}

// normalizeParameters strips placeholder markers from the keys of params.
// A bare key wins over any decorated key addressing the same placeholder.
// Two decorated keys for one placeholder without a bare key are rejected.
func normalizeParameters(params map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(params))
	decoratedBy := make(map[string]string)
	for key, value := range params {
		name := NormalizeName(key)
		if name == key {
			continue
		}
		if _, bare := params[name]; bare {
			continue
		}
		if other, seen := decoratedBy[name]; seen {
			first, second := other, key
			if second < first {
				first, second = second, first
			}
			return nil, fmt.Errorf("%w: %s and %s", ErrAmbiguousParameter, first, second)
		}
		decoratedBy[name] = key
		normalized[name] = value
	}
	for key, value := range params {
		if NormalizeName(key) == key {
			normalized[key] = value
		}
	}
	return normalized, nil
}

package chain

import (
	"fmt"

	"github.com/zjrosen/dqs/internal/log"
)

// Chain is an immutable, ordered sequence of recorded operations together
// with the placeholders they declare.
type Chain struct {
	stack        []Operation
	placeholders []string
	err          error
}

// New creates an empty chain.
func New() *Chain {
	return &Chain{}
}

// Err returns the first error met while building the chain.
func (c *Chain) Err() error {
	if c == nil {
		return nil
	}
	return c.err
}

// Len returns the number of recorded operations.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.stack)
}

// Operations returns the recorded operations in append order.
func (c *Chain) Operations() []Operation {
	if c == nil {
		return nil
	}
	return append([]Operation(nil), c.stack...)
}

// Placeholders returns the declared placeholder names in declaration order.
func (c *Chain) Placeholders() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.placeholders...)
}

// Call records the operation name with its arguments and returns the new
// chain. The receiver is left unchanged. Tokens of the form "$name" and
// keyword keys of the form "__name" declare placeholders; "$$x" and "____x"
// are escaped literals.
func (c *Chain) Call(name string, args []any, kwargs ...Kwarg) *Chain {
	next := c.clone()
	if next.err != nil {
		return next
	}

	op, err := next.record(name, args, kwargs)
	if err != nil {
		log.Debug(log.CatChain, "Chain build failed", "operation", name, "error", err)
		next.err = err
		return next
	}
	next.stack = append(next.stack, op)
	return next
}

// clone copies the stack and placeholder list into fresh backing arrays so
// that sibling chains derived from the same parent never share storage.
func (c *Chain) clone() *Chain {
	if c == nil {
		return &Chain{}
	}
	stack := make([]Operation, len(c.stack), len(c.stack)+1)
	copy(stack, c.stack)
	return &Chain{
		stack:        stack,
		placeholders: append([]string(nil), c.placeholders...),
		err:          c.err,
	}
}

// record classifies the arguments of one call and declares its placeholders
// on c. Declaration order is args first, then each keyword key and value.
func (c *Chain) record(name string, args []any, kwargs []Kwarg) (Operation, error) {
	if name == "" {
		return Operation{}, ErrEmptyOperation
	}

	op := Operation{name: name}
	declare := func(t token) error {
		if !t.isPlaceholder() {
			return nil
		}
		for _, existing := range c.placeholders {
			if existing == t.placeholder {
				return fmt.Errorf("%w: %s", ErrDuplicatePlaceholder, t.placeholder)
			}
		}
		c.placeholders = append(c.placeholders, t.placeholder)
		op.placeholders = append(op.placeholders, t.placeholder)
		return nil
	}

	if len(args) > 0 {
		op.args = make([]token, len(args))
		for i, raw := range args {
			op.args[i] = valueToken(raw)
			if err := declare(op.args[i]); err != nil {
				return Operation{}, err
			}
		}
	}

	if len(kwargs) > 0 {
		op.kwargs = make([]kwargToken, len(kwargs))
		literalKeys := make(map[any]struct{}, len(kwargs))
		for i, kw := range kwargs {
			kt := kwargToken{key: keywordToken(kw.Key), value: valueToken(kw.Value)}
			if !kt.key.isPlaceholder() {
				if _, dup := literalKeys[kt.key.literal]; dup {
					return Operation{}, fmt.Errorf("%w: %s", ErrDuplicateKeyword, kw.Key)
				}
				literalKeys[kt.key.literal] = struct{}{}
			}
			if err := declare(kt.key); err != nil {
				return Operation{}, err
			}
			if err := declare(kt.value); err != nil {
				return Operation{}, err
			}
			op.kwargs[i] = kt
		}
	}

	return op, nil
}

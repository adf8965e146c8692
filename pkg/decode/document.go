package decode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

// Document names a serialization and supplies arguments per operation.
// The registered chain stays authoritative for structure: the stack only
// says which operation each group of arguments belongs to.
type Document struct {
	Name  string `json:"name"`
	Stack []Step `json:"stack"`
}

// Step carries the arguments for one recorded operation. Argument keys are
// placeholder names, with or without their marker.
type Step struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ParseJSON decodes a JSON document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: document has no name", ErrMalformed)
	}
	for i, step := range doc.Stack {
		if step.Name == "" {
			return nil, fmt.Errorf("%w: stack entry %d has no name", ErrMalformed, i)
		}
	}
	return &doc, nil
}

// ParseOperationPath decodes "name/-op1/key-value/-op2/key-value". A segment
// starting with "-" opens an operation; any other segment is a key-value pair
// split on its first "-" and attached to the most recent operation.
func ParseOperationPath(path string) (*Document, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if segments[0] == "" || strings.HasPrefix(segments[0], "-") {
		return nil, fmt.Errorf("%w: missing serialization name", ErrMalformed)
	}

	doc := &Document{Name: segments[0]}
	for _, seg := range segments[1:] {
		if op, ok := strings.CutPrefix(seg, "-"); ok {
			if op == "" {
				return nil, fmt.Errorf("%w: empty operation segment", ErrMalformed)
			}
			doc.Stack = append(doc.Stack, Step{Name: op})
			continue
		}

		key, value, ok := strings.Cut(seg, "-")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: segment %q is neither -operation nor key-value", ErrMalformed, seg)
		}
		if len(doc.Stack) == 0 {
			return nil, fmt.Errorf("%w: argument %q before any operation", ErrMalformed, seg)
		}
		step := &doc.Stack[len(doc.Stack)-1]
		if step.Args == nil {
			step.Args = make(map[string]any)
		}
		step.Args[key] = value
	}
	return doc, nil
}

// Parameters resolves the document against the operations recorded in s.
// Each step matches the next recorded operation with the same name, so
// recorded operations without arguments may be left out of the stack, but
// steps can never be reordered. Every argument key must name a placeholder
// declared by the matched operation.
func (d *Document) Parameters(s *registry.Serialization) (map[string]any, error) {
	ops := s.Chain().Operations()
	params := make(map[string]any)

	cursor := 0
	for _, step := range d.Stack {
		matched := -1
		for i := cursor; i < len(ops); i++ {
			if ops[i].Name() == step.Name {
				matched = i
				break
			}
		}
		if matched < 0 {
			log.Debug(log.CatDecode, "Unmatched operation", "serialization", s.Name(), "operation", step.Name)
			return nil, fmt.Errorf("%w: operation %q does not match the recorded chain", ErrMalformed, step.Name)
		}

		op := ops[matched]
		for key, value := range step.Args {
			name := chain.NormalizeName(key)
			if !op.Declares(name) {
				return nil, fmt.Errorf("%w: %s does not declare %q", ErrMalformed, step.Name, key)
			}
			params[name] = value
		}
		cursor = matched + 1
	}
	return params, nil
}

// FromDocument executes the serialization the document names.
func FromDocument(reg registry.Provider, doc *Document) (chain.Target, error) {
	if doc == nil || doc.Name == "" {
		return nil, fmt.Errorf("%w: document has no name", ErrMalformed)
	}
	s, err := reg.Get(doc.Name)
	if err != nil {
		return nil, err
	}
	params, err := doc.Parameters(s)
	if err != nil {
		return nil, err
	}
	return s.Execute(params)
}

// FromJSON parses and executes a JSON document.
func FromJSON(reg registry.Provider, data []byte) (chain.Target, error) {
	doc, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return FromDocument(reg, doc)
}

// FromOperationPath parses and executes an operation path.
func FromOperationPath(reg registry.Provider, path string) (chain.Target, error) {
	doc, err := ParseOperationPath(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(reg, doc)
}

package chain

import "fmt"

// Target is a chained object: applying a call returns the next object and
// leaves the receiver usable.
type Target interface {
	Apply(call Call) (Target, error)
}

// Method implements one named operation on values of type T.
type Method[T any] func(v T, call Call) (T, error)

// Methods is a registration table from operation name to implementation.
// Populate it once at startup, then Bind values to obtain Targets.
type Methods[T any] map[string]Method[T]

// Bind wraps v as a Target dispatching through m.
func (m Methods[T]) Bind(v T) *Bound[T] {
	return &Bound[T]{value: v, methods: m}
}

// Bound is a value of type T bound to a Methods table.
type Bound[T any] struct {
	value   T
	methods Methods[T]
}

// Apply looks up call.Name in the table and runs it against the bound value.
func (b *Bound[T]) Apply(call Call) (Target, error) {
	method, ok := b.methods[call.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, call.Name)
	}
	next, err := method(b.value, call)
	if err != nil {
		return nil, err
	}
	return &Bound[T]{value: next, methods: b.methods}, nil
}

// Value returns the bound value.
func (b *Bound[T]) Value() T {
	return b.value
}

// ValueOf extracts a T from a replay result. It accepts a *Bound[T] or a
// Target that is itself a T.
func ValueOf[T any](t Target) (T, error) {
	if b, ok := t.(*Bound[T]); ok {
		return b.value, nil
	}
	if v, ok := t.(T); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("unexpected target type %T", t)
}

// Compile-time check that Bound implements Target.
var _ Target = (*Bound[int])(nil)

package decode

import "errors"

// Decode errors
var (
	// ErrMalformed indicates input that does not match the decoder's grammar.
	ErrMalformed = errors.New("malformed input")

	// ErrArityMismatch indicates a positional value count that differs from
	// the number of declared placeholders.
	ErrArityMismatch = errors.New("parameter count does not match placeholders")
)

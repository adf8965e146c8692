package chain

import (
	"errors"
	"fmt"
	"strings"
)

// Build errors are reported by Chain.Err; replay errors by Chain.Replay.
var (
	ErrDuplicatePlaceholder = errors.New("placeholder already declared")
	ErrDuplicateKeyword     = errors.New("duplicate keyword argument")
	ErrEmptyOperation       = errors.New("operation name cannot be empty")
	ErrMissingParameters    = errors.New("parameters are missing")
	ErrNotPlaceholder       = errors.New("token is not a placeholder")
	ErrUnknownOperation     = errors.New("unknown operation")
	ErrInvalidKeyword       = errors.New("keyword placeholder must resolve to a non-empty string")
	ErrNilTarget            = errors.New("target cannot be nil")
	ErrAmbiguousParameter   = errors.New("parameter supplied under more than one marker")
)

// MissingParametersError lists every declared placeholder that received no
// value. It matches ErrMissingParameters with errors.Is.
type MissingParametersError struct {
	Names []string
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingParameters, strings.Join(e.Names, ", "))
}

// Is reports whether target is ErrMissingParameters.
func (e *MissingParametersError) Is(target error) bool {
	return target == ErrMissingParameters
}

package decode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

// splitPath trims surrounding whitespace and slashes and returns the
// path-unescaped segments.
func splitPath(path string) ([]string, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMalformed)
	}

	raw := strings.Split(trimmed, "/")
	segments := make([]string, len(raw))
	for i, seg := range raw {
		unescaped, err := url.PathUnescape(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q: %v", ErrMalformed, seg, err)
		}
		segments[i] = unescaped
	}
	return segments, nil
}

// ParsePath splits "name/value1/value2" into the serialization name and its
// raw values.
func ParsePath(path string) (string, []string, error) {
	segments, err := splitPath(path)
	if err != nil {
		return "", nil, err
	}
	if segments[0] == "" {
		return "", nil, fmt.Errorf("%w: missing serialization name", ErrMalformed)
	}
	return segments[0], segments[1:], nil
}

// Path executes the serialization named by the first path segment with the
// remaining segments as positional values. When name is non-empty the path
// carries values only and every segment is a value.
func Path(reg registry.Provider, path string, name string) (chain.Target, error) {
	var (
		values []string
		err    error
	)
	switch {
	case name == "":
		name, values, err = ParsePath(path)
	case strings.Trim(strings.TrimSpace(path), "/") != "":
		values, err = splitPath(path)
	}
	if err != nil {
		return nil, err
	}

	s, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	return Values(s, toAny(values))
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

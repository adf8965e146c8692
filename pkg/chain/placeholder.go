package chain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	valueMarker          = "$"
	escapedValueMarker   = "$$"
	keywordMarker        = "__"
	escapedKeywordMarker = "____"
)

var keywordNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValuePlaceholder reports whether token is a string of the form "$name".
// "$$name" is an escaped literal and a bare "$" declares nothing.
func IsValuePlaceholder(token any) bool {
	s, ok := token.(string)
	if !ok {
		return false
	}
	return len(s) > len(valueMarker) &&
		strings.HasPrefix(s, valueMarker) &&
		!strings.HasPrefix(s, escapedValueMarker)
}

// IsKeywordPlaceholder reports whether token is a keyword of the form
// "__name" where name is identifier shaped. "____name" is an escaped literal.
func IsKeywordPlaceholder(token any) bool {
	s, ok := token.(string)
	if !ok {
		return false
	}
	if !strings.HasPrefix(s, keywordMarker) || strings.HasPrefix(s, escapedKeywordMarker) {
		return false
	}
	return keywordNamePattern.MatchString(s[len(keywordMarker):])
}

// IsPlaceholder reports whether token matches either placeholder grammar.
func IsPlaceholder(token any) bool {
	return IsValuePlaceholder(token) || IsKeywordPlaceholder(token)
}

// StripMarker returns the placeholder name inside token.
func StripMarker(token string) (string, error) {
	switch {
	case IsValuePlaceholder(token):
		return token[len(valueMarker):], nil
	case IsKeywordPlaceholder(token):
		return token[len(keywordMarker):], nil
	default:
		return "", fmt.Errorf("%w: %q", ErrNotPlaceholder, token)
	}
}

// Unescape strips one escape layer from a literal token: "$$x" becomes "$x"
// and "____x" becomes "__x". Other tokens, strings or not, are returned
// unchanged.
func Unescape(token any) any {
	s, ok := token.(string)
	if !ok {
		return token
	}
	switch {
	case strings.HasPrefix(s, escapedValueMarker):
		return s[len(valueMarker):]
	case strings.HasPrefix(s, escapedKeywordMarker):
		return s[len(keywordMarker):]
	default:
		return s
	}
}

// NormalizeName maps a parameter key to the placeholder name it addresses.
// "$name" and "__name" both normalize to "name"; other keys are unchanged.
func NormalizeName(key string) string {
	if name, err := StripMarker(key); err == nil {
		return name
	}
	return key
}

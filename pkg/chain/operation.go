package chain

import "fmt"

// Kwarg is one keyword argument. Keyword arguments keep their order so that
// placeholder substitution is deterministic.
type Kwarg struct {
	Key   string
	Value any
}

// KW creates a keyword argument.
func KW(key string, value any) Kwarg {
	return Kwarg{Key: key, Value: value}
}

// Call is a resolved operation handed to a Target: placeholders have been
// substituted and escaped literals unescaped.
type Call struct {
	Name   string
	Args   []any
	Kwargs []Kwarg
}

// Kwarg returns the value of the keyword argument named key.
func (c Call) Kwarg(key string) (any, bool) {
	for _, kw := range c.Kwargs {
		if kw.Key == key {
			return kw.Value, true
		}
	}
	return nil, false
}

// token is one recorded argument slot. Exactly one of placeholder or literal
// is meaningful: a non-empty placeholder names the parameter to substitute,
// otherwise literal is passed through as is.
type token struct {
	raw         any
	literal     any
	placeholder string
}

func (t token) isPlaceholder() bool {
	return t.placeholder != ""
}

// valueToken classifies a positional argument or keyword value.
func valueToken(raw any) token {
	if IsValuePlaceholder(raw) {
		name, _ := StripMarker(raw.(string))
		return token{raw: raw, placeholder: name}
	}
	return token{raw: raw, literal: Unescape(raw)}
}

// keywordToken classifies a keyword key.
func keywordToken(raw string) token {
	if IsKeywordPlaceholder(raw) {
		name, _ := StripMarker(raw)
		return token{raw: raw, placeholder: name}
	}
	return token{raw: raw, literal: Unescape(raw)}
}

type kwargToken struct {
	key   token
	value token
}

// Operation is one recorded call. Its tokens never change once recorded.
type Operation struct {
	name         string
	args         []token
	kwargs       []kwargToken
	placeholders []string
}

// Name returns the operation name.
func (o Operation) Name() string {
	return o.name
}

// Args returns the positional arguments as they were recorded, before
// escaping was resolved.
func (o Operation) Args() []any {
	args := make([]any, len(o.args))
	for i, t := range o.args {
		args[i] = t.raw
	}
	return args
}

// Kwargs returns the keyword arguments as they were recorded.
func (o Operation) Kwargs() []Kwarg {
	kwargs := make([]Kwarg, len(o.kwargs))
	for i, kw := range o.kwargs {
		kwargs[i] = Kwarg{Key: kw.key.raw.(string), Value: kw.value.raw}
	}
	return kwargs
}

// Placeholders returns the placeholder names this operation declares, in
// declaration order.
func (o Operation) Placeholders() []string {
	return append([]string(nil), o.placeholders...)
}

// Declares reports whether this operation declares the placeholder name.
func (o Operation) Declares(name string) bool {
	for _, p := range o.placeholders {
		if p == name {
			return true
		}
	}
	return false
}

// resolve substitutes parameters into the operation's tokens. pending holds
// the placeholders not yet consumed by earlier operations; each substituted
// name is removed from it.
func (o Operation) resolve(params map[string]any, pending map[string]struct{}) (Call, error) {
	substitute := func(t token) any {
		if !t.isPlaceholder() {
			return t.literal
		}
		if _, ok := pending[t.placeholder]; !ok {
			return t.raw
		}
		delete(pending, t.placeholder)
		return params[t.placeholder]
	}

	call := Call{Name: o.name}
	if len(o.args) > 0 {
		call.Args = make([]any, len(o.args))
		for i, t := range o.args {
			call.Args[i] = substitute(t)
		}
	}

	if len(o.kwargs) > 0 {
		call.Kwargs = make([]Kwarg, 0, len(o.kwargs))
		seen := make(map[string]struct{}, len(o.kwargs))
		for _, kw := range o.kwargs {
			resolved := substitute(kw.key)
			key, ok := resolved.(string)
			if !ok || key == "" {
				return Call{}, fmt.Errorf("%w: %v got %T", ErrInvalidKeyword, kw.key.raw, resolved)
			}
			if _, dup := seen[key]; dup {
				return Call{}, fmt.Errorf("%w: %s", ErrDuplicateKeyword, key)
			}
			seen[key] = struct{}{}
			call.Kwargs = append(call.Kwargs, Kwarg{Key: key, Value: substitute(kw.value)})
		}
	}

	return call, nil
}

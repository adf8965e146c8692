package decode

import (
	"fmt"
	"net/url"

	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

// DefaultNameField is the request field holding the serialization name.
const DefaultNameField = "name"

// Request decodes flat keyed data, such as form or query values, where each
// placeholder is looked up by name under an optional shared prefix.
type Request struct {
	Prefix    string
	NameField string
}

// Parameters looks up each placeholder at prefix+name, prefix+"$"+name and
// prefix+"__"+name, first hit wins. A single value maps to a string and
// repeated values map to a []string. Placeholders with no field are left out
// so replay can report them together.
func (r Request) Parameters(placeholders []string, values url.Values) map[string]any {
	params := make(map[string]any, len(placeholders))
	for _, name := range placeholders {
		for _, key := range []string{r.Prefix + name, r.Prefix + "$" + name, r.Prefix + "__" + name} {
			vs, ok := values[key]
			if !ok || len(vs) == 0 {
				continue
			}
			if len(vs) == 1 {
				params[name] = vs[0]
			} else {
				params[name] = append([]string(nil), vs...)
			}
			break
		}
	}
	return params
}

// Field returns the full key of the name field.
func (r Request) Field() string {
	if r.NameField == "" {
		return r.Prefix + DefaultNameField
	}
	return r.Prefix + r.NameField
}

// Name returns the serialization name carried by values, or "".
func (r Request) Name(values url.Values) string {
	return values.Get(r.Field())
}

// Execute reads the serialization name from the name field and executes it
// with the request's parameters.
func (r Request) Execute(reg registry.Provider, values url.Values) (chain.Target, error) {
	name := r.Name(values)
	if name == "" {
		log.Debug(log.CatDecode, "Request without serialization name", "field", r.Field())
		return nil, fmt.Errorf("%w: missing %q field", ErrMalformed, r.Field())
	}

	s, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	return s.Execute(r.Parameters(s.Placeholders(), values))
}

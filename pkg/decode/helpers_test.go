package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

// trace records every call applied to it.
type trace struct {
	calls []chain.Call
}

func (t *trace) Apply(call chain.Call) (chain.Target, error) {
	next := &trace{calls: append(append([]chain.Call(nil), t.calls...), call)}
	return next, nil
}

func callsOf(t *testing.T, target chain.Target) []chain.Call {
	t.Helper()
	tr, ok := target.(*trace)
	require.True(t, ok, "unexpected target %T", target)
	return tr.calls
}

// newTestRegistry registers the serializations shared by the decoder tests.
func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()

	register := func(name string, c *chain.Chain) {
		_, err := reg.Register(name, c, &trace{})
		require.NoError(t, err)
	}

	register("by-name", chain.New().Filter(chain.KW("name__icontains", "$name")))
	register("by-name-gender", chain.New().
		Filter(chain.KW("name__icontains", "$name")).
		Filter(chain.KW("gender", "$gender")))
	register("keyword", chain.New().Filter(chain.KW("__somename", "$somevalue")))
	register("static", chain.New().All())
	register("functions", chain.New().
		Call("functionsomewhere", nil, chain.KW("phoenix", "$phoenix"), chain.KW("another", "$another")).
		All().
		Call("finalfunction", nil, chain.KW("page", "$page")))

	return reg
}

package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/dqs/pkg/chain"
)

// calls is a Target that records the names of applied operations.
type calls []string

func (c calls) Apply(call chain.Call) (chain.Target, error) {
	next := append(append(calls(nil), c...), call.Name)
	for _, kw := range call.Kwargs {
		next = append(next, fmt.Sprintf("%s=%v", kw.Key, kw.Value))
	}
	return next, nil
}

func TestNew(t *testing.T) {
	reg := New()
	require.NotNil(t, reg)
	require.Empty(t, reg.Names())
	require.Zero(t, reg.Len())
}

func TestRegistry_Register(t *testing.T) {
	reg := New()
	c := chain.New().Filter(chain.KW("name__icontains", "$param"))

	s, err := reg.Register("people-search", c, calls{})

	require.NoError(t, err)
	require.Equal(t, "people-search", s.Name())
	require.Same(t, c, s.Chain())
	require.Equal(t, calls{}, s.Base())
	require.Equal(t, []string{"param"}, s.Placeholders())
	require.Equal(t, []string{"people-search"}, reg.Names())
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	reg := New()
	_, err := reg.Register("name", chain.New().All(), calls{})
	require.NoError(t, err)

	_, err = reg.Register("name", chain.New().None(), calls{"other"})
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	// The original entry is untouched.
	s, err := reg.Get("name")
	require.NoError(t, err)
	require.Equal(t, chain.OpAll, s.Chain().Operations()[0].Name())
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_Register_Invalid(t *testing.T) {
	reg := New()

	_, err := reg.Register("", chain.New(), calls{})
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = reg.Register("nil-chain", nil, calls{})
	require.ErrorIs(t, err, ErrNilChain)

	_, err = reg.Register("nil-base", chain.New(), nil)
	require.ErrorIs(t, err, ErrNilBase)

	broken := chain.New().Filter(chain.KW("a", "$x")).Filter(chain.KW("b", "$x"))
	_, err = reg.Register("broken", broken, calls{})
	require.ErrorIs(t, err, chain.ErrDuplicatePlaceholder)

	require.Empty(t, reg.Names())
}

func TestRegistry_Get_NotRegistered(t *testing.T) {
	_, err := New().Get("missing")
	require.ErrorIs(t, err, ErrNotRegistered)
	require.Contains(t, err.Error(), "missing")
}

func TestRegistry_Execute(t *testing.T) {
	reg := New()
	_, err := reg.Register("s", chain.New().Filter(chain.KW("name", "$n")).All(), calls{})
	require.NoError(t, err)

	out, err := reg.Execute("s", map[string]any{"n": "val"})
	require.NoError(t, err)
	require.Equal(t, calls{"filter", "name=val", "all"}, out)
}

func TestRegistry_Execute_MissingParameters(t *testing.T) {
	reg := New()
	_, err := reg.Register("s", chain.New().Filter(chain.KW("name", "$n")), calls{})
	require.NoError(t, err)

	_, err = reg.Execute("s", nil)
	require.ErrorIs(t, err, chain.ErrMissingParameters)
}

func TestRegistry_Execute_NotRegistered(t *testing.T) {
	_, err := New().Execute("nope", nil)
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegistry_ImmutableAfterRegistration(t *testing.T) {
	reg := New()
	c := chain.New().All()
	_, err := reg.Register("testing_immutable", c, calls{})
	require.NoError(t, err)

	// Deriving from the registered chain must not change what it replays.
	_ = c.Filter(chain.KW("name__icontains", "this-string-not-in-name"))

	out, err := reg.Execute("testing_immutable", nil)
	require.NoError(t, err)
	require.Equal(t, calls{"all"}, out)
}

func TestRegistry_Names_Sorted(t *testing.T) {
	reg := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := reg.Register(name, chain.New(), calls{})
		require.NoError(t, err)
	}
	require.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())
}

func TestRegistry_ConcurrentRegistration(t *testing.T) {
	reg := New()
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Register("contended", chain.New().All(), calls{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyRegistered)
	}
	require.Equal(t, 1, succeeded)
}

func TestRegistry_ConcurrentExecute(t *testing.T) {
	reg := New()
	_, err := reg.Register("s", chain.New().Filter(chain.KW("n", "$n")), calls{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := reg.Execute("s", map[string]any{"n": i})
			if err != nil {
				t.Error(err)
				return
			}
			if got := out.(calls)[1]; got != fmt.Sprintf("n=%d", i) {
				t.Errorf("got %s", got)
			}
		}(i)
	}
	wg.Wait()
}

func TestInstant(t *testing.T) {
	s, err := Instant(chain.New().Filter(chain.KW("name__icontains", "$$weird")), calls{})
	require.NoError(t, err)
	require.Empty(t, s.Name())

	out, err := s.Execute(nil)
	require.NoError(t, err)
	require.Equal(t, calls{"filter", "name__icontains=$weird"}, out)
}

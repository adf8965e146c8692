package decode

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

func TestRequest_Parameters(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		values  url.Values
		want    map[string]any
	}{
		{
			name:   "bare keys",
			values: url.Values{"name": {"ann"}, "gender": {"F"}},
			want:   map[string]any{"name": "ann", "gender": "F"},
		},
		{
			name:   "marked keys",
			values: url.Values{"$name": {"ann"}, "__gender": {"F"}},
			want:   map[string]any{"name": "ann", "gender": "F"},
		},
		{
			name:   "bare key wins",
			values: url.Values{"$name": {"marked"}, "name": {"bare"}},
			want:   map[string]any{"name": "bare"},
		},
		{
			name:   "repeated values",
			values: url.Values{"name": {"a", "b"}},
			want:   map[string]any{"name": []string{"a", "b"}},
		},
		{
			name:    "prefix",
			request: Request{Prefix: "search-"},
			values:  url.Values{"search-name": {"ann"}, "gender": {"ignored"}, "search-$gender": {"F"}},
			want:    map[string]any{"name": "ann", "gender": "F"},
		},
		{
			name:   "absent placeholders are left out",
			values: url.Values{"other": {"x"}, "name": {}},
			want:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.request.Parameters([]string{"name", "gender"}, tt.values)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_Execute(t *testing.T) {
	reg := newTestRegistry(t)

	// The name field doubles as the value of a placeholder called "name".
	out, err := Request{}.Execute(reg, url.Values{
		"name":   {"by-name-gender"},
		"gender": {"F"},
	})
	require.NoError(t, err)
	calls := callsOf(t, out)
	require.Equal(t, "by-name-gender", calls[0].Kwargs[0].Value)
	require.Equal(t, "F", calls[1].Kwargs[0].Value)
}

func TestRequest_Execute_NameField(t *testing.T) {
	reg := newTestRegistry(t)
	req := Request{Prefix: "q.", NameField: "serialization"}

	out, err := req.Execute(reg, url.Values{
		"q.serialization": {"by-name"},
		"q.name":          {"ann"},
	})
	require.NoError(t, err)
	require.Equal(t, []chain.Kwarg{{Key: "name__icontains", Value: "ann"}}, callsOf(t, out)[0].Kwargs)
}

func TestRequest_Execute_Errors(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := Request{}.Execute(reg, url.Values{})
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Request{}.Execute(reg, url.Values{"name": {"unknown"}})
	require.ErrorIs(t, err, registry.ErrNotRegistered)

	_, err = Request{NameField: "s"}.Execute(reg, url.Values{"s": {"by-name-gender"}, "name": {"ann"}})
	var missing *chain.MissingParametersError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"gender"}, missing.Names)
}

func TestRequest_Name(t *testing.T) {
	values := url.Values{"name": {"plain"}, "q-name": {"prefixed"}, "q-kind": {"custom"}}

	require.Equal(t, "name", Request{}.Field())
	require.Equal(t, "plain", Request{}.Name(values))
	require.Equal(t, "prefixed", Request{Prefix: "q-"}.Name(values))
	require.Equal(t, "custom", Request{Prefix: "q-", NameField: "kind"}.Name(values))
	require.Empty(t, Request{NameField: "missing"}.Name(values))
}

package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"name": "functions",
		"stack": [
			{"name": "functionsomewhere", "args": {"phoenix": "iamargument", "$another": 3}},
			{"name": "finalfunction", "args": {"page": 10}}
		]
	}`))
	require.NoError(t, err)
	require.Equal(t, "functions", doc.Name)
	require.Len(t, doc.Stack, 2)
	require.Equal(t, "functionsomewhere", doc.Stack[0].Name)
	require.Equal(t, map[string]any{"phoenix": "iamargument", "$another": float64(3)}, doc.Stack[0].Args)
}

func TestParseJSON_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":       `{"name":`,
		"missing name":   `{"stack": []}`,
		"unnamed step":   `{"name": "s", "stack": [{"args": {}}]}`,
		"wrong type":     `{"name": 3}`,
		"stack not list": `{"name": "s", "stack": {}}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(input))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseOperationPath(t *testing.T) {
	doc, err := ParseOperationPath("some_serialization_i_registered/-functionsomewhere/phoenix-iamargument/another-asdgu/-finalfunction/page-10")
	require.NoError(t, err)

	require.Equal(t, &Document{
		Name: "some_serialization_i_registered",
		Stack: []Step{
			{Name: "functionsomewhere", Args: map[string]any{"phoenix": "iamargument", "another": "asdgu"}},
			{Name: "finalfunction", Args: map[string]any{"page": "10"}},
		},
	}, doc)
}

func TestParseOperationPath_SplitsOnFirstDash(t *testing.T) {
	doc, err := ParseOperationPath("s/-op/date-2020-01-02/-bare")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"date": "2020-01-02"}, doc.Stack[0].Args)
	require.Equal(t, Step{Name: "bare"}, doc.Stack[1])
}

func TestParseOperationPath_Malformed(t *testing.T) {
	tests := map[string]string{
		"empty":                 "",
		"name is operation":     "-op/a-b",
		"argument before op":    "s/a-b/-op",
		"segment without dash":  "s/-op/plain",
		"trailing empty op":     "s/-op/-",
		"empty operation":       "s/-/a-b",
		"leading dash only key": "s/-op/-x/y",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOperationPath(input)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDocument_Parameters(t *testing.T) {
	reg := newTestRegistry(t)
	s, err := reg.Get("functions")
	require.NoError(t, err)

	tests := []struct {
		name    string
		stack   []Step
		want    map[string]any
		wantErr bool
	}{
		{
			name: "full stack",
			stack: []Step{
				{Name: "functionsomewhere", Args: map[string]any{"phoenix": "a", "another": "b"}},
				{Name: "all"},
				{Name: "finalfunction", Args: map[string]any{"page": 1}},
			},
			want: map[string]any{"phoenix": "a", "another": "b", "page": 1},
		},
		{
			name: "skips operations without arguments",
			stack: []Step{
				{Name: "functionsomewhere", Args: map[string]any{"phoenix": "a"}},
				{Name: "finalfunction", Args: map[string]any{"page": 1}},
			},
			want: map[string]any{"phoenix": "a", "page": 1},
		},
		{
			name: "marked keys",
			stack: []Step{
				{Name: "functionsomewhere", Args: map[string]any{"$phoenix": "a", "__another": "b"}},
			},
			want: map[string]any{"phoenix": "a", "another": "b"},
		},
		{
			name:  "empty stack",
			stack: nil,
			want:  map[string]any{},
		},
		{
			name: "out of order",
			stack: []Step{
				{Name: "finalfunction", Args: map[string]any{"page": 1}},
				{Name: "functionsomewhere", Args: map[string]any{"phoenix": "a"}},
			},
			wantErr: true,
		},
		{
			name:    "unknown operation",
			stack:   []Step{{Name: "nope"}},
			wantErr: true,
		},
		{
			name: "argument not declared by operation",
			stack: []Step{
				{Name: "functionsomewhere", Args: map[string]any{"page": 1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Name: "functions", Stack: tt.stack}
			got, err := doc.Parameters(s)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFromOperationPath(t *testing.T) {
	reg := newTestRegistry(t)

	out, err := FromOperationPath(reg, "functions/-functionsomewhere/phoenix-iamargument/another-asdgu/-finalfunction/page-10")
	require.NoError(t, err)

	calls := callsOf(t, out)
	require.Len(t, calls, 3)
	require.Equal(t, []chain.Kwarg{{Key: "phoenix", Value: "iamargument"}, {Key: "another", Value: "asdgu"}}, calls[0].Kwargs)
	require.Equal(t, chain.OpAll, calls[1].Name)
	require.Equal(t, []chain.Kwarg{{Key: "page", Value: "10"}}, calls[2].Kwargs)
}

func TestFromJSON(t *testing.T) {
	reg := newTestRegistry(t)

	out, err := FromJSON(reg, []byte(`{"name": "by-name", "stack": [{"name": "filter", "args": {"$name": "ann"}}]}`))
	require.NoError(t, err)
	require.Equal(t, "ann", callsOf(t, out)[0].Kwargs[0].Value)
}

func TestFromJSON_PartialStackMissingParameters(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := FromJSON(reg, []byte(`{"name": "functions", "stack": [{"name": "finalfunction", "args": {"page": 2}}]}`))

	var missing *chain.MissingParametersError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"phoenix", "another"}, missing.Names)
}

func TestFromDocument_Errors(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := FromDocument(reg, nil)
	require.ErrorIs(t, err, ErrMalformed)

	_, err = FromDocument(reg, &Document{Name: "unknown"})
	require.ErrorIs(t, err, registry.ErrNotRegistered)

	_, err = FromJSON(reg, []byte(`[]`))
	require.ErrorIs(t, err, ErrMalformed)
}

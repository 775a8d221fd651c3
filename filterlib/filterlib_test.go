package filterlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgorg/flax/state"
	"github.com/borgorg/flax/variable"
)

func entry(path string, v variable.Variable) (state.Path, variable.Variable) {
	return state.ParsePath(path), v
}

func TestCompileLiteralForms(t *testing.T) {
	tests := []struct {
		name    string
		literal any
		path    string
		v       variable.Variable
		want    bool
	}{
		{name: "True matches everything", literal: true, path: "a", v: variable.Param(1.0), want: true},
		{name: "False matches nothing", literal: false, path: "a", v: variable.Param(1.0), want: false},
		{name: "Nil matches nothing", literal: nil, path: "a", v: variable.Param(1.0), want: false},
		{name: "Kind exact", literal: variable.KindParam, path: "a", v: variable.Param(1.0), want: true},
		{name: "Kind mismatch", literal: variable.KindParam, path: "a", v: variable.BatchStat(1.0), want: false},
		{name: "Kind matches sub-kind", literal: variable.KindRngState, path: "a", v: variable.RngKey(1), want: true},
		{name: "Root kind matches all built-ins", literal: variable.KindVariable, path: "a", v: variable.BatchStat(1.0), want: true},
		{name: "Sub-kind does not match parent", literal: variable.KindRngKey, path: "a", v: variable.New(variable.KindRngState, 1), want: false},
		{name: "Tag string match", literal: "frozen", path: "a", v: variable.Param(1.0).WithTag("frozen"), want: true},
		{name: "Tag string mismatch", literal: "frozen", path: "a", v: variable.Param(1.0), want: false},
		{name: "Tag is not kind", literal: "param", path: "a", v: variable.Param(1.0), want: false},
		{name: "Slice means any-of", literal: []any{variable.KindParam, "frozen"}, path: "a", v: variable.BatchStat(1.0).WithTag("frozen"), want: true},
		{name: "Slice no element matches", literal: []any{variable.KindParam, "frozen"}, path: "a", v: variable.BatchStat(1.0), want: false},
		{name: "Empty slice matches nothing", literal: []any{}, path: "a", v: variable.Param(1.0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := Compile(tt.literal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pred(entry(tt.path, tt.v)))
		})
	}
}

func TestCompileCombinators(t *testing.T) {
	frozenParam := variable.Param(1.0).WithTag("frozen")

	tests := []struct {
		name   string
		filter Filter
		path   string
		v      variable.Variable
		want   bool
	}{
		{name: "Everything", filter: Everything, path: "a", v: variable.Param(1.0), want: true},
		{name: "Nothing", filter: Nothing, path: "a", v: variable.Param(1.0), want: false},
		{name: "OfKind", filter: OfKind(variable.KindParam), path: "a", v: variable.Param(1.0), want: true},
		{name: "WithTag", filter: WithTag("frozen"), path: "a", v: frozenParam, want: true},
		{name: "PathContains hit", filter: PathContains(state.FieldKey("bias")), path: "layers/0/bias", v: variable.Param(1.0), want: true},
		{name: "PathContains miss", filter: PathContains(state.FieldKey("bias")), path: "layers/0/kernel", v: variable.Param(1.0), want: false},
		{name: "PathContains index", filter: PathContains(state.IndexKey(0)), path: "layers/0/kernel", v: variable.Param(1.0), want: true},
		{name: "Any one side", filter: Any(variable.KindBatchStat, "frozen"), path: "a", v: frozenParam, want: true},
		{name: "Any empty is Nothing", filter: Any(), path: "a", v: variable.Param(1.0), want: false},
		{name: "All both sides", filter: All(variable.KindParam, "frozen"), path: "a", v: frozenParam, want: true},
		{name: "All one side fails", filter: All(variable.KindParam, "frozen"), path: "a", v: variable.Param(1.0), want: false},
		{name: "All empty is Everything", filter: All(), path: "a", v: variable.Param(1.0), want: true},
		{name: "Not inverts", filter: Not(variable.KindParam), path: "a", v: variable.BatchStat(1.0), want: true},
		{name: "None excludes all listed", filter: None(variable.KindParam, "frozen"), path: "a", v: variable.BatchStat(1.0), want: true},
		{name: "None rejects match", filter: None(variable.KindParam, "frozen"), path: "a", v: frozenParam, want: false},
		{name: "None empty is Everything", filter: None(), path: "a", v: variable.Param(1.0), want: true},
		{name: "Not of Everything", filter: Not(Everything), path: "a", v: variable.Param(1.0), want: false},
		{name: "Nested", filter: All(variable.KindParam, Not("frozen")), path: "a", v: variable.Param(1.0), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := Compile(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pred(entry(tt.path, tt.v)))
		})
	}
}

func TestCompilePredicatePassthrough(t *testing.T) {
	calls := 0
	raw := func(p state.Path, v variable.Variable) bool {
		calls++
		return p.Contains(state.FieldKey("bias"))
	}

	t.Run("Bare func", func(t *testing.T) {
		pred, err := Compile(raw)
		require.NoError(t, err)
		assert.True(t, pred(entry("m/bias", variable.Param(1.0))))
	})

	t.Run("Predicate type", func(t *testing.T) {
		pred, err := Compile(Predicate(raw))
		require.NoError(t, err)
		assert.False(t, pred(entry("m/kernel", variable.Param(1.0))))
	})

	t.Run("Wrapped in combinator", func(t *testing.T) {
		pred, err := Compile(Not(FromPredicate(raw)))
		require.NoError(t, err)
		assert.True(t, pred(entry("m/kernel", variable.Param(1.0))))
	})

	assert.Equal(t, 3, calls)
}

func TestCompileInvalidLiteral(t *testing.T) {
	tests := []struct {
		name    string
		literal any
	}{
		{name: "Int", literal: 42},
		{name: "Struct", literal: struct{}{}},
		{name: "Map", literal: map[string]bool{}},
		{name: "Wrong func signature", literal: func() bool { return true }},
		{name: "Invalid nested in Any", literal: Any(variable.KindParam, 42)},
		{name: "Invalid nested in slice", literal: []any{true, 3.14}},
		{name: "Invalid nested in Not", literal: Not(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.literal)
			var invalid *ErrInvalidFilterLiteral
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestCompileFilterSliceIsAnyOf(t *testing.T) {
	pred, err := Compile([]Filter{OfKind(variable.KindParam), WithTag("x")})
	require.NoError(t, err)

	assert.True(t, pred(entry("a", variable.Param(1.0))))
	assert.True(t, pred(entry("a", variable.BatchStat(1.0).WithTag("x"))))
	assert.False(t, pred(entry("a", variable.BatchStat(1.0))))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		literal any
		want    string
	}{
		{name: "Everything", literal: Everything, want: "Everything"},
		{name: "Bool true", literal: true, want: "Everything"},
		{name: "Nil", literal: nil, want: "Nothing"},
		{name: "Kind", literal: variable.KindParam, want: "OfKind(param)"},
		{name: "Tag", literal: "frozen", want: `WithTag("frozen")`},
		{name: "Any", literal: Any(variable.KindParam, "frozen"), want: `Any(OfKind(param), WithTag("frozen"))`},
		{name: "Not", literal: Not(true), want: "Not(Everything)"},
		{name: "Slice", literal: []any{variable.KindParam, false}, want: "Any(OfKind(param), Nothing)"},
		{name: "Invalid", literal: 42, want: "<invalid int>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.literal))
		})
	}
}

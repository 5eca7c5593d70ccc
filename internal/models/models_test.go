package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/entrait/internal/syntax"
)

func typeParam(ident string, bounds ...string) *syntax.TypeParam {
	tp := &syntax.TypeParam{Ident: ident}
	for _, b := range bounds {
		tp.Bounds = append(tp.Bounds, &syntax.TraitBound{Path: syntax.NewPathType(b).Path})
	}
	return tp
}

func TestGenericsAccumulatorDedupes(t *testing.T) {
	acc := NewGenericsAccumulator()

	assert.True(t, acc.AddParam(typeParam("T", "Clone")))
	assert.False(t, acc.AddParam(typeParam("T")))
	assert.False(t, acc.AddParam(&syntax.LifetimeParam{Lifetime: "'a"}))
	assert.True(t, acc.AddParam(&syntax.ConstParam{Ident: "N", Type: syntax.NewPathType("usize")}))

	pred := &syntax.TypePredicate{
		Bounded: syntax.NewPathType("T"),
		Bounds:  []syntax.TypeParamBound{&syntax.TraitBound{Path: syntax.NewPathType("Send").Path}},
	}
	assert.True(t, acc.AddPredicate(pred))
	assert.False(t, acc.AddPredicate(syntax.ClonePredicate(pred)))
	assert.False(t, acc.AddPredicate(&syntax.LifetimePredicate{Lifetime: "'a", Bounds: []string{"'b"}}))

	result := acc.Result()
	require.Len(t, result.Params, 2)
	assert.Equal(t, "<T: Clone, const N: usize>", result.ParamsString())
	assert.Equal(t, "<T, N>", result.ArgsString())
	assert.Equal(t, " where T: Send", result.WhereString())
}

func TestTraitGenericsImplStrings(t *testing.T) {
	g := TraitGenerics{
		Params: []syntax.GenericParam{
			&syntax.TypeParam{Ident: "T", Default: syntax.NewPathType("u8")},
			&syntax.ConstParam{Ident: "N", Type: syntax.NewPathType("usize"), Default: "3"},
		},
	}

	assert.Equal(t, "<T = u8, const N: usize = 3>", g.ParamsString())
	assert.Equal(t, "<T, const N: usize, EntraitT: Sync>", g.ImplParamsString("EntraitT: Sync"))
	assert.Equal(t, " where X: Y", g.ImplWhereString("X: Y"))

	empty := TraitGenerics{}
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "", empty.ImplParamsString())
	assert.Equal(t, "", empty.ImplWhereString())
}

func TestDepsString(t *testing.T) {
	ident := "A"
	tests := []struct {
		deps     Deps
		kind     DepsKind
		expected string
	}{
		{
			deps: &DepsGeneric{GenericParam: &ident, TraitBounds: []syntax.TypeParamBound{
				&syntax.TraitBound{Path: syntax.NewPathType("Bar").Path},
				&syntax.TraitBound{Path: syntax.NewPathType("Baz").Path},
			}},
			kind:     DepsKindGeneric,
			expected: "Generic { generic_param: Some(A), trait_bounds: [Bar, Baz] }",
		},
		{deps: &DepsConcrete{Type: syntax.NewPathType("App")}, kind: DepsKindConcrete, expected: "Concrete(App)"},
		{deps: &DepsNone{}, kind: DepsKindNone, expected: "NoDeps"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.deps.Kind())
		assert.Equal(t, tt.expected, tt.deps.String())
	}
	assert.Equal(t, "A", GenericParamIdent(tests[0].deps))
	assert.Equal(t, "", GenericParamIdent(tests[1].deps))
}

func TestParseAsyncStrategy(t *testing.T) {
	for _, s := range []AsyncStrategy{AsyncNone, AsyncBoxFuture, AsyncAssociatedFuture} {
		parsed, err := ParseAsyncStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseAsyncStrategy("green_threads")
	assert.Error(t, err)
}

func TestCrateIdents(t *testing.T) {
	c := NewCrateIdents("::entrait")
	assert.Equal(t, "::entrait::Impl", c.Impl)
	assert.Equal(t, "::entrait::__unimock", c.Unimock)
	assert.Equal(t, "::entrait::__async_trait::async_trait", c.AsyncTrait)
	assert.Equal(t, "::core::future::Future", c.Future())

	custom := NewCrateIdents("crate::reexport::entrait::")
	assert.Equal(t, "crate::reexport::entrait::Impl", custom.Impl)

	assert.Equal(t, "::entrait", NewCrateIdents("").Entrait)
}

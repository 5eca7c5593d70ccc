package models

import (
	"strings"

	"github.com/toyz/entrait/internal/syntax"
)

// TraitGenerics are the generics kept on the emitted trait and impls.
// Lifetime parameters never appear here; they stay on the method.
type TraitGenerics struct {
	Params          []syntax.GenericParam
	WherePredicates []syntax.WherePredicate
}

// IsEmpty reports whether there are neither params nor predicates
func (g TraitGenerics) IsEmpty() bool {
	return len(g.Params) == 0 && len(g.WherePredicates) == 0
}

// ParamsString renders `<T: A, const N: usize>` for the trait declaration
func (g TraitGenerics) ParamsString() string {
	return syntax.RenderParams(g.Params)
}

// ArgsString renders `<T, N>` for naming the trait
func (g TraitGenerics) ArgsString() string {
	return syntax.RenderArgs(g.Params)
}

// WhereString renders ` where ...` or ""
func (g TraitGenerics) WhereString() string {
	return syntax.RenderWhere(g.WherePredicates)
}

// ImplParamsString renders the params with extra impl-only params appended,
// e.g. `<T: A, EntraitT: Sync>`. Defaults are not allowed on impls and are dropped.
func (g TraitGenerics) ImplParamsString(extra ...string) string {
	parts := make([]string, 0, len(g.Params)+len(extra))
	for _, p := range g.Params {
		parts = append(parts, withoutDefault(p).String())
	}
	parts = append(parts, extra...)
	if len(parts) == 0 {
		return ""
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// ImplWhereString renders the where-clause with extra predicates appended
func (g TraitGenerics) ImplWhereString(extra ...string) string {
	parts := make([]string, 0, len(g.WherePredicates)+len(extra))
	for _, p := range g.WherePredicates {
		parts = append(parts, p.String())
	}
	parts = append(parts, extra...)
	if len(parts) == 0 {
		return ""
	}
	return " where " + strings.Join(parts, ", ")
}

func withoutDefault(p syntax.GenericParam) syntax.GenericParam {
	switch p := p.(type) {
	case *syntax.TypeParam:
		if p.Default != nil {
			return &syntax.TypeParam{Ident: p.Ident, Bounds: p.Bounds}
		}
	case *syntax.ConstParam:
		if p.Default != "" {
			return &syntax.ConstParam{Ident: p.Ident, Type: p.Type}
		}
	}
	return p
}

// GenericsAccumulator collects trait generics across every function of one
// unit (a single fn, or all fns of a module). Insertion order is kept and
// params are deduplicated by name, predicates by their rendering.
type GenericsAccumulator struct {
	params     []syntax.GenericParam
	predicates []syntax.WherePredicate
	seenParams map[string]bool
	seenPreds  map[string]bool
}

// NewGenericsAccumulator creates an empty accumulator
func NewGenericsAccumulator() *GenericsAccumulator {
	return &GenericsAccumulator{
		seenParams: make(map[string]bool),
		seenPreds:  make(map[string]bool),
	}
}

// AddParam appends a param unless one with the same name is present.
// Lifetime params are ignored.
func (a *GenericsAccumulator) AddParam(p syntax.GenericParam) bool {
	if _, ok := p.(*syntax.LifetimeParam); ok {
		return false
	}
	if a.seenParams[p.Name()] {
		return false
	}
	a.seenParams[p.Name()] = true
	a.params = append(a.params, syntax.CloneParam(p))
	return true
}

// AddPredicate appends a predicate unless an identical one is present.
// Lifetime predicates are ignored.
func (a *GenericsAccumulator) AddPredicate(p syntax.WherePredicate) bool {
	if _, ok := p.(*syntax.LifetimePredicate); ok {
		return false
	}
	key := p.String()
	if a.seenPreds[key] {
		return false
	}
	a.seenPreds[key] = true
	a.predicates = append(a.predicates, syntax.ClonePredicate(p))
	return true
}

// Merge adds everything from g
func (a *GenericsAccumulator) Merge(g TraitGenerics) {
	for _, p := range g.Params {
		a.AddParam(p)
	}
	for _, p := range g.WherePredicates {
		a.AddPredicate(p)
	}
}

// Result returns the accumulated generics
func (a *GenericsAccumulator) Result() TraitGenerics {
	return TraitGenerics{
		Params:          append([]syntax.GenericParam(nil), a.params...),
		WherePredicates: append([]syntax.WherePredicate(nil), a.predicates...),
	}
}

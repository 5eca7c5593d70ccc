package syntax

import "strings"

// TypeParamBound is a *TraitBound or a *LifetimeBound
type TypeParamBound interface {
	String() string
	cloneBound() TypeParamBound
}

// TraitBound is `?Sized`, `Trait<T>` or `for<'a> Fn(&'a u8)`
type TraitBound struct {
	Maybe     bool     // ?Trait
	Lifetimes []string // for<'a>
	Path      Path
}

// LifetimeBound is `'a` used as a bound
type LifetimeBound struct {
	Lifetime string
}

func (b *TraitBound) cloneBound() TypeParamBound {
	return &TraitBound{Maybe: b.Maybe, Lifetimes: append([]string(nil), b.Lifetimes...), Path: b.Path.Clone()}
}

func (b *LifetimeBound) cloneBound() TypeParamBound {
	return &LifetimeBound{Lifetime: b.Lifetime}
}

func (b *TraitBound) String() string {
	var s strings.Builder
	if len(b.Lifetimes) > 0 {
		s.WriteString("for<" + strings.Join(b.Lifetimes, ", ") + "> ")
	}
	if b.Maybe {
		s.WriteString("?")
	}
	s.WriteString(b.Path.String())
	return s.String()
}

func (b *LifetimeBound) String() string { return b.Lifetime }

// CloneBounds deep-copies a bound list
func CloneBounds(bounds []TypeParamBound) []TypeParamBound {
	if bounds == nil {
		return nil
	}
	out := make([]TypeParamBound, len(bounds))
	for i, b := range bounds {
		out[i] = b.cloneBound()
	}
	return out
}

// JoinBounds renders `A + B + 'c`
func JoinBounds(bounds []TypeParamBound) string {
	parts := make([]string, len(bounds))
	for i, b := range bounds {
		parts[i] = b.String()
	}
	return strings.Join(parts, " + ")
}

// GenericParam is a *LifetimeParam, *TypeParam or *ConstParam
type GenericParam interface {
	String() string
	// Name is the lifetime or identifier the parameter introduces
	Name() string
	cloneParam() GenericParam
}

// LifetimeParam is `'a: 'b + 'c`
type LifetimeParam struct {
	Lifetime string
	Bounds   []string
}

// TypeParam is `T: Bound = Default`
type TypeParam struct {
	Ident   string
	Bounds  []TypeParamBound
	Default Type
}

// ConstParam is `const N: usize = 3`
type ConstParam struct {
	Ident   string
	Type    Type
	Default string
}

func (p *LifetimeParam) Name() string { return p.Lifetime }
func (p *TypeParam) Name() string     { return p.Ident }
func (p *ConstParam) Name() string    { return p.Ident }

func (p *LifetimeParam) cloneParam() GenericParam {
	return &LifetimeParam{Lifetime: p.Lifetime, Bounds: append([]string(nil), p.Bounds...)}
}

func (p *TypeParam) cloneParam() GenericParam {
	return &TypeParam{Ident: p.Ident, Bounds: CloneBounds(p.Bounds), Default: CloneType(p.Default)}
}

func (p *ConstParam) cloneParam() GenericParam {
	return &ConstParam{Ident: p.Ident, Type: CloneType(p.Type), Default: p.Default}
}

// CloneParam deep-copies a generic parameter
func CloneParam(p GenericParam) GenericParam {
	return p.cloneParam()
}

func (p *LifetimeParam) String() string {
	if len(p.Bounds) == 0 {
		return p.Lifetime
	}
	return p.Lifetime + ": " + strings.Join(p.Bounds, " + ")
}

func (p *TypeParam) String() string {
	s := p.Ident
	if len(p.Bounds) > 0 {
		s += ": " + JoinBounds(p.Bounds)
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

func (p *ConstParam) String() string {
	s := "const " + p.Ident + ": " + p.Type.String()
	if p.Default != "" {
		s += " = " + p.Default
	}
	return s
}

// WherePredicate is a *TypePredicate or a *LifetimePredicate
type WherePredicate interface {
	String() string
	clonePredicate() WherePredicate
}

// TypePredicate is `for<'a> T: A + B`
type TypePredicate struct {
	Lifetimes []string
	Bounded   Type
	Bounds    []TypeParamBound
}

// LifetimePredicate is `'a: 'b`
type LifetimePredicate struct {
	Lifetime string
	Bounds   []string
}

func (p *TypePredicate) clonePredicate() WherePredicate {
	return &TypePredicate{
		Lifetimes: append([]string(nil), p.Lifetimes...),
		Bounded:   CloneType(p.Bounded),
		Bounds:    CloneBounds(p.Bounds),
	}
}

func (p *LifetimePredicate) clonePredicate() WherePredicate {
	return &LifetimePredicate{Lifetime: p.Lifetime, Bounds: append([]string(nil), p.Bounds...)}
}

// ClonePredicate deep-copies a where predicate
func ClonePredicate(p WherePredicate) WherePredicate {
	return p.clonePredicate()
}

func (p *TypePredicate) String() string {
	s := ""
	if len(p.Lifetimes) > 0 {
		s = "for<" + strings.Join(p.Lifetimes, ", ") + "> "
	}
	return s + p.Bounded.String() + ": " + JoinBounds(p.Bounds)
}

func (p *LifetimePredicate) String() string {
	return p.Lifetime + ": " + strings.Join(p.Bounds, " + ")
}

// BoundedIdent returns the identifier a type predicate constrains when its
// subject is a bare single-segment path, and "" otherwise.
func (p *TypePredicate) BoundedIdent() string {
	pt, ok := p.Bounded.(*PathType)
	if !ok || pt.QSelf != nil || !pt.Path.IsIdent() {
		return ""
	}
	return pt.Path.Segments[0].Ident
}

// WhereClause is `where P1, P2`
type WhereClause struct {
	Predicates []WherePredicate
}

// Generics is the `<...>` parameter list plus its where-clause
type Generics struct {
	Params []GenericParam
	Where  *WhereClause
}

// Clone deep-copies the generics
func (g Generics) Clone() Generics {
	out := Generics{}
	if g.Params != nil {
		out.Params = make([]GenericParam, len(g.Params))
		for i, p := range g.Params {
			out.Params[i] = p.cloneParam()
		}
	}
	if g.Where != nil {
		out.Where = &WhereClause{}
		for _, p := range g.Where.Predicates {
			out.Where.Predicates = append(out.Where.Predicates, p.clonePredicate())
		}
	}
	return out
}

// TypeParam looks up a type parameter by identifier
func (g Generics) TypeParam(ident string) *TypeParam {
	for _, p := range g.Params {
		if tp, ok := p.(*TypeParam); ok && tp.Ident == ident {
			return tp
		}
	}
	return nil
}

// Predicates returns the where predicates, or nil without a where clause
func (g Generics) Predicates() []WherePredicate {
	if g.Where == nil {
		return nil
	}
	return g.Where.Predicates
}

// Tidy drops an empty where clause
func (g *Generics) Tidy() {
	if g.Where != nil && len(g.Where.Predicates) == 0 {
		g.Where = nil
	}
}

// ParamsString renders `<...>`, or "" when there are no parameters
func (g Generics) ParamsString() string {
	return RenderParams(g.Params)
}

// WhereString renders ` where ...`, or "" when there is nothing to render
func (g Generics) WhereString() string {
	return RenderWhere(g.Predicates())
}

// RenderParams renders a parameter list inside angle brackets
func RenderParams(params []GenericParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// RenderArgs renders the parameters as arguments: `<'a, T, N>`
func RenderArgs(params []GenericParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// RenderWhere renders ` where a, b`, or "" for no predicates
func RenderWhere(preds []WherePredicate) string {
	if len(preds) == 0 {
		return ""
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.String()
	}
	return " where " + strings.Join(parts, ", ")
}

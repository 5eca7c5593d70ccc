// Package syntax models the subset of Rust syntax entrait reads and writes.
//
// Nodes are plain values. Analysis never mutates a parsed tree in place; it
// works on Clone()d copies and renders them back to source with String().
package syntax

import (
	"strings"
)

// Position is the start of a node in the original source
type Position struct {
	Offset int // byte offset (0-based)
	Line   int // line number (1-based)
	Column int // column number (1-based)
}

// Type is any Rust type expression
type Type interface {
	String() string
	Clone() Type
	typeNode()
}

// RefType is `&'a mut T`
type RefType struct {
	Lifetime string // empty when elided
	Mut      bool
	Elem     Type
}

// PtrType is `*const T` or `*mut T`
type PtrType struct {
	Mut  bool
	Elem Type
}

// ParenType is `(T)`
type ParenType struct {
	Elem Type
}

// TupleType is `()`, `(A,)` or `(A, B)`
type TupleType struct {
	Elems []Type
}

// SliceType is `[T]`
type SliceType struct {
	Elem Type
}

// ArrayType is `[T; N]`; Len is kept as source text
type ArrayType struct {
	Elem Type
	Len  string
}

// ImplTraitType is `impl A + B`
type ImplTraitType struct {
	Bounds []TypeParamBound
}

// TraitObjectType is `dyn A + B`
type TraitObjectType struct {
	Bounds []TypeParamBound
}

// NeverType is `!`
type NeverType struct{}

// InferType is `_`
type InferType struct{}

// BareFnType is `fn(A, B) -> C`
type BareFnType struct {
	Lifetimes []string // for<'a>
	Unsafe    bool
	Abi       string
	Inputs    []Type
	Output    Type
}

// VerbatimType is a type we keep as opaque source text, such as a macro call
type VerbatimType struct {
	Text string
}

// PathType is a possibly qualified path: `a::B<C>` or `<T as Tr>::Assoc`
type PathType struct {
	QSelf *QSelf
	Path  Path
}

// QSelf is the `<T as Trait>` prefix of a qualified path
type QSelf struct {
	Type Type
	As   *Path
}

// Path is `::a::b<T>::c`
type Path struct {
	LeadingColon bool
	Segments     []PathSegment
}

// PathSegment is one `ident<args>` element of a path
type PathSegment struct {
	Ident     string
	Arguments PathArguments
}

// PathArguments is nil, *AngleArgs or *ParenArgs
type PathArguments interface {
	String() string
	cloneArgs() PathArguments
}

// AngleArgs is `<'a, T, N, Item = U>` (with `::` prefix when Turbofish)
type AngleArgs struct {
	Turbofish bool
	Args      []GenericArgument
}

// ParenArgs is the `(A, B) -> C` sugar of the Fn traits
type ParenArgs struct {
	Inputs []Type
	Output Type
}

// GenericArgument is one element of AngleArgs
type GenericArgument interface {
	String() string
	cloneArg() GenericArgument
}

// LifetimeArg is a lifetime passed as a generic argument
type LifetimeArg struct {
	Lifetime string
}

// TypeArg is a type passed as a generic argument
type TypeArg struct {
	Type Type
}

// ConstArg is a const expression passed as a generic argument (source text)
type ConstArg struct {
	Expr string
}

// BindingArg is `Item = T`
type BindingArg struct {
	Ident string
	Type  Type
}

// ConstraintArg is `Item: Bound`
type ConstraintArg struct {
	Ident  string
	Bounds []TypeParamBound
}

func (*RefType) typeNode()         {}
func (*PtrType) typeNode()         {}
func (*ParenType) typeNode()       {}
func (*TupleType) typeNode()       {}
func (*SliceType) typeNode()       {}
func (*ArrayType) typeNode()       {}
func (*ImplTraitType) typeNode()   {}
func (*TraitObjectType) typeNode() {}
func (*NeverType) typeNode()       {}
func (*InferType) typeNode()       {}
func (*BareFnType) typeNode()      {}
func (*VerbatimType) typeNode()    {}
func (*PathType) typeNode()        {}

// NewPathType builds an unqualified path type from plain segment names
func NewPathType(segments ...string) *PathType {
	p := &PathType{}
	for _, s := range segments {
		p.Path.Segments = append(p.Path.Segments, PathSegment{Ident: s})
	}
	return p
}

// CloneType copies t, tolerating nil
func CloneType(t Type) Type {
	if t == nil {
		return nil
	}
	return t.Clone()
}

func cloneTypes(ts []Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = CloneType(t)
	}
	return out
}

func (t *RefType) Clone() Type {
	return &RefType{Lifetime: t.Lifetime, Mut: t.Mut, Elem: CloneType(t.Elem)}
}

func (t *PtrType) Clone() Type {
	return &PtrType{Mut: t.Mut, Elem: CloneType(t.Elem)}
}

func (t *ParenType) Clone() Type {
	return &ParenType{Elem: CloneType(t.Elem)}
}

func (t *TupleType) Clone() Type {
	return &TupleType{Elems: cloneTypes(t.Elems)}
}

func (t *SliceType) Clone() Type {
	return &SliceType{Elem: CloneType(t.Elem)}
}

func (t *ArrayType) Clone() Type {
	return &ArrayType{Elem: CloneType(t.Elem), Len: t.Len}
}

func (t *ImplTraitType) Clone() Type {
	return &ImplTraitType{Bounds: CloneBounds(t.Bounds)}
}

func (t *TraitObjectType) Clone() Type {
	return &TraitObjectType{Bounds: CloneBounds(t.Bounds)}
}

func (t *NeverType) Clone() Type { return &NeverType{} }

func (t *InferType) Clone() Type { return &InferType{} }

func (t *BareFnType) Clone() Type {
	return &BareFnType{
		Lifetimes: append([]string(nil), t.Lifetimes...),
		Unsafe:    t.Unsafe,
		Abi:       t.Abi,
		Inputs:    cloneTypes(t.Inputs),
		Output:    CloneType(t.Output),
	}
}

func (t *VerbatimType) Clone() Type { return &VerbatimType{Text: t.Text} }

func (t *PathType) Clone() Type {
	out := &PathType{Path: t.Path.Clone()}
	if t.QSelf != nil {
		out.QSelf = &QSelf{Type: CloneType(t.QSelf.Type)}
		if t.QSelf.As != nil {
			as := t.QSelf.As.Clone()
			out.QSelf.As = &as
		}
	}
	return out
}

// Clone returns a deep copy of the path
func (p Path) Clone() Path {
	out := Path{LeadingColon: p.LeadingColon}
	if p.Segments != nil {
		out.Segments = make([]PathSegment, len(p.Segments))
		for i, s := range p.Segments {
			out.Segments[i] = PathSegment{Ident: s.Ident}
			if s.Arguments != nil {
				out.Segments[i].Arguments = s.Arguments.cloneArgs()
			}
		}
	}
	return out
}

// IsIdent reports whether the path is a single bare identifier
func (p Path) IsIdent() bool {
	return !p.LeadingColon && len(p.Segments) == 1 && p.Segments[0].Arguments == nil
}

// Ident returns the identifier of a single-segment path
func (p Path) Ident() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1].Ident
}

func (a *AngleArgs) cloneArgs() PathArguments {
	out := &AngleArgs{Turbofish: a.Turbofish}
	for _, arg := range a.Args {
		out.Args = append(out.Args, arg.cloneArg())
	}
	return out
}

func (a *ParenArgs) cloneArgs() PathArguments {
	return &ParenArgs{Inputs: cloneTypes(a.Inputs), Output: CloneType(a.Output)}
}

func (a *LifetimeArg) cloneArg() GenericArgument { return &LifetimeArg{Lifetime: a.Lifetime} }
func (a *TypeArg) cloneArg() GenericArgument     { return &TypeArg{Type: CloneType(a.Type)} }
func (a *ConstArg) cloneArg() GenericArgument    { return &ConstArg{Expr: a.Expr} }
func (a *BindingArg) cloneArg() GenericArgument {
	return &BindingArg{Ident: a.Ident, Type: CloneType(a.Type)}
}
func (a *ConstraintArg) cloneArg() GenericArgument {
	return &ConstraintArg{Ident: a.Ident, Bounds: CloneBounds(a.Bounds)}
}

// Rendering

func (t *RefType) String() string {
	var b strings.Builder
	b.WriteString("&")
	if t.Lifetime != "" {
		b.WriteString(t.Lifetime)
		b.WriteString(" ")
	}
	if t.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(t.Elem.String())
	return b.String()
}

func (t *PtrType) String() string {
	if t.Mut {
		return "*mut " + t.Elem.String()
	}
	return "*const " + t.Elem.String()
}

func (t *ParenType) String() string { return "(" + t.Elem.String() + ")" }

func (t *TupleType) String() string {
	if len(t.Elems) == 1 {
		return "(" + t.Elems[0].String() + ",)"
	}
	return "(" + joinTypes(t.Elems) + ")"
}

func (t *SliceType) String() string { return "[" + t.Elem.String() + "]" }

func (t *ArrayType) String() string { return "[" + t.Elem.String() + "; " + t.Len + "]" }

func (t *ImplTraitType) String() string { return "impl " + JoinBounds(t.Bounds) }

func (t *TraitObjectType) String() string { return "dyn " + JoinBounds(t.Bounds) }

func (t *NeverType) String() string { return "!" }

func (t *InferType) String() string { return "_" }

func (t *BareFnType) String() string {
	var b strings.Builder
	if len(t.Lifetimes) > 0 {
		b.WriteString("for<" + strings.Join(t.Lifetimes, ", ") + "> ")
	}
	if t.Unsafe {
		b.WriteString("unsafe ")
	}
	if t.Abi != "" {
		b.WriteString("extern " + t.Abi + " ")
	}
	b.WriteString("fn(" + joinTypes(t.Inputs) + ")")
	if t.Output != nil {
		b.WriteString(" -> " + t.Output.String())
	}
	return b.String()
}

func (t *VerbatimType) String() string { return t.Text }

func (t *PathType) String() string {
	if t.QSelf == nil {
		return t.Path.String()
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(t.QSelf.Type.String())
	if t.QSelf.As != nil {
		b.WriteString(" as ")
		b.WriteString(t.QSelf.As.String())
	}
	b.WriteString(">")
	for _, seg := range t.Path.Segments {
		b.WriteString("::")
		b.WriteString(seg.String())
	}
	return b.String()
}

// String renders the path
func (p Path) String() string {
	var b strings.Builder
	if p.LeadingColon {
		b.WriteString("::")
	}
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// String renders the segment with its arguments
func (s PathSegment) String() string {
	if s.Arguments == nil {
		return s.Ident
	}
	return s.Ident + s.Arguments.String()
}

func (a *AngleArgs) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	prefix := "<"
	if a.Turbofish {
		prefix = "::<"
	}
	return prefix + strings.Join(parts, ", ") + ">"
}

func (a *ParenArgs) String() string {
	s := "(" + joinTypes(a.Inputs) + ")"
	if a.Output != nil {
		s += " -> " + a.Output.String()
	}
	return s
}

func (a *LifetimeArg) String() string   { return a.Lifetime }
func (a *TypeArg) String() string       { return a.Type.String() }
func (a *ConstArg) String() string      { return a.Expr }
func (a *BindingArg) String() string    { return a.Ident + " = " + a.Type.String() }
func (a *ConstraintArg) String() string { return a.Ident + ": " + JoinBounds(a.Bounds) }

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// UnitType is `()`
func UnitType() Type {
	return &TupleType{}
}

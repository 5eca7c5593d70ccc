package syntax

import "strings"

// FnArg is a *Receiver or a *TypedArg
type FnArg interface {
	String() string
	Clone() FnArg
	ArgPos() Position
}

// Receiver is `self`, `mut self`, `&'a mut self` or `self: Type`
type Receiver struct {
	Pos        Position
	Reference  bool
	Lifetime   string
	Mut        bool // &mut self
	MutBinding bool // mut self
	Explicit   Type // self: Type
}

// TypedArg is `pat: Type`
type TypedArg struct {
	Pos Position
	Pat Pat
	Ty  Type
}

func (r *Receiver) ArgPos() Position { return r.Pos }
func (a *TypedArg) ArgPos() Position { return a.Pos }

func (r *Receiver) Clone() FnArg {
	out := *r
	out.Explicit = CloneType(r.Explicit)
	return &out
}

func (a *TypedArg) Clone() FnArg {
	return &TypedArg{Pos: a.Pos, Pat: clonePat(a.Pat), Ty: CloneType(a.Ty)}
}

func (r *Receiver) String() string {
	if r.Explicit != nil {
		prefix := ""
		if r.MutBinding {
			prefix = "mut "
		}
		return prefix + "self: " + r.Explicit.String()
	}
	var b strings.Builder
	if r.Reference {
		b.WriteString("&")
		if r.Lifetime != "" {
			b.WriteString(r.Lifetime)
			b.WriteString(" ")
		}
		if r.Mut {
			b.WriteString("mut ")
		}
	} else if r.MutBinding {
		b.WriteString("mut ")
	}
	b.WriteString("self")
	return b.String()
}

func (a *TypedArg) String() string { return a.Pat.String() + ": " + a.Ty.String() }

// RefSelf returns the plain `&self` receiver
func RefSelf() *Receiver {
	return &Receiver{Reference: true}
}

// Signature is everything in a fn item before its body
type Signature struct {
	Pos       Position
	Constness bool
	Asyncness bool
	Unsafety  bool
	Abi       string // `"C"` when declared `extern "C"`
	Ident     string
	Generics  Generics
	Inputs    []FnArg
	Output    Type // nil for the unit return type
}

// Clone deep-copies the signature
func (s *Signature) Clone() *Signature {
	out := *s
	out.Generics = s.Generics.Clone()
	if s.Inputs != nil {
		out.Inputs = make([]FnArg, len(s.Inputs))
		for i, in := range s.Inputs {
			out.Inputs[i] = in.Clone()
		}
	}
	out.Output = CloneType(s.Output)
	return &out
}

// Receiver returns the self receiver, if the first input is one
func (s *Signature) Receiver() *Receiver {
	if len(s.Inputs) == 0 {
		return nil
	}
	r, _ := s.Inputs[0].(*Receiver)
	return r
}

// TypedArgs returns the non-receiver inputs in order
func (s *Signature) TypedArgs() []*TypedArg {
	var out []*TypedArg
	for _, in := range s.Inputs {
		if a, ok := in.(*TypedArg); ok {
			out = append(out, a)
		}
	}
	return out
}

// String renders the signature without a trailing `;` or body
func (s *Signature) String() string {
	var b strings.Builder
	if s.Constness {
		b.WriteString("const ")
	}
	if s.Asyncness {
		b.WriteString("async ")
	}
	if s.Unsafety {
		b.WriteString("unsafe ")
	}
	if s.Abi != "" {
		b.WriteString("extern " + s.Abi + " ")
	}
	b.WriteString("fn ")
	b.WriteString(s.Ident)
	b.WriteString(s.Generics.ParamsString())
	b.WriteString("(")
	for i, in := range s.Inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(in.String())
	}
	b.WriteString(")")
	if s.Output != nil {
		b.WriteString(" -> ")
		b.WriteString(s.Output.String())
	}
	b.WriteString(s.Generics.WhereString())
	return b.String()
}

// Span is a half-open byte range of the original source
type Span struct {
	Start Position
	End   int
}

// Attribute is an outer `#[...]` attribute
type Attribute struct {
	Span   Span
	Path   string // `entrait`, `entrait::entrait`, `doc`
	Tokens string // text inside the delimiters, or after `=`
	Text   string // the full original text
}

// Name returns the last segment of the attribute path
func (a Attribute) Name() string {
	if i := strings.LastIndex(a.Path, "::"); i >= 0 {
		return a.Path[i+2:]
	}
	return a.Path
}

// Item is a top-level or module-level Rust item
type Item interface {
	ItemSpan() Span
	ItemAttrs() []Attribute
}

// ItemFn is a free function
type ItemFn struct {
	Span  Span
	Attrs []Attribute
	Vis   string
	Sig   *Signature
	Body  string
}

// ItemTrait is a trait declaration
type ItemTrait struct {
	Span        Span
	Attrs       []Attribute
	Vis         string
	Unsafety    bool
	Ident       string
	IdentPos    Position
	Generics    Generics
	Supertraits []TypeParamBound
	Items       []TraitItem
	// BodyStart is the offset of the opening brace
	BodyStart int
}

// TraitItem is a *TraitItemFn, *TraitItemType or *TraitItemOther
type TraitItem interface {
	traitItem()
}

// TraitItemFn is a method declaration inside a trait
type TraitItemFn struct {
	Attrs   []Attribute
	Sig     *Signature
	Default string // body text of a provided method
}

// TraitItemType is an associated type: `type Out<'a>: Bound where ... = Default;`
type TraitItemType struct {
	Attrs    []Attribute
	Pos      Position
	Ident    string
	Generics Generics
	Bounds   []TypeParamBound
	Default  Type
	Text     string
}

// IsPlain reports a declaration with nothing but bounds, `type Out: Bound;`
func (t *TraitItemType) IsPlain() bool {
	return len(t.Generics.Params) == 0 && len(t.Generics.Predicates()) == 0 && t.Default == nil
}

// TraitItemOther is an associated const or macro, kept as text
type TraitItemOther struct {
	Attrs []Attribute
	Text  string
	// Decl is Text without the leading attributes
	Decl string
}

func (*TraitItemFn) traitItem()    {}
func (*TraitItemType) traitItem()  {}
func (*TraitItemOther) traitItem() {}

// ItemMod is an inline module
type ItemMod struct {
	Span     Span
	Attrs    []Attribute
	Vis      string
	Ident    string
	IdentPos Position
	Items    []Item
}

// ItemOther is any item entrait does not look into
type ItemOther struct {
	Span  Span
	Attrs []Attribute
	Text  string
}

func (i *ItemFn) ItemSpan() Span    { return i.Span }
func (i *ItemTrait) ItemSpan() Span { return i.Span }
func (i *ItemMod) ItemSpan() Span   { return i.Span }
func (i *ItemOther) ItemSpan() Span { return i.Span }

func (i *ItemFn) ItemAttrs() []Attribute    { return i.Attrs }
func (i *ItemTrait) ItemAttrs() []Attribute { return i.Attrs }
func (i *ItemMod) ItemAttrs() []Attribute   { return i.Attrs }
func (i *ItemOther) ItemAttrs() []Attribute { return i.Attrs }

// File is a parsed source file
type File struct {
	Name   string
	Source string
	Items  []Item
}

// Text returns the original source of a span
func (f *File) Text(s Span) string {
	return f.Source[s.Start.Offset:s.End]
}

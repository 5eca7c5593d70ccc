package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pat is a pattern in parameter position
type Pat interface {
	String() string
	Clone() Pat
	patNode()
}

// IdentPat is `ref mut x @ sub`
type IdentPat struct {
	ByRef bool
	Mut   bool
	Ident string
	Sub   Pat
}

// WildPat is `_`
type WildPat struct{}

// RestPat is `..`
type RestPat struct{}

// ParenPat is `(p)`
type ParenPat struct {
	Pat Pat
}

// TuplePat is `(a, b)`
type TuplePat struct {
	Elems []Pat
}

// TupleStructPat is `Path(a, b)`
type TupleStructPat struct {
	Path  Path
	Elems []Pat
}

// StructPat is `Path { a, b: c, .. }`
type StructPat struct {
	Path   Path
	Fields []FieldPat
	Rest   bool
}

// FieldPat is one field of a StructPat. Shorthand fields (`a`, `ref mut a`)
// carry their binding in Pat and render without the member prefix.
type FieldPat struct {
	Member    string
	Pat       Pat
	Shorthand bool
}

// RefPat is `&p` or `&mut p`
type RefPat struct {
	Mut bool
	Pat Pat
}

// SlicePat is `[a, b, ..]`
type SlicePat struct {
	Elems []Pat
}

// LitPat is a literal pattern, kept as source text
type LitPat struct {
	Text string
}

// PathPat is a multi-segment path used as a pattern, e.g. `Kind::Empty`
type PathPat struct {
	Path Path
}

func (*IdentPat) patNode()       {}
func (*WildPat) patNode()        {}
func (*RestPat) patNode()        {}
func (*ParenPat) patNode()       {}
func (*TuplePat) patNode()       {}
func (*TupleStructPat) patNode() {}
func (*StructPat) patNode()      {}
func (*RefPat) patNode()         {}
func (*SlicePat) patNode()       {}
func (*LitPat) patNode()         {}
func (*PathPat) patNode()        {}

func clonePat(p Pat) Pat {
	if p == nil {
		return nil
	}
	return p.Clone()
}

func clonePats(ps []Pat) []Pat {
	if ps == nil {
		return nil
	}
	out := make([]Pat, len(ps))
	for i, p := range ps {
		out[i] = clonePat(p)
	}
	return out
}

func (p *IdentPat) Clone() Pat {
	return &IdentPat{ByRef: p.ByRef, Mut: p.Mut, Ident: p.Ident, Sub: clonePat(p.Sub)}
}
func (p *WildPat) Clone() Pat  { return &WildPat{} }
func (p *RestPat) Clone() Pat  { return &RestPat{} }
func (p *ParenPat) Clone() Pat { return &ParenPat{Pat: clonePat(p.Pat)} }
func (p *TuplePat) Clone() Pat { return &TuplePat{Elems: clonePats(p.Elems)} }
func (p *TupleStructPat) Clone() Pat {
	return &TupleStructPat{Path: p.Path.Clone(), Elems: clonePats(p.Elems)}
}
func (p *StructPat) Clone() Pat {
	out := &StructPat{Path: p.Path.Clone(), Rest: p.Rest}
	for _, f := range p.Fields {
		out.Fields = append(out.Fields, FieldPat{Member: f.Member, Pat: clonePat(f.Pat), Shorthand: f.Shorthand})
	}
	return out
}
func (p *RefPat) Clone() Pat   { return &RefPat{Mut: p.Mut, Pat: clonePat(p.Pat)} }
func (p *SlicePat) Clone() Pat { return &SlicePat{Elems: clonePats(p.Elems)} }
func (p *LitPat) Clone() Pat   { return &LitPat{Text: p.Text} }
func (p *PathPat) Clone() Pat  { return &PathPat{Path: p.Path.Clone()} }

func (p *IdentPat) String() string {
	var b strings.Builder
	if p.ByRef {
		b.WriteString("ref ")
	}
	if p.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(p.Ident)
	if p.Sub != nil {
		b.WriteString(" @ ")
		b.WriteString(p.Sub.String())
	}
	return b.String()
}

func (p *WildPat) String() string  { return "_" }
func (p *RestPat) String() string  { return ".." }
func (p *ParenPat) String() string { return "(" + p.Pat.String() + ")" }
func (p *TuplePat) String() string {
	if len(p.Elems) == 1 {
		return "(" + p.Elems[0].String() + ",)"
	}
	return "(" + joinPats(p.Elems) + ")"
}
func (p *TupleStructPat) String() string { return p.Path.String() + "(" + joinPats(p.Elems) + ")" }
func (p *StructPat) String() string {
	parts := make([]string, 0, len(p.Fields)+1)
	for _, f := range p.Fields {
		if f.Shorthand {
			parts = append(parts, f.Pat.String())
		} else {
			parts = append(parts, f.Member+": "+f.Pat.String())
		}
	}
	if p.Rest {
		parts = append(parts, "..")
	}
	if len(parts) == 0 {
		return p.Path.String() + " {}"
	}
	return p.Path.String() + " { " + strings.Join(parts, ", ") + " }"
}
func (p *RefPat) String() string {
	if p.Mut {
		return "&mut " + p.Pat.String()
	}
	return "&" + p.Pat.String()
}
func (p *SlicePat) String() string { return "[" + joinPats(p.Elems) + "]" }
func (p *LitPat) String() string   { return p.Text }
func (p *PathPat) String() string  { return p.Path.String() }

func joinPats(ps []Pat) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// IsSimpleIdent reports whether p is a bare `ident` pattern
func IsSimpleIdent(p Pat) bool {
	ip, ok := p.(*IdentPat)
	return ok && !ip.ByRef && !ip.Mut && ip.Sub == nil
}

// BindingIdents returns the lowercase-initial identifiers a pattern binds,
// in source order.
func BindingIdents(p Pat) []string {
	var out []string
	var walk func(Pat)
	walk = func(p Pat) {
		switch p := p.(type) {
		case *IdentPat:
			if isLowerInitial(p.Ident) {
				out = append(out, p.Ident)
			}
			if p.Sub != nil {
				walk(p.Sub)
			}
		case *ParenPat:
			walk(p.Pat)
		case *TuplePat:
			for _, e := range p.Elems {
				walk(e)
			}
		case *TupleStructPat:
			for _, e := range p.Elems {
				walk(e)
			}
		case *StructPat:
			for _, f := range p.Fields {
				walk(f.Pat)
			}
		case *RefPat:
			walk(p.Pat)
		case *SlicePat:
			for _, e := range p.Elems {
				walk(e)
			}
		}
	}
	walk(p)
	return out
}

func isLowerInitial(ident string) bool {
	ident = strings.TrimPrefix(ident, "r#")
	r, _ := utf8.DecodeRuneInString(ident)
	return r == '_' || unicode.IsLower(r)
}

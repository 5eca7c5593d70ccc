package models

import (
	"fmt"

	"github.com/toyz/entrait/internal/syntax"
)

// LifetimeSource locates the first appearance of a lifetime
type LifetimeSource struct {
	Kind LifetimeSourceKind
	// Index is the input position for SourceParam, counting the receiver
	Index int
}

func (s LifetimeSource) String() string {
	if s.Kind == SourceParam {
		return fmt.Sprintf("param(%d)", s.Index)
	}
	return s.Kind.String()
}

// EntraitLifetime is one distinct lifetime of a converted signature
type EntraitLifetime struct {
	Name         string
	Source       LifetimeSource
	UserProvided bool
}

// AssociatedFut holds the associated future of an async method
type AssociatedFut struct {
	// Ident is the associated type name, `Fut` for single functions
	Ident string
	// Lifetimes are the lifetimes the future type is generic over
	Lifetimes []string
	// Generics renders Lifetimes as `<'a, 'b>`, empty when there are none
	Generics string
	// Where is the ` where Self: 'a` clause shared by Decl and Impl
	Where string
	// Decl is the trait member, e.g. `type Fut<'entrait0>: Future<..> + Send where Self: 'entrait0;`
	Decl string
	// Impl is the impl member with an opaque type
	Impl string
	// Output is the future's output type
	Output syntax.Type
}

// EntraitSignature is a signature converted into a trait method
type EntraitSignature struct {
	Sig           *syntax.Signature
	AssociatedFut *AssociatedFut
	Lifetimes     []EntraitLifetime
	Receiver      ReceiverGeneration
}

// ParamIdents returns the normalized argument names of the method
func (s EntraitSignature) ParamIdents() []string {
	var out []string
	for _, arg := range s.Sig.TypedArgs() {
		if ip, ok := arg.Pat.(*syntax.IdentPat); ok {
			out = append(out, ip.Ident)
		}
	}
	return out
}

// TraitFn is everything needed to emit one trait method and its delegation
type TraitFn struct {
	Deps  Deps
	Attrs []syntax.Attribute
	Sig   EntraitSignature
	// OriginallyAsync is true when the source fn was `async`, even if the
	// associated future transform removed the keyword from Sig.
	OriginallyAsync bool
	// SourceIdent is the name of the delegated free function
	SourceIdent string
}

// MethodIdent returns the trait method name
func (f TraitFn) MethodIdent() string {
	return f.Sig.Sig.Ident
}

package models

import (
	"github.com/toyz/entrait/internal/syntax"
)

// Deps is the classification of a function's dependency parameter.
// It is one of *DepsGeneric, *DepsConcrete or *DepsNone.
type Deps interface {
	Kind() DepsKind
	String() string
}

// DepsGeneric is a dependency typed by a generic parameter or `impl Trait`
type DepsGeneric struct {
	// GenericParam is the type parameter the dependency is declared as,
	// nil for `impl Trait`
	GenericParam *string
	// TraitBounds are the inline bounds followed by the where-clause bounds
	TraitBounds []syntax.TypeParamBound
}

// DepsConcrete is a dependency with a fully named type
type DepsConcrete struct {
	Type syntax.Type
}

// DepsNone marks a function without a dependency parameter
type DepsNone struct{}

func (*DepsGeneric) Kind() DepsKind  { return DepsKindGeneric }
func (*DepsConcrete) Kind() DepsKind { return DepsKindConcrete }
func (*DepsNone) Kind() DepsKind     { return DepsKindNone }

func (d *DepsGeneric) String() string {
	param := "None"
	if d.GenericParam != nil {
		param = "Some(" + *d.GenericParam + ")"
	}
	return "Generic { generic_param: " + param + ", trait_bounds: [" + joinBoundsComma(d.TraitBounds) + "] }"
}

func (d *DepsConcrete) String() string { return "Concrete(" + d.Type.String() + ")" }

func (*DepsNone) String() string { return "NoDeps" }

// GenericParamIdent returns the dependency's type parameter name, or ""
func GenericParamIdent(d Deps) string {
	if g, ok := d.(*DepsGeneric); ok && g.GenericParam != nil {
		return *g.GenericParam
	}
	return ""
}

func joinBoundsComma(bounds []syntax.TypeParamBound) string {
	out := ""
	for i, b := range bounds {
		if i > 0 {
			out += ", "
		}
		out += b.String()
	}
	return out
}

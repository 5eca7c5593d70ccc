// Package analyze turns a parsed fn signature into the pieces of an
// entrait trait: the dependency classification, the trait generics and the
// converted trait method signature.
package analyze

import (
	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
)

// ClassifyDeps classifies the first parameter of sig and adds the generics
// that belong to the trait to acc.
func ClassifyDeps(sig *syntax.Signature, opts models.Options, acc *models.GenericsAccumulator) (models.Deps, error) {
	if opts.NoDeps {
		deps := &models.DepsNone{}
		acc.Merge(PartitionGenerics(sig.Generics, deps))
		return deps, nil
	}

	if len(sig.Inputs) == 0 {
		return nil, errors.NewShapeError(location(sig.Pos), "must have a dependency receiver").
			WithContext("function", sig.Ident).
			WithSuggestion("add a first parameter such as `deps: &impl Trait`, or use `no_deps`")
	}

	first, ok := sig.Inputs[0].(*syntax.TypedArg)
	if !ok {
		return nil, errors.NewShapeError(location(sig.Inputs[0].ArgPos()),
			"dependency injection requires a free function, found a self receiver").
			WithContext("function", sig.Ident)
	}

	deps, err := classifyType(first.Ty, sig.Generics, first.Pos)
	if err != nil {
		return nil, err
	}
	acc.Merge(PartitionGenerics(sig.Generics, deps))
	return deps, nil
}

func classifyType(ty syntax.Type, generics syntax.Generics, pos syntax.Position) (models.Deps, error) {
	ty = unwrapDependencyType(ty)

	switch t := ty.(type) {
	case *syntax.ImplTraitType:
		return &models.DepsGeneric{TraitBounds: syntax.CloneBounds(t.Bounds)}, nil

	case *syntax.PathType:
		if t.QSelf != nil {
			return nil, errors.NewShapeError(location(pos), "no self allowed").
				WithSuggestion("name the dependency type directly instead of through `<T as Trait>::`")
		}
		if t.Path.LeadingColon {
			return nil, errors.NewShapeError(location(pos), "no leading colon allowed").
				WithSuggestion("import the dependency type and refer to it without a leading `::`")
		}
		if t.Path.IsIdent() {
			ident := t.Path.Segments[0].Ident
			if param := generics.TypeParam(ident); param != nil {
				return &models.DepsGeneric{
					GenericParam: &ident,
					TraitBounds:  collectBounds(param, generics.Predicates()),
				}, nil
			}
		}
	}
	return &models.DepsConcrete{Type: syntax.CloneType(ty)}, nil
}

// unwrapDependencyType looks through references and parentheses
func unwrapDependencyType(ty syntax.Type) syntax.Type {
	for {
		switch t := ty.(type) {
		case *syntax.RefType:
			ty = t.Elem
		case *syntax.ParenType:
			ty = t.Elem
		default:
			return ty
		}
	}
}

// collectBounds returns the inline bounds of param followed by the bounds of
// every where predicate whose sole subject is param.
func collectBounds(param *syntax.TypeParam, preds []syntax.WherePredicate) []syntax.TypeParamBound {
	bounds := syntax.CloneBounds(param.Bounds)
	for _, pred := range preds {
		tp, ok := pred.(*syntax.TypePredicate)
		if !ok || tp.BoundedIdent() != param.Ident {
			continue
		}
		for _, b := range syntax.CloneBounds(tp.Bounds) {
			// `for<'a> D: Tr<'a>` keeps its binder on the bound itself
			if tb, ok := b.(*syntax.TraitBound); ok && len(tp.Lifetimes) > 0 && len(tb.Lifetimes) == 0 {
				tb.Lifetimes = append([]string(nil), tp.Lifetimes...)
			}
			bounds = append(bounds, b)
		}
	}
	return bounds
}

func location(pos syntax.Position) errors.SourceLocation {
	return errors.SourceLocation{Line: pos.Line, Column: pos.Column}
}

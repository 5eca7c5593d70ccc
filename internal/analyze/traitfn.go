package analyze

import (
	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
)

// AnalyzeFn runs the whole pipeline for one function. Trait generics are
// added to acc; futIdent names the associated future if one is generated.
func AnalyzeFn(fn *syntax.ItemFn, opts models.Options, acc *models.GenericsAccumulator, futIdent string) (*models.TraitFn, error) {
	deps, err := ClassifyDeps(fn.Sig, opts, acc)
	if err != nil {
		return nil, err
	}
	sig, err := ConvertSignatureWithFut(fn.Sig, deps, opts, futIdent)
	if err != nil {
		return nil, err
	}
	return &models.TraitFn{
		Deps:            deps,
		Attrs:           fn.Attrs,
		Sig:             sig,
		OriginallyAsync: fn.Sig.Asyncness,
		SourceIdent:     fn.Sig.Ident,
	}, nil
}

// MergeDeps combines the classifications of all functions of a module into
// the one that decides the shape of the module's impl. Generic bounds are
// merged; concrete types must all agree and cannot be mixed with generic
// dependencies.
func MergeDeps(fns []*models.TraitFn) (models.Deps, error) {
	var concrete *models.DepsConcrete
	var generic *models.DepsGeneric
	seen := make(map[string]bool)

	for _, fn := range fns {
		switch d := fn.Deps.(type) {
		case *models.DepsConcrete:
			if concrete != nil && concrete.Type.String() != d.Type.String() {
				return nil, errors.NewShapeError(location(fn.Sig.Sig.Pos),
					"all functions in the module must depend on the same concrete type").
					WithContext("expected", concrete.Type.String()).
					WithContext("found", d.Type.String())
			}
			concrete = d
		case *models.DepsGeneric:
			if generic == nil {
				generic = &models.DepsGeneric{}
			}
			for _, b := range d.TraitBounds {
				if key := b.String(); !seen[key] {
					seen[key] = true
					generic.TraitBounds = append(generic.TraitBounds, b)
				}
			}
		}
		if concrete != nil && generic != nil {
			return nil, errors.NewShapeError(location(fn.Sig.Sig.Pos),
				"cannot mix generic and concrete dependencies in one module")
		}
	}

	switch {
	case concrete != nil:
		return concrete, nil
	case generic != nil:
		return generic, nil
	default:
		return &models.DepsNone{}, nil
	}
}

package analyze

import (
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
)

// PartitionGenerics returns the part of a function's generics that moves to
// the trait: every type and const param except the dependency param, and
// every type predicate that neither has the dependency param as its sole
// subject nor mentions one of the function's own lifetimes. Inline bounds
// mentioning those lifetimes stay with the method as well.
func PartitionGenerics(generics syntax.Generics, deps models.Deps) models.TraitGenerics {
	depIdent := models.GenericParamIdent(deps)
	lifetimes := lifetimeParamSet(generics)

	var out models.TraitGenerics
	for _, p := range generics.Params {
		switch p := p.(type) {
		case *syntax.LifetimeParam:
			continue
		case *syntax.TypeParam:
			if depIdent != "" && p.Ident == depIdent {
				continue
			}
			tp := syntax.CloneParam(p).(*syntax.TypeParam)
			tp.Bounds, _ = splitBounds(tp.Bounds, lifetimes)
			out.Params = append(out.Params, tp)
			continue
		}
		out.Params = append(out.Params, syntax.CloneParam(p))
	}
	for _, pred := range generics.Predicates() {
		tp, ok := pred.(*syntax.TypePredicate)
		if !ok {
			continue
		}
		if isDepPredicate(tp, depIdent) || mentionsLifetime(tp, lifetimes) {
			continue
		}
		out.WherePredicates = append(out.WherePredicates, syntax.ClonePredicate(tp))
	}
	return out
}

// splitMethodGenerics strips everything that moved to the trait from a
// converted signature. The method keeps its lifetime params, lifetime
// predicates and type bounds that refer to those lifetimes; inline bounds
// of that kind become where predicates.
func splitMethodGenerics(sig *syntax.Signature) {
	lifetimes := lifetimeParamSet(sig.Generics)

	var params []syntax.GenericParam
	var preds []syntax.WherePredicate
	for _, p := range sig.Generics.Params {
		switch p := p.(type) {
		case *syntax.LifetimeParam:
			params = append(params, p)
		case *syntax.TypeParam:
			if _, local := splitBounds(p.Bounds, lifetimes); len(local) > 0 {
				preds = append(preds, &syntax.TypePredicate{
					Bounded: syntax.NewPathType(p.Ident),
					Bounds:  local,
				})
			}
		}
	}
	sig.Generics.Params = params

	if sig.Generics.Where != nil {
		for _, pred := range sig.Generics.Where.Predicates {
			switch pred := pred.(type) {
			case *syntax.LifetimePredicate:
				preds = append(preds, pred)
			case *syntax.TypePredicate:
				if mentionsLifetime(pred, lifetimes) {
					preds = append(preds, pred)
				}
			}
		}
	}
	if len(preds) > 0 {
		if sig.Generics.Where == nil {
			sig.Generics.Where = &syntax.WhereClause{}
		}
		sig.Generics.Where.Predicates = preds
	} else if sig.Generics.Where != nil {
		sig.Generics.Where.Predicates = nil
	}
}

// splitBounds separates the bounds that mention one of lifetimes
func splitBounds(bounds []syntax.TypeParamBound, lifetimes map[string]bool) (kept, local []syntax.TypeParamBound) {
	for _, b := range bounds {
		if boundsMention([]syntax.TypeParamBound{b}, lifetimes) {
			local = append(local, syntax.CloneBounds([]syntax.TypeParamBound{b})...)
		} else {
			kept = append(kept, b)
		}
	}
	return kept, local
}

// removeDependencyGeneric drops the dependency type param and the
// predicates whose sole subject it is.
func removeDependencyGeneric(sig *syntax.Signature, deps models.Deps) {
	ident := models.GenericParamIdent(deps)
	if ident == "" {
		return
	}
	var params []syntax.GenericParam
	for _, p := range sig.Generics.Params {
		if tp, ok := p.(*syntax.TypeParam); ok && tp.Ident == ident {
			continue
		}
		params = append(params, p)
	}
	sig.Generics.Params = params

	if sig.Generics.Where != nil {
		var preds []syntax.WherePredicate
		for _, pred := range sig.Generics.Where.Predicates {
			if tp, ok := pred.(*syntax.TypePredicate); ok && isDepPredicate(tp, ident) {
				continue
			}
			preds = append(preds, pred)
		}
		sig.Generics.Where.Predicates = preds
	}
}

func isDepPredicate(p *syntax.TypePredicate, depIdent string) bool {
	return depIdent != "" && p.BoundedIdent() == depIdent
}

func lifetimeParamSet(g syntax.Generics) map[string]bool {
	set := make(map[string]bool)
	for _, p := range g.Params {
		if lp, ok := p.(*syntax.LifetimeParam); ok {
			set[lp.Lifetime] = true
		}
	}
	return set
}

// mentionsLifetime reports whether a type predicate refers to one of lifetimes
func mentionsLifetime(p *syntax.TypePredicate, lifetimes map[string]bool) bool {
	if len(lifetimes) == 0 {
		return false
	}
	return typeMentions(p.Bounded, lifetimes) || boundsMention(p.Bounds, lifetimes)
}

func typeMentions(ty syntax.Type, lifetimes map[string]bool) bool {
	switch t := ty.(type) {
	case *syntax.RefType:
		return lifetimes[t.Lifetime] || typeMentions(t.Elem, lifetimes)
	case *syntax.PtrType:
		return typeMentions(t.Elem, lifetimes)
	case *syntax.ParenType:
		return typeMentions(t.Elem, lifetimes)
	case *syntax.SliceType:
		return typeMentions(t.Elem, lifetimes)
	case *syntax.ArrayType:
		return typeMentions(t.Elem, lifetimes)
	case *syntax.TupleType:
		for _, elem := range t.Elems {
			if typeMentions(elem, lifetimes) {
				return true
			}
		}
	case *syntax.ImplTraitType:
		return boundsMention(t.Bounds, lifetimes)
	case *syntax.TraitObjectType:
		return boundsMention(t.Bounds, lifetimes)
	case *syntax.BareFnType:
		for _, in := range t.Inputs {
			if typeMentions(in, lifetimes) {
				return true
			}
		}
		return t.Output != nil && typeMentions(t.Output, lifetimes)
	case *syntax.PathType:
		if t.QSelf != nil {
			if typeMentions(t.QSelf.Type, lifetimes) {
				return true
			}
			if t.QSelf.As != nil && pathMentions(t.QSelf.As, lifetimes) {
				return true
			}
		}
		return pathMentions(&t.Path, lifetimes)
	}
	return false
}

func boundsMention(bounds []syntax.TypeParamBound, lifetimes map[string]bool) bool {
	for _, b := range bounds {
		switch b := b.(type) {
		case *syntax.LifetimeBound:
			if lifetimes[b.Lifetime] {
				return true
			}
		case *syntax.TraitBound:
			if pathMentions(&b.Path, lifetimes) {
				return true
			}
		}
	}
	return false
}

func pathMentions(p *syntax.Path, lifetimes map[string]bool) bool {
	for _, seg := range p.Segments {
		switch args := seg.Arguments.(type) {
		case *syntax.AngleArgs:
			for _, arg := range args.Args {
				switch a := arg.(type) {
				case *syntax.LifetimeArg:
					if lifetimes[a.Lifetime] {
						return true
					}
				case *syntax.TypeArg:
					if typeMentions(a.Type, lifetimes) {
						return true
					}
				case *syntax.BindingArg:
					if typeMentions(a.Type, lifetimes) {
						return true
					}
				case *syntax.ConstraintArg:
					if boundsMention(a.Bounds, lifetimes) {
						return true
					}
				}
			}
		case *syntax.ParenArgs:
			for _, in := range args.Inputs {
				if typeMentions(in, lifetimes) {
					return true
				}
			}
			if args.Output != nil && typeMentions(args.Output, lifetimes) {
				return true
			}
		}
	}
	return false
}

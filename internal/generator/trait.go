package generator

import (
	"strings"

	"github.com/toyz/entrait/internal/analyze"
	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
	"github.com/toyz/entrait/internal/templates"
)

// expandTrait keeps the trait and adds an impl for the Impl wrapper that
// delegates every method to the wrapped implementation.
func (g *Generator) expandTrait(exp *Expansion, tr *syntax.ItemTrait) error {
	opts := exp.Options
	crate := models.NewCrateIdents(opts.CratePath)
	exp.TraitIdent = tr.Ident

	generics := models.TraitGenerics{
		Params:          tr.Generics.Params,
		WherePredicates: tr.Generics.Predicates(),
	}
	traitRef := tr.Ident + generics.ArgsString()
	dynTrait := "dyn " + traitRef + " + Sync"

	var target, bound string
	switch opts.Delegation {
	case models.DelegateByRef:
		bound = crate.Core + "::convert::AsRef<" + dynTrait + ">"
		target = crate.Core + "::convert::AsRef::<" + dynTrait + ">::as_ref(self.as_ref())"
	case models.DelegateByBorrow:
		bound = crate.Core + "::borrow::Borrow<" + dynTrait + ">"
		target = crate.Core + "::borrow::Borrow::<" + dynTrait + ">::borrow(self.as_ref())"
	default:
		bound = traitRef
		target = "self.as_ref()"
	}

	async := false
	var items []string
	for _, item := range tr.Items {
		switch it := item.(type) {
		case *syntax.TraitItemFn:
			method, err := g.delegateTraitMethod(it, target)
			if err != nil {
				return err
			}
			async = async || it.Sig.Asyncness
			items = append(items, method)
		case *syntax.TraitItemType:
			assoc, err := g.delegateTraitType(tr, it, opts, traitRef)
			if err != nil {
				return err
			}
			items = append(items, assoc)
		case *syntax.TraitItemOther:
			return errors.NewShapeError(location(tr.IdentPos),
				"unsupported item kind in trait `"+tr.Ident+"`: "+firstLine(it.Decl))
		}
	}

	u := &unit{opts: opts, crate: crate}
	var traitAttrs []string
	traitAttrs = append(traitAttrs, g.mockAttrs(opts, crate, nil)...)
	var implAttrs []string
	if attr := asyncTraitAttr(opts, crate, async); attr != "" {
		traitAttrs = append(traitAttrs, attr)
		implAttrs = append(implAttrs, attr)
	}
	exp.Attrs = traitAttrs

	param := entraitT + ": " + bound + " + Sync"

	impl, err := templates.GenerateImpl(templates.ImplData{
		Attrs:  implAttrs,
		Params: generics.ImplParamsString(param),
		Trait:  traitRef,
		SelfTy: u.implType(),
		Where:  generics.ImplWhereString(),
		Items:  items,
	})
	if err != nil {
		return renderError("impl of "+tr.Ident, err)
	}
	exp.Generated = impl
	return nil
}

func (g *Generator) delegateTraitMethod(fn *syntax.TraitItemFn, target string) (string, error) {
	recv := fn.Sig.Receiver()
	if recv == nil {
		return "", errors.NewShapeError(location(fn.Sig.Pos),
			"unsupported item kind: trait method `"+fn.Sig.Ident+"` has no self receiver").
			WithSuggestion("only methods taking &self can be delegated")
	}
	if !recv.Reference || recv.Mut || recv.Explicit != nil {
		return "", errors.NewShapeError(location(recv.Pos),
			"unsupported receiver `"+recv.String()+"` on trait method `"+fn.Sig.Ident+"`").
			WithSuggestion("only methods taking &self can be delegated")
	}

	sig := fn.Sig.Clone()
	analyze.NormalizeParams(sig)

	var args []string
	for _, arg := range sig.TypedArgs() {
		args = append(args, arg.Pat.String())
	}
	body := target + "." + sig.Ident + "(" + strings.Join(args, ", ") + ")"
	if sig.Asyncness {
		body += ".await"
	}

	method, err := templates.GenerateMethod(templates.MethodData{
		Attrs: forwardAttrs(fn.Attrs, implMethodAttrs),
		Sig:   sig.String(),
		Body:  body,
	})
	if err != nil {
		return "", renderError("method "+sig.Ident, err)
	}
	return method, nil
}

// delegateTraitType forwards plain associated types to the implementation
func (g *Generator) delegateTraitType(tr *syntax.ItemTrait, item *syntax.TraitItemType, opts models.Options, traitRef string) (string, error) {
	loc := location(item.Pos)
	if !item.IsPlain() {
		return "", errors.NewShapeError(loc, "unsupported item kind in trait `"+tr.Ident+"`: associated type `"+item.Ident+"` is not a plain declaration").
			WithSuggestion("only `type Name: Bounds;` can be delegated")
	}
	if opts.Delegation != models.DelegateNone {
		return "", errors.NewShapeError(loc,
			"associated type `"+item.Ident+"` cannot be delegated through a trait object").
			WithSuggestion("remove delegate_by to delegate to the implementing type")
	}
	return templates.GenerateAssocType(templates.AssocTypeData{
		Ident: item.Ident,
		Value: "<" + entraitT + " as " + traitRef + ">::" + item.Ident,
	})
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

package generator

import (
	"strings"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
	"github.com/toyz/entrait/internal/templates"
)

const entraitT = "EntraitT"

// attributes copied from the source fn onto the trait method
var traitMethodAttrs = map[string]bool{"doc": true, "allow": true, "deprecated": true, "cfg": true}

// attributes copied onto the delegating impl methods
var implMethodAttrs = map[string]bool{"allow": true, "cfg": true}

func forwardAttrs(attrs []syntax.Attribute, keep map[string]bool) []string {
	var out []string
	for _, attr := range attrs {
		if keep[attr.Name()] {
			out = append(out, attr.Text)
		}
	}
	return out
}

func renderError(what string, err error) error {
	return errors.Wrap(errors.GenerationErrorCode, "failed to render "+what, err)
}

func (g *Generator) emitTrait(u *unit) (string, error) {
	var items []string
	for _, fn := range u.fns {
		if fut := fn.Sig.AssociatedFut; fut != nil {
			items = append(items, fut.Decl)
		}
		decl, err := templates.GenerateMethodDecl(templates.MethodData{
			Attrs: forwardAttrs(fn.Attrs, traitMethodAttrs),
			Sig:   fn.Sig.Sig.String(),
		})
		if err != nil {
			return "", renderError("trait method "+fn.MethodIdent(), err)
		}
		items = append(items, decl)
	}

	attrs := g.mockAttrs(u.opts, u.crate, u.unmocked())
	if attr := asyncTraitAttr(u.opts, u.crate, u.anyAsync()); attr != "" {
		attrs = append(attrs, attr)
	}

	trait, err := templates.GenerateTrait(templates.TraitData{
		Attrs:  attrs,
		Vis:    u.vis,
		Ident:  u.ident,
		Params: u.generics.ParamsString(),
		Where:  u.generics.WhereString(),
		Items:  items,
	})
	if err != nil {
		return "", renderError("trait "+u.ident, err)
	}
	return trait, nil
}

// entraitParam renders the `EntraitT: ... + Sync` impl parameter
func (u *unit) entraitParam(bounds ...string) string {
	bounds = append(bounds, "Sync")
	return entraitT + ": " + strings.Join(bounds, " + ")
}

// associatedFuture reports whether some method returns a named future
func (u *unit) associatedFuture() bool {
	return u.opts.AsyncStrategy == models.AsyncAssociatedFuture && u.anyAsync()
}

func (u *unit) implType() string {
	return u.crate.Impl + "<" + entraitT + ">"
}

func (u *unit) implAttrs() []string {
	if attr := asyncTraitAttr(u.opts, u.crate, u.anyAsync()); attr != "" {
		return []string{attr}
	}
	return nil
}

// emitGenericImpl implements the trait for the Impl wrapper, which itself
// has to satisfy the dependency bounds.
func (g *Generator) emitGenericImpl(u *unit, deps *models.DepsGeneric) ([]string, error) {
	var where []string
	if len(deps.TraitBounds) > 0 {
		where = append(where, u.implType()+": "+syntax.JoinBounds(deps.TraitBounds))
	}

	items, err := g.delegatingItems(u, u.callBody, u.futImpl)
	if err != nil {
		return nil, err
	}

	// the futures capture the wrapper, so it may not borrow anything
	param := u.entraitParam()
	if u.associatedFuture() {
		param += " + 'static"
	}

	impl, err := templates.GenerateImpl(templates.ImplData{
		Attrs:  u.implAttrs(),
		Params: u.generics.ImplParamsString(param),
		Trait:  u.traitRef(),
		SelfTy: u.implType(),
		Where:  u.generics.ImplWhereString(where...),
		Items:  items,
	})
	if err != nil {
		return nil, renderError("impl of "+u.ident, err)
	}
	return []string{impl}, nil
}

// emitConcreteImpls implements the trait for the concrete dependency type,
// plus a blanket impl for the Impl wrapper around any implementor.
func (g *Generator) emitConcreteImpls(u *unit, deps *models.DepsConcrete) ([]string, error) {
	items, err := g.delegatingItems(u, u.callBody, u.futImpl)
	if err != nil {
		return nil, err
	}
	direct, err := templates.GenerateImpl(templates.ImplData{
		Attrs:  u.implAttrs(),
		Params: u.generics.ImplParamsString(),
		Trait:  u.traitRef(),
		SelfTy: deps.Type.String(),
		Where:  u.generics.ImplWhereString(),
		Items:  items,
	})
	if err != nil {
		return nil, renderError("impl of "+u.ident+" for "+deps.Type.String(), err)
	}

	items, err = g.delegatingItems(u, u.forwardBody, u.futForward)
	if err != nil {
		return nil, err
	}
	blanket, err := templates.GenerateImpl(templates.ImplData{
		Attrs:  u.implAttrs(),
		Params: u.generics.ImplParamsString(u.entraitParam(u.traitRef())),
		Trait:  u.traitRef(),
		SelfTy: u.implType(),
		Where:  u.generics.ImplWhereString(),
		Items:  items,
	})
	if err != nil {
		return nil, renderError("blanket impl of "+u.ident, err)
	}
	return []string{direct, blanket}, nil
}

// emitNoDepsImpl implements the trait for the Impl wrapper without
// passing it on to the functions.
func (g *Generator) emitNoDepsImpl(u *unit) ([]string, error) {
	items, err := g.delegatingItems(u, u.callBody, u.futImpl)
	if err != nil {
		return nil, err
	}
	impl, err := templates.GenerateImpl(templates.ImplData{
		Attrs:  u.implAttrs(),
		Params: u.generics.ImplParamsString(u.entraitParam()),
		Trait:  u.traitRef(),
		SelfTy: u.implType(),
		Where:  u.generics.ImplWhereString(),
		Items:  items,
	})
	if err != nil {
		return nil, renderError("impl of "+u.ident, err)
	}
	return []string{impl}, nil
}

// delegatingItems renders the associated futures and methods of one impl
func (g *Generator) delegatingItems(u *unit, body func(*models.TraitFn) string, fut func(*models.AssociatedFut) (string, error)) ([]string, error) {
	var items []string
	for _, fn := range u.fns {
		if af := fn.Sig.AssociatedFut; af != nil {
			item, err := fut(af)
			if err != nil {
				return nil, renderError("associated future "+af.Ident, err)
			}
			items = append(items, item)
		}
		method, err := templates.GenerateMethod(templates.MethodData{
			Attrs: forwardAttrs(fn.Attrs, implMethodAttrs),
			Sig:   fn.Sig.Sig.String(),
			Body:  body(fn),
		})
		if err != nil {
			return nil, renderError("method "+fn.MethodIdent(), err)
		}
		items = append(items, method)
	}
	return items, nil
}

// callBody calls the original function, passing self when it is the dependency
func (u *unit) callBody(fn *models.TraitFn) string {
	var args []string
	if fn.Deps.Kind() != models.DepsKindNone {
		args = append(args, "self")
	}
	args = append(args, fn.Sig.ParamIdents()...)
	return await(fn, u.pathPrefix+fn.SourceIdent+"("+strings.Join(args, ", ")+")")
}

// forwardBody calls the same method on the wrapped implementor
func (u *unit) forwardBody(fn *models.TraitFn) string {
	call := "self.as_ref()." + fn.MethodIdent() + "(" + strings.Join(fn.Sig.ParamIdents(), ", ") + ")"
	return await(fn, call)
}

func (u *unit) futImpl(af *models.AssociatedFut) (string, error) {
	return af.Impl, nil
}

func (u *unit) futForward(af *models.AssociatedFut) (string, error) {
	return templates.GenerateAssocType(templates.AssocTypeData{
		Ident:  af.Ident,
		Params: af.Generics,
		Value:  "<" + entraitT + " as " + u.traitRef() + ">::" + af.Ident + af.Generics,
		Where:  af.Where,
	})
}

// await appends `.await` when the method is still an async fn
func await(fn *models.TraitFn, call string) string {
	if fn.OriginallyAsync && fn.Sig.AssociatedFut == nil {
		return call + ".await"
	}
	return call
}

// unmocked lists the functions unimock calls through for generic dependencies
func (u *unit) unmocked() []string {
	if u.deps.Kind() != models.DepsKindGeneric {
		return nil
	}
	out := make([]string, 0, len(u.fns))
	for _, fn := range u.fns {
		if fn.Deps.Kind() == models.DepsKindGeneric {
			out = append(out, u.pathPrefix+fn.SourceIdent)
		} else {
			out = append(out, "_")
		}
	}
	return out
}

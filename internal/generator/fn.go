package generator

import (
	"github.com/toyz/entrait/internal/analyze"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
)

// unit is one generated trait and the functions delegated to by its methods
type unit struct {
	opts     models.Options
	crate    models.CrateIdents
	vis      string
	ident    string
	generics models.TraitGenerics
	deps     models.Deps
	fns      []*models.TraitFn
	// pathPrefix qualifies the delegated functions, `m::` in a module
	pathPrefix string
}

func (u *unit) traitRef() string {
	return u.ident + u.generics.ArgsString()
}

// anyAsync reports whether some method was declared async
func (u *unit) anyAsync() bool {
	for _, fn := range u.fns {
		if fn.OriginallyAsync {
			return true
		}
	}
	return false
}

func (g *Generator) expandFn(exp *Expansion, fn *syntax.ItemFn) error {
	opts := exp.Options
	acc := models.NewGenericsAccumulator()

	traitFn, err := analyze.AnalyzeFn(fn, opts, acc, analyze.DefaultFutIdent)
	if err != nil {
		return err
	}

	u := &unit{
		opts:     opts,
		crate:    models.NewCrateIdents(opts.CratePath),
		vis:      opts.TraitVis,
		ident:    g.traitIdent(opts, fn.Sig.Ident),
		generics: acc.Result(),
		deps:     traitFn.Deps,
		fns:      []*models.TraitFn{traitFn},
	}
	exp.TraitIdent = u.ident
	return g.emitUnit(exp, u)
}

func (g *Generator) expandMod(exp *Expansion, mod *syntax.ItemMod) error {
	opts := exp.Options
	acc := models.NewGenericsAccumulator()

	var fns []*models.TraitFn
	for _, item := range mod.Items {
		fn, ok := item.(*syntax.ItemFn)
		if !ok || fn.Vis == "" {
			continue
		}
		futIdent := analyze.DefaultFutIdent
		if opts.AsyncStrategy == models.AsyncAssociatedFuture {
			futIdent = g.utils.ToCamelCase(fn.Sig.Ident) + analyze.DefaultFutIdent
		}
		traitFn, err := analyze.AnalyzeFn(fn, opts, acc, futIdent)
		if err != nil {
			return err
		}
		fns = append(fns, traitFn)
	}

	deps, err := analyze.MergeDeps(fns)
	if err != nil {
		return err
	}

	u := &unit{
		opts:       opts,
		crate:      models.NewCrateIdents(opts.CratePath),
		vis:        opts.TraitVis,
		ident:      g.traitIdent(opts, mod.Ident),
		generics:   acc.Result(),
		deps:       deps,
		fns:        fns,
		pathPrefix: mod.Ident + "::",
	}
	exp.TraitIdent = u.ident
	return g.emitUnit(exp, u)
}

func (g *Generator) traitIdent(opts models.Options, source string) string {
	if opts.TraitIdent != "" {
		return opts.TraitIdent
	}
	return g.utils.ToCamelCase(source)
}

// emitUnit renders the trait and the impls for the unit's dependency kind
func (g *Generator) emitUnit(exp *Expansion, u *unit) error {
	trait, err := g.emitTrait(u)
	if err != nil {
		return err
	}
	items := []string{trait}

	var impls []string
	switch deps := u.deps.(type) {
	case *models.DepsGeneric:
		impls, err = g.emitGenericImpl(u, deps)
	case *models.DepsConcrete:
		impls, err = g.emitConcreteImpls(u, deps)
	default:
		impls, err = g.emitNoDepsImpl(u)
	}
	if err != nil {
		return err
	}

	exp.Generated = join(append(items, impls...))
	return nil
}

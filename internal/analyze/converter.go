package analyze

import (
	"strings"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
)

// DefaultFutIdent is the associated future name of a single-function trait
const DefaultFutIdent = "Fut"

// ConvertSignature rewrites a free function signature into the signature of
// the trait method that delegates to it.
func ConvertSignature(sig *syntax.Signature, deps models.Deps, opts models.Options) (models.EntraitSignature, error) {
	return ConvertSignatureWithFut(sig, deps, opts, DefaultFutIdent)
}

// ConvertSignatureWithFut is ConvertSignature with a chosen associated future
// name, needed when several methods share one trait.
func ConvertSignatureWithFut(sig *syntax.Signature, deps models.Deps, opts models.Options, futIdent string) (models.EntraitSignature, error) {
	out := sig.Clone()

	gen, err := receiverGeneration(sig, deps, opts)
	if err != nil {
		return models.EntraitSignature{}, err
	}
	switch gen {
	case models.ReceiverInsert:
		recv := syntax.RefSelf()
		recv.Pos = sig.Pos
		out.Inputs = append([]syntax.FnArg{recv}, out.Inputs...)
	case models.ReceiverRewrite:
		out.Inputs[0] = rewriteReceiver(out.Inputs[0])
	}

	result := models.EntraitSignature{Sig: out, Receiver: gen}

	if opts.AsyncStrategy == models.AsyncAssociatedFuture && out.Asyncness {
		fut, lifetimes := convertAssociatedFuture(out, opts, futIdent)
		result.AssociatedFut = fut
		result.Lifetimes = lifetimes
	}

	removeDependencyGeneric(out, deps)
	splitMethodGenerics(out)
	out.Generics.Tidy()
	NormalizeParams(out)

	return result, nil
}

func receiverGeneration(sig *syntax.Signature, deps models.Deps, opts models.Options) (models.ReceiverGeneration, error) {
	if deps.Kind() == models.DepsKindNone {
		return models.ReceiverInsert, nil
	}
	if len(sig.Inputs) == 0 {
		if opts.AsyncStrategy == models.AsyncAssociatedFuture {
			return models.ReceiverInsert, nil
		}
		return 0, errors.NewInternalError(location(sig.Pos),
			"a function without parameters was classified as having a dependency").
			WithContext("function", sig.Ident).
			WithContext("deps", deps.String())
	}
	return models.ReceiverRewrite, nil
}

// rewriteReceiver turns the dependency parameter into `&self`, keeping the
// lifetime and mutability of a reference parameter.
func rewriteReceiver(arg syntax.FnArg) syntax.FnArg {
	typed, ok := arg.(*syntax.TypedArg)
	if !ok {
		return arg
	}
	recv := &syntax.Receiver{Pos: typed.Pos, Reference: true}
	if ref, ok := typed.Ty.(*syntax.RefType); ok {
		recv.Lifetime = ref.Lifetime
		recv.Mut = ref.Mut
	}
	return recv
}

// convertAssociatedFuture removes `async` from sig and makes it return
// `Self::<futIdent><'lifetimes>`.
func convertAssociatedFuture(sig *syntax.Signature, opts models.Options, futIdent string) (*models.AssociatedFut, []models.EntraitLifetime) {
	expansion := ExpandLifetimes(sig)
	sig.Asyncness = false

	// synthesized lifetimes go after the declared ones
	var injected []syntax.GenericParam
	for _, name := range expansion.Synthesized {
		injected = append(injected, &syntax.LifetimeParam{Lifetime: name})
	}
	insertAt := 0
	for i, p := range sig.Generics.Params {
		if _, ok := p.(*syntax.LifetimeParam); ok {
			insertAt = i + 1
		}
	}
	params := make([]syntax.GenericParam, 0, len(sig.Generics.Params)+len(injected))
	params = append(params, sig.Generics.Params[:insertAt]...)
	params = append(params, injected...)
	params = append(params, sig.Generics.Params[insertAt:]...)
	sig.Generics.Params = params

	output := sig.Output
	if output == nil {
		output = syntax.UnitType()
	}

	names := expansion.Names()
	futSeg := syntax.PathSegment{Ident: futIdent}
	if len(names) > 0 {
		args := &syntax.AngleArgs{}
		for _, name := range names {
			args.Args = append(args.Args, &syntax.LifetimeArg{Lifetime: name})
		}
		futSeg.Arguments = args
	}
	sig.Output = &syntax.PathType{Path: syntax.Path{Segments: []syntax.PathSegment{{Ident: "Self"}, futSeg}}}

	crate := models.NewCrateIdents(opts.CratePath)
	bound := crate.Future() + "<Output = " + output.String() + ">"
	if opts.FutureSend {
		bound += " + Send"
	}
	generics := ""
	if len(names) > 0 {
		generics = "<" + strings.Join(names, ", ") + ">"
	}
	where := ""
	if recv := expansion.ReceiverLifetimes(); len(recv) > 0 {
		where = " where Self: " + strings.Join(recv, " + ")
	}

	fut := &models.AssociatedFut{
		Ident:     futIdent,
		Lifetimes: names,
		Generics:  generics,
		Where:     where,
		Decl:      "type " + futIdent + generics + ": " + bound + where + ";",
		Impl:      "type " + futIdent + generics + " = impl " + bound + where + ";",
		Output:    output,
	}
	return fut, expansion.Lifetimes
}

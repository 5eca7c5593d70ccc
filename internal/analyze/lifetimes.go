package analyze

import (
	"fmt"

	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
)

const (
	lifetimePrefix = "'entrait"
	// BrokenLifetime is emitted for an elided output lifetime that cannot be
	// resolved; rustc rejects it with its own diagnostic.
	BrokenLifetime = "'entrait_broken"
	staticLifetime = "'static"
	elidedLifetime = "'_"
)

// LifetimeExpansion is the result of de-eliding a signature
type LifetimeExpansion struct {
	// Lifetimes are the distinct lifetimes by first appearance
	Lifetimes []models.EntraitLifetime
	// Synthesized are the names that were invented, in allocation order
	Synthesized []string
}

// Names returns every lifetime name in order
func (e LifetimeExpansion) Names() []string {
	out := make([]string, len(e.Lifetimes))
	for i, lt := range e.Lifetimes {
		out[i] = lt.Name
	}
	return out
}

// ReceiverLifetimes returns the lifetimes first seen on the receiver
func (e LifetimeExpansion) ReceiverLifetimes() []string {
	var out []string
	for _, lt := range e.Lifetimes {
		if lt.Source.Kind == models.SourceReceiver {
			out = append(out, lt.Name)
		}
	}
	return out
}

type lifetimeExpander struct {
	next             int
	seen             map[string]bool
	records          []models.EntraitLifetime
	synthesized      []string
	elidedInputs     []string
	receiverLifetime string
	// higher-ranked lifetimes in scope, never recorded
	bound map[string]int
}

// ExpandLifetimes gives every elided lifetime in sig a name, rewriting sig
// in place. Elided input lifetimes become `'entraitN`; an elided output
// lifetime reuses the single elided input lifetime, else the receiver's
// lifetime, else BrokenLifetime. Lifetimes inside `Fn(..)` sugar and bare
// fn types are higher-ranked and left alone.
func ExpandLifetimes(sig *syntax.Signature) LifetimeExpansion {
	e := &lifetimeExpander{
		seen:  make(map[string]bool),
		bound: make(map[string]int),
	}

	for i, in := range sig.Inputs {
		switch arg := in.(type) {
		case *syntax.Receiver:
			e.expandReceiver(arg)
		case *syntax.TypedArg:
			e.visitType(arg.Ty, models.LifetimeSource{Kind: models.SourceParam, Index: i}, true)
		}
	}
	if sig.Output != nil {
		e.visitType(sig.Output, models.LifetimeSource{Kind: models.SourceOutput}, false)
	}

	return LifetimeExpansion{Lifetimes: e.records, Synthesized: e.synthesized}
}

func (e *lifetimeExpander) expandReceiver(r *syntax.Receiver) {
	source := models.LifetimeSource{Kind: models.SourceReceiver}
	if r.Explicit != nil {
		e.visitType(r.Explicit, source, true)
		if ref, ok := r.Explicit.(*syntax.RefType); ok {
			e.receiverLifetime = ref.Lifetime
		}
		return
	}
	if !r.Reference {
		return
	}
	r.Lifetime = e.resolve(r.Lifetime, source, true)
	e.receiverLifetime = r.Lifetime
}

// resolve names one lifetime position and records it
func (e *lifetimeExpander) resolve(lt string, source models.LifetimeSource, input bool) string {
	if lt == staticLifetime || e.bound[lt] > 0 {
		return lt
	}
	if lt != "" && lt != elidedLifetime {
		e.record(lt, source, true)
		return lt
	}
	if input {
		name := fmt.Sprintf("%s%d", lifetimePrefix, e.next)
		e.next++
		e.synthesized = append(e.synthesized, name)
		e.elidedInputs = append(e.elidedInputs, name)
		e.record(name, source, false)
		return name
	}
	name := e.outputLifetime()
	e.record(name, source, false)
	return name
}

func (e *lifetimeExpander) outputLifetime() string {
	switch {
	case len(e.elidedInputs) == 1:
		return e.elidedInputs[0]
	case e.receiverLifetime != "":
		return e.receiverLifetime
	default:
		return BrokenLifetime
	}
}

func (e *lifetimeExpander) record(name string, source models.LifetimeSource, user bool) {
	if e.seen[name] {
		return
	}
	e.seen[name] = true
	e.records = append(e.records, models.EntraitLifetime{Name: name, Source: source, UserProvided: user})
}

func (e *lifetimeExpander) visitType(ty syntax.Type, source models.LifetimeSource, input bool) {
	switch t := ty.(type) {
	case *syntax.RefType:
		t.Lifetime = e.resolve(t.Lifetime, source, input)
		e.visitType(t.Elem, source, input)
	case *syntax.PtrType:
		e.visitType(t.Elem, source, input)
	case *syntax.ParenType:
		e.visitType(t.Elem, source, input)
	case *syntax.TupleType:
		for _, elem := range t.Elems {
			e.visitType(elem, source, input)
		}
	case *syntax.SliceType:
		e.visitType(t.Elem, source, input)
	case *syntax.ArrayType:
		e.visitType(t.Elem, source, input)
	case *syntax.ImplTraitType:
		e.visitBounds(t.Bounds, source, input)
	case *syntax.TraitObjectType:
		e.visitBounds(t.Bounds, source, input)
	case *syntax.PathType:
		if t.QSelf != nil {
			e.visitType(t.QSelf.Type, source, input)
			if t.QSelf.As != nil {
				e.visitPath(t.QSelf.As, source, input)
			}
		}
		e.visitPath(&t.Path, source, input)
	}
}

func (e *lifetimeExpander) visitBounds(bounds []syntax.TypeParamBound, source models.LifetimeSource, input bool) {
	for _, b := range bounds {
		switch b := b.(type) {
		case *syntax.LifetimeBound:
			b.Lifetime = e.resolve(b.Lifetime, source, input)
		case *syntax.TraitBound:
			for _, lt := range b.Lifetimes {
				e.bound[lt]++
			}
			e.visitPath(&b.Path, source, input)
			for _, lt := range b.Lifetimes {
				e.bound[lt]--
			}
		}
	}
}

func (e *lifetimeExpander) visitPath(p *syntax.Path, source models.LifetimeSource, input bool) {
	for i := range p.Segments {
		args, ok := p.Segments[i].Arguments.(*syntax.AngleArgs)
		if !ok {
			continue
		}
		for _, arg := range args.Args {
			switch a := arg.(type) {
			case *syntax.LifetimeArg:
				a.Lifetime = e.resolve(a.Lifetime, source, input)
			case *syntax.TypeArg:
				e.visitType(a.Type, source, input)
			case *syntax.BindingArg:
				e.visitType(a.Type, source, input)
			case *syntax.ConstraintArg:
				e.visitBounds(a.Bounds, source, input)
			}
		}
	}
}

package analyze

import (
	"fmt"

	"github.com/toyz/entrait/internal/syntax"
)

// NormalizeParams replaces every typed parameter pattern of sig with a plain
// identifier so delegating code can forward it by name. Plain bindings keep
// their names; then, in order:
//
//  1. a binding named like the function gets an `_` suffix
//  2. a pattern with exactly one lowercase binding is lifted to that binding
//  3. anything else becomes `arg{i}`, prefixed with `_` until it is free
//
// i is the position among the typed parameters. Normalizing a normalized
// signature changes nothing.
func NormalizeParams(sig *syntax.Signature) {
	args := sig.TypedArgs()
	taken := map[string]bool{sig.Ident: true}
	names := make([]string, len(args))

	// plain bindings keep their names before any pattern is lifted
	for i, arg := range args {
		if ip, ok := arg.Pat.(*syntax.IdentPat); ok && ip.Ident != sig.Ident && !taken[ip.Ident] {
			taken[ip.Ident] = true
			names[i] = ip.Ident
		}
	}

	for i, arg := range args {
		if names[i] != "" {
			continue
		}
		candidate := bindingCandidate(arg.Pat)
		if candidate == "" {
			continue
		}
		if candidate == sig.Ident {
			candidate += "_"
		}
		if taken[candidate] {
			continue
		}
		taken[candidate] = true
		names[i] = candidate
	}

	for i := range args {
		if names[i] != "" {
			continue
		}
		name := fmt.Sprintf("arg%d", i)
		for taken[name] {
			name = "_" + name
		}
		taken[name] = true
		names[i] = name
	}

	for i, arg := range args {
		arg.Pat = &syntax.IdentPat{Ident: names[i]}
	}
}

func bindingCandidate(p syntax.Pat) string {
	if ip, ok := p.(*syntax.IdentPat); ok {
		return ip.Ident
	}
	idents := syntax.BindingIdents(p)
	if len(idents) == 1 {
		return idents[0]
	}
	return ""
}

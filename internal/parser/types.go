package parser

import (
	"strings"

	"github.com/toyz/entrait/internal/syntax"
)

type pathMode int

const (
	// typeMode allows `<..>` and `(..) -> T` arguments directly after a segment
	typeMode pathMode = iota
	// exprMode only allows turbofish arguments, as in patterns
	exprMode
)

func (p *Parser) parseType() (syntax.Type, error) {
	t := p.peek()
	switch {
	case t.is("&"):
		p.next()
		ref := &syntax.RefType{}
		if p.peek().kind == tokLifetime {
			ref.Lifetime = p.next().text
		}
		ref.Mut = p.eat("mut")
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ref.Elem = elem
		return ref, nil

	case t.is("*"):
		p.next()
		ptr := &syntax.PtrType{}
		if p.eat("mut") {
			ptr.Mut = true
		} else if _, err := p.expect("const"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ptr.Elem = elem
		return ptr, nil

	case t.is("("):
		return p.parseParenOrTuple()

	case t.is("["):
		p.next()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.eat(";") {
			start := p.peek().pos.Offset
			for !p.atEOF() && !p.at("]") {
				if p.at("(") || p.at("[") || p.at("{") {
					p.consumeGroup()
					continue
				}
				p.next()
			}
			length := strings.TrimSpace(p.text(start, p.peek().pos.Offset))
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			return &syntax.ArrayType{Elem: elem, Len: length}, nil
		}
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
		return &syntax.SliceType{Elem: elem}, nil

	case t.is("!"):
		p.next()
		return &syntax.NeverType{}, nil

	case t.is("_"):
		p.next()
		return &syntax.InferType{}, nil

	case t.is("impl"):
		p.next()
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &syntax.ImplTraitType{Bounds: bounds}, nil

	case t.is("dyn"):
		p.next()
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &syntax.TraitObjectType{Bounds: bounds}, nil

	case t.is("for"):
		lifetimes, err := p.parseForLifetimes()
		if err != nil {
			return nil, err
		}
		if p.at("fn") || p.at("unsafe") || p.at("extern") {
			return p.parseBareFn(lifetimes)
		}
		// `for<'a> Trait<'a>` written without `dyn`
		bound, err := p.parseBound()
		if err != nil {
			return nil, err
		}
		if tb, ok := bound.(*syntax.TraitBound); ok {
			tb.Lifetimes = lifetimes
		}
		return &syntax.TraitObjectType{Bounds: []syntax.TypeParamBound{bound}}, nil

	case t.is("fn") || t.is("unsafe") || t.is("extern"):
		return p.parseBareFn(nil)

	case t.is("<"):
		return p.parseQualifiedPath()

	case t.is("::") || t.kind == tokIdent:
		start := t.pos.Offset
		path, err := p.parsePath(typeMode)
		if err != nil {
			return nil, err
		}
		if p.at("!") {
			// type position macro, e.g. `ty!(..)`
			p.next()
			if !p.at("(") && !p.at("[") && !p.at("{") {
				return nil, p.errorf(p.peek(), "expected macro delimiter, found %s", describe(p.peek()))
			}
			_, closeTok := p.consumeGroup()
			return &syntax.VerbatimType{Text: p.text(start, closeTok.end)}, nil
		}
		return &syntax.PathType{Path: path}, nil
	}
	return nil, p.errorf(t, "expected type, found %s", describe(t))
}

func (p *Parser) parseParenOrTuple() (syntax.Type, error) {
	p.next() // (
	if p.eat(")") {
		return syntax.UnitType(), nil
	}
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.eat(")") {
		return &syntax.ParenType{Elem: first}, nil
	}
	elems := []syntax.Type{first}
	for p.eat(",") {
		if p.at(")") {
			break
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return &syntax.TupleType{Elems: elems}, nil
}

func (p *Parser) parseForLifetimes() ([]string, error) {
	if _, err := p.expect("for"); err != nil {
		return nil, err
	}
	if _, err := p.expect("<"); err != nil {
		return nil, err
	}
	var lifetimes []string
	for p.peek().kind == tokLifetime {
		lifetimes = append(lifetimes, p.next().text)
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	return lifetimes, nil
}

func (p *Parser) parseBareFn(lifetimes []string) (syntax.Type, error) {
	fn := &syntax.BareFnType{Lifetimes: lifetimes}
	fn.Unsafe = p.eat("unsafe")
	if p.eat("extern") {
		fn.Abi = `"C"`
		if p.peek().kind == tokLiteral {
			fn.Abi = p.next().text
		}
	}
	if _, err := p.expect("fn"); err != nil {
		return nil, err
	}
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	for !p.at(")") && !p.atEOF() {
		if p.eat("...") {
			break
		}
		// named inputs: `fn(x: u8)`
		if (p.peek().kind == tokIdent || p.at("_")) && p.peekN(1).is(":") {
			p.next()
			p.next()
		}
		in, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.Inputs = append(fn.Inputs, in)
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if p.eat("->") {
		out, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.Output = out
	}
	return fn, nil
}

// parseQualifiedPath parses `<T as Trait>::Assoc` and `<T>::Assoc`
func (p *Parser) parseQualifiedPath() (syntax.Type, error) {
	p.next() // <
	self, err := p.parseType()
	if err != nil {
		return nil, err
	}
	qself := &syntax.QSelf{Type: self}
	if p.eat("as") {
		as, err := p.parsePath(typeMode)
		if err != nil {
			return nil, err
		}
		qself.As = &as
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	out := &syntax.PathType{QSelf: qself}
	for p.eat("::") {
		seg, err := p.parseSegment(typeMode)
		if err != nil {
			return nil, err
		}
		out.Path.Segments = append(out.Path.Segments, seg)
	}
	if len(out.Path.Segments) == 0 {
		return nil, p.errorf(p.peek(), "expected `::` after qualified self type")
	}
	return out, nil
}

func (p *Parser) parsePath(mode pathMode) (syntax.Path, error) {
	var path syntax.Path
	path.LeadingColon = p.eat("::")
	for {
		seg, err := p.parseSegment(mode)
		if err != nil {
			return path, err
		}
		path.Segments = append(path.Segments, seg)
		if p.at("::") && p.peekN(1).kind == tokIdent {
			p.next()
			continue
		}
		return path, nil
	}
}

func (p *Parser) parseSegment(mode pathMode) (syntax.PathSegment, error) {
	ident, err := p.expectIdent()
	if err != nil {
		return syntax.PathSegment{}, err
	}
	seg := syntax.PathSegment{Ident: ident.text}
	switch {
	case p.at("::") && p.peekN(1).is("<"):
		p.next()
		args, err := p.parseAngleArgs(true)
		if err != nil {
			return seg, err
		}
		seg.Arguments = args
	case mode == typeMode && p.at("<"):
		args, err := p.parseAngleArgs(false)
		if err != nil {
			return seg, err
		}
		seg.Arguments = args
	case mode == typeMode && p.at("("):
		args, err := p.parseParenArgs()
		if err != nil {
			return seg, err
		}
		seg.Arguments = args
	}
	return seg, nil
}

func (p *Parser) parseAngleArgs(turbofish bool) (*syntax.AngleArgs, error) {
	if _, err := p.expect("<"); err != nil {
		return nil, err
	}
	args := &syntax.AngleArgs{Turbofish: turbofish}
	for !p.at(">") && !p.atEOF() {
		arg, err := p.parseGenericArg()
		if err != nil {
			return nil, err
		}
		args.Args = append(args.Args, arg)
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseGenericArg() (syntax.GenericArgument, error) {
	t := p.peek()
	switch {
	case t.kind == tokLifetime:
		p.next()
		return &syntax.LifetimeArg{Lifetime: t.text}, nil
	case t.kind == tokLiteral:
		p.next()
		return &syntax.ConstArg{Expr: t.text}, nil
	case t.is("-") && p.peekN(1).kind == tokLiteral:
		p.next()
		return &syntax.ConstArg{Expr: "-" + p.next().text}, nil
	case t.is("{"):
		open, closeTok := p.consumeGroup()
		return &syntax.ConstArg{Expr: p.text(open.pos.Offset, closeTok.end)}, nil
	case t.kind == tokIdent && p.peekN(1).is("=") && !p.peekN(2).is("="):
		p.next()
		p.next()
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &syntax.BindingArg{Ident: t.text, Type: ty}, nil
	case t.kind == tokIdent && p.peekN(1).is(":"):
		p.next()
		p.next()
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &syntax.ConstraintArg{Ident: t.text, Bounds: bounds}, nil
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &syntax.TypeArg{Type: ty}, nil
}

func (p *Parser) parseParenArgs() (*syntax.ParenArgs, error) {
	p.next() // (
	args := &syntax.ParenArgs{}
	for !p.at(")") && !p.atEOF() {
		in, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args.Inputs = append(args.Inputs, in)
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if p.eat("->") {
		out, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args.Output = out
	}
	return args, nil
}

func (p *Parser) startsBound() bool {
	t := p.peek()
	switch {
	case t.kind == tokLifetime:
		return true
	case t.is("?") || t.is("(") || t.is("::") || t.is("~") || t.is("for"):
		return true
	case t.kind == tokIdent:
		return !t.is("where")
	}
	return false
}

func (p *Parser) parseBounds() ([]syntax.TypeParamBound, error) {
	var bounds []syntax.TypeParamBound
	for p.startsBound() {
		b, err := p.parseBound()
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, b)
		if !p.eat("+") {
			break
		}
	}
	return bounds, nil
}

func (p *Parser) parseBound() (syntax.TypeParamBound, error) {
	if p.peek().kind == tokLifetime {
		return &syntax.LifetimeBound{Lifetime: p.next().text}, nil
	}
	if p.eat("(") {
		inner, err := p.parseBound()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	bound := &syntax.TraitBound{}
	if p.eat("~") {
		if _, err := p.expect("const"); err != nil {
			return nil, err
		}
	}
	bound.Maybe = p.eat("?")
	if p.at("for") {
		lifetimes, err := p.parseForLifetimes()
		if err != nil {
			return nil, err
		}
		bound.Lifetimes = lifetimes
	}
	path, err := p.parsePath(typeMode)
	if err != nil {
		return nil, err
	}
	bound.Path = path
	return bound, nil
}

// parseGenerics parses an optional `<...>` parameter list
func (p *Parser) parseGenerics() (syntax.Generics, error) {
	var g syntax.Generics
	if !p.eat("<") {
		return g, nil
	}
	for !p.at(">") && !p.atEOF() {
		for p.at("#") {
			p.next()
			p.consumeGroup()
		}
		param, err := p.parseGenericParam()
		if err != nil {
			return g, err
		}
		g.Params = append(g.Params, param)
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(">"); err != nil {
		return g, err
	}
	return g, nil
}

func (p *Parser) parseGenericParam() (syntax.GenericParam, error) {
	t := p.peek()
	switch {
	case t.kind == tokLifetime:
		p.next()
		lp := &syntax.LifetimeParam{Lifetime: t.text}
		if p.eat(":") {
			lp.Bounds = p.parseLifetimeBounds()
		}
		return lp, nil

	case t.is("const"):
		p.next()
		ident, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		cp := &syntax.ConstParam{Ident: ident.text, Type: ty}
		if p.eat("=") {
			cp.Default = p.parseConstExpr()
		}
		return cp, nil

	case t.kind == tokIdent:
		p.next()
		tp := &syntax.TypeParam{Ident: t.text}
		if p.eat(":") {
			bounds, err := p.parseBounds()
			if err != nil {
				return nil, err
			}
			tp.Bounds = bounds
		}
		if p.eat("=") {
			def, err := p.parseType()
			if err != nil {
				return nil, err
			}
			tp.Default = def
		}
		return tp, nil
	}
	return nil, p.errorf(t, "expected generic parameter, found %s", describe(t))
}

func (p *Parser) parseLifetimeBounds() []string {
	var bounds []string
	for p.peek().kind == tokLifetime {
		bounds = append(bounds, p.next().text)
		if !p.eat("+") {
			break
		}
	}
	return bounds
}

// parseConstExpr reads a const default or argument: a literal, a block or a path
func (p *Parser) parseConstExpr() string {
	t := p.peek()
	switch {
	case t.is("{"):
		open, closeTok := p.consumeGroup()
		return p.text(open.pos.Offset, closeTok.end)
	case t.is("-"):
		p.next()
		return "-" + p.next().text
	}
	start := t.pos.Offset
	p.next()
	for p.at("::") && p.peekN(1).kind == tokIdent {
		p.next()
		p.next()
	}
	return p.text(start, p.lastEnd)
}

// parseWhere parses an optional where-clause up to `{`, `;` or `=`
func (p *Parser) parseWhere() (*syntax.WhereClause, error) {
	if !p.eat("where") {
		return nil, nil
	}
	wc := &syntax.WhereClause{}
	for !p.atEOF() && !p.at("{") && !p.at(";") && !p.at("=") {
		if p.peek().kind == tokLifetime {
			lt := p.next().text
			if _, err := p.expect(":"); err != nil {
				return nil, err
			}
			wc.Predicates = append(wc.Predicates, &syntax.LifetimePredicate{Lifetime: lt, Bounds: p.parseLifetimeBounds()})
		} else {
			pred := &syntax.TypePredicate{}
			if p.at("for") {
				lifetimes, err := p.parseForLifetimes()
				if err != nil {
					return nil, err
				}
				pred.Lifetimes = lifetimes
			}
			bounded, err := p.parseType()
			if err != nil {
				return nil, err
			}
			pred.Bounded = bounded
			if _, err := p.expect(":"); err != nil {
				return nil, err
			}
			bounds, err := p.parseBounds()
			if err != nil {
				return nil, err
			}
			pred.Bounds = bounds
			wc.Predicates = append(wc.Predicates, pred)
		}
		if !p.eat(",") {
			break
		}
	}
	return wc, nil
}

package parser

import (
	"github.com/toyz/entrait/internal/syntax"
)

func (p *Parser) parsePat() (syntax.Pat, error) {
	t := p.peek()
	switch {
	case t.is("_"):
		p.next()
		return &syntax.WildPat{}, nil

	case t.is(".."):
		p.next()
		return &syntax.RestPat{}, nil

	case t.is("&"):
		p.next()
		ref := &syntax.RefPat{Mut: p.eat("mut")}
		inner, err := p.parsePat()
		if err != nil {
			return nil, err
		}
		ref.Pat = inner
		return ref, nil

	case t.is("("):
		p.next()
		elems, trailing, err := p.parsePatList(")")
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 && !trailing {
			return &syntax.ParenPat{Pat: elems[0]}, nil
		}
		return &syntax.TuplePat{Elems: elems}, nil

	case t.is("["):
		p.next()
		elems, _, err := p.parsePatList("]")
		if err != nil {
			return nil, err
		}
		return &syntax.SlicePat{Elems: elems}, nil

	case t.kind == tokLiteral:
		p.next()
		return &syntax.LitPat{Text: t.text}, nil

	case t.is("-") && p.peekN(1).kind == tokLiteral:
		p.next()
		return &syntax.LitPat{Text: "-" + p.next().text}, nil

	case t.is("true") || t.is("false"):
		p.next()
		return &syntax.LitPat{Text: t.text}, nil

	case t.is("ref") || t.is("mut"):
		return p.parseIdentPat()

	case t.is("::") || t.kind == tokIdent:
		if t.kind == tokIdent && !p.peekN(1).is("::") && !p.peekN(1).is("(") && !p.peekN(1).is("{") {
			return p.parseIdentPat()
		}
		path, err := p.parsePath(exprMode)
		if err != nil {
			return nil, err
		}
		switch {
		case p.at("("):
			p.next()
			elems, _, err := p.parsePatList(")")
			if err != nil {
				return nil, err
			}
			return &syntax.TupleStructPat{Path: path, Elems: elems}, nil
		case p.at("{"):
			return p.parseStructPat(path)
		}
		return &syntax.PathPat{Path: path}, nil
	}
	return nil, p.errorf(t, "expected pattern, found %s", describe(t))
}

func (p *Parser) parseIdentPat() (syntax.Pat, error) {
	pat := &syntax.IdentPat{}
	pat.ByRef = p.eat("ref")
	pat.Mut = p.eat("mut")
	ident, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	pat.Ident = ident.text
	if p.eat("@") {
		sub, err := p.parsePat()
		if err != nil {
			return nil, err
		}
		pat.Sub = sub
	}
	return pat, nil
}

// parsePatList parses comma separated patterns up to the closing delimiter
// and reports whether the list ended with a trailing comma.
func (p *Parser) parsePatList(closing string) ([]syntax.Pat, bool, error) {
	var elems []syntax.Pat
	trailing := false
	for !p.at(closing) && !p.atEOF() {
		pat, err := p.parsePat()
		if err != nil {
			return nil, false, err
		}
		elems = append(elems, pat)
		trailing = p.eat(",")
		if !trailing {
			break
		}
	}
	if _, err := p.expect(closing); err != nil {
		return nil, false, err
	}
	return elems, trailing, nil
}

func (p *Parser) parseStructPat(path syntax.Path) (syntax.Pat, error) {
	p.next() // {
	out := &syntax.StructPat{Path: path}
	for !p.at("}") && !p.atEOF() {
		if p.eat("..") {
			out.Rest = true
			break
		}
		byRef := p.eat("ref")
		mut := p.eat("mut")
		member := p.next()
		if member.kind != tokIdent && member.kind != tokLiteral {
			return nil, p.errorf(member, "expected field name, found %s", describe(member))
		}
		if !byRef && !mut && p.eat(":") {
			sub, err := p.parsePat()
			if err != nil {
				return nil, err
			}
			out.Fields = append(out.Fields, syntax.FieldPat{Member: member.text, Pat: sub})
		} else {
			out.Fields = append(out.Fields, syntax.FieldPat{
				Member:    member.text,
				Pat:       &syntax.IdentPat{ByRef: byRef, Mut: mut, Ident: member.text},
				Shorthand: true,
			})
		}
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return out, nil
}

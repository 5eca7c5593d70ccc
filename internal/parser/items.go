package parser

import (
	"strings"

	"github.com/toyz/entrait/internal/syntax"
)

func (p *Parser) parseItems(inBraces bool) ([]syntax.Item, error) {
	var items []syntax.Item
	for {
		if p.atEOF() {
			if inBraces {
				return nil, p.errorf(p.peek(), "unclosed module body")
			}
			return items, nil
		}
		if p.at("}") {
			if inBraces {
				return items, nil
			}
			return nil, p.errorf(p.peek(), "unexpected `}`")
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (p *Parser) parseItem() (syntax.Item, error) {
	start := p.peek()

	// inner attributes and inner doc comments are kept as opaque items
	if p.peek().kind == tokInnerDoc || p.at("#") && p.peekN(1).is("!") && p.peekN(2).is("[") {
		p.skipInnerAttr()
		return &syntax.ItemOther{
			Span: syntax.Span{Start: start.pos, End: p.lastEnd},
			Text: p.text(start.pos.Offset, p.lastEnd),
		}, nil
	}

	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return nil, err
	}
	vis := p.parseVis()

	save := p.pos
	p.skipFnQualifiers()
	isFn := p.at("fn")
	p.pos = save

	switch {
	case isFn:
		return p.parseFn(start, attrs, vis)
	case p.at("trait"),
		p.at("unsafe") && p.peekN(1).is("trait"),
		p.at("auto") && p.peekN(1).is("trait"),
		p.at("unsafe") && p.peekN(1).is("auto"):
		return p.parseTrait(start, attrs, vis)
	case p.at("mod") && p.peekN(1).kind == tokIdent && p.peekN(2).is("{"):
		return p.parseMod(start, attrs, vis)
	}

	if p.atEOF() || p.at("}") {
		return nil, p.errorf(p.peek(), "expected item after attributes")
	}
	p.skipItem()
	return &syntax.ItemOther{
		Span:  syntax.Span{Start: start.pos, End: p.lastEnd},
		Attrs: attrs,
		Text:  p.text(start.pos.Offset, p.lastEnd),
	}, nil
}

func (p *Parser) skipInnerAttr() {
	if p.peek().kind == tokInnerDoc {
		p.next()
		return
	}
	p.next() // #
	p.next() // !
	p.consumeGroup()
}

func (p *Parser) skipFnQualifiers() {
	for {
		switch {
		case p.at("const"), p.at("async"), p.at("unsafe"), p.at("default"):
			p.next()
		case p.at("extern"):
			p.next()
			if p.peek().kind == tokLiteral {
				p.next()
			}
		default:
			return
		}
	}
}

// skipItem advances past an item entrait does not model
func (p *Parser) skipItem() {
	for !p.atEOF() {
		switch {
		case p.at(";"):
			p.next()
			return
		case p.at("(") || p.at("["):
			p.consumeGroup()
		case p.at("{"):
			p.consumeGroup()
			p.eat(";")
			return
		case p.at("}"):
			return
		default:
			p.next()
		}
	}
}

func (p *Parser) parseOuterAttrs() ([]syntax.Attribute, error) {
	var attrs []syntax.Attribute
	for {
		if doc := p.peek(); doc.kind == tokDoc {
			p.next()
			attrs = append(attrs, syntax.Attribute{
				Span:   syntax.Span{Start: doc.pos, End: doc.end},
				Path:   "doc",
				Tokens: doc.text,
				Text:   doc.text,
			})
			continue
		}
		if !p.at("#") || !p.peekN(1).is("[") {
			break
		}
		hash := p.next()
		open := p.next()

		var path strings.Builder
		for p.at("::") || p.peek().kind == tokIdent {
			path.WriteString(p.next().text)
		}

		attr := syntax.Attribute{Path: path.String()}
		switch {
		case p.at("(") || p.at("[") || p.at("{"):
			inner, innerClose := p.consumeGroup()
			attr.Tokens = p.text(inner.end, innerClose.pos.Offset)
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
		case p.at("="):
			eq := p.next()
			for !p.atEOF() && !p.at("]") {
				p.next()
			}
			attr.Tokens = strings.TrimSpace(p.text(eq.end, p.peek().pos.Offset))
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
		default:
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
		}
		closeTok := p.toks[p.pos-1]
		if attr.Path == "" {
			return nil, p.errorf(open, "expected attribute path")
		}
		attr.Span = syntax.Span{Start: hash.pos, End: closeTok.end}
		attr.Text = p.text(hash.pos.Offset, closeTok.end)
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// parseVis parses `pub`, `pub(crate)`, `pub(in path)` and returns the text
func (p *Parser) parseVis() string {
	if !p.at("pub") {
		return ""
	}
	start := p.next()
	if p.at("(") {
		inner := p.peekN(1)
		if inner.is("crate") || inner.is("super") || inner.is("self") || inner.is("in") {
			p.consumeGroup()
		}
	}
	return p.text(start.pos.Offset, p.lastEnd)
}

func (p *Parser) parseFn(start token, attrs []syntax.Attribute, vis string) (*syntax.ItemFn, error) {
	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	fn := &syntax.ItemFn{Attrs: attrs, Vis: vis, Sig: sig}
	if p.at("{") {
		open, closeTok := p.consumeGroup()
		fn.Body = p.text(open.pos.Offset, closeTok.end)
	} else if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	fn.Span = syntax.Span{Start: start.pos, End: p.lastEnd}
	return fn, nil
}

func (p *Parser) parseSignature() (*syntax.Signature, error) {
	sig := &syntax.Signature{}
	for {
		switch {
		case p.eat("const"):
			sig.Constness = true
			continue
		case p.eat("async"):
			sig.Asyncness = true
			continue
		case p.eat("unsafe"):
			sig.Unsafety = true
			continue
		case p.eat("default"):
			continue
		case p.eat("extern"):
			sig.Abi = `"C"`
			if p.peek().kind == tokLiteral {
				sig.Abi = p.next().text
			}
			continue
		}
		break
	}
	if _, err := p.expect("fn"); err != nil {
		return nil, err
	}
	ident, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	sig.Ident = ident.text
	sig.Pos = ident.pos

	generics, err := p.parseGenerics()
	if err != nil {
		return nil, err
	}
	sig.Generics = generics

	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	for !p.at(")") && !p.atEOF() {
		if _, err := p.parseOuterAttrs(); err != nil {
			return nil, err
		}
		arg, err := p.parseFnArg(len(sig.Inputs) == 0)
		if err != nil {
			return nil, err
		}
		sig.Inputs = append(sig.Inputs, arg)
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
		sig.Output = out
	}

	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	sig.Generics.Where = where
	return sig, nil
}

func (p *Parser) parseFnArg(first bool) (syntax.FnArg, error) {
	start := p.peek()
	if first {
		if recv, ok, err := p.parseReceiver(); ok || err != nil {
			return recv, err
		}
	}
	pat, err := p.parsePat()
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
	return &syntax.TypedArg{Pos: start.pos, Pat: pat, Ty: ty}, nil
}

// parseReceiver recognises the self forms; ok is false when the next
// argument is not a receiver and nothing was consumed.
func (p *Parser) parseReceiver() (*syntax.Receiver, bool, error) {
	start := p.peek()
	recv := &syntax.Receiver{Pos: start.pos}

	if p.at("&") {
		i := 1
		if p.peekN(i).kind == tokLifetime {
			i++
		}
		if p.peekN(i).is("mut") {
			i++
		}
		if !p.peekN(i).is("self") || p.peekN(i+1).is("::") {
			return nil, false, nil
		}
		p.next()
		recv.Reference = true
		if p.peek().kind == tokLifetime {
			recv.Lifetime = p.next().text
		}
		recv.Mut = p.eat("mut")
		p.next() // self
		return recv, true, nil
	}

	i := 0
	if p.peekN(0).is("mut") {
		i++
	}
	if !p.peekN(i).is("self") || p.peekN(i+1).is("::") {
		return nil, false, nil
	}
	recv.MutBinding = p.eat("mut")
	p.next() // self
	if p.eat(":") {
		ty, err := p.parseType()
		if err != nil {
			return nil, true, err
		}
		recv.Explicit = ty
	}
	return recv, true, nil
}

func (p *Parser) parseTrait(start token, attrs []syntax.Attribute, vis string) (*syntax.ItemTrait, error) {
	tr := &syntax.ItemTrait{Attrs: attrs, Vis: vis}
	tr.Unsafety = p.eat("unsafe")
	p.eat("auto")
	if _, err := p.expect("trait"); err != nil {
		return nil, err
	}
	ident, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	tr.Ident = ident.text
	tr.IdentPos = ident.pos

	generics, err := p.parseGenerics()
	if err != nil {
		return nil, err
	}
	tr.Generics = generics
	if p.eat(":") {
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		tr.Supertraits = bounds
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	tr.Generics.Where = where

	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	tr.BodyStart = open.pos.Offset
	for !p.at("}") {
		if p.atEOF() {
			return nil, p.errorf(p.peek(), "unclosed trait body")
		}
		item, err := p.parseTraitItem()
		if err != nil {
			return nil, err
		}
		if item != nil {
			tr.Items = append(tr.Items, item)
		}
	}
	p.next() // }
	tr.Span = syntax.Span{Start: start.pos, End: p.lastEnd}
	return tr, nil
}

func (p *Parser) parseTraitItem() (syntax.TraitItem, error) {
	start := p.peek()
	if p.peek().kind == tokInnerDoc || p.at("#") && p.peekN(1).is("!") {
		p.skipInnerAttr()
		return nil, nil
	}
	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return nil, err
	}

	save := p.pos
	p.skipFnQualifiers()
	isFn := p.at("fn")
	p.pos = save

	if isFn {
		sig, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		fn := &syntax.TraitItemFn{Attrs: attrs, Sig: sig}
		if p.at("{") {
			open, closeTok := p.consumeGroup()
			fn.Default = p.text(open.pos.Offset, closeTok.end)
		} else if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return fn, nil
	}

	if p.at("type") {
		return p.parseTraitItemType(start, attrs)
	}
	if p.at("}") {
		return nil, p.errorf(p.peek(), "expected trait item after attributes")
	}
	decl := p.peek()
	p.skipItem()
	return &syntax.TraitItemOther{
		Attrs: attrs,
		Text:  p.text(start.pos.Offset, p.lastEnd),
		Decl:  p.text(decl.pos.Offset, p.lastEnd),
	}, nil
}

func (p *Parser) parseTraitItemType(start token, attrs []syntax.Attribute) (*syntax.TraitItemType, error) {
	p.next() // type
	ident, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	item := &syntax.TraitItemType{Attrs: attrs, Pos: ident.pos, Ident: ident.text}

	if item.Generics, err = p.parseGenerics(); err != nil {
		return nil, err
	}
	if p.eat(":") {
		if item.Bounds, err = p.parseBounds(); err != nil {
			return nil, err
		}
	}
	if item.Generics.Where, err = p.parseWhere(); err != nil {
		return nil, err
	}
	if p.eat("=") {
		if item.Default, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	item.Text = p.text(start.pos.Offset, p.lastEnd)
	return item, nil
}

func (p *Parser) parseMod(start token, attrs []syntax.Attribute, vis string) (*syntax.ItemMod, error) {
	p.next() // mod
	ident := p.next()
	p.next() // {
	items, err := p.parseItems(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return &syntax.ItemMod{
		Span:     syntax.Span{Start: start.pos, End: p.lastEnd},
		Attrs:    attrs,
		Vis:      vis,
		Ident:    ident.text,
		IdentPos: ident.pos,
		Items:    items,
	}, nil
}

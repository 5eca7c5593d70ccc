// Package parser reads the Rust items entrait transforms.
//
// It is not a full Rust parser. It understands item boundaries, attributes,
// fn signatures, traits and inline modules in detail and skips over every
// other item by delimiter matching, keeping its text verbatim.
package parser

import (
	"fmt"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/syntax"
)

// Parser is a recursive-descent parser over a token slice
type Parser struct {
	file    string
	src     string
	toks    []token
	pos     int
	lastEnd int
}

// NewParser creates a parser for the given source
func NewParser(file, src string) (*Parser, error) {
	toks, err := tokenize(file, src)
	if err != nil {
		return nil, err
	}
	return &Parser{file: file, src: src, toks: toks}, nil
}

// ParseFile parses a whole Rust source file
func ParseFile(file, src string) (*syntax.File, error) {
	p, err := NewParser(file, src)
	if err != nil {
		return nil, err
	}
	items, err := p.parseItems(false)
	if err != nil {
		return nil, err
	}
	return &syntax.File{Name: file, Source: src, Items: items}, nil
}

// ParseItem parses exactly one item
func ParseItem(src string) (syntax.Item, error) {
	p, err := NewParser("", src)
	if err != nil {
		return nil, err
	}
	item, err := p.parseItem()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return item, nil
}

// ParseSignature parses a fn signature, optionally followed by `;` or a body
func ParseSignature(src string) (*syntax.Signature, error) {
	p, err := NewParser("", src)
	if err != nil {
		return nil, err
	}
	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	if p.at("{") {
		p.consumeGroup()
	} else {
		p.eat(";")
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return sig, nil
}

// ParseType parses a single type expression
func ParseType(src string) (syntax.Type, error) {
	p, err := NewParser("", src)
	if err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return ty, nil
}

// Token cursor

func (p *Parser) peek() token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() token {
	t := p.peek()
	if t.kind != tokEOF {
		p.pos++
		p.lastEnd = t.end
	}
	return t
}

func (p *Parser) at(text string) bool {
	return p.peek().is(text)
}

func (p *Parser) atEOF() bool {
	return p.peek().kind == tokEOF
}

func (p *Parser) eat(text string) bool {
	if p.at(text) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(text string) (token, error) {
	t := p.peek()
	if !t.is(text) {
		return t, p.errorf(t, "expected `%s`, found %s", text, describe(t))
	}
	return p.next(), nil
}

func (p *Parser) expectIdent() (token, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return t, p.errorf(t, "expected identifier, found %s", describe(t))
	}
	return p.next(), nil
}

func (p *Parser) expectEOF() error {
	if t := p.peek(); t.kind != tokEOF {
		return p.errorf(t, "unexpected %s after item", describe(t))
	}
	return nil
}

// consumeGroup skips a balanced (), [] or {} group starting at the current
// token and returns the open and close tokens.
func (p *Parser) consumeGroup() (token, token) {
	open := p.next()
	depth := 1
	for !p.atEOF() {
		t := p.next()
		switch t.text {
		case "(", "[", "{":
			if t.kind == tokPunct {
				depth++
			}
		case ")", "]", "}":
			if t.kind == tokPunct {
				depth--
				if depth == 0 {
					return open, t
				}
			}
		}
	}
	return open, p.peek()
}

func (p *Parser) text(start, end int) string {
	return p.src[start:end]
}

func (p *Parser) location(t token) errors.SourceLocation {
	return errors.SourceLocation{File: p.file, Line: t.pos.Line, Column: t.pos.Column}
}

func (p *Parser) errorf(t token, format string, args ...interface{}) error {
	return errors.NewSyntaxError(p.location(t), format, args...)
}

func describe(t token) string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("`%s`", t.text)
}

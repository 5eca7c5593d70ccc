package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/syntax"
)

// rustLexer splits Rust source into the tokens the item parser needs.
// Multi-character operators that can close generic argument lists (`>>`,
// `>=`) are deliberately absent so that `Vec<Vec<u8>>` closes cleanly.
var rustLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "RawString", Pattern: `b?r##"(?s:.*?)"##|b?r#"(?s:.*?)"#|b?r"[^"]*"`},
	{Name: "String", Pattern: `b?"(?:\\(?s:.)|[^"\\])*"`},
	{Name: "Char", Pattern: `b?'(?:\\(?:x[0-9a-fA-F]{2}|u\{[0-9a-fA-F]+\}|.)|[^'\\\n])'`},
	{Name: "Lifetime", Pattern: `'[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Number", Pattern: `[0-9][0-9_]*(?:\.[0-9][0-9_]*)?(?:[eE][+-]?[0-9_]+)?[a-zA-Z0-9_]*`},
	{Name: "Ident", Pattern: `r#[\p{L}_][\p{L}\p{N}_]*|[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Punct", Pattern: `::|->|=>|\.\.=|\.\.\.|\.\.|[-+*/%^!&|=<>@.,;:#$?~(){}\[\]]`},
	{Name: "Other", Pattern: `(?s:.)`},
})

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLifetime
	tokLiteral
	tokPunct
	tokOther
	// tokDoc is an outer doc comment, `///` or `/** */`
	tokDoc
	// tokInnerDoc is an inner doc comment, `//!` or `/*! */`
	tokInnerDoc
)

type token struct {
	kind tokenKind
	text string
	pos  syntax.Position
	end  int
}

func (t token) is(text string) bool {
	return t.kind != tokLiteral && t.kind != tokEOF && t.text == text
}

// tokenize lexes src, dropping whitespace and comments
func tokenize(file, src string) ([]token, error) {
	lex, err := rustLexer.LexString(file, src)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, "failed to tokenize", err).
			WithLocation(errors.SourceLocation{File: file})
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, "failed to tokenize", err).
			WithLocation(errors.SourceLocation{File: file})
	}

	symbols := rustLexer.Symbols()
	kinds := map[lexer.TokenType]tokenKind{
		symbols["Ident"]:     tokIdent,
		symbols["Lifetime"]:  tokLifetime,
		symbols["RawString"]: tokLiteral,
		symbols["String"]:    tokLiteral,
		symbols["Char"]:      tokLiteral,
		symbols["Number"]:    tokLiteral,
		symbols["Punct"]:     tokPunct,
		symbols["Other"]:     tokOther,
	}
	comment := symbols["Comment"]
	whitespace := symbols["Whitespace"]

	toks := make([]token, 0, len(raw)/2)
	for _, t := range raw {
		if t.Type == whitespace {
			continue
		}
		kind := kinds[t.Type]
		if t.Type == comment {
			doc, ok := docKind(t.Value)
			if !ok {
				continue
			}
			kind = doc
		}
		pos := syntax.Position{Offset: t.Pos.Offset, Line: t.Pos.Line, Column: t.Pos.Column}
		if t.Type == lexer.EOF {
			toks = append(toks, token{kind: tokEOF, pos: pos, end: t.Pos.Offset})
			continue
		}
		toks = append(toks, token{
			kind: kind,
			text: t.Value,
			pos:  pos,
			end:  t.Pos.Offset + len(t.Value),
		})
	}
	if len(toks) == 0 || toks[len(toks)-1].kind != tokEOF {
		toks = append(toks, token{kind: tokEOF, pos: syntax.Position{Offset: len(src)}, end: len(src)})
	}
	return toks, nil
}

// docKind classifies a comment as a doc comment
func docKind(text string) (tokenKind, bool) {
	switch {
	case strings.HasPrefix(text, "////"), strings.HasPrefix(text, "/***"), text == "/**/":
		return 0, false
	case strings.HasPrefix(text, "///"), strings.HasPrefix(text, "/**"):
		return tokDoc, true
	case strings.HasPrefix(text, "//!"), strings.HasPrefix(text, "/*!"):
		return tokInnerDoc, true
	}
	return 0, false
}

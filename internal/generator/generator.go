// Package generator turns analysed #[entrait] items into Rust source: the
// trait declaration, the delegating impls and the mock attributes.
package generator

import (
	"strings"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/options"
	"github.com/toyz/entrait/internal/syntax"
	"github.com/toyz/entrait/internal/templates"
)

// Expansion is the result of expanding one annotated item
type Expansion struct {
	Kind    models.ItemKind
	Options models.Options
	// TraitIdent is the name of the generated or delegated trait
	TraitIdent string
	// Attrs are attributes the generator adds in front of the original item
	Attrs []string
	// Source is the original item without its #[entrait] attribute
	Source string
	// Generated holds the new items, separated by blank lines
	Generated string
}

// Code returns the text replacing the annotated item
func (e *Expansion) Code() string {
	return e.Indented("")
}

// Indented returns the replacement text for an item whose first line sits
// at the given indentation. The original item text keeps its own layout.
func (e *Expansion) Indented(indent string) string {
	var b strings.Builder
	for _, attr := range e.Attrs {
		b.WriteString(attr)
		b.WriteString("\n")
		b.WriteString(indent)
	}
	b.WriteString(e.Source)
	if e.Generated != "" {
		b.WriteString("\n\n")
		b.WriteString(indentLines(e.Generated, indent))
	}
	return b.String()
}

func indentLines(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// Generator implements the CodeGenerator interface
type Generator struct {
	resolver *options.Resolver
	utils    *templates.TemplateUtils
}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return NewGeneratorWithRegistry(options.DefaultRegistry())
}

// NewGeneratorWithRegistry creates a generator validating options against registry
func NewGeneratorWithRegistry(registry options.Registry) *Generator {
	return &Generator{
		resolver: options.NewResolver(registry),
		utils:    templates.NewTemplateUtils(),
	}
}

// IsAnnotated reports whether item carries an #[entrait] attribute
func IsAnnotated(item syntax.Item) bool {
	return options.Find(item.ItemAttrs()) >= 0
}

// Expand expands one annotated item. src is the full text of the file the
// item was parsed from. When analysis fails after the options were resolved,
// the returned Expansion is non-nil and carries the options and the item
// source so callers can honour `debug`.
func (g *Generator) Expand(src string, item syntax.Item, base models.Options) (*Expansion, error) {
	attrs := item.ItemAttrs()
	index := options.Find(attrs)
	if index < 0 {
		return nil, errors.NewGenerationError(location(item.ItemSpan().Start), "item has no #[entrait] attribute")
	}
	attr := attrs[index]

	kind, err := itemKind(item, attr)
	if err != nil {
		return nil, err
	}

	opts, err := g.resolver.Resolve(attr, kind, base)
	if err != nil {
		return nil, err
	}

	exp := &Expansion{
		Kind:    kind,
		Options: opts,
		Source:  stripAttribute(src, item.ItemSpan(), attr),
	}

	switch it := item.(type) {
	case *syntax.ItemFn:
		err = g.expandFn(exp, it)
	case *syntax.ItemMod:
		err = g.expandMod(exp, it)
	case *syntax.ItemTrait:
		err = g.expandTrait(exp, it)
	}
	return exp, err
}

func itemKind(item syntax.Item, attr syntax.Attribute) (models.ItemKind, error) {
	switch item.(type) {
	case *syntax.ItemFn:
		return models.ItemKindFn, nil
	case *syntax.ItemMod:
		return models.ItemKindMod, nil
	case *syntax.ItemTrait:
		return models.ItemKindTrait, nil
	default:
		return 0, errors.NewShapeError(location(attr.Span.Start),
			"unsupported item kind: #[entrait] applies to a fn, an inline mod or a trait")
	}
}

// stripAttribute returns the item text with attr and the whitespace after it removed
func stripAttribute(src string, span syntax.Span, attr syntax.Attribute) string {
	before := src[span.Start.Offset:attr.Span.Start.Offset]
	after := strings.TrimLeft(src[attr.Span.End:span.End], " \t\r\n")
	return before + after
}

func location(pos syntax.Position) errors.SourceLocation {
	return errors.SourceLocation{Line: pos.Line, Column: pos.Column}
}

// join separates generated items by a blank line
func join(items []string) string {
	return strings.Join(items, "\n\n")
}

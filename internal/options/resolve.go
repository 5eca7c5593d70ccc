package options

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
)

// Resolver turns #[entrait(...)] attributes into options records
type Resolver struct {
	parser   *participle.Parser[ArgList]
	registry Registry
}

// NewResolver creates a resolver validating against registry
func NewResolver(registry Registry) *Resolver {
	return &Resolver{
		parser:   newArgParser(),
		registry: registry,
	}
}

// IsEntrait reports whether attr is an #[entrait] attribute
func IsEntrait(attr syntax.Attribute) bool {
	switch strings.TrimPrefix(attr.Path, "::") {
	case "entrait", "entrait::entrait":
		return true
	}
	return false
}

// Find returns the index of the first #[entrait] attribute in attrs, or -1
func Find(attrs []syntax.Attribute) int {
	for i, attr := range attrs {
		if IsEntrait(attr) {
			return i
		}
	}
	return -1
}

// Parse parses the argument list of an attribute without validating it
func (r *Resolver) Parse(attr syntax.Attribute) (*ArgList, error) {
	args, err := r.parser.ParseString("", attr.Tokens)
	if err != nil {
		loc := attributeLocation(attr)
		if perr, ok := err.(participle.Error); ok {
			loc = argLocation(attr, perr.Position().Line, perr.Position().Column)
			return nil, errors.NewOptionError(loc, "invalid entrait arguments: %s", perr.Message())
		}
		return nil, errors.NewOptionError(loc, "invalid entrait arguments: %v", err)
	}
	return args, nil
}

// Resolve parses attr and layers the options it names over base
func (r *Resolver) Resolve(attr syntax.Attribute, kind models.ItemKind, base models.Options) (models.Options, error) {
	schema, err := r.registry.GetSchema(kind)
	if err != nil {
		return base, errors.NewOptionError(attributeLocation(attr), "%v", err)
	}

	args, err := r.Parse(attr)
	if err != nil {
		return base, err
	}

	opts := base
	set := make(map[string]string)
	for i, arg := range args.Args {
		loc := argLocation(attr, arg.Pos.Line, arg.Pos.Column)

		if i == 0 && isTraitName(arg, schema) {
			if !schema.TraitName {
				return base, errors.NewOptionError(loc, "a trait name cannot be given on a %s", kind).
					WithSuggestion("the trait keeps its own name")
			}
			opts.TraitVis = arg.Vis.String()
			opts.TraitIdent = arg.Key
			continue
		}

		name := arg.Name()
		spec, ok := schema.Parameters[name]
		if !ok {
			e := errors.NewOptionError(loc, "%v", unknownOption(schema, name))
			if i > 0 && isTraitName(arg, schema) {
				e = e.WithSuggestion("the trait name must be the first argument")
			}
			return base, e
		}
		if arg.Vis != nil {
			return base, errors.NewOptionError(loc, "visibility is only allowed before the trait name")
		}
		if _, dup := set[name]; dup {
			return base, errors.NewOptionError(loc, "option '%s' given more than once", name)
		}

		value, err := argValue(arg, spec)
		if err != nil {
			return base, errors.NewOptionError(loc, "option '%s': %v", name, err)
		}
		set[name] = value
		spec.Apply(&opts, value)
	}

	for _, validate := range schema.Validators {
		if err := validate(set); err != nil {
			return base, errors.NewOptionError(attributeLocation(attr), "%v", err)
		}
	}

	return opts, nil
}

func isTraitName(arg *Arg, schema Schema) bool {
	if arg.Maybe || arg.Value != nil {
		return false
	}
	if arg.Vis != nil {
		return true
	}
	_, known := schema.Parameters[arg.Key]
	return !known
}

func argValue(arg *Arg, spec ParamSpec) (string, error) {
	if arg.Value == nil {
		if spec.Kind.RequiresValue() {
			return "", fmt.Errorf("expected `%s = <value>`", arg.Name())
		}
		return "", nil
	}
	if spec.Kind == FlagParam {
		return "", fmt.Errorf("does not take a value")
	}

	value := arg.Value.Text()
	if spec.Kind == ChoiceParam {
		if err := ValidateChoice(spec.Choices...)(value); err != nil {
			return "", err
		}
	}
	if spec.Validator != nil {
		if err := spec.Validator(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func attributeLocation(attr syntax.Attribute) errors.SourceLocation {
	return errors.SourceLocation{Line: attr.Span.Start.Line, Column: attr.Span.Start.Column}
}

// argLocation maps a position inside the argument tokens back to the source
func argLocation(attr syntax.Attribute, line, column int) errors.SourceLocation {
	loc := attributeLocation(attr)
	if line <= 1 {
		if offset := strings.Index(attr.Text, attr.Tokens); offset >= 0 && attr.Tokens != "" {
			loc.Column += offset + column - 1
		}
		return loc
	}
	loc.Line += line - 1
	loc.Column = column
	return loc
}

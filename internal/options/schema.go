package options

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/entrait/internal/models"
)

// ParamKind describes what kind of value an option takes
type ParamKind int

const (
	// FlagParam is a bare keyword that never takes a value
	FlagParam ParamKind = iota
	// BoolParam is a keyword, optionally `= true` or `= false`
	BoolParam
	// IdentParam requires an identifier value
	IdentParam
	// ChoiceParam requires one of a fixed set of values
	ChoiceParam
)

// String returns the string representation of the parameter kind
func (k ParamKind) String() string {
	switch k {
	case FlagParam:
		return "flag"
	case BoolParam:
		return "bool"
	case IdentParam:
		return "ident"
	case ChoiceParam:
		return "choice"
	default:
		return "unknown"
	}
}

// RequiresValue reports whether the option must be written as `key = value`
func (k ParamKind) RequiresValue() bool {
	return k == IdentParam || k == ChoiceParam
}

// ParamSpec defines one recognised option
type ParamSpec struct {
	Kind        ParamKind
	Choices     []string
	Description string
	Validator   func(value string) error
	// Apply writes the already validated value into the options record
	Apply func(opts *models.Options, value string)
}

// CustomValidator checks a combination of options; set maps each
// provided option name to its raw value
type CustomValidator func(set map[string]string) error

// Schema is the set of options accepted on one item kind
type Schema struct {
	Kind        models.ItemKind
	Description string
	// TraitName allows a leading `[vis] TraitName` entry
	TraitName  bool
	Parameters map[string]ParamSpec
	Validators []CustomValidator
	Examples   []string
}

// Keys returns the recognised option names in a stable order
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s.Parameters))
	for key := range s.Parameters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// commonParameters are accepted on every item kind
func commonParameters() map[string]ParamSpec {
	return map[string]ParamSpec{
		"debug":   BoolParameterSpec("Print the generated code", func(o *models.Options, v bool) { o.Debug = v }),
		"export":  BoolParameterSpec("Generate mocks outside of cfg(test)", func(o *models.Options, v bool) { o.Export = v }),
		"unimock": BoolParameterSpec("Generate a unimock implementation", func(o *models.Options, v bool) { o.Unimock = v }),
		"mockall": BoolParameterSpec("Generate a mockall automock", func(o *models.Options, v bool) { o.Mockall = v }),
		"box_future": FlagParameterSpec("Box returned futures through async_trait", func(o *models.Options) {
			o.AsyncStrategy = models.AsyncBoxFuture
		}),
		"associated_future": FlagParameterSpec("Return futures through an associated type", func(o *models.Options) {
			o.AsyncStrategy = models.AsyncAssociatedFuture
		}),
		"async_strategy": AsyncStrategyParameterSpec(),
		"?Send": FlagParameterSpec("Do not require generated futures to be Send", func(o *models.Options) {
			o.FutureSend = false
		}),
		"mock_api": {
			Kind:        IdentParam,
			Description: "Name of the unimock mock API",
			Validator:   ValidateIdent,
			Apply:       func(o *models.Options, v string) { o.MockAPI = v },
		},
	}
}

// FnSchema defines the options accepted on a free function
func FnSchema() Schema {
	params := commonParameters()
	params["no_deps"] = BoolParameterSpec("The function takes no dependency parameter", func(o *models.Options, v bool) { o.NoDeps = v })
	return Schema{
		Kind:        models.ItemKindFn,
		Description: "Generates a single method trait delegating to the function",
		TraitName:   true,
		Parameters:  params,
		Validators:  []CustomValidator{ExclusiveOptions("box_future", "associated_future", "async_strategy")},
		Examples: []string{
			"#[entrait(pub Foo)]",
			"#[entrait(Foo, no_deps)]",
			"#[entrait(pub(crate) Foo, unimock, mock_api = FooMock)]",
			"#[entrait(Foo, box_future, ?Send)]",
		},
	}
}

// ModSchema defines the options accepted on a module of functions
func ModSchema() Schema {
	schema := FnSchema()
	schema.Kind = models.ItemKindMod
	schema.Description = "Generates one trait with a method per public function in the module"
	schema.Examples = []string{
		"#[entrait(pub Repository)]",
		"#[entrait(pub Repository, associated_future)]",
	}
	return schema
}

// TraitSchema defines the options accepted on a trait
func TraitSchema() Schema {
	params := commonParameters()
	params["delegate_by"] = ParamSpec{
		Kind:        ChoiceParam,
		Choices:     []string{"ref", "Borrow"},
		Description: "Delegate through AsRef<dyn Trait> (ref) or Borrow<dyn Trait> (Borrow)",
		Apply: func(o *models.Options, v string) {
			if v == "ref" {
				o.Delegation = models.DelegateByRef
			} else {
				o.Delegation = models.DelegateByBorrow
			}
		},
	}
	return Schema{
		Kind:        models.ItemKindTrait,
		Description: "Generates a delegating implementation of an existing trait",
		Parameters:  params,
		Validators:  []CustomValidator{ExclusiveOptions("box_future", "associated_future", "async_strategy")},
		Examples: []string{
			"#[entrait]",
			"#[entrait(unimock)]",
			"#[entrait(delegate_by = ref)]",
		},
	}
}

// describe is used in error messages listing what an item kind accepts
func describe(schema Schema) string {
	return strings.Join(schema.Keys(), ", ")
}

func unknownOption(schema Schema, name string) error {
	return fmt.Errorf("unknown option '%s' on %s, expected one of: %s", name, schema.Kind, describe(schema))
}

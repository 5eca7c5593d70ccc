package options

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/toyz/entrait/internal/models"
)

// Common validation functions shared by the built-in schemas

// ValidateIdent checks that v is a plain Rust identifier
func ValidateIdent(v string) error {
	if v == "" {
		return fmt.Errorf("expected an identifier")
	}
	for i, r := range v {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return fmt.Errorf("'%s' is not an identifier", v)
	}
	return nil
}

// ValidateChoice returns a validator accepting only the given values
func ValidateChoice(choices ...string) func(string) error {
	return func(v string) error {
		for _, choice := range choices {
			if v == choice {
				return nil
			}
		}
		return fmt.Errorf("must be one of: %s, got '%s'", strings.Join(choices, ", "), v)
	}
}

// ParseBool accepts the boolean spellings allowed in option values
func ParseBool(s string) (bool, error) {
	switch s {
	case "", "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", s)
	}
}

// ExclusiveOptions rejects argument lists naming more than one of names
func ExclusiveOptions(names ...string) CustomValidator {
	return func(set map[string]string) error {
		var found []string
		for _, name := range names {
			if _, ok := set[name]; ok {
				found = append(found, name)
			}
		}
		if len(found) > 1 {
			return fmt.Errorf("options %s cannot be combined", strings.Join(found, " and "))
		}
		return nil
	}
}

// Common parameter specifications

// FlagParameterSpec returns a keyword option without a value
func FlagParameterSpec(description string, apply func(*models.Options)) ParamSpec {
	return ParamSpec{
		Kind:        FlagParam,
		Description: description,
		Apply:       func(o *models.Options, _ string) { apply(o) },
	}
}

// BoolParameterSpec returns a keyword option that may be set to true or false
func BoolParameterSpec(description string, apply func(*models.Options, bool)) ParamSpec {
	return ParamSpec{
		Kind:        BoolParam,
		Description: description,
		Validator: func(v string) error {
			_, err := ParseBool(v)
			return err
		},
		Apply: func(o *models.Options, v string) {
			b, _ := ParseBool(v)
			apply(o, b)
		},
	}
}

// AsyncStrategyParameterSpec returns the `async_strategy = ...` option
func AsyncStrategyParameterSpec() ParamSpec {
	choices := []string{"none", "box_future", "associated_future"}
	return ParamSpec{
		Kind:        ChoiceParam,
		Choices:     choices,
		Description: "How async functions are represented in the trait",
		Apply: func(o *models.Options, v string) {
			if strategy, err := models.ParseAsyncStrategy(v); err == nil {
				o.AsyncStrategy = strategy
			}
		},
	}
}

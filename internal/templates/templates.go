// Package templates renders the Rust items produced by the generator.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// TraitData holds the data for a trait declaration
type TraitData struct {
	Attrs       []string
	Vis         string
	Ident       string
	Params      string // `<T: Clone>`
	Supertraits string // `Send + Sync`
	Where       string // ` where T: Clone`
	Items       []string
}

// ImplData holds the data for an impl block
type ImplData struct {
	Attrs  []string
	Params string // `<T: Clone, EntraitT: Sync>`
	Trait  string // `Foo<T>`
	SelfTy string
	Where  string
	Items  []string
}

// MethodData holds the data for a trait method declaration or an impl method
type MethodData struct {
	Attrs []string
	Sig   string
	Body  string
}

// AssocTypeData holds the data for an associated type definition in an impl
type AssocTypeData struct {
	Ident  string
	Params string
	Value  string
	Where  string
}

var registry = NewTemplateRegistry()

// GenerateTrait renders a trait declaration
func GenerateTrait(data TraitData) (string, error) {
	return executeTemplate("trait", registry.MustGet("trait"), data)
}

// GenerateImpl renders an impl block
func GenerateImpl(data ImplData) (string, error) {
	return executeTemplate("impl", registry.MustGet("impl"), data)
}

// GenerateMethodDecl renders a method declaration ending in `;`
func GenerateMethodDecl(data MethodData) (string, error) {
	return executeTemplate("method-decl", registry.MustGet("method-decl"), data)
}

// GenerateMethod renders a method with a single expression body
func GenerateMethod(data MethodData) (string, error) {
	return executeTemplate("method", registry.MustGet("method"), data)
}

// GenerateAssocType renders `type Name<..> = Value where ..;`
func GenerateAssocType(data AssocTypeData) (string, error) {
	return executeTemplate("assoc-type", registry.MustGet("assoc-type"), data)
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	funcMap := template.FuncMap{
		"indent": Indent,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// ExecuteTemplate executes a Go template with the given data (exported version)
func ExecuteTemplate(name, templateStr string, data interface{}) (string, error) {
	return executeTemplate(name, templateStr, data)
}

// Indent prefixes every non-empty line of s with four spaces
func Indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}

package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerItemTemplates()
	registry.registerMemberTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerItemTemplates registers the top level Rust items
func (tr *TemplateRegistry) registerItemTemplates() {
	tr.templates["trait"] = `{{range .Attrs}}{{.}}
{{end}}{{if .Vis}}{{.Vis}} {{end}}trait {{.Ident}}{{.Params}}{{if .Supertraits}}: {{.Supertraits}}{{end}}{{.Where}} {
{{range .Items}}{{indent .}}
{{end}}}`

	tr.templates["impl"] = `{{range .Attrs}}{{.}}
{{end}}impl{{.Params}} {{.Trait}} for {{.SelfTy}}{{.Where}} {
{{range .Items}}{{indent .}}
{{end}}}`
}

// registerMemberTemplates registers trait and impl members
func (tr *TemplateRegistry) registerMemberTemplates() {
	tr.templates["method-decl"] = `{{range .Attrs}}{{.}}
{{end}}{{.Sig}};`

	tr.templates["method"] = `{{range .Attrs}}{{.}}
{{end}}{{.Sig}} {
    {{.Body}}
}`

	tr.templates["assoc-type"] = `type {{.Ident}}{{.Params}} = {{.Value}}{{.Where}};`
}

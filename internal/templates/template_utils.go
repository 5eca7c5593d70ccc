package templates

import (
	"strings"
	"unicode"
)

// TemplateUtils provides common utilities for template generation
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// ToCamelCase converts a snake_case identifier to CamelCase: `get_user` -> `GetUser`
func (tu *TemplateUtils) ToCamelCase(s string) string {
	s = strings.TrimPrefix(s, "r#")
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToSnakeCase converts a CamelCase identifier to snake_case: `FooMock` -> `foo_mock`
func (tu *TemplateUtils) ToSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JoinNonEmpty joins the non-empty parts with sep
func (tu *TemplateUtils) JoinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

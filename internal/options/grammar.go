// Package options parses the argument list of an #[entrait(...)] attribute
// and resolves it into the models.Options record used by the generator.
package options

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ArgList is the parsed content between the attribute delimiters
type ArgList struct {
	Args []*Arg `parser:"( @@ ( ',' @@ )* ','? )?"`
}

// Arg is one comma separated entry: `pub Foo`, `no_deps`, `?Send`, `mock_api = Mock`
type Arg struct {
	Pos lexer.Position

	Maybe bool   `parser:"@'?'?"`
	Vis   *Vis   `parser:"@@?"`
	Key   string `parser:"@Ident"`
	Value *Value `parser:"( '=' @@ )?"`
}

// Name is the key the arg is looked up by in a schema
func (a *Arg) Name() string {
	if a.Maybe {
		return "?" + a.Key
	}
	return a.Key
}

// Vis is a Rust visibility: `pub`, `pub(crate)`, `pub(in a::b)`
type Vis struct {
	Pub   bool     `parser:"@'pub'"`
	Scope []string `parser:"( '(' @( Ident | '::' )+ ')' )?"`
}

func (v *Vis) String() string {
	if v == nil {
		return ""
	}
	if len(v.Scope) == 0 {
		return "pub"
	}
	var b strings.Builder
	for i, part := range v.Scope {
		if i == 1 && v.Scope[0] == "in" {
			b.WriteByte(' ')
		}
		b.WriteString(part)
	}
	return "pub(" + b.String() + ")"
}

// Value is the right hand side of `key = value`
type Value struct {
	Str  *string  `parser:"  @String"`
	Path []string `parser:"| @Ident ( '::' @Ident )*"`
}

// Text returns the value with string quotes removed
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	if v.Str != nil {
		if s, err := strconv.Unquote(*v.Str); err == nil {
			return s
		}
		return strings.Trim(*v.Str, `"`)
	}
	return strings.Join(v.Path, "::")
}

var argLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Punct", Pattern: `::|[?,=()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

func newArgParser() *participle.Parser[ArgList] {
	return participle.MustBuild[ArgList](
		participle.Lexer(argLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
}

package style

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	styleLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Semi", Pattern: `;`},
		{Name: "Token", Pattern: `[^:;\s]+`},
	})

	styleParser = participle.MustBuild[declarationList](
		participle.Lexer(styleLexer),
		participle.Elide("Whitespace"),
	)
)

// declarationList is the AST for a style attribute: a semicolon-separated
// list of property:value declarations with optional stray semicolons.
type declarationList struct {
	Decls []*declaration `parser:"Semi* ( @@ ( Semi+ @@ )* Semi* )?"`
}

type declaration struct {
	Prop  string   `parser:"@Token Colon"`
	Value []string `parser:"@Token*"`
}

// Parse parses the contents of a style attribute. Interior whitespace in
// values collapses to single spaces; an empty or whitespace-only input yields
// an empty style.
func Parse(s string) (Style, error) {
	out := New()
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	ast, err := styleParser.ParseString("", s)
	if err != nil {
		return out, fmt.Errorf("parse style %q: %w", s, err)
	}
	for _, d := range ast.Decls {
		out.Set(d.Prop, strings.Join(d.Value, " "))
	}
	return out, nil
}

// MustParse parses a style attribute and panics on malformed input. Intended
// for literals in tests and defaults.
func MustParse(s string) Style {
	st, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return st
}

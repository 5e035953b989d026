package svgdoc

import (
	"math"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/textmend/textmend/model"
)

var (
	transformLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Ident", Pattern: `[a-zA-Z]+`},
		{Name: "LParen", Pattern: `\(`},
		{Name: "RParen", Pattern: `\)`},
	})

	transformParser = participle.MustBuild[transformList](
		participle.Lexer(transformLexer),
		participle.Elide("Whitespace", "Comma"),
	)
)

type transformList struct {
	Funcs []*transformFunc `parser:"@@*"`
}

type transformFunc struct {
	Name string    `parser:"@Ident"`
	Args []float64 `parser:"LParen @Number* RParen"`
}

// ParseTransform parses an SVG transform attribute into a single composed
// matrix. Malformed or empty input yields the identity.
func ParseTransform(s string) model.Matrix {
	m := model.Identity()
	if s == "" {
		return m
	}
	ast, err := transformParser.ParseString("", s)
	if err != nil {
		return m
	}
	for _, f := range ast.Funcs {
		m = m.Multiply(f.matrix())
	}
	return m
}

func (f *transformFunc) matrix() model.Matrix {
	a := f.Args
	switch f.Name {
	case "matrix":
		if len(a) == 6 {
			return model.Matrix{a[0], a[1], a[2], a[3], a[4], a[5]}
		}
	case "translate":
		switch len(a) {
		case 1:
			return model.Translate(a[0], 0)
		case 2:
			return model.Translate(a[0], a[1])
		}
	case "scale":
		switch len(a) {
		case 1:
			return model.Scale(a[0], a[0])
		case 2:
			return model.Scale(a[0], a[1])
		}
	case "rotate":
		switch len(a) {
		case 1:
			return model.Rotate(a[0] * math.Pi / 180)
		case 3:
			return model.Translate(a[1], a[2]).
				Multiply(model.Rotate(a[0] * math.Pi / 180)).
				Multiply(model.Translate(-a[1], -a[2]))
		}
	case "skewX":
		if len(a) == 1 {
			return model.Matrix{1, 0, math.Tan(a[0] * math.Pi / 180), 1, 0, 0}
		}
	case "skewY":
		if len(a) == 1 {
			return model.Matrix{1, math.Tan(a[0] * math.Pi / 180), 0, 1, 0, 0}
		}
	}
	return model.Identity()
}

// Transform returns the element's own transform.
func (e *Element) Transform() model.Matrix {
	return ParseTransform(e.Attr("transform"))
}

// ComposedTransform returns the transform from the element's local space to
// document space, composing every ancestor's transform attribute.
func (e *Element) ComposedTransform() model.Matrix {
	local := e.Transform()
	if e.parent == nil {
		return local
	}
	return e.parent.ComposedTransform().Multiply(local)
}

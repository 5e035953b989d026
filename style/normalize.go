package style

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// shapeAttributes are the properties that affect glyph shape and therefore
// character metrics. Stroke properties do not affect kerning and are dropped.
var shapeAttributes = []string{
	"font-family",
	"font-size-adjust",
	"font-stretch",
	"font-style",
	"font-variant",
	"font-weight",
	"text-decoration",
	"text-rendering",
	"font-size",
}

// Normalize reduces a style to the shape-affecting attributes and pins the
// font size to 1px, so that metrics measured once per normalized style can be
// rescaled to any font size. The result's SortedString is the metrics cache
// key.
func Normalize(s Style) Style {
	out := New()
	for _, a := range shapeAttributes {
		if v := s.Get(a); v != "" {
			out.Set(a, v)
		}
	}
	out.Set("font-size", "1px")

	if fam := out.Get("font-family"); fam != "" && !isNone(fam) {
		out.Set("font-family", normalizeFamily(fam))
	}
	return out
}

// NormalizeKey is shorthand for Normalize(s).SortedString().
func NormalizeKey(s Style) string {
	return Normalize(s).SortedString()
}

// normalizeFamily canonicalizes a font-family list: NFC normalization,
// quotes stripped, and single-space separation after commas.
func normalizeFamily(fam string) string {
	parts := strings.Split(norm.NFC.String(fam), ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `'"`)
	}
	return strings.Join(parts, ",")
}

func isNone(v string) bool {
	return strings.EqualFold(v, "none")
}

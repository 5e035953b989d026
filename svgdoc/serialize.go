package svgdoc

import (
	"io"
	"strings"
)

// WriteTo serializes the document as SVG markup. Text content is written
// verbatim apart from XML escaping, so xml:space="preserve" content round
// trips exactly.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	writeElement(&sb, d.Root)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// String serializes the document as SVG markup.
func (d *Document) String() string {
	var sb strings.Builder
	writeElement(&sb, d.Root)
	return sb.String()
}

// Markup serializes a single element subtree, excluding its tail.
func Markup(e *Element) string {
	var sb strings.Builder
	writeElement(&sb, e)
	return sb.String()
}

func writeElement(sb *strings.Builder, e *Element) {
	sb.WriteByte('<')
	sb.WriteString(e.Tag)
	for _, k := range e.AttrKeys() {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(e.Attr(k)))
		sb.WriteByte('"')
	}
	if e.Text == "" && len(e.Children()) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	sb.WriteString(escapeText(e.Text))
	for _, c := range e.Children() {
		writeElement(sb, c)
		sb.WriteString(escapeText(c.Tail))
	}
	sb.WriteString("</")
	sb.WriteString(e.Tag)
	sb.WriteByte('>')
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

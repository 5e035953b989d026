package svgdoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Parse reads an SVG document from r.
func Parse(r io.Reader) (*Document, error) {
	l := xml.NewLexer(parse.NewInput(r))

	var root *Element
	var stack []*Element
	var open *Element // element whose start tag is being lexed
	var lastClosed *Element

	appendText := func(s string) {
		if len(stack) == 0 {
			return
		}
		cur := stack[len(stack)-1]
		if lastClosed != nil && lastClosed.parent == cur {
			lastClosed.Tail += s
		} else {
			cur.Text += s
		}
	}

	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() == io.EOF {
				if root == nil {
					return nil, fmt.Errorf("parse svg: no root element")
				}
				if len(stack) != 0 {
					return nil, fmt.Errorf("parse svg: unclosed element <%s>", stack[len(stack)-1].Tag)
				}
				return &Document{Root: root}, nil
			}
			return nil, fmt.Errorf("parse svg: %w", l.Err())

		case xml.StartTagToken:
			open = NewElement(localName(string(l.Text())))

		case xml.AttributeToken:
			if open != nil {
				open.SetAttr(string(l.Text()), unescapeXML(trimQuotes(string(l.AttrVal()))))
			}

		case xml.StartTagCloseToken:
			if open == nil {
				continue
			}
			if len(stack) > 0 {
				stack[len(stack)-1].Append(open)
			} else if root == nil {
				root = open
			}
			stack = append(stack, open)
			lastClosed = nil
			open = nil

		case xml.StartTagCloseVoidToken:
			if open == nil {
				continue
			}
			if len(stack) > 0 {
				stack[len(stack)-1].Append(open)
			} else if root == nil {
				root = open
			}
			lastClosed = open
			open = nil

		case xml.EndTagToken:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse svg: stray end tag %q", string(data))
			}
			lastClosed = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

		case xml.TextToken:
			appendText(unescapeXML(string(data)))

		case xml.CDATAToken:
			appendText(string(l.Text()))

		case xml.CommentToken, xml.DOCTYPEToken, xml.StartTagPIToken, xml.StartTagClosePIToken:
			// skipped
		}
	}
}

// ParseString reads an SVG document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// localName drops an svg: namespace prefix; other prefixes (sodipodi:,
// xml:) are kept since the tooling addresses them literally.
func localName(name string) string {
	if strings.HasPrefix(name, "svg:") {
		return strings.TrimPrefix(name, "svg:")
	}
	return name
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func unescapeXML(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return xmlUnescaper.Replace(s)
}

package svgdoc

import (
	"strings"

	"github.com/textmend/textmend/style"
)

// Tag names handled specially by the text tooling.
const (
	TagSVG      = "svg"
	TagText     = "text"
	TagTspan    = "tspan"
	TagDefs     = "defs"
	TagClipPath = "clipPath"
	TagGroup    = "g"
)

// AttrRole is the editor convention marking a tspan as a chained line: its
// position continues from the previous line when it has no multi-valued
// coordinates of its own.
const AttrRole = "sodipodi:role"

// RoleLine is the AttrRole value for chained lines.
const RoleLine = "line"

// attr is a single XML attribute. Order is preserved for round-tripping.
type attr struct {
	key, val string
}

// Element is one node of an SVG document tree. Text holds character data
// before the first child; Tail holds character data after the element's end
// tag (it belongs to the parent's content, as in lxml-style trees).
type Element struct {
	Tag  string
	Text string
	Tail string

	attrs    []attr
	children []*Element
	parent   *Element
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// Attr returns the attribute value, or "" if unset.
func (e *Element) Attr(key string) string {
	for _, a := range e.attrs {
		if a.key == key {
			return a.val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is set.
func (e *Element) HasAttr(key string) bool {
	for _, a := range e.attrs {
		if a.key == key {
			return true
		}
	}
	return false
}

// SetAttr sets an attribute, preserving its position if it exists.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.attrs {
		if a.key == key {
			e.attrs[i].val = val
			return
		}
	}
	e.attrs = append(e.attrs, attr{key, val})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(key string) {
	for i, a := range e.attrs {
		if a.key == key {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// AttrKeys returns attribute names in document order.
func (e *Element) AttrKeys() []string {
	keys := make([]string, len(e.attrs))
	for i, a := range e.attrs {
		keys[i] = a.key
	}
	return keys
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	return e.Attr("id")
}

// Parent returns the parent element, or nil for a detached or root element.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the child elements in document order. The returned slice
// is shared; do not mutate it.
func (e *Element) Children() []*Element {
	return e.children
}

// Index returns the element's position among its parent's children, or -1 if
// detached.
func (e *Element) Index() int {
	if e.parent == nil {
		return -1
	}
	for i, c := range e.parent.children {
		if c == e {
			return i
		}
	}
	return -1
}

// Append adds child as the last child of e. A child already in a tree is
// detached first.
func (e *Element) Append(child *Element) {
	child.Detach()
	child.parent = e
	e.children = append(e.children, child)
}

// Insert places child at position i among e's children.
func (e *Element) Insert(i int, child *Element) {
	child.Detach()
	child.parent = e
	if i < 0 {
		i = 0
	}
	if i > len(e.children) {
		i = len(e.children)
	}
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = child
}

// Detach removes e from its parent, keeping the subtree intact. The element's
// tail text is dropped along with it.
func (e *Element) Detach() {
	p := e.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// Clone returns a deep, fully detached copy of the subtree. The clone's tail
// is cleared since it belongs to the original's parent content.
func (e *Element) Clone() *Element {
	c := &Element{
		Tag:  e.Tag,
		Text: e.Text,
	}
	c.attrs = make([]attr, len(e.attrs))
	copy(c.attrs, e.attrs)
	for _, k := range e.children {
		kc := k.Clone()
		kc.Tail = k.Tail
		kc.parent = c
		c.children = append(c.children, kc)
	}
	return c
}

// Descendants returns e and all elements below it in document order, without
// recursion.
func (e *Element) Descendants() []*Element {
	out := []*Element{e}
	stack := make([]*Element, 0, len(e.children))
	for i := len(e.children) - 1; i >= 0; i-- {
		stack = append(stack, e.children[i])
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
	return out
}

// IsText reports whether the element is a text root.
func (e *Element) IsText() bool {
	return e.Tag == TagText
}

// IsTspan reports whether the element is a tspan.
func (e *Element) IsTspan() bool {
	return e.Tag == TagTspan
}

// IsTextual reports whether the element participates in text layout.
func (e *Element) IsTextual() bool {
	return e.IsText() || e.IsTspan()
}

// Role returns the chained-line role attribute.
func (e *Element) Role() string {
	return e.Attr(AttrRole)
}

// LocalStyle returns the element's own style: the parsed style attribute with
// presentation attributes filled in underneath (the style attribute wins).
func (e *Element) LocalStyle() style.Style {
	st, err := style.Parse(e.Attr("style"))
	if err != nil {
		st = style.New()
	}
	out := style.New()
	for _, p := range presentationAttrs {
		if v := e.Attr(p); v != "" && !st.Has(p) {
			out.Set(p, v)
		}
	}
	return out.Merge(st)
}

// CascadedStyle composes the styles of e's ancestors with its own, nearest
// declaration winning.
func (e *Element) CascadedStyle() style.Style {
	if e.parent == nil {
		return e.LocalStyle()
	}
	return e.parent.CascadedStyle().Merge(e.LocalStyle())
}

// presentationAttrs are the SVG presentation attributes the text tooling
// honors when no style declaration overrides them. Geometry attributes such
// as transform and clip-path are deliberately absent.
var presentationAttrs = []string{
	"font-family",
	"font-size",
	"font-size-adjust",
	"font-stretch",
	"font-style",
	"font-variant",
	"font-weight",
	"text-anchor",
	"text-decoration",
	"text-rendering",
	"letter-spacing",
	"baseline-shift",
	"fill",
	"line-height",
}

// TextRoot returns the enclosing text element, or nil if e is outside one.
func (e *Element) TextRoot() *Element {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.IsText() {
			return cur
		}
	}
	return nil
}

// HasOnlyWhitespace reports whether every text and tail in the subtree is
// whitespace.
func (e *Element) HasOnlyWhitespace() bool {
	for _, d := range e.Descendants() {
		if strings.TrimSpace(d.Text) != "" {
			return false
		}
		if d != e && strings.TrimSpace(d.Tail) != "" {
			return false
		}
	}
	return true
}

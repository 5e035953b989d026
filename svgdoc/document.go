package svgdoc

import (
	"fmt"
	"strings"
)

// Document wraps an SVG element tree.
type Document struct {
	Root *Element
}

// NewDocument creates a document with an empty svg root.
func NewDocument() *Document {
	return &Document{Root: NewElement(TagSVG)}
}

// ElementByID finds an element by its id attribute, or nil.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	for _, e := range d.Root.Descendants() {
		if e.ID() == id {
			return e
		}
	}
	return nil
}

// Texts returns all attached text roots in document order.
func (d *Document) Texts() []*Element {
	var out []*Element
	for _, e := range d.Root.Descendants() {
		if e.IsText() {
			out = append(out, e)
		}
	}
	return out
}

// GenID returns an id with the given prefix that is unused in the document,
// without registering it; callers must assign it before requesting another.
func (d *Document) GenID(prefix string) string {
	used := make(map[string]bool)
	for _, e := range d.Root.Descendants() {
		if id := e.ID(); id != "" {
			used[id] = true
		}
	}
	for i := 1; ; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		if !used[id] {
			return id
		}
	}
}

// Defs returns the document's defs element, creating one as the root's first
// child if needed.
func (d *Document) Defs() *Element {
	for _, c := range d.Root.Children() {
		if c.Tag == TagDefs {
			return c
		}
	}
	defs := NewElement(TagDefs)
	d.Root.Insert(0, defs)
	return defs
}

// clipRef extracts the id from a clip-path attribute of the form "url(#id)".
func clipRef(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return ""
	}
	v = strings.TrimSuffix(strings.TrimPrefix(v, "url("), ")")
	return strings.TrimPrefix(strings.TrimSpace(v), "#")
}

// UnionClipInto merges src's clip path into dst's. When only src is clipped,
// dst adopts its clip; when both are clipped by different paths, a new
// clipPath holding copies of both contents is created in defs and dst points
// at it. Used when text clipped by one region is merged into text clipped by
// another.
func (d *Document) UnionClipInto(dst, src *Element) {
	srcAttr := src.Attr("clip-path")
	if srcAttr == "" {
		return
	}
	dstAttr := dst.Attr("clip-path")
	if dstAttr == "" {
		dst.SetAttr("clip-path", srcAttr)
		return
	}
	if dstAttr == srcAttr {
		return
	}

	srcClip := d.ElementByID(clipRef(srcAttr))
	dstClip := d.ElementByID(clipRef(dstAttr))
	if srcClip == nil || dstClip == nil {
		return
	}

	union := NewElement(TagClipPath)
	union.SetAttr("id", d.GenID("clipPath"))
	for _, c := range dstClip.Children() {
		union.Append(c.Clone())
	}
	for _, c := range srcClip.Children() {
		union.Append(c.Clone())
	}
	d.Defs().Append(union)
	dst.SetAttr("clip-path", "url(#"+union.ID()+")")
}

// DeleteEmpty recursively removes empty elements below (and including) el.
// A tspan goes when it has no text, no tail and no children; a text root goes
// when its entire content is whitespace. Returns whether el itself was
// removed.
func DeleteEmpty(el *Element) bool {
	for i := len(el.children) - 1; i >= 0; i-- {
		DeleteEmpty(el.children[i])
	}
	if el.Text == "" && el.Tail == "" && len(el.children) == 0 && el.parent != nil {
		el.Detach()
		return true
	}
	if el.IsText() && el.HasOnlyWhitespace() && el.parent != nil {
		el.Detach()
		return true
	}
	return false
}

// MakeEditable adjusts a text root so host editors treat it as ordinary
// editable text: xml:space is preserved, and a sole un-roled tspan child is
// re-chained with its position hoisted onto the parent.
func MakeEditable(el *Element) {
	for _, k := range el.Children() {
		if k.IsTextual() {
			MakeEditable(k)
		}
	}
	if el.IsText() {
		el.SetAttr("xml:space", "preserve")
		return
	}
	if !el.IsTspan() {
		return
	}
	p := el.Parent()
	if p == nil || !p.IsText() || len(p.Children()) != 1 {
		return
	}
	if el.Role() == RoleLine {
		return
	}
	// Re-enabling the chained-line role makes the tspan take its position
	// from the parent, so the position moves up first.
	if tx := el.Attr("x"); tx != "" {
		p.SetAttr("x", tx)
	}
	if ty := el.Attr("y"); ty != "" {
		p.SetAttr("y", ty)
	}
	el.SetAttr(AttrRole, RoleLine)
}

package layout

import (
	"github.com/textmend/textmend/style"
	"github.com/textmend/textmend/svgdoc"
)

// lineIndex returns a character's position within its line.
func (pt *ParsedText) lineIndex(id CharID) int {
	for i, cid := range pt.LineChars(pt.chars[id].line) {
		if cid == id {
			return i
		}
	}
	return -1
}

// chunkIndex returns a character's position within its chunk.
func (pt *ParsedText) chunkIndex(id CharID) int {
	for i, cid := range pt.ChunkChars(pt.chars[id].chunk) {
		if cid == id {
			return i
		}
	}
	return -1
}

// DeleteChar removes one character from the layout and the backing tree.
// The line's coordinate lists shed the entry at the character's position,
// and emptied chunks, lines and elements are deleted in cascade.
func (pt *ParsedText) DeleteChar(id CharID) {
	c := &pt.chars[id]
	if !c.alive {
		return
	}
	lid := c.line
	ckid := c.chunk
	myi := pt.lineIndex(id)

	pt.removeRune(c.Loc)
	c.alive = false

	ln := &pt.lines[lid]
	if myi >= 0 {
		if myi < len(ln.X) && len(ln.X) > 1 {
			ln.X = trimAbsent(ln.X.Delete(myi))
			pt.writeLineCoord(lid, "x")
		}
		if myi < len(ln.Y) && len(ln.Y) > 1 {
			ln.Y = trimAbsent(ln.Y.Delete(myi))
			pt.writeLineCoord(lid, "y")
		}
	}

	if ckid != NoChunk && len(pt.ChunkChars(ckid)) == 0 {
		pt.chunks[ckid].alive = false
		pt.relinkAround(ckid)
	}
	if len(pt.LineChars(lid)) == 0 {
		pt.lines[lid].alive = false
		if ln.El != pt.Root {
			svgdoc.DeleteEmpty(ln.El)
		}
	}
	if len(pt.AllChars()) == 0 {
		svgdoc.DeleteEmpty(pt.Root)
	}
}

// relinkAround repairs chunk successor links after a chunk dies.
func (pt *ParsedText) relinkAround(dead ChunkID) {
	next := pt.chunks[dead].Next
	for i := range pt.chunks {
		if pt.chunks[i].alive && pt.chunks[i].Next == dead {
			pt.chunks[i].Next = next
		}
	}
}

// removeRune deletes one rune from an element's text or tail and shifts
// the locations of every later character in the same run.
func (pt *ParsedText) removeRune(loc Loc) {
	rs := []rune(pt.content(loc))
	if loc.Index < 0 || loc.Index >= len(rs) {
		return
	}
	rs = append(rs[:loc.Index], rs[loc.Index+1:]...)
	pt.setContent(loc, string(rs))
	for i := range pt.chars {
		c := &pt.chars[i]
		if c.alive && c.Loc.Same(loc) && c.Loc.Index > loc.Index {
			c.Loc.Index--
		}
	}
}

// insertRune inserts a rune into an element's text or tail at a rune
// index, shifting later characters' locations.
func (pt *ParsedText) insertRune(loc Loc, r rune) {
	rs := []rune(pt.content(loc))
	if loc.Index > len(rs) {
		loc.Index = len(rs)
	}
	rs = append(rs[:loc.Index], append([]rune{r}, rs[loc.Index:]...)...)
	pt.setContent(loc, string(rs))
	for i := range pt.chars {
		c := &pt.chars[i]
		if c.alive && c.Loc.Same(loc) && c.Loc.Index >= loc.Index {
			c.Loc.Index++
		}
	}
}

func (pt *ParsedText) content(loc Loc) string {
	if loc.Tail {
		return loc.El.Tail
	}
	return loc.El.Text
}

func (pt *ParsedText) setContent(loc Loc, s string) {
	if loc.Tail {
		loc.El.Tail = s
	} else {
		loc.El.Text = s
	}
}

// AppendChar adds a character to the end of a chunk, copying layout
// properties from a template. The rune lands in the tree right after the
// chunk's last character, and the line's coordinate list grows an absent
// entry at the new position so later assigned values keep their characters.
func (pt *ParsedText) AppendChar(dst ChunkID, tmpl Character, dx, dy float64) CharID {
	chars := pt.ChunkChars(dst)
	last := chars[len(chars)-1]
	lc := &pt.chars[last]
	lid := lc.line

	loc := Loc{El: lc.Loc.El, Tail: lc.Loc.Tail, Index: lc.Loc.Index + 1}
	pt.insertRune(loc, tmpl.R)

	tmpl.Loc = loc
	tmpl.Dx = dx
	tmpl.Dy = dy
	id := pt.newChar(tmpl)
	pt.chars[id].line = lid
	pt.chars[id].chunk = dst

	// Splice after the template's position in both orderings.
	pt.chunks[dst].chars = spliceAfter(pt.chunks[dst].chars, last, id)
	ln := &pt.lines[lid]
	ln.chars = spliceAfter(ln.chars, last, id)

	myi := pt.lineIndex(id)
	if myi >= 0 && myi < len(ln.X) {
		ln.X = ln.X.Insert(myi, svgdoc.None())
		ln.X = trimAbsent(ln.X)
		pt.writeLineCoord(lid, "x")
	}
	if myi >= 0 && myi < len(ln.Y) {
		ln.Y = ln.Y.Insert(myi, svgdoc.None())
		ln.Y = trimAbsent(ln.Y)
		pt.writeLineCoord(lid, "y")
	}
	return id
}

func spliceAfter(ids []CharID, after, id CharID) []CharID {
	for i, v := range ids {
		if v == after {
			out := make([]CharID, 0, len(ids)+1)
			out = append(out, ids[:i+1]...)
			out = append(out, id)
			out = append(out, ids[i+1:]...)
			return out
		}
	}
	return append(ids, id)
}

// trimAbsent drops trailing absent coordinate entries, keeping at least
// the first.
func trimAbsent(v svgdoc.Coords) svgdoc.Coords {
	for len(v) > 1 && v[len(v)-1].Absent {
		v = v[:len(v)-1]
	}
	return v
}

// writeLineCoord serializes a line's x or y list back to its source
// element. Writing more than one value to a chained line first strips the
// role, since hosts regenerate chained positions on edit.
func (pt *ParsedText) writeLineCoord(lid LineID, name string) {
	ln := &pt.lines[lid]
	v := ln.X
	src := ln.XSrc
	if name == "y" {
		v = ln.Y
		src = ln.YSrc
	}
	if ln.InheritX {
		if len(v) <= 1 {
			return
		}
		pt.DisableRole(lid)
		src = ln.El
	} else if ln.Role == svgdoc.RoleLine && len(v) > 1 {
		pt.DisableRole(lid)
		src = ln.El
	}
	if src == nil {
		src = ln.El
	}
	src.SetCoords(name, v)
}

// DisableRole detaches a chained line from host position inheritance: the
// element gets explicit x and y attributes and loses its role marker.
func (pt *ParsedText) DisableRole(lid LineID) {
	ln := &pt.lines[lid]
	if ln.Role != svgdoc.RoleLine && !ln.InheritX {
		return
	}
	ln.El.RemoveAttr(svgdoc.AttrRole)
	ln.El.SetCoords("x", ln.X)
	ln.El.SetCoords("y", ln.Y)
	ln.Role = ""
	ln.InheritX = false
	ln.XSrc = ln.El
	ln.YSrc = ln.El
}

// SetChunkX moves a chunk to a new anchor x, updating the line's
// coordinate entry for the chunk's first character.
func (pt *ParsedText) SetChunkX(id ChunkID, x float64) {
	ck := &pt.chunks[id]
	chars := pt.ChunkChars(id)
	if len(chars) == 0 {
		return
	}
	lid := ck.line
	ln := &pt.lines[lid]
	myi := pt.lineIndex(chars[0])
	for len(ln.X) <= myi {
		ln.X = append(ln.X, svgdoc.None())
	}
	ln.X[myi] = svgdoc.Num(x)
	ck.X = x
	pt.writeLineCoord(lid, "x")
}

// ForceChunkBoundary gives a mid-chunk character its own anchor x,
// splitting its chunk in two at that character.
func (pt *ParsedText) ForceChunkBoundary(id CharID, x float64) ChunkID {
	old := pt.chars[id].chunk
	ck := &pt.chunks[old]
	chars := pt.ChunkChars(old)
	at := pt.chunkIndex(id)
	if at <= 0 {
		pt.SetChunkX(old, x)
		return old
	}

	nid := pt.newChunk(Chunk{X: x, Y: ck.Y, line: ck.line, Scale: ck.Scale})
	nk := &pt.chunks[nid]
	nk.chars = append(nk.chars, chars[at:]...)
	for _, cid := range chars[at:] {
		pt.chars[cid].chunk = nid
	}
	ock := &pt.chunks[old]
	ock.chars = chars[:at]
	pt.lines[ock.line].chunks = append(pt.lines[ock.line].chunks, nid)

	lid := ock.line
	ln := &pt.lines[lid]
	myi := pt.lineIndex(id)
	for len(ln.X) <= myi {
		ln.X = append(ln.X, svgdoc.None())
	}
	ln.X[myi] = svgdoc.Num(x)
	pt.writeLineCoord(lid, "x")
	return nid
}

// StyleSpan wraps one character in a fresh tspan carrying extra style
// declarations, relocating the characters after it in the same run.
func (pt *ParsedText) StyleSpan(id CharID, extra style.Style) {
	c := &pt.chars[id]
	loc := c.Loc
	run := []rune(pt.content(loc))
	before := string(run[:loc.Index])
	after := string(run[loc.Index+1:])

	span := svgdoc.NewElement(svgdoc.TagTspan)
	span.SetAttr("style", extra.String())
	span.Text = string(c.R)
	span.Tail = after

	if loc.Tail {
		parent := loc.El.Parent()
		loc.El.Tail = before
		parent.Insert(loc.El.Index()+1, span)
	} else {
		loc.El.Text = before
		loc.El.Insert(0, span)
	}

	// Characters past the wrapped one now live in the span's tail.
	for i := range pt.chars {
		o := &pt.chars[i]
		if !o.alive || CharID(i) == id || !o.Loc.Same(loc) {
			continue
		}
		if o.Loc.Index > loc.Index {
			o.Loc = Loc{El: span, Tail: true, Index: o.Loc.Index - loc.Index - 1}
		}
	}
	c.Loc = Loc{El: span, Index: 0}
	c.Style = c.Style.Clone().Merge(extra)
}

// DeleteChunk removes every character of a chunk.
func (pt *ParsedText) DeleteChunk(id ChunkID) {
	for _, cid := range pt.ChunkChars(id) {
		pt.DeleteChar(cid)
	}
}

// DeleteLine removes every character of a line.
func (pt *ParsedText) DeleteLine(id LineID) {
	for _, cid := range pt.LineChars(id) {
		pt.DeleteChar(cid)
	}
}

// DuplicateRoot clones the text root, inserts the clone right after it and
// assigns fresh ids throughout.
func (pt *ParsedText) DuplicateRoot() *svgdoc.Element {
	dup := pt.Root.Clone()
	parent := pt.Root.Parent()
	if parent != nil {
		parent.Insert(pt.Root.Index()+1, dup)
	}
	for _, el := range dup.Descendants() {
		if el.ID() != "" {
			el.SetAttr("id", pt.Doc.GenID("text"))
		}
	}
	return dup
}

package layout

import (
	"math"

	"github.com/textmend/textmend/model"
	"github.com/textmend/textmend/svgdoc"
)

// Recompute rebuilds every chunk's aggregates and geometry from its
// characters. Call after any structural or positional mutation.
func (pt *ParsedText) Recompute() {
	var prev LineID = NoLine
	for _, lid := range pt.Lines() {
		ln := &pt.lines[lid]
		if ln.ContinueX && prev != NoLine {
			pt.continueFrom(lid, prev)
		}
		for _, cid := range pt.LineChunks(lid) {
			pt.recomputeChunk(cid)
		}
		prev = lid
	}
	pt.linkChunks()
}

// continueFrom places an unpositioned line at the previous line's trailing
// pen.
func (pt *ParsedText) continueFrom(lid, prev LineID) {
	cks := pt.LineChunks(prev)
	if len(cks) == 0 {
		return
	}
	last := &pt.chunks[cks[len(cks)-1]]
	sf := last.Scale
	if sf == 0 {
		sf = 1
	}
	x := last.X + (last.OffX+last.Width)/sf
	ln := &pt.lines[lid]
	ln.X = ln.X.Clone()
	if len(ln.X) == 0 {
		ln.X = append(ln.X, svgdoc.Num(x))
	} else {
		ln.X[0] = svgdoc.Num(x)
	}
	for _, cid := range pt.LineChunks(lid) {
		pt.chunks[cid].X = x
		break
	}
}

// recomputeChunk derives a chunk's width, anchor offset, cumulative
// advances, aggregates and corner geometry.
func (pt *ParsedText) recomputeChunk(id ChunkID) {
	ck := &pt.chunks[id]
	ln := &pt.lines[ck.line]
	chars := pt.ChunkChars(id)
	if len(chars) == 0 {
		return
	}

	sf := pt.chars[chars[0]].Scale
	if sf == 0 {
		sf = 1
	}
	ck.Scale = sf

	// Advances in document units. A character's dx shifts it and every
	// character after it; the first character's dx moves the whole chunk
	// through the anchor offset instead.
	ck.CumWidths = ck.CumWidths[:0]
	pen := 0.0
	ck.FontSize = 0
	ck.SpaceWidth = 0
	ck.CapHeight = 0
	ck.Descender = 0
	top := math.Inf(1)
	bottom := math.Inf(-1)
	for i, cid := range chars {
		c := &pt.chars[cid]
		if i > 0 {
			pen += c.Dx * sf
		}
		ck.CumWidths = append(ck.CumWidths, pen)
		pen += c.Width()
		if c.FontSize > ck.FontSize {
			ck.FontSize = c.FontSize
		}
		if c.SpaceWidth() > ck.SpaceWidth {
			ck.SpaceWidth = c.SpaceWidth()
		}
		if c.Metrics.CapHeight > ck.CapHeight {
			ck.CapHeight = c.Metrics.CapHeight
		}
		if c.Metrics.Descender > ck.Descender {
			ck.Descender = c.Metrics.Descender
		}
		// A character's dy shifts its ink, so the chunk bounds track each
		// character's own baseline.
		if t := ck.Y + c.Dy - c.Metrics.CapHeight/sf; t < top {
			top = t
		}
		if b := ck.Y + c.Dy + c.Metrics.Descender/sf; b > bottom {
			bottom = b
		}
	}
	ck.Width = pen
	ck.CumWidths = append(ck.CumWidths, pen)

	lead := pt.chars[chars[0]].Dx * sf
	switch ln.Anchor {
	case AnchorMiddle:
		ck.OffX = lead/2 - ck.Width/2
	case AnchorEnd:
		ck.OffX = -ck.Width
	default:
		ck.OffX = lead
	}

	left := ck.X + ck.OffX/sf
	right := left + ck.Width/sf
	ck.QuadLocal = model.Quad{
		{X: left, Y: bottom},
		{X: left, Y: top},
		{X: right, Y: top},
		{X: right, Y: bottom},
	}
	ck.QuadT = ck.QuadLocal.Transform(ln.Transform)
	ck.BB = ck.QuadT.BBox()
	ck.Angle = ln.Angle
	ck.PenStart = ln.Transform.Transform(model.Point{X: left, Y: ck.Y})
	ck.PenEnd = ln.Transform.Transform(model.Point{X: right, Y: ck.Y})
}

// RecordOrigQuads snapshots a chunk's current geometry the first time it
// is called, so merges later in a pass can still measure against the
// original positions.
func (pt *ParsedText) RecordOrigQuads(id ChunkID) {
	ck := &pt.chunks[id]
	if len(ck.OrigQuadsT) > 0 {
		return
	}
	ck.OrigQuadsT = append(ck.OrigQuadsT, ck.QuadT)
	ck.OrigQuadsUT = append(ck.OrigQuadsUT, ck.QuadLocal)
	ck.OrigBB = ck.BB
}

// CharLeft returns a character's left pen offset from its chunk origin in
// document units.
func (pt *ParsedText) CharLeft(id CharID) float64 {
	ck := &pt.chunks[pt.chars[id].chunk]
	for i, cid := range pt.ChunkChars(pt.chars[id].chunk) {
		if cid == id {
			return ck.OffX + ck.CumWidths[i]
		}
	}
	return ck.OffX
}

// BBox returns the union of every chunk's bounding box.
func (pt *ParsedText) BBox() model.BBox {
	var bb model.BBox
	for _, id := range pt.Chunks() {
		bb = bb.Union(pt.chunks[id].BB)
	}
	return bb
}

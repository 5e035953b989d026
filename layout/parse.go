package layout

import (
	"errors"
	"fmt"

	"github.com/textmend/textmend/metrics"
	"github.com/textmend/textmend/style"
	"github.com/textmend/textmend/svgdoc"
)

// ErrParseAbort is returned when a text element's layout cannot be
// determined, most often because a position must be inherited and no source
// for it exists. Callers skip the element.
var ErrParseAbort = errors.New("layout: cannot resolve text position")

// Parser builds ParsedText values from text elements. The metrics table
// must already cover every character and style in the elements parsed.
type Parser struct {
	Doc   *svgdoc.Document
	Table *metrics.Table
}

// NewParser returns a parser over a document and a measured table.
func NewParser(doc *svgdoc.Document, table *metrics.Table) *Parser {
	return &Parser{Doc: doc, Table: table}
}

// Parse lays out one text root.
func (p *Parser) Parse(root *svgdoc.Element) (*ParsedText, error) {
	pt := &ParsedText{
		Doc:   p.Doc,
		Root:  root,
		Table: p.Table,
	}
	if err := pt.parseElement(root, false); err != nil {
		return nil, err
	}
	pt.HostAuthored = detectHostAuthored(root)
	pt.applyDeltas()
	pt.dropEmptyLines()
	pt.buildChunks()
	pt.Recompute()
	dx, dy := pt.flatDeltas()
	pt.dxs, pt.dys = dx, dy
	pt.flatDelta = true
	return pt, nil
}

// parseElement walks one element, opening lines and appending characters.
// haveLine reports whether an enclosing call has already opened a line.
func (pt *ParsedText) parseElement(el *svgdoc.Element, haveLine bool) error {
	sty := el.CascadedStyle()
	fs, sf, _, ang := svgdoc.ComposedFontSize(el)
	styleKey := style.NormalizeKey(sty)
	colorKey := styleKey + ";fill:" + fillOf(sty)

	xv := el.Coords("x")
	yv := el.Coords("y")

	chained := el.IsTspan() && el.Role() == svgdoc.RoleLine &&
		el.Parent() != nil && el.Parent().IsText()
	// Multi-valued coordinates disable chained-line position inheritance.
	newChained := chained && len(xv) <= 1 && len(yv) <= 1

	newline := el.IsText() || newChained ||
		(el.IsTspan() && (!xv[0].Absent || !yv[0].Absent))

	if newline {
		if err := pt.openLine(el, xv, yv, newChained, sty, ang); err != nil {
			return err
		}
	} else if len(pt.lineOrder) == 0 {
		return fmt.Errorf("%w: %s has no position and no line to join", ErrParseAbort, el.Tag)
	}

	if el.Text != "" {
		cur := pt.lineOrder[len(pt.lineOrder)-1]
		for i, r := range []rune(el.Text) {
			if err := pt.addParsedChar(cur, r, fs, sf, sty, styleKey, colorKey, Loc{El: el, Index: i}); err != nil {
				return err
			}
		}
	}
	for _, k := range el.Children() {
		if !k.IsTextual() {
			continue
		}
		if err := pt.parseElement(k, true); err != nil {
			return err
		}
		if k.Tail != "" {
			cur := pt.lineOrder[len(pt.lineOrder)-1]
			tsty := el.CascadedStyle()
			tfs, tsf, _, _ := svgdoc.ComposedFontSize(el)
			tKey := style.NormalizeKey(tsty)
			tColor := tKey + ";fill:" + fillOf(tsty)
			for i, r := range []rune(k.Tail) {
				if err := pt.addParsedChar(cur, r, tfs, tsf, tsty, tKey, tColor, Loc{El: k, Tail: true, Index: i}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// openLine starts a new line for el, resolving its coordinates.
func (pt *ParsedText) openLine(el *svgdoc.Element, xv, yv svgdoc.Coords, newChained bool, sty style.Style, ang float64) error {
	ln := Line{
		El:         el,
		XSrc:       el,
		YSrc:       el,
		Role:       el.Role(),
		Anchor:     anchorOf(sty),
		Style:      sty,
		Angle:      ang,
		Transform:  el.ComposedTransform(),
		TopLevelNo: -1,
	}
	if el.Parent() == pt.Root || el == pt.Root {
		ln.TopLevelNo = el.Index()
	}

	x, xsrc, inheritX, continueX, err := pt.resolveCoord(el, xv, "x", newChained)
	if err != nil {
		return err
	}
	y, ysrc, _, _, err := pt.resolveCoord(el, yv, "y", newChained)
	if err != nil {
		return err
	}
	ln.X, ln.XSrc = x, xsrc
	ln.Y, ln.YSrc = y, ysrc
	ln.InheritX = inheritX
	ln.ContinueX = continueX
	pt.newLine(ln)
	return nil
}

// resolveCoord resolves a line's x or y coordinate list. Own attribute
// first, then the previous line when the element is a chained tspan. A
// missing x after that continues from the previous line's trailing pen; a
// missing y comes from the nearest positioned ancestor, falling back to
// the previous line's baseline. Anything past that aborts the parse.
func (pt *ParsedText) resolveCoord(el *svgdoc.Element, v svgdoc.Coords, name string, newChained bool) (svgdoc.Coords, *svgdoc.Element, bool, bool, error) {
	if !v[0].Absent {
		return v, el, false, false, nil
	}
	if newChained && len(pt.lineOrder) > 0 {
		prev := &pt.lines[pt.lineOrder[len(pt.lineOrder)-1]]
		if name == "x" {
			return prev.X.Clone(), prev.XSrc, true, false, nil
		}
		// A chained line sits one effective line height below the
		// previous one, in the element's local units.
		y := 0.0
		if !prev.Y[0].Absent {
			y = prev.Y[0].Value
		}
		_, sf, _, _ := svgdoc.ComposedFontSize(el)
		if sf == 0 {
			sf = 1
		}
		y += svgdoc.ComposedLineHeight(el) / sf
		return svgdoc.Coords{svgdoc.Num(y)}, prev.YSrc, true, false, nil
	}
	if name == "x" && len(pt.lineOrder) > 0 {
		// A nested run that opens a line without its own x continues from
		// the previous line's trailing pen; the exact value is filled in
		// once geometry is known. Until then the nearest positioned
		// ancestor stands in, and stays when no earlier line has glyphs.
		src := &pt.lines[pt.lineOrder[len(pt.lineOrder)-1]]
		x, xsrc := 0.0, src.XSrc
		if av, anc := ancestorCoord(el, name); anc != nil {
			x, xsrc = av[0].Value, anc
		}
		return svgdoc.Coords{svgdoc.Num(x)}, xsrc, false, true, nil
	}
	if av, anc := ancestorCoord(el, name); anc != nil {
		return av, anc, false, false, nil
	}
	if len(pt.lineOrder) > 0 {
		// A nested run without its own y stays on the previous line's
		// baseline.
		src := &pt.lines[pt.lineOrder[len(pt.lineOrder)-1]]
		return src.Y.Clone(), src.YSrc, false, false, nil
	}
	if el.IsText() || el == pt.Root {
		// A bare text root with no coordinates sits at the origin.
		return svgdoc.Coords{svgdoc.Num(0)}, el, false, false, nil
	}
	return nil, nil, false, false, fmt.Errorf("%w: no %s source for %s", ErrParseAbort, name, el.Tag)
}

// ancestorCoord finds the nearest textual ancestor with an assigned
// coordinate, stopping above the text root.
func ancestorCoord(el *svgdoc.Element, name string) (svgdoc.Coords, *svgdoc.Element) {
	for anc := el.Parent(); anc != nil && anc.IsTextual(); anc = anc.Parent() {
		av := anc.Coords(name)
		if !av[0].Absent {
			return av, anc
		}
	}
	return nil, nil
}

// addParsedChar measures one rune and appends it to a line.
func (pt *ParsedText) addParsedChar(line LineID, r rune, fs, sf float64, sty style.Style, styleKey, colorKey string, loc Loc) error {
	cm, err := pt.Table.Get(r, styleKey)
	if err != nil {
		return err
	}
	id := pt.newChar(Character{
		R:        r,
		FontSize: fs,
		Scale:    sf,
		Metrics:  cm.Scale(fs),
		Style:    sty,
		StyleKey: styleKey,
		ColorKey: colorKey,
		Loc:      loc,
	})
	pt.chars[id].line = line
	pt.lines[line].chars = append(pt.lines[line].chars, id)
	return nil
}

// detectHostAuthored reports whether a text root follows the host editor's
// multi-line layout: every textual child is a chained tspan with at most
// one x and y value, and the root carries no direct text.
func detectHostAuthored(root *svgdoc.Element) bool {
	if root.Text != "" {
		return false
	}
	n := 0
	for _, k := range root.Children() {
		if !k.IsTextual() {
			continue
		}
		n++
		if !k.IsTspan() || k.Role() != svgdoc.RoleLine {
			return false
		}
		if len(k.Coords("x")) > 1 || len(k.Coords("y")) > 1 {
			return false
		}
	}
	return n > 0
}

// dropEmptyLines removes lines that gathered no characters.
func (pt *ParsedText) dropEmptyLines() {
	for i := range pt.lines {
		if pt.lines[i].alive && len(pt.lines[i].chars) == 0 {
			pt.lines[i].alive = false
		}
	}
}

// buildChunks splits each line into chunks. A chunk boundary falls at
// every character index that has its own non-absent x entry, so live
// chunks and assigned x values stay in one-to-one correspondence.
func (pt *ParsedText) buildChunks() {
	for _, lid := range pt.Lines() {
		ln := &pt.lines[lid]
		ln.chunks = ln.chunks[:0]
		chars := pt.LineChars(lid)
		var cur ChunkID = NoChunk
		for i, cid := range chars {
			boundary := i == 0 || (i < len(ln.X) && !ln.X[i].Absent)
			if boundary {
				x := 0.0
				if i < len(ln.X) && !ln.X[i].Absent {
					x = ln.X[i].Value
				} else if !ln.X[0].Absent {
					x = ln.X[0].Value
				}
				y := 0.0
				if i < len(ln.Y) && !ln.Y[i].Absent {
					y = ln.Y[i].Value
				} else if !ln.Y[0].Absent {
					y = ln.Y[0].Value
				}
				cur = pt.newChunk(Chunk{X: x, Y: y, line: lid, Scale: pt.chars[cid].Scale})
				ln.chunks = append(ln.chunks, cur)
			}
			ck := &pt.chunks[cur]
			ck.chars = append(ck.chars, cid)
			pt.chars[cid].chunk = cur
		}
	}
	pt.linkChunks()
}

// linkChunks orders each line's chunks by x position and records each
// chunk's successor.
func (pt *ParsedText) linkChunks() {
	for _, lid := range pt.Lines() {
		cks := pt.LineChunks(lid)
		// Successor is the nearest chunk to the right on the same line.
		for _, a := range cks {
			best := NoChunk
			bestDx := 0.0
			for _, b := range cks {
				if a == b {
					continue
				}
				dx := pt.chunks[b].X - pt.chunks[a].X
				if dx > 0 && (best == NoChunk || dx < bestDx) {
					best, bestDx = b, dx
				}
			}
			pt.chunks[a].Next = best
		}
	}
}

func anchorOf(sty style.Style) string {
	switch v := sty.Get("text-anchor"); v {
	case AnchorMiddle, AnchorEnd:
		return v
	}
	return AnchorStart
}

func fillOf(sty style.Style) string {
	if v := sty.Get("fill"); v != "" {
		return v
	}
	return "black"
}

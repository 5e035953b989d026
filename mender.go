package textmend

import (
	"fmt"
	"os"

	"github.com/textmend/textmend/fontmetrics"
	"github.com/textmend/textmend/layout"
	"github.com/textmend/textmend/metrics"
	"github.com/textmend/textmend/repair"
	"github.com/textmend/textmend/svgdoc"
)

// Mender provides a fluent interface for repairing shattered SVG text.
// Each configuration method returns a new Mender instance, making it safe
// to branch a configured chain and allowing method chaining.
type Mender struct {
	// Source (exactly one is set until the document is opened)
	filename string
	source   string
	doc      *svgdoc.Document

	// Character measurement, defaults to the built-in font oracle
	oracle metrics.Oracle

	// Configuration
	options RepairOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Mender with a copy of options.
// Each chain method returns a new instance.
func (m *Mender) clone() *Mender {
	return &Mender{
		filename: m.filename,
		source:   m.source,
		doc:      m.doc,
		oracle:   m.oracle,
		options:  m.options.clone(),
		err:      m.err,
		warnings: append([]Warning(nil), m.warnings...),
	}
}

// ensureDoc opens and parses the source document if not already parsed.
func (m *Mender) ensureDoc() error {
	if m.doc != nil {
		return nil
	}
	if m.filename != "" {
		f, err := os.Open(m.filename)
		if err != nil {
			return fmt.Errorf("failed to open SVG: %w", err)
		}
		defer f.Close()
		doc, err := svgdoc.Parse(f)
		if err != nil {
			return fmt.Errorf("failed to parse SVG: %w", err)
		}
		m.doc = doc
		return nil
	}
	if m.source != "" {
		doc, err := svgdoc.ParseString(m.source)
		if err != nil {
			return fmt.Errorf("failed to parse SVG: %w", err)
		}
		m.doc = doc
		return nil
	}
	return fmt.Errorf("no document specified")
}

// ensureOracle falls back to the built-in font measurement oracle.
func (m *Mender) ensureOracle() error {
	if m.oracle != nil {
		return nil
	}
	o, err := fontmetrics.New()
	if err != nil {
		return fmt.Errorf("failed to load font oracle: %w", err)
	}
	m.oracle = o
	return nil
}

// warn records a non-fatal issue against an element.
func (m *Mender) warn(code string, el *svgdoc.Element, format string, args ...any) {
	w := Warning{Code: code, Message: fmt.Sprintf(format, args...)}
	if el != nil {
		w.Element = el.ID()
	}
	m.warnings = append(m.warnings, w)
}

// ============================================================================
// Configuration Methods (return new Mender instance)
// ============================================================================

// WithOptions replaces the full option set.
func (m *Mender) WithOptions(opts RepairOptions) *Mender {
	newM := m.clone()
	newM.options = opts.clone()
	return newM
}

// WithOracle supplies the character measurement oracle. The default
// measures against bundled font tables.
func (m *Mender) WithOracle(o metrics.Oracle) *Mender {
	newM := m.clone()
	newM.oracle = o
	return newM
}

// WithTolerances replaces the geometric tolerances used by the merge and
// split passes.
func (m *Mender) WithTolerances(cfg repair.Config) *Mender {
	newM := m.clone()
	newM.options.repair = cfg
	return newM
}

// RemoveManualKerning enables the same-line pass that merges chunks whose
// only separation is per-glyph positioning, dissolving manual kerning.
func (m *Mender) RemoveManualKerning() *Mender {
	newM := m.clone()
	newM.options.removeManualKerning = true
	return newM
}

// MergeNearby controls the cross-element merge pass. It is on by default.
func (m *Mender) MergeNearby(on bool) *Mender {
	newM := m.clone()
	newM.options.mergeNearby = on
	return newM
}

// MergeSubSuper controls sub and superscript detection inside the
// cross-element merge pass. It is on by default.
func (m *Mender) MergeSubSuper(on bool) *Mender {
	newM := m.clone()
	newM.options.mergeSubSuper = on
	return newM
}

// SplitDistant controls the split passes that break up runs whose pieces
// sit too far apart to read as one text. On by default.
func (m *Mender) SplitDistant(on bool) *Mender {
	newM := m.clone()
	newM.options.splitDistant = on
	return newM
}

// Justify rewrites every repaired line's text-anchor to the given
// justification, re-anchoring each chunk so its rendered position does not
// move.
func (m *Mender) Justify(j Justification) *Mender {
	newM := m.clone()
	newM.options.justification = j
	return newM
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Repair runs the full repair pipeline over every text element of the
// document and returns the modified document. Warnings report elements
// that were skipped or only partially repaired; the returned error is
// reserved for failures that stop the run entirely.
//
// Example:
//
//	doc, warnings, err := textmend.Open("figure.svg").Repair()
func (m *Mender) Repair() (*svgdoc.Document, []Warning, error) {
	if m.err != nil {
		return nil, m.warnings, m.err
	}
	if err := m.ensureDoc(); err != nil {
		return nil, m.warnings, err
	}
	if err := m.ensureOracle(); err != nil {
		return nil, m.warnings, err
	}

	roots := m.doc.Texts()
	if len(roots) == 0 {
		return m.doc, m.warnings, nil
	}

	table := metrics.NewTable(m.options.metrics)
	for _, root := range roots {
		table.RegisterTree(root)
	}
	if err := table.Measure(m.oracle); err != nil {
		return nil, m.warnings, fmt.Errorf("failed to measure characters: %w", err)
	}

	parser := layout.NewParser(m.doc, table)
	pts := m.parseAll(parser, roots)
	pts = m.runPasses(parser, pts)

	for _, pt := range pts {
		pt.FlushDeltas()
		svgdoc.MakeEditable(pt.Root)
		svgdoc.DeleteEmpty(pt.Root)
	}
	return m.doc, m.warnings, nil
}

// RepairString runs Repair and serializes the result.
func (m *Mender) RepairString() (string, []Warning, error) {
	doc, warnings, err := m.Repair()
	if err != nil {
		return "", warnings, err
	}
	return doc.String(), warnings, nil
}

// parseAll builds a ParsedText for every text root, skipping elements
// whose position cannot be resolved.
func (m *Mender) parseAll(parser *layout.Parser, roots []*svgdoc.Element) []*layout.ParsedText {
	var pts []*layout.ParsedText
	for _, root := range roots {
		pt, err := parser.Parse(root)
		if err != nil {
			m.warn(WarnUnresolvedPosition, root, "%v", err)
			continue
		}
		pts = append(pts, pt)
	}
	return pts
}

// runPasses applies the repair passes in their fixed order: manual-kerning
// merge, one-chunk-per-line split, cross-element merge, distant splits,
// justification rewrite, whitespace trim.
func (m *Mender) runPasses(parser *layout.Parser, pts []*layout.ParsedText) []*layout.ParsedText {
	cfg := m.options.repair
	finder := &repair.Finder{Cfg: cfg}
	exec := &repair.Executor{Cfg: cfg, Doc: m.doc}
	splitter := &repair.Splitter{Cfg: cfg, Parser: parser}

	if m.options.removeManualKerning {
		for _, pt := range pts {
			for _, ch := range repair.ResolveChains(finder.SameLine(pt)) {
				exec.Execute(ch)
			}
		}
		pts = alive(pts)
	}

	if m.options.mergeNearby {
		// Merging whole chunks across elements needs each chunk in its own
		// positional run first.
		pts = m.splitEach(pts, splitter.SplitToOneChunkPerLine)

		for _, ch := range repair.ResolveChains(finder.External(pts, m.options.mergeSubSuper)) {
			exec.Execute(ch)
		}
		pts = alive(pts)
	}

	if m.options.splitDistant {
		pts = m.splitEach(pts, splitter.SplitDistantChunks)
		pts = m.splitEach(pts, splitter.SplitIntraChunk)
		pts = m.splitEach(pts, splitter.SplitExcessLines)
	}

	changed := false
	if target := m.options.justification.anchor(); target != "" {
		for _, pt := range pts {
			if applyJustification(pt, target) {
				changed = true
			}
		}
	}
	for _, pt := range pts {
		if trimWhitespace(pt) {
			changed = true
		}
	}
	if changed {
		pts = alive(pts)
		for _, pt := range pts {
			pt.Recompute()
		}
	}
	return pts
}

// splitEach runs one split pass over the working set, including elements
// created by earlier iterations of the same pass.
func (m *Mender) splitEach(pts []*layout.ParsedText, pass func(*layout.ParsedText) ([]*layout.ParsedText, error)) []*layout.ParsedText {
	for i := 0; i < len(pts); i++ {
		created, err := pass(pts[i])
		if err != nil {
			m.warn(WarnSplitFailed, pts[i].Root, "%v", err)
			continue
		}
		pts = append(pts, created...)
	}
	return alive(pts)
}

// alive drops texts whose every character has been merged or trimmed away.
func alive(pts []*layout.ParsedText) []*layout.ParsedText {
	out := pts[:0]
	for _, pt := range pts {
		if len(pt.Lines()) > 0 {
			out = append(out, pt)
		}
	}
	return out
}

// applyJustification rewrites each line's text-anchor to target, then
// re-anchors every chunk so its left edge stays where the old anchor put
// it. Reports whether anything changed.
func applyJustification(pt *layout.ParsedText, target string) bool {
	changed := false
	for _, lid := range pt.Lines() {
		ln := pt.Line(lid)
		if ln.Anchor == target {
			continue
		}
		lefts := make(map[layout.ChunkID]float64)
		for _, cid := range pt.LineChunks(lid) {
			lefts[cid] = chunkLeft(pt, cid)
		}
		sty := ln.El.LocalStyle()
		sty.Set("text-anchor", target)
		ln.El.SetAttr("style", sty.String())
		ln.Style.Set("text-anchor", target)
		ln.Anchor = target
		pt.Recompute()
		for cid, left := range lefts {
			ck := pt.Chunk(cid)
			pt.SetChunkX(cid, ck.X+left-chunkLeft(pt, cid))
		}
		changed = true
	}
	if changed {
		pt.Recompute()
	}
	return changed
}

// chunkLeft returns a chunk's left pen edge in line-local units.
func chunkLeft(pt *layout.ParsedText, id layout.ChunkID) float64 {
	ck := pt.Chunk(id)
	sf := ck.Scale
	if sf == 0 {
		sf = 1
	}
	return ck.X + ck.OffX/sf
}

// trimWhitespace deletes each line's leading and trailing spaces. Leading
// trims re-anchor the line's first chunk so the first surviving glyph does
// not move. Reports whether anything was deleted.
func trimWhitespace(pt *layout.ParsedText) bool {
	changed := false
	for _, lid := range pt.Lines() {
		chars := pt.LineChars(lid)
		for i := len(chars) - 1; i >= 0 && pt.Char(chars[i]).R == ' '; i-- {
			pt.DeleteChar(chars[i])
			changed = true
		}
		chars = pt.LineChars(lid)
		if len(chars) == 0 {
			continue
		}
		lead := 0
		for lead < len(chars) && pt.Char(chars[lead]).R == ' ' {
			lead++
		}
		if lead == 0 {
			continue
		}
		changed = true
		if lead == len(chars) {
			for _, cid := range chars {
				pt.DeleteChar(cid)
			}
			continue
		}
		first := pt.ChunkOf(chars[lead])
		keep := keepLeftOf(pt, chars[lead])
		for _, cid := range chars[:lead] {
			pt.DeleteChar(cid)
		}
		pt.Recompute()
		ck := pt.Chunk(first)
		pt.SetChunkX(first, ck.X+keep-chunkLeft(pt, first))
	}
	if changed {
		pt.Recompute()
	}
	return changed
}

// keepLeftOf returns a character's current left pen edge in line-local
// units, for re-anchoring after characters before it are deleted.
func keepLeftOf(pt *layout.ParsedText, id layout.CharID) float64 {
	ck := pt.Chunk(pt.ChunkOf(id))
	sf := ck.Scale
	if sf == 0 {
		sf = 1
	}
	return ck.X + pt.CharLeft(id)/sf
}

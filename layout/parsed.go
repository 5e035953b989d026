package layout

import (
	"strings"

	"github.com/textmend/textmend/metrics"
	"github.com/textmend/textmend/model"
	"github.com/textmend/textmend/style"
	"github.com/textmend/textmend/svgdoc"
)

// Handles into a ParsedText's arenas. The layout model is cyclic (character
// to chunk to line and back), so cross-references are integer handles rather
// than pointers; NoChar/NoChunk/NoLine mark absent links.
type (
	CharID  int
	ChunkID int
	LineID  int
)

const (
	NoChar  CharID  = -1
	NoChunk ChunkID = -1
	NoLine  LineID  = -1
)

// Anchor values of text-anchor.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// CharKind classifies a character's baseline role after merging.
type CharKind int

const (
	KindNormal CharKind = iota
	KindSub
	KindSuper
)

func (k CharKind) String() string {
	switch k {
	case KindSub:
		return "sub"
	case KindSuper:
		return "super"
	default:
		return "normal"
	}
}

// Loc is a character's true location in the backing tree: a rune index into
// an element's text or tail content.
type Loc struct {
	El    *svgdoc.Element
	Tail  bool
	Index int
}

// TextRoot returns the text element whose flattened content owns the
// location.
func (l Loc) TextRoot() *svgdoc.Element {
	return l.El.TextRoot()
}

// Same reports whether two locations share an element and content slot.
func (l Loc) Same(other Loc) bool {
	return l.El == other.El && l.Tail == other.Tail
}

// Character is one parsed character.
type Character struct {
	R rune

	// FontSize is the composed font size; Scale the length scale of the
	// composed transform. Metrics are pre-scaled by FontSize, so Width and
	// friends are in document units.
	FontSize float64
	Scale    float64
	Metrics  metrics.CharMetrics

	// Style is the cascaded style; StyleKey the normalized metrics key;
	// ColorKey the metrics key plus fill, used for merge equality.
	Style    style.Style
	StyleKey string
	ColorKey string

	Loc    Loc
	Dx, Dy float64

	// Kind and ReductionPct are assigned by sub/superscript merging;
	// PendingStyle is applied in the two-phase commit after a chain
	// completes.
	Kind         CharKind
	ReductionPct int
	PendingStyle *style.Style

	chunk ChunkID
	line  LineID
	alive bool
}

// Width returns the character's advance in document units.
func (c *Character) Width() float64 {
	return c.Metrics.Width
}

// SpaceWidth returns the style's space advance in document units.
func (c *Character) SpaceWidth() float64 {
	return c.Metrics.SpaceWidth
}

// Chunk is a maximal run of characters sharing one anchor x-origin.
type Chunk struct {
	X, Y  float64
	Scale float64

	chars []CharID
	line  LineID

	// Next links to the chunk that follows on the same line in x order,
	// or NoChunk.
	Next ChunkID

	// Aggregates and geometry, maintained by recompute.
	Width      float64
	FontSize   float64
	SpaceWidth float64
	CapHeight  float64
	Descender  float64
	Angle      float64
	OffX       float64

	// PenStart and PenEnd are the transformed baseline endpoints.
	PenStart model.Point
	PenEnd   model.Point

	// CumWidths[i] is the advance from the chunk origin to the start of
	// character i; the final entry is the full width.
	CumWidths []float64

	// QuadLocal holds the corners in line-local space, QuadT in
	// transformed space, BB the axis-aligned box of QuadT.
	QuadLocal model.Quad
	QuadT     model.Quad
	BB        model.BBox

	// Pre-merge geometry, recorded when a chunk first takes part in a
	// merge so later chain members still see original positions.
	OrigQuadsT  []model.Quad
	OrigQuadsUT []model.Quad
	OrigBB      model.BBox

	alive bool
}

// Line is one line of text: an ordered sequence of chunks backed by one
// coordinate source element.
type Line struct {
	X, Y svgdoc.Coords

	// InheritX marks a chained line taking its position from the previous
	// line. Role is the nominal chained-line role value.
	InheritX bool
	Role     string
	Anchor   string

	Transform model.Matrix
	Angle     float64

	// El is the element that opened the line; XSrc/YSrc the elements whose
	// x/y attributes position it. ContinueX marks a line whose x is the
	// previous line's trailing pen position.
	El   *svgdoc.Element
	XSrc *svgdoc.Element
	YSrc *svgdoc.Element

	ContinueX bool

	// TopLevelNo is the element's index among the text root's children for
	// top-level lines, -1 for nested ones.
	TopLevelNo int

	Style style.Style

	chars  []CharID
	chunks []ChunkID
	alive  bool
}

// ParsedText is the parsed layout of one text root. It owns the character,
// chunk and line arenas; handles index into them. It is built on demand,
// mutated in place by the repair passes, and discarded once deltas are
// flushed.
type ParsedText struct {
	Doc   *svgdoc.Document
	Root  *svgdoc.Element
	Table *metrics.Table

	// HostAuthored marks text whose multi-line structure follows the host
	// editor's chained-line conventions, exempting it from excess-line
	// splitting.
	HostAuthored bool

	chars  []Character
	chunks []Chunk
	lines  []Line

	lineOrder []LineID

	// Flattened per-character deltas captured at parse time, the baseline
	// for change detection when flushing.
	dxs, dys  []float64
	flatDelta bool
}

// Lines returns the live line handles in document order.
func (pt *ParsedText) Lines() []LineID {
	out := make([]LineID, 0, len(pt.lineOrder))
	for _, id := range pt.lineOrder {
		if pt.lines[id].alive {
			out = append(out, id)
		}
	}
	return out
}

// Line returns the line for a handle. The pointer is valid until the next
// structural mutation.
func (pt *ParsedText) Line(id LineID) *Line {
	return &pt.lines[id]
}

// Chunk returns the chunk for a handle.
func (pt *ParsedText) Chunk(id ChunkID) *Chunk {
	return &pt.chunks[id]
}

// Char returns the character for a handle.
func (pt *ParsedText) Char(id CharID) *Character {
	return &pt.chars[id]
}

// LineOf returns the line owning a character.
func (pt *ParsedText) LineOf(id CharID) LineID {
	return pt.chars[id].line
}

// ChunkOf returns the chunk owning a character.
func (pt *ParsedText) ChunkOf(id CharID) ChunkID {
	return pt.chars[id].chunk
}

// LineOfChunk returns the line owning a chunk.
func (pt *ParsedText) LineOfChunk(id ChunkID) LineID {
	return pt.chunks[id].line
}

// LineChunks returns a line's live chunk handles in order.
func (pt *ParsedText) LineChunks(id LineID) []ChunkID {
	ln := &pt.lines[id]
	out := make([]ChunkID, 0, len(ln.chunks))
	for _, c := range ln.chunks {
		if pt.chunks[c].alive {
			out = append(out, c)
		}
	}
	return out
}

// LineChars returns a line's live character handles in order.
func (pt *ParsedText) LineChars(id LineID) []CharID {
	ln := &pt.lines[id]
	out := make([]CharID, 0, len(ln.chars))
	for _, c := range ln.chars {
		if pt.chars[c].alive {
			out = append(out, c)
		}
	}
	return out
}

// ChunkChars returns a chunk's live character handles in order.
func (pt *ParsedText) ChunkChars(id ChunkID) []CharID {
	ck := &pt.chunks[id]
	out := make([]CharID, 0, len(ck.chars))
	for _, c := range ck.chars {
		if pt.chars[c].alive {
			out = append(out, c)
		}
	}
	return out
}

// Chunks returns every live chunk handle across all lines, in order.
func (pt *ParsedText) Chunks() []ChunkID {
	var out []ChunkID
	for _, ln := range pt.Lines() {
		out = append(out, pt.LineChunks(ln)...)
	}
	return out
}

// AllChars returns every live character handle across all lines, in order.
func (pt *ParsedText) AllChars() []CharID {
	var out []CharID
	for _, ln := range pt.Lines() {
		out = append(out, pt.LineChars(ln)...)
	}
	return out
}

// LineText returns a line's text content.
func (pt *ParsedText) LineText(id LineID) string {
	var sb strings.Builder
	for _, c := range pt.LineChars(id) {
		sb.WriteRune(pt.chars[c].R)
	}
	return sb.String()
}

// ChunkText returns a chunk's text content.
func (pt *ParsedText) ChunkText(id ChunkID) string {
	var sb strings.Builder
	for _, c := range pt.ChunkChars(id) {
		sb.WriteRune(pt.chars[c].R)
	}
	return sb.String()
}

// Text returns the text of every line.
func (pt *ParsedText) Text() []string {
	lines := pt.Lines()
	out := make([]string, len(lines))
	for i, id := range lines {
		out[i] = pt.LineText(id)
	}
	return out
}

// Deltas returns the current per-character dx and dy values in content
// order.
func (pt *ParsedText) Deltas() (dx, dy []float64) {
	for _, id := range pt.AllChars() {
		c := &pt.chars[id]
		dx = append(dx, c.Dx)
		dy = append(dy, c.Dy)
	}
	return dx, dy
}

// newChar appends a character to the arena.
func (pt *ParsedText) newChar(c Character) CharID {
	c.alive = true
	c.chunk = NoChunk
	c.line = NoLine
	pt.chars = append(pt.chars, c)
	return CharID(len(pt.chars) - 1)
}

// newChunk appends a chunk to the arena.
func (pt *ParsedText) newChunk(ck Chunk) ChunkID {
	ck.alive = true
	ck.Next = NoChunk
	pt.chunks = append(pt.chunks, ck)
	return ChunkID(len(pt.chunks) - 1)
}

// newLine appends a line to the arena and the line order.
func (pt *ParsedText) newLine(ln Line) LineID {
	ln.alive = true
	pt.lines = append(pt.lines, ln)
	id := LineID(len(pt.lines) - 1)
	pt.lineOrder = append(pt.lineOrder, id)
	return id
}

package repair

import (
	"math"
	"strings"

	"github.com/textmend/textmend/layout"
)

// Relation classifies how a candidate chunk continues its anchor.
type Relation int

const (
	RelNone Relation = iota

	// RelSame continues the anchor on the same baseline at the same size.
	RelSame

	// RelSub and RelSuper open a sub or superscript run.
	RelSub
	RelSuper

	// RelSubReturn and RelSuperReturn close one, returning to the
	// baseline the anchor script departed from.
	RelSubReturn
	RelSuperReturn
)

func (r Relation) String() string {
	switch r {
	case RelSame:
		return "same"
	case RelSub:
		return "sub"
	case RelSuper:
		return "super"
	case RelSubReturn:
		return "subreturn"
	case RelSuperReturn:
		return "superreturn"
	default:
		return "none"
	}
}

// ChunkRef names a chunk across multiple parsed texts.
type ChunkRef struct {
	PT *layout.ParsedText
	ID layout.ChunkID
}

func (r ChunkRef) chunk() *layout.Chunk {
	return r.PT.Chunk(r.ID)
}

func (r ChunkRef) line() *layout.Line {
	return r.PT.Line(r.PT.LineOfChunk(r.ID))
}

func (r ChunkRef) lineText() string {
	return r.PT.LineText(r.PT.LineOfChunk(r.ID))
}

// Candidate is one possible merge, directed anchor <- cand.
type Candidate struct {
	Anchor ChunkRef
	Cand   ChunkRef
	Rel    Relation

	// Gap is the pen gap along the anchor's baseline in document units.
	Gap float64
}

// Finder builds merge candidates from chunk geometry.
type Finder struct {
	Cfg Config
}

// SameLine returns manual-kerning candidates: each chunk against its known
// successor on the same line, with the looser asymmetric horizontal
// tolerance. Only same-baseline same-size continuations qualify.
func (f *Finder) SameLine(pt *layout.ParsedText) []Candidate {
	var out []Candidate
	for _, id := range pt.Chunks() {
		next := pt.Chunk(id).Next
		if next == layout.NoChunk {
			continue
		}
		a := ChunkRef{PT: pt, ID: id}
		b := ChunkRef{PT: pt, ID: next}
		if rel, gap, ok := f.classify(a, b, true, false); ok && rel == RelSame {
			out = append(out, Candidate{Anchor: a, Cand: b, Rel: rel, Gap: gap})
		}
	}
	return out
}

// External returns cross-element candidates over every ordered chunk pair,
// optionally classifying sub and superscript relations. Each anchor keeps
// only its minimum-gap candidate, and each candidate chunk is claimed by
// only one anchor.
func (f *Finder) External(pts []*layout.ParsedText, subSuper bool) []Candidate {
	var refs []ChunkRef
	for _, pt := range pts {
		for _, id := range pt.Chunks() {
			refs = append(refs, ChunkRef{PT: pt, ID: id})
		}
	}

	best := make(map[ChunkRef]Candidate)
	for _, a := range refs {
		for _, b := range refs {
			if a == b {
				continue
			}
			rel, gap, ok := f.classify(a, b, false, subSuper)
			if !ok {
				continue
			}
			cur, seen := best[a]
			if !seen || gap < cur.Gap {
				best[a] = Candidate{Anchor: a, Cand: b, Rel: rel, Gap: gap}
			}
		}
	}

	claimed := make(map[ChunkRef]bool)
	var out []Candidate
	for _, a := range refs {
		c, ok := best[a]
		if !ok || claimed[c.Cand] {
			continue
		}
		claimed[c.Cand] = true
		out = append(out, c)
	}
	return out
}

// classify tests one ordered pair and names the relation. kern selects the
// manual-kerning tolerances; subSuper enables the script relations.
func (f *Finder) classify(a, b ChunkRef, kern, subSuper bool) (Relation, float64, bool) {
	A, B := a.chunk(), b.chunk()
	la := a.line()

	if math.Abs(angleDiff(A.Angle, B.Angle)) > f.Cfg.AngleTol {
		return RelNone, 0, false
	}

	sw := A.SpaceWidth
	capH := A.CapHeight
	if sw <= 0 || capH <= 0 {
		return RelNone, 0, false
	}
	xtol := f.Cfg.XTolSpaces * sw
	ytol := f.Cfg.YTolCaps * capH

	// Cheap prefilter before the exact frame change.
	if !A.BB.Expand(sw + xtol).Intersects(B.BB) {
		return RelNone, 0, false
	}

	// Candidate's leading pen in the anchor's local frame.
	sf := A.Scale
	if sf == 0 {
		sf = 1
	}
	p := la.Transform.Invert().Transform(B.PenStart)
	rightA := A.X + (A.OffX+A.Width)/sf
	gap := (p.X - rightA) * sf
	dy := (p.Y - A.Y) * sf

	if weightOf(fontWeight(a)) != weightOf(fontWeight(b)) {
		return RelNone, 0, false
	}
	// The characters adjoining the junction must agree on normalized style
	// and fill; the normalized key excludes size, so scripts still pass.
	if junctionKey(a, true) != junctionKey(b, false) {
		return RelNone, 0, false
	}

	// Literal whitespace already accounts for part of the gap.
	extra := sw * float64(trailingSpaces(a.PT.ChunkText(a.ID))+leadingSpaces(b.PT.ChunkText(b.ID)))

	sameSize := relDiff(A.FontSize, B.FontSize) <= f.Cfg.FontSizeTol

	if math.Abs(dy) < ytol && sameSize {
		maxGap := extra + f.Cfg.MaxGapSpaces*sw + xtol
		if kern {
			if gap < -f.Cfg.KernXTolSpaces*sw || gap > maxGap {
				return RelNone, 0, false
			}
		} else {
			if gap < -xtol || gap > maxGap {
				return RelNone, 0, false
			}
			if pureNumeric(a.lineText()) && pureNumeric(b.lineText()) && gap > f.Cfg.NumericGuardSpaces*sw {
				return RelNone, 0, false
			}
		}
		return RelSame, gap, true
	}

	if !subSuper || kern {
		return RelNone, 0, false
	}
	if gap < -xtol || gap > f.Cfg.MaxGapSpaces*sw+xtol {
		return RelNone, 0, false
	}
	if singleLetterParens(b.lineText()) {
		return RelNone, 0, false
	}

	above := -dy
	smaller := B.FontSize/A.FontSize <= f.Cfg.SubSuperMaxRatio
	bigger := A.FontSize/B.FontSize <= f.Cfg.SubSuperMaxRatio

	// Candidate baseline above the anchor's: a superscript opening, or the
	// return from a subscript.
	if above >= f.Cfg.SuperBandCaps*capH && above <= capH+ytol {
		switch {
		case smaller:
			return RelSuper, gap, true
		case bigger:
			return RelSubReturn, gap, true
		default:
			return f.resolveAmbiguous(b, RelSuper, RelSubReturn), gap, true
		}
	}
	// Below: a subscript opening, or the return from a superscript. The
	// band starts closer to the baseline than the superscript one does.
	if dy >= f.Cfg.SubBandCaps*capH && dy <= capH+ytol {
		switch {
		case smaller:
			return RelSub, gap, true
		case bigger:
			return RelSuperReturn, gap, true
		default:
			return f.resolveAmbiguous(b, RelSub, RelSuperReturn), gap, true
		}
	}
	return RelNone, 0, false
}

// resolveAmbiguous picks between a script opening and a return when font
// sizes are too close to tell: short runs read as scripts, longer ones as
// the line resuming.
func (f *Finder) resolveAmbiguous(b ChunkRef, script, ret Relation) Relation {
	n := len([]rune(strings.TrimSpace(b.lineText())))
	if n <= f.Cfg.AmbiguousReturnMaxRunes {
		return script
	}
	return ret
}

func angleDiff(a, b float64) float64 {
	d := a - b
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func relDiff(a, b float64) float64 {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return 0
	}
	return math.Abs(a-b) / m
}

func trailingSpaces(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == ' '; i-- {
		n++
	}
	return n
}

func leadingSpaces(s string) int {
	n := 0
	for i := 0; i < len(s) && s[i] == ' '; i++ {
		n++
	}
	return n
}

// pureNumeric reports whether a line is a bare number, the shape of axis
// tick labels.
func pureNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	digit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r == '.' || r == ',':
		case (r == '-' || r == '+') && i == 0:
		default:
			return false
		}
	}
	return digit
}

// singleLetterParens matches lines like "(a)", which figure panels use as
// labels and which must never be folded into neighboring text as scripts.
func singleLetterParens(s string) bool {
	s = strings.TrimSpace(s)
	rs := []rune(s)
	return len(rs) == 3 && rs[0] == '(' && rs[2] == ')'
}

// junctionKey returns the normalized style-plus-fill key of the character
// adjoining the junction: the anchor's last character, the candidate's
// first.
func junctionKey(r ChunkRef, last bool) string {
	chars := r.PT.ChunkChars(r.ID)
	if len(chars) == 0 {
		return ""
	}
	id := chars[0]
	if last {
		id = chars[len(chars)-1]
	}
	return r.PT.Char(id).ColorKey
}

// fontWeight returns the font weight of a chunk's first character.
func fontWeight(r ChunkRef) string {
	chars := r.PT.ChunkChars(r.ID)
	if len(chars) == 0 {
		return ""
	}
	c := r.PT.Char(chars[0])
	if v := c.Style.Get("font-weight"); v != "" {
		return v
	}
	return "normal"
}

// weightOf maps the keyword weights onto their numeric values.
func weightOf(w string) string {
	switch w {
	case "", "normal":
		return "400"
	case "bold":
		return "700"
	default:
		return w
	}
}

package repair

import (
	"sort"

	"github.com/textmend/textmend/layout"
)

// Splitter separates falsely joined text by cloning the backing element and
// trimming the clone and the original to complementary character sets. The
// original is never touched until the clone is fully trimmed.
type Splitter struct {
	Cfg    Config
	Parser *layout.Parser
}

// charKey addresses a character by its line and character ordinals, which
// survive cloning and reparsing.
type charKey struct {
	line, char int
}

// keysOf collects the ordinal addresses of a set of character handles.
func keysOf(pt *layout.ParsedText, ids []layout.CharID) map[charKey]bool {
	want := make(map[layout.CharID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[charKey]bool, len(ids))
	for li, lid := range pt.Lines() {
		for ci, cid := range pt.LineChars(lid) {
			if want[cid] {
				out[charKey{li, ci}] = true
			}
		}
	}
	return out
}

// splitOff moves the addressed characters into a clone of the backing
// element. The clone is trimmed down to exactly those characters first;
// only then does the original shed them.
func (s *Splitter) splitOff(pt *layout.ParsedText, move map[charKey]bool) (*layout.ParsedText, error) {
	dup := pt.DuplicateRoot()
	ptd, err := s.Parser.Parse(dup)
	if err != nil {
		dup.Detach()
		return nil, err
	}
	trimTo(ptd, func(k charKey) bool { return move[k] })
	trimTo(pt, func(k charKey) bool { return !move[k] })
	ptd.Recompute()
	pt.Recompute()
	return ptd, nil
}

// trimTo deletes every character the keep predicate rejects. Lines that
// survive with inherited positions get explicit ones first, since the line
// they inherit from may not survive alongside them.
func trimTo(pt *layout.ParsedText, keep func(charKey) bool) {
	type target struct {
		id   layout.CharID
		kept bool
		line layout.LineID
	}
	var targets []target
	for li, lid := range pt.Lines() {
		for ci, cid := range pt.LineChars(lid) {
			targets = append(targets, target{cid, keep(charKey{li, ci}), lid})
		}
	}
	for _, t := range targets {
		if t.kept && pt.Line(t.line).InheritX {
			pt.DisableRole(t.line)
		}
	}
	for _, t := range targets {
		if !t.kept {
			pt.DeleteChar(t.id)
		}
	}
}

// chunkCharSet returns the ordinal addresses of one chunk's characters.
func chunkCharSet(pt *layout.ParsedText, id layout.ChunkID) map[charKey]bool {
	return keysOf(pt, pt.ChunkChars(id))
}

// SplitDistantChunks separates same-line chunks whose pen gap exceeds the
// split threshold. Each run beyond a wide gap becomes its own element;
// newly created texts are scanned in turn.
func (s *Splitter) SplitDistantChunks(pt *layout.ParsedText) ([]*layout.ParsedText, error) {
	var created []*layout.ParsedText
	work := []*layout.ParsedText{pt}
	for len(work) > 0 {
		cur := work[0]
		work = work[1:]
		nt, err := s.splitFirstWideGap(cur)
		if err != nil {
			return created, err
		}
		if nt != nil {
			created = append(created, nt)
			work = append(work, cur, nt)
		}
	}
	return created, nil
}

// splitFirstWideGap finds the first over-threshold gap in any line and
// splits everything after it off. Returns nil when no gap qualifies.
func (s *Splitter) splitFirstWideGap(pt *layout.ParsedText) (*layout.ParsedText, error) {
	for _, lid := range pt.Lines() {
		chunks := pt.LineChunks(lid)
		if len(chunks) < 2 {
			continue
		}
		sort.Slice(chunks, func(i, j int) bool {
			return pt.Chunk(chunks[i]).X < pt.Chunk(chunks[j]).X
		})
		for i := 1; i < len(chunks); i++ {
			A := pt.Chunk(chunks[i-1])
			B := pt.Chunk(chunks[i])
			sf := A.Scale
			if sf == 0 {
				sf = 1
			}
			gap := (B.X + B.OffX/sf - (A.X + (A.OffX+A.Width)/sf)) * sf
			if A.SpaceWidth <= 0 || gap <= s.Cfg.SplitGapSpaces*A.SpaceWidth {
				continue
			}
			move := make(map[charKey]bool)
			for _, ck := range chunks[i:] {
				for k := range chunkCharSet(pt, ck) {
					move[k] = true
				}
			}
			return s.splitOff(pt, move)
		}
	}
	return nil, nil
}

// SplitIntraChunk separates characters inside one chunk: over-threshold
// dx gaps, and adjacent pure-numeric tokens, which are split
// unconditionally because evenly spaced numbers are axis labels, not
// words.
func (s *Splitter) SplitIntraChunk(pt *layout.ParsedText) ([]*layout.ParsedText, error) {
	var created []*layout.ParsedText
	for {
		split, nt, err := s.splitFirstIntra(pt)
		if err != nil {
			return created, err
		}
		if !split {
			return created, nil
		}
		if nt != nil {
			created = append(created, nt)
		}
	}
}

func (s *Splitter) splitFirstIntra(pt *layout.ParsedText) (bool, *layout.ParsedText, error) {
	for _, ckid := range pt.Chunks() {
		ck := pt.Chunk(ckid)
		chars := pt.ChunkChars(ckid)
		if len(chars) < 2 {
			continue
		}
		sf := ck.Scale
		if sf == 0 {
			sf = 1
		}
		at := -1
		for i := 1; i < len(chars); i++ {
			if ck.SpaceWidth > 0 && pt.Char(chars[i]).Dx*sf > s.Cfg.SplitGapSpaces*ck.SpaceWidth {
				at = i
				break
			}
		}
		if at < 0 {
			at = numericTokenBoundary(pt.ChunkText(ckid))
		}
		if at <= 0 {
			continue
		}
		// Anchor the tail run before cloning so both halves carry an
		// explicit position.
		x := ck.X + (ck.OffX+ck.CumWidths[at])/sf
		nid := pt.ForceChunkBoundary(chars[at], x)
		pt.Recompute()
		nt, err := s.splitOff(pt, chunkCharSet(pt, nid))
		return true, nt, err
	}
	return false, nil, nil
}

// numericTokenBoundary finds the split point between two adjacent bare
// numbers separated by a space or a minus sign, or -1. Only the tokens on
// either side of the separator matter, so longer runs split one token at a
// time.
func numericTokenBoundary(text string) int {
	rs := []rune(text)
	isNum := func(r rune) bool {
		return (r >= '0' && r <= '9') || r == '.' || r == ','
	}
	// left: digits running back from end, with at most one leading sign.
	left := func(end int) string {
		start := end
		for start > 0 && isNum(rs[start-1]) {
			start--
		}
		if start > 0 && (rs[start-1] == '-' || rs[start-1] == '+') {
			start--
		}
		return string(rs[start:end])
	}
	// right: an optional sign followed by digits.
	right := func(start int) string {
		end := start
		if end < len(rs) && (rs[end] == '-' || rs[end] == '+') {
			end++
		}
		for end < len(rs) && isNum(rs[end]) {
			end++
		}
		return string(rs[start:end])
	}
	for i := 1; i < len(rs); i++ {
		switch rs[i] {
		case '-':
			if pureNumeric(left(i)) && pureNumeric(right(i)) {
				return i
			}
		case ' ':
			if i+1 < len(rs) && pureNumeric(left(i)) && pureNumeric(right(i+1)) {
				return i + 1
			}
		}
	}
	return -1
}

// SplitExcessLines gives every line beyond the first its own element,
// unless the text is host-editor-authored multi-line text, which is left
// exactly as the editor wrote it.
func (s *Splitter) SplitExcessLines(pt *layout.ParsedText) ([]*layout.ParsedText, error) {
	if pt.HostAuthored {
		return nil, nil
	}
	var created []*layout.ParsedText
	for len(pt.Lines()) > 1 {
		second := pt.Lines()[1]
		nt, err := s.splitOff(pt, keysOf(pt, pt.LineChars(second)))
		if err != nil {
			return created, err
		}
		created = append(created, nt)
	}
	return created, nil
}

// SplitToOneChunkPerLine isolates every chunk after a line's first into its
// own element, the shape later merge passes expect.
func (s *Splitter) SplitToOneChunkPerLine(pt *layout.ParsedText) ([]*layout.ParsedText, error) {
	var created []*layout.ParsedText
	for {
		var move map[charKey]bool
		for _, lid := range pt.Lines() {
			chunks := pt.LineChunks(lid)
			if len(chunks) > 1 {
				move = chunkCharSet(pt, chunks[1])
				break
			}
		}
		if move == nil {
			return created, nil
		}
		nt, err := s.splitOff(pt, move)
		if err != nil {
			return created, err
		}
		created = append(created, nt)
	}
}

package repair

import (
	"fmt"
	"math"

	"github.com/textmend/textmend/layout"
	"github.com/textmend/textmend/style"
	"github.com/textmend/textmend/svgdoc"
)

// Executor splices validated chains into their head chunks and keeps the
// backing trees consistent while doing it.
type Executor struct {
	Cfg Config
	Doc *svgdoc.Document
}

// Execute merges every link of a chain into the head chunk, then commits
// the deferred script styles in one finalization step.
func (e *Executor) Execute(ch Chain) {
	head := ch.Head
	state := stateNormal
	for _, link := range ch.Links {
		switch link.Rel {
		case RelSub:
			state = stateSub
		case RelSuper:
			state = stateSuper
		case RelSubReturn, RelSuperReturn:
			state = stateNormal
		}
		e.appendChunk(head, link.Cand, link.Rel, state)
	}
	e.finalize(head)
}

// appendChunk moves every character of cand onto the head chunk. Same-line
// continuations get synthetic spaces when the rounded gap calls for them;
// script characters are marked with a pending style instead of moving the
// baseline.
func (e *Executor) appendChunk(head, cand ChunkRef, rel Relation, state chainState) {
	pt := head.PT
	A := pt.Chunk(head.ID)
	B := cand.PT.Chunk(cand.ID)

	pt.RecordOrigQuads(head.ID)
	cand.PT.RecordOrigQuads(cand.ID)

	// The merged-away element's clip must keep applying to its text.
	if cand.PT.Root != pt.Root {
		e.Doc.UnionClipInto(pt.Root, cand.PT.Root)
	}

	sf := A.Scale
	if sf == 0 {
		sf = 1
	}
	la := head.line()
	p := la.Transform.Invert().Transform(B.PenStart)
	gap := (p.X - (A.X + (A.OffX+A.Width)/sf)) * sf

	preLeft := A.X + A.OffX/sf

	e.reappendNested(head)

	if rel == RelSame && state == stateNormal {
		numsp := int(math.Round(gap / A.SpaceWidth))
		if numsp >= 1 && trailingSpaces(pt.ChunkText(head.ID)) == 0 &&
			leadingSpaces(cand.PT.ChunkText(cand.ID)) == 0 {
			for i := 0; i < numsp; i++ {
				e.appendSpace(head)
			}
		}
	}

	// Script sizing relative to the surrounding text, committed later.
	var pend *style.Style
	if state != stateNormal {
		pct := int(math.Round(B.SpaceWidth / A.SpaceWidth * 100))
		shift := "sub"
		if state == stateSuper {
			shift = "super"
		}
		s := style.MustParse(fmt.Sprintf("font-size:%d%%;baseline-shift:%s", pct, shift))
		pend = &s
	}

	srcChars := cand.PT.ChunkChars(cand.ID)
	copies := make([]layout.Character, len(srcChars))
	for i, cid := range srcChars {
		copies[i] = *cand.PT.Char(cid)
	}
	for _, cid := range srcChars {
		cand.PT.DeleteChar(cid)
	}
	for _, c := range copies {
		id := pt.AppendChar(head.ID, c, c.Dx, 0)
		nc := pt.Char(id)
		switch state {
		case stateSub:
			nc.Kind = layout.KindSub
		case stateSuper:
			nc.Kind = layout.KindSuper
		}
		if pend != nil {
			nc.PendingStyle = pend
		}
	}

	pt.Recompute()
	e.fixPosition(head, preLeft)
}

// appendSpace adds one literal space styled like the head chunk's last
// character.
func (e *Executor) appendSpace(head ChunkRef) {
	pt := head.PT
	chars := pt.ChunkChars(head.ID)
	last := *pt.Char(chars[len(chars)-1])
	sp, err := pt.Table.Get(' ', last.StyleKey)
	if err != nil {
		return
	}
	last.R = ' '
	last.Metrics = sp.Scale(last.FontSize)
	last.Kind = layout.KindNormal
	last.PendingStyle = nil
	pt.AppendChar(head.ID, last, 0, 0)
}

// reappendNested rebuilds the head chunk's trailing characters when they
// live in a nested span, so appended text lands in the plain run and not
// inside someone else's styling. The nested characters come back with
// their style difference deferred, like any script run.
func (e *Executor) reappendNested(head ChunkRef) {
	pt := head.PT
	chars := pt.ChunkChars(head.ID)
	if len(chars) < 2 {
		return
	}
	base := pt.Char(chars[0]).Loc.El
	cut := len(chars)
	for cut > 0 && pt.Char(chars[cut-1]).Loc.El != base {
		cut--
	}
	if cut == len(chars) || cut == 0 {
		return
	}

	baseStyle := pt.Char(chars[cut-1]).Style
	copies := make([]layout.Character, 0, len(chars)-cut)
	for _, cid := range chars[cut:] {
		copies = append(copies, *pt.Char(cid))
	}
	for _, cid := range chars[cut:] {
		pt.DeleteChar(cid)
	}
	for _, c := range copies {
		id := pt.AppendChar(head.ID, c, c.Dx, c.Dy)
		if c.PendingStyle != nil {
			continue
		}
		if diff := styleDiff(c.Style, baseStyle); diff.Len() > 0 {
			d := diff
			pt.Char(id).PendingStyle = &d
		}
	}
}

// finalize applies every pending style collected during the chain in one
// pass, and zeroes letter-spacing on the merged element, whose characters
// now carry their spacing as literal text.
func (e *Executor) finalize(head ChunkRef) {
	pt := head.PT
	for _, cid := range pt.ChunkChars(head.ID) {
		c := pt.Char(cid)
		if c.PendingStyle == nil {
			continue
		}
		pend := *c.PendingStyle
		c.PendingStyle = nil
		pt.StyleSpan(cid, pend)
	}
	if v := head.line().Style.Get("letter-spacing"); v != "" && v != "0" && v != "0px" {
		rootStyle := style.MustParse(pt.Root.Attr("style"))
		rootStyle.Set("letter-spacing", "0")
		pt.Root.SetAttr("style", rootStyle.String())
	}
	pt.Recompute()
}

// fixPosition nudges the chunk anchor so its left pen edge stays where it
// was before the merge widened it.
func (e *Executor) fixPosition(head ChunkRef, preLeft float64) {
	A := head.PT.Chunk(head.ID)
	sf := A.Scale
	if sf == 0 {
		sf = 1
	}
	left := A.X + A.OffX/sf
	if math.Abs(left-preLeft) < 1e-12 {
		return
	}
	head.PT.SetChunkX(head.ID, A.X+(preLeft-left))
	head.PT.Recompute()
}

// styleDiff returns the declarations of a that b lacks or sets differently.
func styleDiff(a, b style.Style) style.Style {
	out := style.New()
	for _, k := range a.Keys() {
		av := a.Get(k)
		if b.Get(k) != av {
			out.Set(k, av)
		}
	}
	return out
}

package layout

import (
	"github.com/textmend/textmend/svgdoc"
)

// A deltaSlot is one position in a text root's flattened content order.
// Every character occupies a slot, and each chained top-level tspan is
// followed by one implicit slot for the line break it implies, which
// consumes a dx/dy entry without moving any character.
type deltaSlot struct {
	char CharID
	loc  Loc
}

const lineBreakSlot = NoChar

// contentSlots flattens the text root into slot order and records the
// first slot owned by each element's subtree.
func (pt *ParsedText) contentSlots() ([]deltaSlot, map[*svgdoc.Element]int) {
	byLoc := make(map[Loc]CharID)
	for i := range pt.chars {
		if pt.chars[i].alive {
			byLoc[pt.chars[i].Loc] = CharID(i)
		}
	}

	var slots []deltaSlot
	first := make(map[*svgdoc.Element]int)
	var pending []*svgdoc.Element

	emit := func(s deltaSlot) {
		for _, el := range pending {
			first[el] = len(slots)
		}
		pending = pending[:0]
		slots = append(slots, s)
	}
	charSlot := func(el *svgdoc.Element, tail bool, i int) {
		loc := Loc{El: el, Tail: tail, Index: i}
		id, ok := byLoc[loc]
		if !ok {
			id = lineBreakSlot
		}
		emit(deltaSlot{char: id, loc: loc})
	}

	var walk func(el *svgdoc.Element)
	walk = func(el *svgdoc.Element) {
		pending = append(pending, el)
		for i := range []rune(el.Text) {
			charSlot(el, false, i)
		}
		for _, k := range el.Children() {
			if !k.IsTextual() {
				continue
			}
			walk(k)
			if k.Role() == svgdoc.RoleLine && k.Parent() == pt.Root {
				emit(deltaSlot{char: lineBreakSlot})
			}
			for i := range []rune(k.Tail) {
				charSlot(k, true, i)
			}
		}
	}
	walk(pt.Root)
	return slots, first
}

// applyDeltas reads every dx and dy attribute under the root and assigns
// the values to characters in content order. An element's values start at
// its subtree's first slot; deeper elements assign after shallower ones
// and win where they overlap.
func (pt *ParsedText) applyDeltas() {
	slots, first := pt.contentSlots()
	dx := make([]float64, len(slots))
	dy := make([]float64, len(slots))

	for _, el := range pt.Root.Descendants() {
		if !el.IsTextual() {
			continue
		}
		start, ok := first[el]
		if !ok {
			continue
		}
		assign := func(name string, out []float64) {
			if !el.HasAttr(name) {
				return
			}
			for j, c := range el.Coords(name) {
				if c.Absent || start+j >= len(out) {
					continue
				}
				out[start+j] = c.Value
			}
		}
		assign("dx", dx)
		assign("dy", dy)
	}

	for i, s := range slots {
		if s.char == lineBreakSlot {
			continue
		}
		pt.chars[s.char].Dx = dx[i]
		pt.chars[s.char].Dy = dy[i]
	}
}

// flatDeltas returns the current dx and dy values in content order, with
// zeros in line-break slots.
func (pt *ParsedText) flatDeltas() (dx, dy []float64) {
	slots, _ := pt.contentSlots()
	dx = make([]float64, len(slots))
	dy = make([]float64, len(slots))
	for i, s := range slots {
		if s.char == lineBreakSlot {
			continue
		}
		dx[i] = pt.chars[s.char].Dx
		dy[i] = pt.chars[s.char].Dy
	}
	return dx, dy
}

// FlushDeltas writes character deltas back to the tree when they differ
// from the values read at parse time. The full flattened lists land on the
// text root and dx/dy attributes on descendants are removed, so one
// attribute pair describes the whole element.
func (pt *ParsedText) FlushDeltas() {
	dx, dy := pt.flatDeltas()
	if pt.flatDelta && floatsEqual(dx, pt.dxs) && floatsEqual(dy, pt.dys) {
		return
	}
	writeFlat := func(name string, vals []float64) {
		for _, el := range pt.Root.Descendants() {
			if el != pt.Root {
				el.RemoveAttr(name)
			}
		}
		end := len(vals)
		for end > 0 && vals[end-1] == 0 {
			end--
		}
		if end == 0 {
			pt.Root.RemoveAttr(name)
			return
		}
		out := make(svgdoc.Coords, end)
		for i, v := range vals[:end] {
			out[i] = svgdoc.Num(v)
		}
		pt.Root.SetCoords(name, out)
	}
	writeFlat("dx", dx)
	writeFlat("dy", dy)
	pt.dxs, pt.dys = dx, dy
	pt.flatDelta = true
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

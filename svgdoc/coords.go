package svgdoc

import (
	"strconv"
	"strings"
)

// Coord is one entry of a position array: either a number or absent. Absent
// entries mean the coordinate is inherited.
type Coord struct {
	Value  float64
	Absent bool
}

// Num returns a concrete coordinate.
func Num(v float64) Coord {
	return Coord{Value: v}
}

// None returns an absent coordinate.
func None() Coord {
	return Coord{Absent: true}
}

// Coords is an ordered position array as stored in the x/y/dx/dy attributes.
type Coords []Coord

// ParseCoords parses a whitespace-separated coordinate list. The literal
// "none" marks an absent entry. Unparsable entries also become absent rather
// than failing, matching host-editor behavior.
func ParseCoords(s string) Coords {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	out := make(Coords, 0, len(fields))
	for _, f := range fields {
		if strings.EqualFold(f, "none") {
			out = append(out, None())
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			out = append(out, None())
			continue
		}
		out = append(out, Num(v))
	}
	return out
}

// String serializes the coordinate list; absent entries become "none".
func (c Coords) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		if v.Absent {
			parts[i] = "none"
		} else {
			parts[i] = strconv.FormatFloat(v.Value, 'f', -1, 64)
		}
	}
	return strings.Join(parts, " ")
}

// Clone returns an independent copy.
func (c Coords) Clone() Coords {
	if c == nil {
		return nil
	}
	out := make(Coords, len(c))
	copy(out, c)
	return out
}

// Values returns the concrete entries in order, skipping absent ones.
func (c Coords) Values() []float64 {
	var out []float64
	for _, v := range c {
		if !v.Absent {
			out = append(out, v.Value)
		}
	}
	return out
}

// AllAbsent reports whether no entry carries a number.
func (c Coords) AllAbsent() bool {
	for _, v := range c {
		if !v.Absent {
			return false
		}
	}
	return true
}

// Delete removes the entry at index i.
func (c Coords) Delete(i int) Coords {
	return append(c[:i:i], c[i+1:]...)
}

// Insert places v at index i.
func (c Coords) Insert(i int, v Coord) Coords {
	out := make(Coords, 0, len(c)+1)
	out = append(out, c[:i]...)
	out = append(out, v)
	return append(out, c[i:]...)
}

// Coords reads a position array attribute (x, y, dx or dy). A missing
// attribute yields a single absent entry, which forces inheritance.
func (e *Element) Coords(name string) Coords {
	if !e.HasAttr(name) {
		return Coords{None()}
	}
	c := ParseCoords(e.Attr(name))
	if len(c) == 0 {
		return Coords{None()}
	}
	return c
}

// SetCoords writes a position array attribute. A nil or empty list removes
// the attribute.
func (e *Element) SetCoords(name string, c Coords) {
	if len(c) == 0 {
		e.RemoveAttr(name)
		return
	}
	e.SetAttr(name, c.String())
}

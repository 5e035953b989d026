package style

import (
	"sort"
	"strings"
)

// Style is an ordered set of CSS-like property declarations, as found in an
// SVG style attribute. The zero value is an empty style.
type Style struct {
	keys []string
	vals map[string]string
}

// New returns an empty style.
func New() Style {
	return Style{vals: make(map[string]string)}
}

// Get returns the value for prop, or "" if unset.
func (s Style) Get(prop string) string {
	if s.vals == nil {
		return ""
	}
	return s.vals[prop]
}

// Has reports whether prop is set.
func (s Style) Has(prop string) bool {
	if s.vals == nil {
		return false
	}
	_, ok := s.vals[prop]
	return ok
}

// Set assigns prop to value, preserving first-set ordering. Setting a prop to
// "" removes it.
func (s *Style) Set(prop, value string) {
	if s.vals == nil {
		s.vals = make(map[string]string)
	}
	if value == "" {
		s.Delete(prop)
		return
	}
	if _, ok := s.vals[prop]; !ok {
		s.keys = append(s.keys, prop)
	}
	s.vals[prop] = value
}

// Delete removes prop from the style.
func (s *Style) Delete(prop string) {
	if s.vals == nil {
		return
	}
	if _, ok := s.vals[prop]; !ok {
		return
	}
	delete(s.vals, prop)
	for i, k := range s.keys {
		if k == prop {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of declarations.
func (s Style) Len() int {
	return len(s.keys)
}

// Keys returns the property names in declaration order.
func (s Style) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Clone returns an independent copy.
func (s Style) Clone() Style {
	c := New()
	for _, k := range s.keys {
		c.Set(k, s.vals[k])
	}
	return c
}

// Merge overlays other onto s: other's declarations win. The receiver is
// unchanged; the merged style is returned.
func (s Style) Merge(other Style) Style {
	out := s.Clone()
	for _, k := range other.keys {
		out.Set(k, other.vals[k])
	}
	return out
}

// Equal reports whether two styles hold the same declarations, order ignored.
func (s Style) Equal(other Style) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	for _, k := range s.keys {
		if s.vals[k] != other.Get(k) {
			return false
		}
	}
	return true
}

// String serializes the style in declaration order as "a:1;b:2".
func (s Style) String() string {
	parts := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		parts = append(parts, k+":"+s.vals[k])
	}
	return strings.Join(parts, ";")
}

// SortedString serializes with properties in alphabetical order, which makes
// the result usable as a map key.
func (s Style) SortedString() string {
	keys := s.Keys()
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+s.vals[k])
	}
	return strings.Join(parts, ";")
}

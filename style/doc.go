// Package style parses and manipulates SVG style attributes.
//
// [Style] is an ordered declaration set with map-like access. [Parse] reads
// the contents of a style attribute, and [Normalize] reduces a style to the
// shape-affecting attributes used as a character-metrics cache key: the same
// glyph rendered at different sizes or colors shares one normalized style.
package style

// Package svgdoc provides the in-memory SVG element tree that the layout and
// repair packages read and mutate.
//
// The tree follows the lxml convention used by vector editors: an element's
// character data before its first child is Text, and the data after its end
// tag belongs to the parent's content as the element's Tail. Character
// positions live in the x/y/dx/dy attributes as ordered numeric-or-absent
// arrays ([Coords]); an absent entry forces inheritance.
//
// The package also resolves the pieces of document state that text layout
// depends on: cascaded styles, composed transforms ([Element.ComposedTransform]),
// effective font size and line height ([ComposedFontSize],
// [ComposedLineHeight]), and clip-path bookkeeping ([Document.UnionClipInto]).
//
// [Parse] and [Document.String] convert between markup and trees; parsing is
// lenient the way editors are, and serialization preserves text verbatim so
// that a parse-serialize round trip of untouched text is exact.
package svgdoc

// Package model provides the geometric primitives shared by the layout and
// repair packages.
//
// All coordinates are SVG user units with the y axis pointing down. The three
// core types are:
//
//   - [Point] - a 2D point
//   - [BBox] - an axis-aligned bounding box (X, Y is the top-left corner)
//   - [Matrix] - a 2D affine transform in SVG (a b c d e f) order
//
// [Quad] holds the four corners of a text run (baseline and cap-height edges)
// in drawing order, and converts between local and transformed space.
package model

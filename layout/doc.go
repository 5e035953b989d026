// Package layout parses SVG text elements into a line, chunk and character
// model that mirrors how renderers and host editors position the text.
//
// A Line corresponds to one coordinate source element; a Chunk is a maximal
// run of characters anchored at one x value; a Character carries its rune,
// measured metrics, cascaded style and true location in the element tree.
// The three levels cross-reference each other through integer handles into
// arenas owned by ParsedText, and every structural mutation keeps the model,
// the coordinate attributes and the tree content consistent with each other.
package layout

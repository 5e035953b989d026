// Package metrics defines the measurement contract between the text engine
// and whatever renders glyphs, and the per-run character table built on it.
//
// The engine never measures text ad hoc. A [Table] is filled in two phases:
// every (normalized style, character) pair that a run will touch is
// registered first, then a single batched [Oracle] call measures all probe
// strings at once. After that, [Table.Get] is a pure lookup - a miss is a
// programming error ([ErrNoStyleMatch], [ErrNoCharMatch]), never a default.
//
// Widths are isolated with trailing-space probes: the width of a space is the
// difference between a fixed "pI" probe padded with three and with two
// spaces, and each character's advance is its padded probe width minus one
// space. The "pI" probe doubles as the source of cap height (I) and
// descender depth (p).
package metrics

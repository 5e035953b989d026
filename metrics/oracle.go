package metrics

import "github.com/textmend/textmend/model"

// Probe is one measurement request: a probe string rendered in a normalized
// style (see style.NormalizeKey).
type Probe struct {
	Style string
	Text  string
}

// Oracle measures probe strings. Implementations return one ink box per
// probe, in request order, from a single synchronous batch.
//
// An ink box is expressed in baseline coordinates with y growing downward:
// X is the left ink edge relative to the anchor, Top is negative above the
// baseline, Bottom is the descender depth, and the right edge sits at the pen
// position after the last rendered glyph. Host editors do not render the
// final trailing space of a run, so a probe's last trailing space contributes
// no advance; the character table's probe arithmetic is built on that
// convention.
type Oracle interface {
	Measure(probes []Probe) ([]model.BBox, error)
}

// Package fakeoracle provides a deterministic metrics.Oracle for tests:
// a synthetic font with fixed advances, so geometry assertions can use exact
// numbers instead of real font tables.
package fakeoracle

import (
	"strings"

	"github.com/textmend/textmend/metrics"
	"github.com/textmend/textmend/model"
)

// Oracle measures probes against a synthetic font. All metrics are for a
// 1-unit font size, matching the normalized styles the character table uses.
type Oracle struct {
	// CharWidth is the advance of any character without an explicit entry.
	CharWidth float64

	// SpaceWidth is the advance of a space.
	SpaceWidth float64

	// CapHeight and Descender shape the vertical ink extents.
	CapHeight float64
	Descender float64

	// Advances overrides the advance of individual characters.
	Advances map[rune]float64

	// Calls counts Measure invocations, letting tests assert the
	// one-batched-call contract.
	Calls int
}

// New returns an oracle with round default metrics: character 0.5, space
// 0.25, cap height 0.7, descender 0.2.
func New() *Oracle {
	return &Oracle{
		CharWidth:  0.5,
		SpaceWidth: 0.25,
		CapHeight:  0.7,
		Descender:  0.2,
	}
}

// Advance returns the advance of a single character.
func (o *Oracle) Advance(r rune) float64 {
	if o.Advances != nil {
		if w, ok := o.Advances[r]; ok {
			return w
		}
	}
	if r == ' ' {
		return o.SpaceWidth
	}
	return o.CharWidth
}

// Measure implements metrics.Oracle. The final trailing space of a probe is
// not rendered and contributes no advance, per the oracle contract.
func (o *Oracle) Measure(probes []metrics.Probe) ([]model.BBox, error) {
	o.Calls++
	out := make([]model.BBox, len(probes))
	for i, p := range probes {
		text := p.Text
		text = strings.TrimSuffix(text, " ")
		var adv float64
		for _, r := range text {
			adv += o.Advance(r)
		}
		out[i] = model.NewBBox(0, -o.CapHeight, adv, o.CapHeight+o.Descender)
	}
	return out, nil
}

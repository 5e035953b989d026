package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/textmend/textmend/style"
	"github.com/textmend/textmend/svgdoc"
)

// Errors reported by Table.Get. Both indicate a programming error: every
// (style, char) pair must be registered before measuring, and geometry must
// never run against a defaulted metric.
var (
	ErrNoStyleMatch = errors.New("metrics: style was not registered")
	ErrNoCharMatch  = errors.New("metrics: character was not registered for style")
)

// capProbe measures cap height ("I") and descender depth ("p") in one string.
const capProbe = "pI"

// TableConfig configures a character table.
type TableConfig struct {
	// KernPairs enables per-pair kerning probes. Slower (quadratic in the
	// character set per style) but exact for fonts with heavy kerning.
	KernPairs bool
}

// DefaultTableConfig returns the default configuration.
func DefaultTableConfig() TableConfig {
	return TableConfig{KernPairs: false}
}

// CharMetrics holds the measured geometry of one character in one normalized
// style, for a composed font size of 1 user unit.
type CharMetrics struct {
	Char rune

	// Width is the full advance width, including the character's side
	// bearings.
	Width float64

	// SpaceWidth is the advance of a space in the same style.
	SpaceWidth float64

	// XOffset is how far the ink starts from the left anchor.
	XOffset float64

	// CapHeight is the height of flat capitals above the baseline.
	CapHeight float64

	// Descender is the depth of p/q tails below the baseline.
	Descender float64

	// Kerns maps a preceding character to the extra advance it adds before
	// this one. Nil unless KernPairs is enabled.
	Kerns map[rune]float64
}

// Scale returns the metrics multiplied to a composed font size.
func (m CharMetrics) Scale(f float64) CharMetrics {
	out := m
	out.Width *= f
	out.SpaceWidth *= f
	out.XOffset *= f
	out.CapHeight *= f
	out.Descender *= f
	if m.Kerns != nil {
		out.Kerns = make(map[rune]float64, len(m.Kerns))
		for k, v := range m.Kerns {
			out.Kerns[k] = v * f
		}
	}
	return out
}

// Table is the per-run character metrics cache. Usage is two-phase: register
// every (style, char) pair that will be encountered, then issue one Measure
// call, then read with Get. It is created per run and discarded with it.
type Table struct {
	cfg      TableConfig
	chars    map[string]map[rune]bool
	props    map[string]map[rune]CharMetrics
	measured bool
}

// NewTable creates an empty table.
func NewTable(cfg TableConfig) *Table {
	return &Table{
		cfg:   cfg,
		chars: make(map[string]map[rune]bool),
	}
}

// Register records that the characters of text will be needed in the given
// normalized style. The space character is always included so that synthetic
// spacing can be measured for every style.
func (t *Table) Register(styleKey, text string) {
	set := t.chars[styleKey]
	if set == nil {
		set = make(map[rune]bool)
		t.chars[styleKey] = set
	}
	set[' '] = true
	for _, r := range text {
		set[r] = true
	}
}

// RegisterTree walks a text element tree and registers every character it
// contains under the normalized style that shapes it. Text belongs to its
// element; tails belong to the element's parent.
func (t *Table) RegisterTree(el *svgdoc.Element) {
	for _, d := range el.Descendants() {
		if !d.IsTextual() {
			continue
		}
		if d.Text != "" {
			t.Register(style.NormalizeKey(d.CascadedStyle()), d.Text)
		}
		if d.IsTspan() && d.Tail != "" && d.Parent() != nil {
			t.Register(style.NormalizeKey(d.Parent().CascadedStyle()), d.Tail)
		}
	}
}

// Measure issues the single batched oracle call and derives per-character
// metrics from the probe geometry. Character width is isolated by measuring
// the character padded with two trailing spaces and subtracting one space
// width; the space width itself is the difference between the "pI" probe
// padded with three and with two spaces.
func (t *Table) Measure(o Oracle) error {
	type probeKey struct {
		style string
		char  rune
		prec  rune // 0 for single-char probes
		kind  int  // 0 char, 1 capProbe+2sp, 2 capProbe+3sp, 3 kern pair
	}

	var probes []Probe
	var keys []probeKey

	add := func(k probeKey, text string) {
		probes = append(probes, Probe{Style: k.style, Text: text})
		keys = append(keys, k)
	}

	for sk, set := range t.chars {
		for c := range set {
			add(probeKey{style: sk, char: c}, string(c)+"  ")
			if t.cfg.KernPairs {
				for p := range set {
					add(probeKey{style: sk, char: c, prec: p, kind: 3}, string(p)+string(c)+"  ")
				}
			}
		}
		add(probeKey{style: sk, kind: 1}, capProbe+"  ")
		add(probeKey{style: sk, kind: 2}, capProbe+"   ")
	}

	boxes, err := o.Measure(probes)
	if err != nil {
		return fmt.Errorf("measure character probes: %w", err)
	}
	if len(boxes) != len(probes) {
		return fmt.Errorf("measure character probes: got %d boxes for %d probes", len(boxes), len(probes))
	}

	// Raw right edges and ink extents per probe.
	rights := make(map[probeKey]float64, len(keys))
	lefts := make(map[probeKey]float64, len(keys))
	tops := make(map[probeKey]float64, len(keys))
	bottoms := make(map[probeKey]float64, len(keys))
	for i, k := range keys {
		bb := boxes[i]
		rights[k] = bb.Right()
		lefts[k] = bb.Left()
		tops[k] = bb.Top()
		bottoms[k] = bb.Bottom()
	}

	t.props = make(map[string]map[rune]CharMetrics, len(t.chars))
	for sk, set := range t.chars {
		cap2 := probeKey{style: sk, kind: 1}
		cap3 := probeKey{style: sk, kind: 2}
		sw := rights[cap3] - rights[cap2]
		capHeight := -tops[cap3]
		descender := bottoms[cap3]

		styleProps := make(map[rune]CharMetrics, len(set))
		for c := range set {
			pk := probeKey{style: sk, char: c}
			cw := rights[pk] - sw
			xo := lefts[pk]
			if c == ' ' {
				cw = sw
				xo = 0
			}
			cm := CharMetrics{
				Char:       c,
				Width:      cw,
				SpaceWidth: sw,
				XOffset:    xo,
				CapHeight:  capHeight,
				Descender:  descender,
			}
			if t.cfg.KernPairs {
				cm.Kerns = make(map[rune]float64, len(set))
				for p := range set {
					pairK := probeKey{style: sk, char: c, prec: p, kind: 3}
					pcw := rights[probeKey{style: sk, char: p}] - sw
					if p == ' ' {
						pcw = sw
					}
					bothW := rights[pairK] - sw
					kern := bothW - pcw - cw
					if math.Abs(kern) > 1e-9 {
						cm.Kerns[p] = kern
					}
				}
			}
			styleProps[c] = cm
		}
		t.props[sk] = styleProps
	}
	t.measured = true
	return nil
}

// Get returns the metrics for a character in a normalized style. It fails
// when the pair was never registered: defaulting here would silently corrupt
// every downstream geometry computation.
func (t *Table) Get(c rune, styleKey string) (CharMetrics, error) {
	sp, ok := t.props[styleKey]
	if !ok {
		return CharMetrics{}, fmt.Errorf("get %q in style %q: %w", string(c), styleKey, ErrNoStyleMatch)
	}
	cm, ok := sp[c]
	if !ok {
		return CharMetrics{}, fmt.Errorf("get %q in style %q: %w", string(c), styleKey, ErrNoCharMatch)
	}
	return cm, nil
}

// Measured reports whether the batched measurement has run.
func (t *Table) Measured() bool {
	return t.measured
}

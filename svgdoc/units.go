package svgdoc

import (
	"strconv"
	"strings"

	"github.com/textmend/textmend/model"
)

// DefaultFontSize is the user-unit font size assumed when no font-size is
// set anywhere in the cascade.
const DefaultFontSize = 12.0

// DefaultLineHeightRatio is the line-height applied for "normal" or when
// line-height is unset.
const DefaultLineHeightRatio = 1.25

// ParseLength converts a CSS length to user units (px). Unitless values are
// taken as px. Percentages are not lengths and return false, as do
// unparsable values.
func ParseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	factor := 1.0
	for suffix, f := range lengthUnits {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			factor = f
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v * factor, true
}

var lengthUnits = map[string]float64{
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"mm": 96.0 / 25.4,
	"cm": 96.0 / 2.54,
	"in": 96,
}

// ComposedFontSize resolves the element's effective font size in document
// units. It returns the scaled size, the length scale factor of the composed
// transform, the composed transform itself, and its rotation in radians.
//
// Percentage sizes resolve against the parent's composed size. An unset size
// falls back to DefaultFontSize user units.
func ComposedFontSize(e *Element) (fs, sf float64, m model.Matrix, angle float64) {
	cs := e.CascadedStyle()
	m = e.ComposedTransform()
	sf = m.ScaleFactor()
	angle = m.Angle()

	sc := cs.Get("font-size")
	if strings.HasSuffix(sc, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(sc, "%"), 64)
		if err == nil && e.parent != nil {
			pfs, _, _, _ := ComposedFontSize(e.parent)
			return pfs * pct / 100, sf, m, angle
		}
		sc = ""
	}
	if v, ok := ParseLength(sc); ok {
		return v * sf, sf, m, angle
	}
	return DefaultFontSize * sf, sf, m, angle
}

// ComposedLineHeight resolves the element's effective line height in document
// units: the line-height ratio times the composed font size.
func ComposedLineHeight(e *Element) float64 {
	cs := e.CascadedStyle()
	ratio := DefaultLineHeightRatio

	switch sc := strings.TrimSpace(cs.Get("line-height")); {
	case sc == "" || strings.EqualFold(sc, "normal"):
	case strings.HasSuffix(sc, "%"):
		if v, err := strconv.ParseFloat(strings.TrimSuffix(sc, "%"), 64); err == nil {
			ratio = v / 100
		}
	default:
		if v, err := strconv.ParseFloat(sc, 64); err == nil {
			ratio = v
		}
	}

	fs, _, _, _ := ComposedFontSize(e)
	return ratio * fs
}

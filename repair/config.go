package repair

// Config holds the numeric tolerances of the merge and split passes. All
// space-width and cap-height relative values scale with the text they are
// applied to, so one config works across font sizes.
type Config struct {
	// AngleTol is the maximum rotation difference, in radians, between two
	// chunks considered for merging.
	AngleTol float64

	// XTolSpaces and YTolCaps are the positional slack for classification:
	// horizontal as a fraction of the space width, vertical as a fraction
	// of the cap height.
	XTolSpaces float64
	YTolCaps   float64

	// MaxGapSpaces is the widest pen gap, in space widths, that still
	// merges two same-line chunks. Literal spaces on either side of the
	// gap extend it.
	MaxGapSpaces float64

	// FontSizeTol is the relative font-size difference two chunks may have
	// and still count as the same size.
	FontSizeTol float64

	// SubSuperMaxRatio is the largest small-to-large font-size ratio that
	// still reads as a sub or superscript.
	SubSuperMaxRatio float64

	// SuperBandCaps and SubBandCaps are the minimum baseline offsets, in
	// cap heights, for super and subscript classification. The bands are
	// asymmetric: descenders sit closer to the baseline than cap tops.
	SuperBandCaps float64
	SubBandCaps   float64

	// NumericGuardSpaces caps the pen gap, in space widths, for merging
	// two pure-number lines. Axis tick labels are evenly spaced numbers;
	// merging them destroys the axis.
	NumericGuardSpaces float64

	// AmbiguousReturnMaxRunes resolves near-equal-size script candidates:
	// runs of at most this many runes read as a new sub/superscript,
	// longer runs as a return to the baseline.
	AmbiguousReturnMaxRunes int

	// KernXTolSpaces is the looser horizontal slack of the manual-kerning
	// adjacency test, which only ever looks at a chunk's known successor.
	KernXTolSpaces float64

	// SplitGapSpaces is the pen gap, in space widths, beyond which
	// same-line chunks are considered separate texts and split apart.
	SplitGapSpaces float64
}

// DefaultConfig returns the tolerances used by the standard passes.
func DefaultConfig() Config {
	return Config{
		AngleTol:                0.001,
		XTolSpaces:              0.5,
		YTolCaps:                0.1,
		MaxGapSpaces:            1.5,
		FontSizeTol:             0.001,
		SubSuperMaxRatio:        0.9,
		SuperBandCaps:           1.0 / 3.0,
		SubBandCaps:             0.25,
		NumericGuardSpaces:      0.25,
		AmbiguousReturnMaxRunes: 2,
		KernXTolSpaces:          2.0,
		SplitGapSpaces:          2.0,
	}
}

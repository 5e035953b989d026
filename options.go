package textmend

import (
	"github.com/textmend/textmend/metrics"
	"github.com/textmend/textmend/repair"
)

// Justification selects the text-anchor rewritten onto repaired lines.
type Justification int

const (
	// JustifyNone leaves each line's anchor untouched.
	JustifyNone Justification = iota
	JustifyStart
	JustifyMiddle
	JustifyEnd
)

// anchor returns the text-anchor value for the justification, or "" for
// JustifyNone.
func (j Justification) anchor() string {
	switch j {
	case JustifyStart:
		return "start"
	case JustifyMiddle:
		return "middle"
	case JustifyEnd:
		return "end"
	}
	return ""
}

func (j Justification) String() string {
	if s := j.anchor(); s != "" {
		return s
	}
	return "none"
}

// RepairOptions holds configuration for a repair run.
type RepairOptions struct {
	// Merge passes
	removeManualKerning bool
	mergeNearby         bool
	mergeSubSuper       bool

	// Split passes
	splitDistant bool

	// Post-merge rewrites
	justification Justification

	// Tolerances for candidate classification and splitting
	repair repair.Config

	// Character measurement
	metrics metrics.TableConfig
}

// defaultOptions returns the default repair options: nearby and
// sub/superscript merging on, distant splitting on, manual-kerning removal
// off, justification untouched.
func defaultOptions() RepairOptions {
	return RepairOptions{
		removeManualKerning: false,
		mergeNearby:         true,
		mergeSubSuper:       true,
		splitDistant:        true,
		justification:       JustifyNone,
		repair:              repair.DefaultConfig(),
		metrics:             metrics.DefaultTableConfig(),
	}
}

// clone creates a copy of RepairOptions.
func (o RepairOptions) clone() RepairOptions {
	return RepairOptions{
		removeManualKerning: o.removeManualKerning,
		mergeNearby:         o.mergeNearby,
		mergeSubSuper:       o.mergeSubSuper,
		splitDistant:        o.splitDistant,
		justification:       o.justification,
		repair:              o.repair,
		metrics:             o.metrics,
	}
}

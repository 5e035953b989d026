package textmend

import (
	"fmt"
	"strings"
)

// Warning codes reported by Repair.
const (
	// WarnUnresolvedPosition marks a text element whose position could not
	// be resolved from its own attributes or its ancestors. The element is
	// left untouched.
	WarnUnresolvedPosition = "unresolved-position"

	// WarnSplitFailed marks an element that needed a split the engine
	// could not perform. The element keeps its merged form.
	WarnSplitFailed = "split-failed"
)

// Warning describes a non-fatal issue encountered during a repair run.
// The run continues past warnings; the affected element is skipped or left
// partially repaired.
type Warning struct {
	// Code is one of the Warn constants.
	Code string

	// Message describes the issue.
	Message string

	// Element is the id of the text element involved, when it has one.
	Element string
}

func (w Warning) String() string {
	if w.Element != "" {
		return fmt.Sprintf("%s (#%s): %s", w.Code, w.Element, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// FormatWarnings renders a warning slice as a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

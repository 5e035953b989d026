// Package textmend provides a fluent API for repairing shattered text in
// SVG documents: text that renderers and converters split into absolutely
// positioned one-glyph or one-word elements is merged back into coherent
// lines, and over-merged runs are split apart again.
//
// Basic usage:
//
//	svg, warnings, err := textmend.Open("figure.svg").RepairString()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", textmend.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := textmend.Open("figure.svg").
//	    RemoveManualKerning().
//	    Justify(textmend.JustifyStart).
//	    Repair()
//
// For advanced use cases, the lower-level layout and repair packages are
// also available.
package textmend

import (
	"github.com/textmend/textmend/svgdoc"
)

// Open opens an SVG file and returns a Mender for fluent configuration.
// The file is read lazily, when a terminal operation runs.
//
// Example:
//
//	svg, warnings, err := textmend.Open("figure.svg").RepairString()
func Open(filename string) *Mender {
	return &Mender{
		filename: filename,
		options:  defaultOptions(),
	}
}

// New creates a Mender over an already-parsed document. The document is
// modified in place by terminal operations.
//
// Example:
//
//	doc, err := svgdoc.Parse(r)
//	if err != nil {
//	    // handle error
//	}
//	_, warnings, err := textmend.New(doc).Repair()
func New(doc *svgdoc.Document) *Mender {
	return &Mender{
		doc:     doc,
		options: defaultOptions(),
	}
}

// FromString creates a Mender over SVG markup held in memory.
//
// Example:
//
//	fixed, _, err := textmend.FromString(svg).RepairString()
func FromString(svg string) *Mender {
	return &Mender{
		source:  svg,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRepair is a helper that wraps a call to Repair() or RepairString()
// and panics if the error is non-nil. It discards warnings and returns
// just the value.
//
// Example:
//
//	fixed := textmend.MustRepair(textmend.FromString(svg).RepairString())
func MustRepair[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

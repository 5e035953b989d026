package fontmetrics_test

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/textmend/textmend/fontmetrics"
	"github.com/textmend/textmend/metrics"
)

const styleKey = "font-family:Go;font-size:1px"

func TestMeasureBasics(t *testing.T) {
	o, err := fontmetrics.New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := o.RegisterFont("Go", goregular.TTF); err != nil {
		t.Fatalf("RegisterFont() error: %v", err)
	}

	boxes, err := o.Measure([]metrics.Probe{
		{Style: styleKey, Text: "pI  "},
		{Style: styleKey, Text: "pI   "},
		{Style: styleKey, Text: "W  "},
		{Style: styleKey, Text: "i  "},
	})
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	pI2, pI3, w, i := boxes[0], boxes[1], boxes[2], boxes[3]

	spaceWidth := pI3.Right() - pI2.Right()
	if spaceWidth <= 0 || spaceWidth >= 1 {
		t.Errorf("space width = %v, want within (0,1) for a 1px size", spaceWidth)
	}

	// Cap height above baseline, descender below.
	if pI2.Top() >= 0 {
		t.Errorf("cap top = %v, want negative (above baseline)", pI2.Top())
	}
	if pI2.Bottom() <= 0 {
		t.Errorf("descender bottom = %v, want positive (below baseline)", pI2.Bottom())
	}

	// A wide glyph advances further than a narrow one.
	if w.Right() <= i.Right() {
		t.Errorf("advance of W (%v) not greater than i (%v)", w.Right(), i.Right())
	}
}

func TestTableOverRealFont(t *testing.T) {
	o, err := fontmetrics.New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tbl := metrics.NewTable(metrics.DefaultTableConfig())
	tbl.Register(styleKey, "Wi")
	if err := tbl.Measure(o); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	wide, err := tbl.Get('W', styleKey)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	narrow, err := tbl.Get('i', styleKey)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if wide.Width <= narrow.Width {
		t.Errorf("W width %v not greater than i width %v", wide.Width, narrow.Width)
	}
	if wide.SpaceWidth != narrow.SpaceWidth {
		t.Errorf("space width differs within one style: %v vs %v", wide.SpaceWidth, narrow.SpaceWidth)
	}
	if wide.CapHeight <= 0 || wide.Descender <= 0 {
		t.Errorf("vertical metrics = %v/%v, want positive", wide.CapHeight, wide.Descender)
	}
}

func TestUnknownFamilyFallsBack(t *testing.T) {
	o, err := fontmetrics.New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	boxes, err := o.Measure([]metrics.Probe{
		{Style: "font-family:NoSuchFont;font-size:1px", Text: "x  "},
	})
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if boxes[0].Right() <= 0 {
		t.Errorf("fallback face produced no advance: %+v", boxes[0])
	}
}

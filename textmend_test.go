package textmend

import (
	"strings"
	"testing"

	"github.com/textmend/textmend/internal/fakeoracle"
	"github.com/textmend/textmend/svgdoc"
)

// contentOf flattens an element's text content, including nested spans.
func contentOf(el *svgdoc.Element) string {
	var sb strings.Builder
	var walk func(e *svgdoc.Element)
	walk = func(e *svgdoc.Element) {
		sb.WriteString(e.Text)
		for _, k := range e.Children() {
			walk(k)
			sb.WriteString(k.Tail)
		}
	}
	walk(el)
	return sb.String()
}

func repairSVG(t *testing.T, svg string, configure func(*Mender) *Mender) *svgdoc.Document {
	t.Helper()
	m := FromString(svg).WithOracle(fakeoracle.New())
	if configure != nil {
		m = configure(m)
	}
	doc, warnings, err := m.Repair()
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if len(warnings) > 0 {
		t.Fatalf("unexpected warnings: %s", FormatWarnings(warnings))
	}
	return doc
}

func TestRepairMergesShatteredWord(t *testing.T) {
	o := fakeoracle.New()
	o.Advances = map[rune]float64{'H': 1.2}
	m := FromString(`<svg>` +
		`<text style="font-size:10px" x="0" y="0">H</text>` +
		`<text style="font-size:10px" x="12" y="0">ello</text></svg>`).
		WithOracle(o)
	doc, warnings, err := m.Repair()
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if len(warnings) > 0 {
		t.Fatalf("unexpected warnings: %s", FormatWarnings(warnings))
	}

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("got %d text elements, want 1", len(texts))
	}
	if got := contentOf(texts[0]); got != "Hello" {
		t.Errorf("text = %q, want %q", got, "Hello")
	}
	if got := texts[0].Attr("x"); got != "0" {
		t.Errorf("anchor x = %q, want %q", got, "0")
	}
}

func TestRepairInsertsSyntheticSpace(t *testing.T) {
	doc := repairSVG(t, `<svg>`+
		`<text style="font-size:10px" x="0" y="0">ab</text>`+
		`<text style="font-size:10px" x="12.5" y="0">cd</text></svg>`, nil)

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("got %d text elements, want 1", len(texts))
	}
	if got := contentOf(texts[0]); got != "ab cd" {
		t.Errorf("text = %q, want %q", got, "ab cd")
	}
}

func TestRepairSuperscript(t *testing.T) {
	doc := repairSVG(t, `<svg>`+
		`<text style="font-size:10px" x="0" y="100">x</text>`+
		`<text style="font-size:6px" x="5.5" y="97">2</text></svg>`, nil)

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("got %d text elements, want 1", len(texts))
	}
	if got := contentOf(texts[0]); got != "x2" {
		t.Errorf("text = %q, want %q", got, "x2")
	}
	var span *svgdoc.Element
	for _, k := range texts[0].Descendants() {
		if k.IsTspan() && k.Text == "2" {
			span = k
		}
	}
	if span == nil {
		t.Fatal("no span holding the superscript")
	}
	if got := span.LocalStyle().Get("baseline-shift"); got != "super" {
		t.Errorf("baseline-shift = %q, want %q", got, "super")
	}
	if got := span.LocalStyle().Get("font-size"); got != "60%" {
		t.Errorf("font-size = %q, want %q", got, "60%")
	}
}

func TestRepairSubSuperOff(t *testing.T) {
	doc := repairSVG(t, `<svg>`+
		`<text style="font-size:10px" x="0" y="100">x</text>`+
		`<text style="font-size:6px" x="5.5" y="97">2</text></svg>`,
		func(m *Mender) *Mender { return m.MergeSubSuper(false) })

	if texts := doc.Texts(); len(texts) != 2 {
		t.Fatalf("got %d text elements, want 2", len(texts))
	}
}

func TestRemoveManualKerning(t *testing.T) {
	doc := repairSVG(t, `<svg><text style="font-size:10px" y="0">`+
		`<tspan x="0 5.2">ab</tspan></text></svg>`,
		func(m *Mender) *Mender { return m.RemoveManualKerning() })

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("got %d text elements, want 1", len(texts))
	}
	if got := contentOf(texts[0]); got != "ab" {
		t.Errorf("text = %q, want %q", got, "ab")
	}
	if strings.Contains(svgdoc.Markup(texts[0]), "5.2") {
		t.Errorf("per-glyph position survived: %s", svgdoc.Markup(texts[0]))
	}
}

func TestSplitDistantChunksOption(t *testing.T) {
	svg := `<svg><text style="font-size:10px" y="0">` +
		`<tspan x="0 none 17.5">abcd</tspan></text></svg>`

	doc := repairSVG(t, svg, func(m *Mender) *Mender { return m.MergeNearby(false) })
	texts := doc.Texts()
	if len(texts) != 2 {
		t.Fatalf("got %d text elements, want 2", len(texts))
	}
	if got := contentOf(texts[0]) + "|" + contentOf(texts[1]); got != "ab|cd" {
		t.Errorf("split texts = %q, want %q", got, "ab|cd")
	}

	doc = repairSVG(t, svg, func(m *Mender) *Mender {
		return m.MergeNearby(false).SplitDistant(false)
	})
	if texts := doc.Texts(); len(texts) != 1 {
		t.Fatalf("with splitting off, got %d text elements, want 1", len(texts))
	}
}

func TestSplitNumericTokens(t *testing.T) {
	doc := repairSVG(t, `<svg>`+
		`<text style="font-size:10px" x="0" y="0">12 34</text></svg>`,
		func(m *Mender) *Mender { return m.MergeNearby(false) })

	texts := doc.Texts()
	if len(texts) != 2 {
		t.Fatalf("got %d text elements, want 2", len(texts))
	}
	// The trailing space of the first token is trimmed afterwards.
	if got := contentOf(texts[0]) + "|" + contentOf(texts[1]); got != "12|34" {
		t.Errorf("split texts = %q, want %q", got, "12|34")
	}
	if got := texts[1].Attr("x"); got != "12.5" {
		t.Errorf("second token x = %q, want %q", got, "12.5")
	}
}

func TestJustifyEnd(t *testing.T) {
	doc := repairSVG(t, `<svg>`+
		`<text style="font-size:10px" x="0" y="20">abc</text></svg>`,
		func(m *Mender) *Mender { return m.Justify(JustifyEnd) })

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("got %d text elements, want 1", len(texts))
	}
	if got := texts[0].LocalStyle().Get("text-anchor"); got != "end" {
		t.Errorf("text-anchor = %q, want %q", got, "end")
	}
	// The anchor moves to the right edge so the glyphs stay put.
	if got := texts[0].Attr("x"); got != "15" {
		t.Errorf("x = %q, want %q", got, "15")
	}
}

func TestTrimTrailingWhitespace(t *testing.T) {
	doc := repairSVG(t, `<svg>`+
		`<text style="font-size:10px" x="0" y="20">ab </text></svg>`, nil)

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("got %d text elements, want 1", len(texts))
	}
	if got := contentOf(texts[0]); got != "ab" {
		t.Errorf("text = %q, want %q", got, "ab")
	}
	if got := texts[0].Attr("x"); got != "0" {
		t.Errorf("x = %q, want %q", got, "0")
	}
}

func TestTrimLeadingWhitespaceKeepsPosition(t *testing.T) {
	doc := repairSVG(t, `<svg>`+
		`<text style="font-size:10px" x="0" y="20"> ab</text></svg>`, nil)

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("got %d text elements, want 1", len(texts))
	}
	if got := contentOf(texts[0]); got != "ab" {
		t.Errorf("text = %q, want %q", got, "ab")
	}
	// The anchor absorbs the deleted space's advance.
	if got := texts[0].Attr("x"); got != "2.5" {
		t.Errorf("x = %q, want %q", got, "2.5")
	}
}

func TestRepairLeavesHealthyTextAlone(t *testing.T) {
	doc := repairSVG(t, `<svg>`+
		`<text style="font-size:10px" x="0" y="20">Hello</text></svg>`, nil)

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("got %d text elements, want 1", len(texts))
	}
	if got := contentOf(texts[0]); got != "Hello" {
		t.Errorf("text = %q, want %q", got, "Hello")
	}
	if got := texts[0].Attr("x"); got != "0" {
		t.Errorf("x = %q, want %q", got, "0")
	}
}

func TestConfigurationDoesNotMutateReceiver(t *testing.T) {
	base := FromString(`<svg/>`)
	derived := base.MergeNearby(false).RemoveManualKerning()

	if !base.options.mergeNearby || base.options.removeManualKerning {
		t.Error("base chain mutated by derived configuration")
	}
	if derived.options.mergeNearby || !derived.options.removeManualKerning {
		t.Error("derived chain missing its configuration")
	}
}

func TestFormatWarnings(t *testing.T) {
	ws := []Warning{
		{Code: WarnUnresolvedPosition, Message: "no position", Element: "text4"},
		{Code: WarnSplitFailed, Message: "clone failed"},
	}
	got := FormatWarnings(ws)
	want := "unresolved-position (#text4): no position; split-failed: clone failed"
	if got != want {
		t.Errorf("FormatWarnings = %q, want %q", got, want)
	}
}

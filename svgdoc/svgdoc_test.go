package svgdoc

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/textmend/textmend/model"
)

const sample = `<svg width="210mm" height="297mm"><g transform="translate(10,20)">` +
	`<text id="t1" x="5" y="30" style="font-size:10px">Hel<tspan x="40" style="font-weight:bold">lo</tspan> world</text>` +
	`</g></svg>`

func TestParseTree(t *testing.T) {
	doc, err := ParseString(sample)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	texts := doc.Texts()
	if len(texts) != 1 {
		t.Fatalf("Texts() = %d elements, want 1", len(texts))
	}
	txt := texts[0]
	if txt.Text != "Hel" {
		t.Errorf("text content = %q, want %q", txt.Text, "Hel")
	}
	kids := txt.Children()
	if len(kids) != 1 || kids[0].Tag != TagTspan {
		t.Fatalf("children = %v", kids)
	}
	if kids[0].Text != "lo" || kids[0].Tail != " world" {
		t.Errorf("tspan text/tail = %q/%q", kids[0].Text, kids[0].Tail)
	}
	if got := doc.ElementByID("t1"); got != txt {
		t.Error("ElementByID() did not find the text root")
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := ParseString(sample)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	out := doc.String()

	doc2, err := ParseString(out)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if doc2.String() != out {
		t.Errorf("serialization not stable:\nfirst:  %s\nsecond: %s", out, doc2.String())
	}
	if !strings.Contains(out, "Hel<tspan") || !strings.Contains(out, " world") {
		t.Errorf("text content lost: %s", out)
	}
}

func TestEscaping(t *testing.T) {
	doc, err := ParseString(`<svg><text>a &lt;&amp; b</text></svg>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	txt := doc.Texts()[0]
	if txt.Text != "a <& b" {
		t.Errorf("unescaped text = %q", txt.Text)
	}
	if out := doc.String(); !strings.Contains(out, "a &lt;&amp; b") {
		t.Errorf("re-escaped output = %s", out)
	}
}

func TestCoordsParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Coords
	}{
		{"numbers", "1 2.5 -3", Coords{Num(1), Num(2.5), Num(-3)}},
		{"none entries", "10 none 20", Coords{Num(10), None(), Num(20)}},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCoords(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseCoords() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoordsAttr(t *testing.T) {
	e := NewElement(TagText)
	if got := e.Coords("x"); len(got) != 1 || !got[0].Absent {
		t.Errorf("missing attr should read as one absent entry, got %v", got)
	}

	e.SetCoords("x", Coords{Num(5), None(), Num(7)})
	if got := e.Attr("x"); got != "5 none 7" {
		t.Errorf("serialized coords = %q", got)
	}

	e.SetCoords("x", nil)
	if e.HasAttr("x") {
		t.Error("SetCoords(nil) should remove the attribute")
	}
}

func TestCoordsEdit(t *testing.T) {
	c := Coords{Num(1), Num(2), Num(3)}
	c = c.Insert(1, None())
	if len(c) != 4 || !c[1].Absent {
		t.Fatalf("Insert() = %v", c)
	}
	c = c.Delete(2)
	if len(c) != 3 || c[2].Value != 3 {
		t.Fatalf("Delete() = %v", c)
	}
}

func TestCascadedStyle(t *testing.T) {
	doc, err := ParseString(`<svg><g style="font-family:Arial;fill:red">` +
		`<text style="font-size:10px" font-weight="bold"><tspan style="fill:blue">x</tspan></text></g></svg>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	tspan := doc.Texts()[0].Children()[0]
	cs := tspan.CascadedStyle()

	want := map[string]string{
		"font-family": "Arial",
		"fill":        "blue",
		"font-size":   "10px",
		"font-weight": "bold",
	}
	for k, v := range want {
		if got := cs.Get(k); got != v {
			t.Errorf("cascaded %s = %q, want %q", k, got, v)
		}
	}
}

func TestStyleAttributeBeatsPresentation(t *testing.T) {
	e := NewElement(TagText)
	e.SetAttr("font-size", "8px")
	e.SetAttr("style", "font-size:20px")
	if got := e.LocalStyle().Get("font-size"); got != "20px" {
		t.Errorf("font-size = %q, want 20px", got)
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pt    model.Point
		want  model.Point
	}{
		{"matrix", "matrix(2,0,0,2,5,5)", model.Point{X: 1, Y: 1}, model.Point{X: 7, Y: 7}},
		{"translate scale", "translate(10 20) scale(2)", model.Point{X: 1, Y: 1}, model.Point{X: 12, Y: 22}},
		{"rotate degrees", "rotate(90)", model.Point{X: 1, Y: 0}, model.Point{X: 0, Y: 1}},
		{"empty", "", model.Point{X: 3, Y: 4}, model.Point{X: 3, Y: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTransform(tt.input).Transform(tt.pt)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("transform(%q) maps %+v to %+v, want %+v", tt.input, tt.pt, got, tt.want)
			}
		})
	}
}

func TestComposedTransform(t *testing.T) {
	doc, err := ParseString(sample)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	txt := doc.Texts()[0]
	got := txt.ComposedTransform().Transform(model.Point{X: 0, Y: 0})
	if got.X != 10 || got.Y != 20 {
		t.Errorf("composed transform origin = %+v, want {10 20}", got)
	}
}

func TestComposedFontSize(t *testing.T) {
	doc, err := ParseString(`<svg><g transform="scale(2)" style="font-size:10px">` +
		`<text id="a">x</text><text id="b" style="font-size:150%">y</text></g></svg>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	fs, sf, _, _ := ComposedFontSize(doc.ElementByID("a"))
	if math.Abs(fs-20) > 1e-9 || math.Abs(sf-2) > 1e-9 {
		t.Errorf("composed size = %v scale %v, want 20, 2", fs, sf)
	}

	fs, _, _, _ = ComposedFontSize(doc.ElementByID("b"))
	if math.Abs(fs-30) > 1e-9 {
		t.Errorf("percent size = %v, want 30", fs)
	}
}

func TestComposedLineHeight(t *testing.T) {
	doc, err := ParseString(`<svg><text id="a" style="font-size:10px">x</text>` +
		`<text id="b" style="font-size:10px;line-height:1.5">y</text></svg>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	if lh := ComposedLineHeight(doc.ElementByID("a")); math.Abs(lh-12.5) > 1e-9 {
		t.Errorf("default line height = %v, want 12.5", lh)
	}
	if lh := ComposedLineHeight(doc.ElementByID("b")); math.Abs(lh-15) > 1e-9 {
		t.Errorf("line height = %v, want 15", lh)
	}
}

func TestCloneDetached(t *testing.T) {
	doc, err := ParseString(sample)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	txt := doc.Texts()[0]
	c := txt.Clone()

	if c.Parent() != nil {
		t.Error("clone should be detached")
	}
	c.Children()[0].Text = "changed"
	if txt.Children()[0].Text == "changed" {
		t.Error("clone shares children with original")
	}
	if Markup(c) == "" {
		t.Error("clone serializes empty")
	}
}

func TestDeleteEmpty(t *testing.T) {
	doc, err := ParseString(`<svg><text id="gone">  <tspan> </tspan></text>` +
		`<text id="keep">a<tspan/></text></svg>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	for _, txt := range doc.Texts() {
		DeleteEmpty(txt)
	}
	if doc.ElementByID("gone") != nil {
		t.Error("whitespace-only text root survived")
	}
	keep := doc.ElementByID("keep")
	if keep == nil {
		t.Fatal("non-empty text root deleted")
	}
	if len(keep.Children()) != 0 {
		t.Error("empty tspan survived")
	}
}

func TestUnionClipInto(t *testing.T) {
	doc, err := ParseString(`<svg><defs>` +
		`<clipPath id="c1"><rect x="0" y="0" width="10" height="10"/></clipPath>` +
		`<clipPath id="c2"><rect x="5" y="5" width="10" height="10"/></clipPath></defs>` +
		`<text id="a" clip-path="url(#c1)">a</text><text id="b" clip-path="url(#c2)">b</text>` +
		`<text id="c">c</text></svg>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	a := doc.ElementByID("a")
	b := doc.ElementByID("b")
	c := doc.ElementByID("c")

	// Unclipped target adopts the source clip.
	doc.UnionClipInto(c, a)
	if c.Attr("clip-path") != "url(#c1)" {
		t.Errorf("adopted clip = %q", c.Attr("clip-path"))
	}

	// Two different clips union into a fresh clipPath with both rects.
	doc.UnionClipInto(a, b)
	ref := clipRef(a.Attr("clip-path"))
	union := doc.ElementByID(ref)
	if union == nil {
		t.Fatalf("union clip %q not found", ref)
	}
	if len(union.Children()) != 2 {
		t.Errorf("union clip has %d children, want 2", len(union.Children()))
	}
}

func TestMakeEditable(t *testing.T) {
	doc, err := ParseString(`<svg><text id="t"><tspan id="s" x="7" y="9">hi</tspan></text></svg>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	txt := doc.ElementByID("t")
	MakeEditable(txt)

	if txt.Attr("xml:space") != "preserve" {
		t.Error("xml:space not preserved")
	}
	if txt.Attr("x") != "7" || txt.Attr("y") != "9" {
		t.Errorf("position not hoisted: x=%q y=%q", txt.Attr("x"), txt.Attr("y"))
	}
	if doc.ElementByID("s").Role() != RoleLine {
		t.Error("chained-line role not set")
	}
}

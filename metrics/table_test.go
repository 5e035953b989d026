package metrics_test

import (
	"errors"
	"math"
	"testing"

	"github.com/textmend/textmend/internal/fakeoracle"
	"github.com/textmend/textmend/metrics"
	"github.com/textmend/textmend/style"
	"github.com/textmend/textmend/svgdoc"
)

const styleKey = "font-family:Arial;font-size:1px"

func measuredTable(t *testing.T, cfg metrics.TableConfig, texts ...string) (*metrics.Table, *fakeoracle.Oracle) {
	t.Helper()
	tbl := metrics.NewTable(cfg)
	for _, s := range texts {
		tbl.Register(styleKey, s)
	}
	o := fakeoracle.New()
	if err := tbl.Measure(o); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	return tbl, o
}

func TestTableWidths(t *testing.T) {
	tbl, o := measuredTable(t, metrics.DefaultTableConfig(), "Hi")

	cm, err := tbl.Get('H', styleKey)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if math.Abs(cm.Width-0.5) > 1e-9 {
		t.Errorf("char width = %v, want 0.5", cm.Width)
	}
	if math.Abs(cm.SpaceWidth-0.25) > 1e-9 {
		t.Errorf("space width = %v, want 0.25", cm.SpaceWidth)
	}
	if math.Abs(cm.CapHeight-0.7) > 1e-9 || math.Abs(cm.Descender-0.2) > 1e-9 {
		t.Errorf("vertical metrics = %v/%v, want 0.7/0.2", cm.CapHeight, cm.Descender)
	}

	// The space itself reports the space width as its advance.
	sp, err := tbl.Get(' ', styleKey)
	if err != nil {
		t.Fatalf("Get(space) error: %v", err)
	}
	if math.Abs(sp.Width-0.25) > 1e-9 {
		t.Errorf("space char width = %v, want 0.25", sp.Width)
	}

	if o.Calls != 1 {
		t.Errorf("oracle called %d times, want 1 batched call", o.Calls)
	}
}

func TestTableScale(t *testing.T) {
	tbl, _ := measuredTable(t, metrics.DefaultTableConfig(), "x")

	cm, err := tbl.Get('x', styleKey)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	s := cm.Scale(10)
	if math.Abs(s.Width-5) > 1e-9 || math.Abs(s.SpaceWidth-2.5) > 1e-9 || math.Abs(s.CapHeight-7) > 1e-9 {
		t.Errorf("scaled metrics = %+v", s)
	}
	// Scaling must not mutate the cached entry.
	again, _ := tbl.Get('x', styleKey)
	if math.Abs(again.Width-0.5) > 1e-9 {
		t.Errorf("cache mutated by Scale: %v", again.Width)
	}
}

func TestTableLookupFailures(t *testing.T) {
	tbl, _ := measuredTable(t, metrics.DefaultTableConfig(), "ab")

	if _, err := tbl.Get('a', "font-family:Other;font-size:1px"); !errors.Is(err, metrics.ErrNoStyleMatch) {
		t.Errorf("unknown style error = %v, want ErrNoStyleMatch", err)
	}
	if _, err := tbl.Get('z', styleKey); !errors.Is(err, metrics.ErrNoCharMatch) {
		t.Errorf("unknown char error = %v, want ErrNoCharMatch", err)
	}
}

func TestTableKernPairs(t *testing.T) {
	tbl, _ := measuredTable(t, metrics.TableConfig{KernPairs: true}, "AV")

	cm, err := tbl.Get('V', styleKey)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	// The fake font has no kerning, so pair adjustments must come out zero
	// and be elided.
	if len(cm.Kerns) != 0 {
		t.Errorf("kern table = %v, want empty for kern-free font", cm.Kerns)
	}
}

func TestRegisterTree(t *testing.T) {
	doc, err := svgdoc.ParseString(`<svg><text style="font-family:Arial;font-size:10px">` +
		`ab<tspan style="font-weight:bold">c</tspan>d</text></svg>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	tbl := metrics.NewTable(metrics.DefaultTableConfig())
	tbl.RegisterTree(doc.Texts()[0])
	if err := tbl.Measure(fakeoracle.New()); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	plain := style.NormalizeKey(style.MustParse("font-family:Arial;font-size:10px"))
	bold := style.NormalizeKey(style.MustParse("font-family:Arial;font-size:10px;font-weight:bold"))

	// Text and tails land in the plain style, the nested tspan in bold.
	for _, c := range "abd " {
		if _, err := tbl.Get(c, plain); err != nil {
			t.Errorf("Get(%q, plain) error: %v", string(c), err)
		}
	}
	if _, err := tbl.Get('c', bold); err != nil {
		t.Errorf("Get('c', bold) error: %v", err)
	}
	if _, err := tbl.Get('c', plain); !errors.Is(err, metrics.ErrNoCharMatch) {
		t.Errorf("bold-only char visible in plain style: %v", err)
	}
}

package style

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "simple declarations",
			input: "fill:#000;font-size:12px",
			want:  map[string]string{"fill": "#000", "font-size": "12px"},
		},
		{
			name:  "whitespace and trailing semicolon",
			input: " font-family : Arial, sans-serif ; font-weight: bold; ",
			want:  map[string]string{"font-family": "Arial, sans-serif", "font-weight": "bold"},
		},
		{
			name:  "empty",
			input: "   ",
			want:  map[string]string{},
		},
		{
			name:  "stray semicolons",
			input: ";;fill:red;;stroke:none;",
			want:  map[string]string{"fill": "red", "stroke": "none"},
		},
		{
			name:  "percent and shift values",
			input: "font-size:65%;baseline-shift:super",
			want:  map[string]string{"font-size": "65%", "baseline-shift": "super"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			gotMap := make(map[string]string)
			for _, k := range got.Keys() {
				gotMap[k] = got.Get(k)
			}
			if diff := cmp.Diff(tt.want, gotMap); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse("novalue"); err == nil {
		t.Error("Parse() of declaration without colon should fail")
	}
}

func TestStyleOrderAndString(t *testing.T) {
	s := New()
	s.Set("stroke", "none")
	s.Set("fill", "red")
	s.Set("stroke", "blue") // update keeps original position

	if got := s.String(); got != "stroke:blue;fill:red" {
		t.Errorf("String() = %q", got)
	}
	if got := s.SortedString(); got != "fill:red;stroke:blue" {
		t.Errorf("SortedString() = %q", got)
	}
}

func TestStyleMerge(t *testing.T) {
	base := MustParse("fill:red;font-size:10px")
	over := MustParse("fill:blue;stroke:black")

	merged := base.Merge(over)
	if merged.Get("fill") != "blue" || merged.Get("font-size") != "10px" || merged.Get("stroke") != "black" {
		t.Errorf("Merge() = %q", merged.String())
	}
	if base.Get("fill") != "red" {
		t.Error("Merge() mutated receiver")
	}
}

func TestStyleDelete(t *testing.T) {
	s := MustParse("fill:red;stroke:blue;opacity:0.5")
	s.Delete("stroke")

	if s.Has("stroke") {
		t.Error("Delete() left property behind")
	}
	if got := s.String(); got != "fill:red;opacity:0.5" {
		t.Errorf("String() after delete = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips non-shape attributes and pins size",
			input: "fill:#ff0000;stroke-width:2;font-family:Arial;font-size:24px",
			want:  "font-family:Arial;font-size:1px",
		},
		{
			name:  "family quotes and spacing",
			input: "font-family: 'Times New Roman' , serif;font-weight:bold",
			want:  "font-family:Times New Roman,serif;font-size:1px;font-weight:bold",
		},
		{
			name:  "bare style still gets a size",
			input: "",
			want:  "font-size:1px",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(MustParse(tt.input)); got != tt.want {
				t.Errorf("NormalizeKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeSharedKey(t *testing.T) {
	// Differently sized and colored runs of one font share a metrics key.
	a := MustParse("font-family:Arial;font-size:10px;fill:red")
	b := MustParse("font-size:24px;font-family:Arial;fill:blue")

	if NormalizeKey(a) != NormalizeKey(b) {
		t.Errorf("keys differ: %q vs %q", NormalizeKey(a), NormalizeKey(b))
	}
}

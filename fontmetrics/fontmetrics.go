// Package fontmetrics implements the metrics.Oracle contract against real
// OpenType fonts, replacing a live renderer round trip. Probe strings are
// measured with golang.org/x/image/font at a large reference size and scaled
// down to the 1px-normalized styles the character table works in.
//
// Only the font-family of a normalized style selects a face; weight and
// slant variants fall back to the registered family face or, failing that,
// to the bundled Go Regular face. That is sufficient for the width
// arithmetic the repair engine does, which compares runs of like style.
package fontmetrics

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/textmend/textmend/metrics"
	"github.com/textmend/textmend/model"
	"github.com/textmend/textmend/style"
)

// refSize is the pixel size probes are rendered at. Measuring large and
// dividing down keeps the fixed-point quantization of the rasterizer well
// below the engine's geometric tolerances.
const refSize = 256.0

// Oracle measures probe strings against registered OpenType fonts.
type Oracle struct {
	mu       sync.Mutex
	fonts    map[string]*opentype.Font
	faces    map[string]font.Face
	fallback *opentype.Font
}

// New creates an oracle with Go Regular as the fallback face.
func New() (*Oracle, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse fallback font: %w", err)
	}
	return &Oracle{
		fonts:    make(map[string]*opentype.Font),
		faces:    make(map[string]font.Face),
		fallback: f,
	}, nil
}

// RegisterFont parses TTF/OTF data and associates it with a family name as
// it would appear in font-family.
func (o *Oracle) RegisterFont(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fonts[strings.ToLower(strings.TrimSpace(family))] = f
	return nil
}

// Measure implements metrics.Oracle. Boxes are returned for a 1-unit font
// size in baseline coordinates. The final trailing space of a probe is not
// counted, matching how host editors report text extents.
func (o *Oracle) Measure(probes []metrics.Probe) ([]model.BBox, error) {
	out := make([]model.BBox, len(probes))
	for i, p := range probes {
		face, err := o.faceFor(p.Style)
		if err != nil {
			return nil, err
		}
		out[i] = measureProbe(face, p.Text)
	}
	return out, nil
}

// faceFor resolves a normalized style key to a cached face.
func (o *Oracle) faceFor(styleKey string) (font.Face, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if f, ok := o.faces[styleKey]; ok {
		return f, nil
	}

	src := o.fallback
	if st, err := style.Parse(styleKey); err == nil {
		for _, fam := range strings.Split(st.Get("font-family"), ",") {
			if f, ok := o.fonts[strings.ToLower(strings.TrimSpace(fam))]; ok {
				src = f
				break
			}
		}
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    refSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face for %q: %w", styleKey, err)
	}
	o.faces[styleKey] = face
	return face, nil
}

// measureProbe returns the probe's ink-and-advance box scaled to a 1-unit
// font size.
func measureProbe(face font.Face, text string) model.BBox {
	rendered := strings.TrimSuffix(text, " ")

	bounds, advance := font.BoundString(face, rendered)

	left := fixedToFloat(bounds.Min.X)
	top := fixedToFloat(bounds.Min.Y)
	bottom := fixedToFloat(bounds.Max.Y)
	right := fixedToFloat(advance)
	if right < left {
		left = 0
	}

	return model.NewBBox(left/refSize, top/refSize, (right-left)/refSize, (bottom-top)/refSize)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

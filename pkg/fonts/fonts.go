// Package fonts provides the label font shared by every canvas.
//
// Labels are measured and drawn with Go Regular, which ships inside
// golang.org/x/image, so raster output and label backgrounds agree on text
// extents without depending on system fonts.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontFamily is the CSS font-family name used in SVG output.
const FontFamily = "Go"

// FallbackFontFamily lists fonts for viewers that lack Go Regular.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the TTF data of Go Regular.
func RegularTTF() []byte {
	return goregular.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularTTFBase64 returns Go Regular as a base64 string for inlining in
// SVG @font-face rules.
func RegularTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

var (
	parsed     *opentype.Font
	parsedErr  error
	parsedOnce sync.Once

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

func regular() (*opentype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parsedErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parsedErr
}

// Face returns a Go Regular face at the given pixel size. Faces are cached
// per size and safe to share.
func Face(size float64) (font.Face, error) {
	facesMu.Lock()
	defer facesMu.Unlock()

	if f, ok := faces[size]; ok {
		return f, nil
	}
	fnt, err := regular()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	faces[size] = f
	return f, nil
}

// Measure returns the advance width and line height of text at size.
// If the font cannot be loaded it falls back to a fixed per-character
// estimate.
func Measure(text string, size float64) (w, h float64) {
	if size <= 0 {
		return 0, 0
	}
	// Measure at a fixed reference size and scale; fractional world-space
	// sizes would otherwise fill the face cache.
	const ref = 64.0
	f, err := Face(ref)
	if err != nil {
		return float64(len([]rune(text))) * size * 0.55, size * 1.2
	}
	adv := font.MeasureString(f, text)
	m := f.Metrics()
	k := size / ref
	return fixedToFloat(adv) * k, fixedToFloat(m.Ascent+m.Descent) * k
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

package renderer

import (
	"encoding/json"
	"fmt"
	"os"

	"Citadel3D/internal/logger"

	"go.uber.org/zap"
)

// Glyph holds the metrics of one codepoint in the SDF atlas: advance and
// offset in em units relative to the atlas' nominal size, quad size in em
// units, and the UV rectangle inside the atlas texture.
type Glyph struct {
	Advance float32 `json:"advance"`
	Width   float32 `json:"width"`
	Height  float32 `json:"height"`
	OffsetX float32 `json:"offsetX"`
	OffsetY float32 `json:"offsetY"`
	U0      float32 `json:"u0"`
	V0      float32 `json:"v0"`
	U1      float32 `json:"u1"`
	V1      float32 `json:"v1"`
}

// FontAtlas is a signed-distance-field font texture plus its glyph metrics
// sidecar. The texture is loaded separately through the TextureManager; the
// metrics file is JSON keyed by codepoint string.
type FontAtlas struct {
	Texture    uint32
	LineHeight float32
	glyphs     map[rune]Glyph
}

type glyphMetricsFile struct {
	LineHeight float32          `json:"lineHeight"`
	Glyphs     map[string]Glyph `json:"glyphs"`
}

// LoadGlyphMetrics parses a glyph metrics sidecar file. Missing or malformed
// files fail fast with the path in the error.
func LoadGlyphMetrics(path string) (*FontAtlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyph metrics %s: %w", path, err)
	}
	var file glyphMetricsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("glyph metrics %s: %w", path, err)
	}

	atlas := &FontAtlas{
		LineHeight: file.LineHeight,
		glyphs:     make(map[rune]Glyph, len(file.Glyphs)),
	}
	for key, g := range file.Glyphs {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("glyph metrics %s: key %q is not a single codepoint", path, key)
		}
		atlas.glyphs[runes[0]] = g
	}

	logger.Log.Info("Glyph metrics loaded",
		zap.String("path", path),
		zap.Int("glyphs", len(atlas.glyphs)))
	return atlas, nil
}

// NewFontAtlas builds an atlas directly from a glyph table; used by tests
// and procedurally generated fonts.
func NewFontAtlas(texture uint32, lineHeight float32, glyphs map[rune]Glyph) *FontAtlas {
	return &FontAtlas{Texture: texture, LineHeight: lineHeight, glyphs: glyphs}
}

// Glyph looks up the metrics for r.
func (f *FontAtlas) Glyph(r rune) (Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// GlyphQuad is one positioned glyph: pixel-space rectangle plus atlas UVs.
type GlyphQuad struct {
	X, Y, W, H     float32
	U0, V0, U1, V1 float32
}

// LayoutString positions the glyph quads for text left to right. x/y is the
// pen origin in pixels, scale the em size in pixels. Codepoints missing from
// the atlas are skipped without advancing the pen.
func LayoutString(f *FontAtlas, text string, x, y, scale float32) []GlyphQuad {
	quads := make([]GlyphQuad, 0, len(text))
	pen := x
	for _, r := range text {
		g, ok := f.Glyph(r)
		if !ok {
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			quads = append(quads, GlyphQuad{
				X:  pen + g.OffsetX*scale,
				Y:  y + g.OffsetY*scale,
				W:  g.Width * scale,
				H:  g.Height * scale,
				U0: g.U0, V0: g.V0, U1: g.U1, V1: g.V1,
			})
		}
		pen += g.Advance * scale
	}
	return quads
}

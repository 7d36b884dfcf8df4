package renderer

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func testFont() *FontAtlas {
	return NewFontAtlas(0, 1.2, map[rune]Glyph{
		'a': {Advance: 0.5, Width: 0.4, Height: 0.7, OffsetX: 0.05, OffsetY: 0.1, U0: 0, V0: 0, U1: 0.1, V1: 0.1},
		'b': {Advance: 0.6, Width: 0.5, Height: 0.8, U0: 0.1, V0: 0, U1: 0.2, V1: 0.1},
		' ': {Advance: 0.3}, // zero-size, advances only
	})
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestLayoutStringAdvancesPen(t *testing.T) {
	quads := LayoutString(testFont(), "ab", 100, 50, 10)
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2", len(quads))
	}

	if !near(quads[0].X, 100+0.05*10) || !near(quads[0].Y, 50+0.1*10) {
		t.Errorf("glyph a at (%v,%v), want (100.5, 51)", quads[0].X, quads[0].Y)
	}
	if !near(quads[0].W, 4) || !near(quads[0].H, 7) {
		t.Errorf("glyph a size (%v,%v), want (4, 7)", quads[0].W, quads[0].H)
	}
	// b starts after a's advance of 0.5 em.
	if !near(quads[1].X, 100+0.5*10) {
		t.Errorf("glyph b at x=%v, want 105", quads[1].X)
	}
}

func TestLayoutStringZeroSizeGlyphAdvances(t *testing.T) {
	quads := LayoutString(testFont(), "a b", 0, 0, 10)
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2 (space emits none)", len(quads))
	}
	// b's pen position includes a's advance and the space's.
	if !near(quads[1].X, (0.5+0.3)*10) {
		t.Errorf("glyph b at x=%v, want 8", quads[1].X)
	}
}

func TestLayoutStringMissingGlyphSkipped(t *testing.T) {
	quads := LayoutString(testFont(), "a?b", 0, 0, 10)
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2", len(quads))
	}
	// The unknown rune does not advance the pen.
	if !near(quads[1].X, 0.5*10) {
		t.Errorf("glyph b at x=%v, want 5", quads[1].X)
	}
}

func TestLayoutStringEmpty(t *testing.T) {
	if quads := LayoutString(testFont(), "", 0, 0, 10); len(quads) != 0 {
		t.Errorf("empty string produced %d quads", len(quads))
	}
}

func TestLoadGlyphMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.json")
	data := `{
		"lineHeight": 1.4,
		"glyphs": {
			"A": {"advance": 0.62, "width": 0.58, "height": 0.7, "u0": 0, "v0": 0, "u1": 0.05, "v1": 0.1}
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	atlas, err := LoadGlyphMetrics(path)
	if err != nil {
		t.Fatalf("LoadGlyphMetrics: %v", err)
	}
	if atlas.LineHeight != 1.4 {
		t.Errorf("LineHeight = %v, want 1.4", atlas.LineHeight)
	}
	g, ok := atlas.Glyph('A')
	if !ok {
		t.Fatal("glyph A missing")
	}
	if !near(g.Advance, 0.62) || !near(g.U1, 0.05) {
		t.Errorf("glyph A = %+v", g)
	}
}

func TestLoadGlyphMetricsErrors(t *testing.T) {
	if _, err := LoadGlyphMetrics(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file: want error")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGlyphMetrics(bad); err == nil {
		t.Error("malformed JSON: want error")
	}

	multi := filepath.Join(t.TempDir(), "multi.json")
	if err := os.WriteFile(multi, []byte(`{"glyphs": {"ab": {"advance": 1}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGlyphMetrics(multi); err == nil {
		t.Error("multi-rune glyph key: want error")
	}
}

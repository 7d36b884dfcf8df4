package renderer

import "github.com/go-gl/mathgl/mgl32"

// InterfaceImage is a screen-space textured quad. Position and Size are in
// pixels; Rotation is degrees about the quad origin. SubPass selects whether
// it draws in the background or foreground UI sub-pass.
type InterfaceImage struct {
	Texture  uint32
	Position mgl32.Vec2
	Size     mgl32.Vec2
	Rotation float32
	SubPass  RenderPass // PassBackground or PassForeground
}

// Matrix builds the orthographic-space model matrix: unit quad scaled to
// pixel size, rotated, then moved to its screen position.
func (img *InterfaceImage) Matrix() mgl32.Mat4 {
	scale := mgl32.Scale3D(img.Size.X(), img.Size.Y(), 1)
	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(img.Rotation))
	translate := mgl32.Translate3D(img.Position.X(), img.Position.Y(), 0)
	return translate.Mul4(rot).Mul4(scale)
}

// InterfaceString is a run of SDF-rendered text. Scale is the glyph height
// in pixels; layout runs left to right from Position using per-glyph advance
// widths. It only draws during the text sub-pass.
type InterfaceString struct {
	Text     string
	Font     *FontAtlas
	Position mgl32.Vec2
	Scale    float32
	Color    mgl32.Vec4
}

// SetText replaces the displayed string. Glyph quads are laid out fresh each
// draw, so no GPU state needs rebuilding.
func (s *InterfaceString) SetText(text string) { s.Text = text }

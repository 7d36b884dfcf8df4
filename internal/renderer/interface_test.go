package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestInterfaceImageMatrix(t *testing.T) {
	img := &InterfaceImage{
		Position: mgl32.Vec2{100, 40},
		Size:     mgl32.Vec2{64, 32},
	}

	// Unit-quad corner (1,1) lands at position + size.
	p := img.Matrix().Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	if !vec3Near(p.Vec3(), mgl32.Vec3{164, 72, 0}, 1e-4) {
		t.Errorf("corner = %v, want (164, 72, 0)", p.Vec3())
	}
	// Origin stays at the screen position.
	o := img.Matrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !vec3Near(o.Vec3(), mgl32.Vec3{100, 40, 0}, 1e-4) {
		t.Errorf("origin = %v, want (100, 40, 0)", o.Vec3())
	}
}

func TestInterfaceImageMatrixRotation(t *testing.T) {
	img := &InterfaceImage{
		Position: mgl32.Vec2{10, 10},
		Size:     mgl32.Vec2{2, 2},
		Rotation: 90,
	}
	// (1,0) scaled to (2,0), rotated 90 degrees about Z to (0,2), then
	// moved to (10,12).
	p := img.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !vec3Near(p.Vec3(), mgl32.Vec3{10, 12, 0}, 1e-4) {
		t.Errorf("rotated corner = %v, want (10, 12, 0)", p.Vec3())
	}
}

func TestInterfaceStringSetText(t *testing.T) {
	s := &InterfaceString{Text: "old"}
	s.SetText("new")
	if s.Text != "new" {
		t.Errorf("Text = %q, want %q", s.Text, "new")
	}
}

package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vec3Near(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() < eps
}

func TestTransformMatrixComposition(t *testing.T) {
	tr := Transform{
		Scale:    mgl32.Vec3{2, 1, 1},
		Rotation: mgl32.Vec3{0, 90, 0},
		Position: mgl32.Vec3{5, 0, 0},
	}

	// (1,0,0) scales to (2,0,0), rotates about Y to (0,0,-2), then
	// translates to (5,0,-2).
	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec3{5, 0, -2}
	if !vec3Near(p.Vec3(), want, 1e-5) {
		t.Errorf("transformed point = %v, want %v", p.Vec3(), want)
	}
}

func TestTransformMatrixMatchesManualComposition(t *testing.T) {
	tr := Transform{
		Scale:    mgl32.Vec3{1.5, 2, 0.5},
		Rotation: mgl32.Vec3{30, 45, 60},
		Position: mgl32.Vec3{-3, 7, 11},
	}

	manual := mgl32.Translate3D(-3, 7, 11).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(60))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(30))).
		Mul4(mgl32.Scale3D(1.5, 2, 0.5))

	got := tr.Matrix()
	if !got.ApproxEqualThreshold(manual, 1e-6) {
		t.Errorf("Matrix() =\n%v\nwant\n%v", got, manual)
	}
}

func TestNewTransformIsIdentity(t *testing.T) {
	if got := NewTransform().Matrix(); !got.ApproxEqualThreshold(mgl32.Ident4(), 1e-6) {
		t.Errorf("default transform matrix =\n%v\nwant identity", got)
	}
}

func TestNewModelDefaults(t *testing.T) {
	mesh := testMesh(t, 2)
	m := NewModel(mesh, TextureSet{Diffuse: 7})
	if m.Mesh != mesh {
		t.Error("model does not keep the given mesh")
	}
	if m.Textures.Diffuse != 7 {
		t.Errorf("Diffuse = %d, want 7", m.Textures.Diffuse)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", m.TriangleCount())
	}
	if m.Transform.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("default scale = %v, want unit", m.Transform.Scale)
	}
}

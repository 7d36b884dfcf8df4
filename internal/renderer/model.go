package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the mutable spatial state of a model. The matrix applies
// scale first, then the per-axis rotations X, Y, Z, then translation.
type Transform struct {
	Scale    mgl32.Vec3
	Rotation mgl32.Vec3 // degrees per axis
	Position mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes T * Rz * Ry * Rx * S, so a vertex is scaled, rotated
// about X, then Y, then Z, then translated.
func (t Transform) Matrix() mgl32.Mat4 {
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation.X()))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation.Y()))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation.Z()))
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	return translate.Mul4(rz).Mul4(ry).Mul4(rx).Mul4(scale)
}

// TextureSet is the five material channels a geometry-pass draw binds, in
// fixed texture-unit order.
type TextureSet struct {
	Diffuse          uint32
	Gloss            uint32
	AmbientOcclusion uint32
	Normal           uint32
	Height           uint32
}

// Model pairs an immutable mesh and texture set with a mutable transform.
// Only Transform (and the owning Drawable's enabled flag) may change after
// construction.
type Model struct {
	Mesh      *Mesh
	Textures  TextureSet
	Transform Transform
}

func NewModel(mesh *Mesh, textures TextureSet) *Model {
	return &Model{
		Mesh:      mesh,
		Textures:  textures,
		Transform: NewTransform(),
	}
}

func (m *Model) TriangleCount() int { return m.Mesh.TriangleCount() }

// Release frees the mesh buffers and drops the texture references.
func (m *Model) Release(tm *TextureManager) {
	m.Mesh.Release()
	if tm == nil {
		return
	}
	for _, id := range []uint32{
		m.Textures.Diffuse,
		m.Textures.Gloss,
		m.Textures.AmbientOcclusion,
		m.Textures.Normal,
		m.Textures.Height,
	} {
		tm.ReleaseTexture(id)
	}
}

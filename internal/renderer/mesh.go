package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Vertex layout: position[3] uv[2] color[4] normal[3], tightly interleaved.
const (
	VertexFloats = 12
	vertexStride = VertexFloats * 4 // bytes
)

// Mesh owns one immutable vertex/index buffer pair. The CPU-side slices are
// never mutated after construction; only upload state changes. GPU buffers
// are created on the render thread via Upload and freed via Release, never
// by finalizers.
type Mesh struct {
	vertices []float32
	indices  []uint32

	vao, vbo, ebo uint32
	uploaded      bool
}

// NewMesh validates the interleaved data and wraps it. Vertices must be a
// whole number of 12-float records, indices a whole number of triangles with
// every index in range.
func NewMesh(vertices []float32, indices []uint32) (*Mesh, error) {
	if len(vertices) == 0 || len(vertices)%VertexFloats != 0 {
		return nil, fmt.Errorf("mesh: vertex data length %d is not a multiple of %d", len(vertices), VertexFloats)
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh: index count %d is not a multiple of 3", len(indices))
	}
	vertexCount := uint32(len(vertices) / VertexFloats)
	for i, idx := range indices {
		if idx >= vertexCount {
			return nil, fmt.Errorf("mesh: index %d at position %d out of range (%d vertices)", idx, i, vertexCount)
		}
	}
	return &Mesh{vertices: vertices, indices: indices}, nil
}

func (m *Mesh) IndexCount() int32 { return int32(len(m.indices)) }

func (m *Mesh) TriangleCount() int { return len(m.indices) / 3 }

func (m *Mesh) Vertices() []float32 { return m.vertices }

func (m *Mesh) Indices() []uint32 { return m.indices }

func (m *Mesh) Uploaded() bool { return m.uploaded }

// Upload creates the VAO/VBO/EBO and pushes the buffers with STATIC_DRAW.
// Idempotent; render thread only.
func (m *Mesh) Upload() {
	if m.uploaded {
		return
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.vertices)*4, gl.Ptr(m.vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.indices)*4, gl.Ptr(m.indices), gl.STATIC_DRAW)

	// location 0: position, 1: uv, 2: color, 3: normal
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, vertexStride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, vertexStride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(3, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(9*4))
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
	m.uploaded = true
}

// Bind makes the mesh's VAO current. Uploads lazily so meshes can be built
// off the render thread and first touched during a draw.
func (m *Mesh) Bind() {
	if !m.uploaded {
		m.Upload()
	}
	gl.BindVertexArray(m.vao)
}

// Release deletes the GPU buffers. Safe to call more than once.
func (m *Mesh) Release() {
	if !m.uploaded {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	m.vao, m.vbo, m.ebo = 0, 0, 0
	m.uploaded = false
}

package renderer

import "testing"

func TestNewMeshValidation(t *testing.T) {
	goodVerts := make([]float32, 3*VertexFloats)
	goodIdx := []uint32{0, 1, 2}

	cases := []struct {
		name     string
		vertices []float32
		indices  []uint32
		wantErr  bool
	}{
		{"valid triangle", goodVerts, goodIdx, false},
		{"empty vertices", nil, goodIdx, true},
		{"ragged vertex record", make([]float32, VertexFloats+1), goodIdx, true},
		{"empty indices", goodVerts, nil, true},
		{"partial triangle", goodVerts, []uint32{0, 1}, true},
		{"index out of range", goodVerts, []uint32{0, 1, 3}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMesh(tc.vertices, tc.indices)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewMesh err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMeshCounts(t *testing.T) {
	m, err := NewMesh(make([]float32, 4*VertexFloats), []uint32{0, 1, 2, 2, 1, 3})
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	if m.IndexCount() != 6 {
		t.Errorf("IndexCount = %d, want 6", m.IndexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", m.TriangleCount())
	}
	if m.Uploaded() {
		t.Error("fresh mesh reports uploaded")
	}
}

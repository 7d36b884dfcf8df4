package scene

import (
	"testing"

	"Citadel3D/internal/renderer"
)

func TestTerrainMeshDimensions(t *testing.T) {
	const size = 16
	mesh, err := TerrainMesh(size, 4.0, 10, 42)
	if err != nil {
		t.Fatalf("TerrainMesh: %v", err)
	}

	wantVerts := size * size * renderer.VertexFloats
	if len(mesh.Vertices()) != wantVerts {
		t.Errorf("vertex floats = %d, want %d", len(mesh.Vertices()), wantVerts)
	}
	wantIdx := (size - 1) * (size - 1) * 6
	if len(mesh.Indices()) != wantIdx {
		t.Errorf("indices = %d, want %d", len(mesh.Indices()), wantIdx)
	}
}

func TestTerrainMeshDeterministic(t *testing.T) {
	a, err := TerrainMesh(8, 4.0, 15, 1337)
	if err != nil {
		t.Fatalf("TerrainMesh: %v", err)
	}
	b, err := TerrainMesh(8, 4.0, 15, 1337)
	if err != nil {
		t.Fatalf("TerrainMesh: %v", err)
	}

	av, bv := a.Vertices(), b.Vertices()
	if len(av) != len(bv) {
		t.Fatalf("vertex counts differ: %d vs %d", len(av), len(bv))
	}
	for i := range av {
		if av[i] != bv[i] {
			t.Fatalf("vertex float %d differs for the same seed: %v vs %v", i, av[i], bv[i])
		}
	}

	c, err := TerrainMesh(8, 4.0, 15, 7)
	if err != nil {
		t.Fatalf("TerrainMesh: %v", err)
	}
	same := true
	for i, v := range c.Vertices() {
		if v != av[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical terrain")
	}
}

func TestTerrainMeshHeightsBounded(t *testing.T) {
	const heightScale = 10
	mesh, err := TerrainMesh(12, 4.0, heightScale, 99)
	if err != nil {
		t.Fatalf("TerrainMesh: %v", err)
	}

	verts := mesh.Vertices()
	for i := 0; i < len(verts); i += renderer.VertexFloats {
		// Octave sums can overshoot the base amplitude a little.
		y := verts[i+1]
		if y < -2*heightScale || y > 2*heightScale {
			t.Fatalf("vertex %d height %v outside [-%d, %d]", i/renderer.VertexFloats, y, 2*heightScale, 2*heightScale)
		}
	}
}

func TestTerrainMeshNormalsNormalized(t *testing.T) {
	mesh, err := TerrainMesh(8, 4.0, 25, 3)
	if err != nil {
		t.Fatalf("TerrainMesh: %v", err)
	}

	verts := mesh.Vertices()
	for i := 0; i < len(verts); i += renderer.VertexFloats {
		nx, ny, nz := verts[i+9], verts[i+10], verts[i+11]
		lenSq := nx*nx + ny*ny + nz*nz
		if lenSq < 0.99 || lenSq > 1.01 {
			t.Fatalf("vertex %d normal length^2 = %v", i/renderer.VertexFloats, lenSq)
		}
		if ny <= 0 {
			t.Fatalf("vertex %d normal points down: %v", i/renderer.VertexFloats, ny)
		}
	}
}

func TestTerrainMeshTooSmall(t *testing.T) {
	if _, err := TerrainMesh(1, 4.0, 10, 0); err == nil {
		t.Error("gridSize 1: want error")
	}
}

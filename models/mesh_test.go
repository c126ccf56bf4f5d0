package models

import (
	"testing"

	"github.com/ansipixels/facet/math3d"
)

func squareMesh() *Mesh {
	mesh := NewMesh("square")
	mesh.Positions = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(1, 1, 0),
		math3d.V3(0, 1, 0),
	}
	mesh.Faces = []Face{{0, 1, 2}, {0, 2, 3}}
	mesh.CalculateBounds()
	return mesh
}

func TestCalculateBounds(t *testing.T) {
	mesh := squareMesh()
	if mesh.BoundsMin != math3d.V3(0, 0, 0) {
		t.Errorf("BoundsMin = %v, want (0,0,0)", mesh.BoundsMin)
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("BoundsMax = %v, want (1,1,0)", mesh.BoundsMax)
	}
	if got := mesh.Center(); got != math3d.V3(0.5, 0.5, 0) {
		t.Errorf("Center() = %v, want (0.5,0.5,0)", got)
	}
	if got := mesh.Size(); got != math3d.V3(1, 1, 0) {
		t.Errorf("Size() = %v, want (1,1,0)", got)
	}
}

func TestMeshUV(t *testing.T) {
	mesh := squareMesh()
	if mesh.HasUV() {
		t.Error("HasUV() = true for mesh without UVs")
	}
	if uv, ok := mesh.UV(0); ok || uv != math3d.Zero2() {
		t.Errorf("UV(0) = %v, %v; want zero, false", uv, ok)
	}

	mesh.UVs = []math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1), math3d.V2(0, 1)}
	if uv, ok := mesh.UV(2); !ok || uv != math3d.V2(1, 1) {
		t.Errorf("UV(2) = %v, %v; want (1,1), true", uv, ok)
	}
	if _, ok := mesh.UV(4); ok {
		t.Error("UV(4) reported ok past the end")
	}
}

func TestMeshClone(t *testing.T) {
	mesh := squareMesh()
	mesh.UVs = []math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1), math3d.V2(0, 1)}

	clone := mesh.Clone()

	mesh.Positions[0] = math3d.V3(9, 9, 9)
	mesh.UVs[0] = math3d.V2(9, 9)
	mesh.Faces[0] = Face{3, 2, 1}

	if clone.Positions[0] != math3d.V3(0, 0, 0) {
		t.Error("clone positions changed with the source mesh")
	}
	if clone.UVs[0] != math3d.V2(0, 0) {
		t.Error("clone UVs changed with the source mesh")
	}
	if clone.Faces[0] != (Face{0, 1, 2}) {
		t.Error("clone faces changed with the source mesh")
	}
}

func TestMeshTransform(t *testing.T) {
	mesh := squareMesh()
	mesh.Transform(math3d.Translate(math3d.V3(1, 2, 3)))

	if mesh.Positions[0] != math3d.V3(1, 2, 3) {
		t.Errorf("translated position = %v, want (1,2,3)", mesh.Positions[0])
	}
	if mesh.BoundsMax != math3d.V3(2, 3, 3) {
		t.Errorf("BoundsMax after transform = %v, want (2,3,3)", mesh.BoundsMax)
	}
	if mesh.Faces[0] != (Face{0, 1, 2}) {
		t.Errorf("translation changed winding: %v", mesh.Faces[0])
	}

	mesh.Transform(math3d.Scale(math3d.V3(-1, 1, 1)))
	if mesh.Faces[0] != (Face{0, 2, 1}) {
		t.Errorf("mirror should reverse winding, got %v", mesh.Faces[0])
	}
}

func TestTriangulate(t *testing.T) {
	tests := []struct {
		name string
		poly []int
		want []Face
	}{
		{"triangle", []int{0, 1, 2}, []Face{{0, 1, 2}}},
		{"quad", []int{0, 1, 2, 3}, []Face{{0, 1, 2}, {0, 2, 3}}},
		{"pentagon", []int{4, 3, 2, 1, 0}, []Face{{4, 3, 2}, {4, 2, 1}, {4, 1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := triangulate(tt.poly)
			if len(got) != len(tt.want) {
				t.Fatalf("triangulate(%v) gave %d faces, want %d", tt.poly, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("face %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

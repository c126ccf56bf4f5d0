package attrib

import (
	"fmt"

	"github.com/ansipixels/facet/math3d"
)

// MeshSource is the read-only view of a triangle mesh the builder consumes.
//
// Vertex indices are 0-based. UVCount is either 0 (no texture coordinates)
// or equal to VertexCount.
type MeshSource interface {
	VertexCount() int
	TriangleCount() int
	Position(i int) math3d.Vec3
	Face(i int) [3]int
	UV(i int) (math3d.Vec2, bool)
	UVCount() int
}

// IndexedMesh is a MeshSource over plain slices.
type IndexedMesh struct {
	Positions []math3d.Vec3
	Faces     [][3]int
	UVs       []math3d.Vec2 // nil when the mesh has no texture coordinates
}

func (m *IndexedMesh) VertexCount() int           { return len(m.Positions) }
func (m *IndexedMesh) TriangleCount() int         { return len(m.Faces) }
func (m *IndexedMesh) Position(i int) math3d.Vec3 { return m.Positions[i] }
func (m *IndexedMesh) Face(i int) [3]int          { return m.Faces[i] }
func (m *IndexedMesh) UVCount() int               { return len(m.UVs) }

func (m *IndexedMesh) UV(i int) (math3d.Vec2, bool) {
	if i < 0 || i >= len(m.UVs) {
		return math3d.Vec2{}, false
	}
	return m.UVs[i], true
}

// Validate checks that every face index addresses an existing vertex and
// that UVs, when present, align with positions. The first bad corner is
// reported as a *FaceIndexError.
func Validate(mesh MeshSource) error {
	n := mesh.VertexCount()
	if uvs := mesh.UVCount(); uvs != 0 && uvs != n {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrUVCountMismatch, uvs, n)
	}

	for fi := range mesh.TriangleCount() {
		for corner, v := range mesh.Face(fi) {
			if v < 0 || v >= n {
				return &FaceIndexError{Face: fi, Corner: corner, Index: v, VertexCount: n}
			}
		}
	}
	return nil
}

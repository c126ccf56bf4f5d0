// Package models provides triangle mesh representation and loaders for
// the mesh formats facet accepts (OBJ, OFF, STL, GLTF/GLB).
package models

import (
	"errors"

	"github.com/ansipixels/facet/math3d"
)

// ErrNonTriangularFace is returned by loaders when a polygon with more than
// three corners is found and triangulation is disabled.
var ErrNonTriangularFace = errors.New("non-triangular face")

// Mesh is a parsed triangle mesh: positions, triangular faces indexing into
// Positions, and optional per-vertex texture coordinates aligned with
// Positions.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Faces     []Face
	UVs       []math3d.Vec2 // nil when the source carried no texture coordinates

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle as three 0-based indices into Mesh.Positions.
type Face [3]int

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: make([]math3d.Vec3, 0),
		Faces:     make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertex positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// HasUV reports whether the mesh carries texture coordinates.
func (m *Mesh) HasUV() bool {
	return m.UVs != nil
}

// UVCount returns the number of texture coordinates.
func (m *Mesh) UVCount() int {
	return len(m.UVs)
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math3d.Vec3 {
	return m.Positions[i]
}

// Face returns the vertex indices of face i.
func (m *Mesh) Face(i int) [3]int {
	return m.Faces[i]
}

// UV returns the texture coordinate of vertex i, or the zero vector and
// false when the mesh has no texture coordinates.
func (m *Mesh) UV(i int) (math3d.Vec2, bool) {
	if m.UVs == nil || i < 0 || i >= len(m.UVs) {
		return math3d.Zero2(), false
	}
	return m.UVs[i], true
}

// Transform applies a transformation matrix to all positions.
// A mirroring transform also reverses each face so the winding keeps
// facing the same way relative to the surface.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Positions {
		m.Positions[i] = mat.MulVec3(m.Positions[i])
	}
	if mat.Determinant3() < 0 {
		for i := range m.Faces {
			m.Faces[i][1], m.Faces[i][2] = m.Faces[i][2], m.Faces[i][1]
		}
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Positions: make([]math3d.Vec3, len(m.Positions)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Positions, m.Positions)
	copy(clone.Faces, m.Faces)
	if m.UVs != nil {
		clone.UVs = make([]math3d.Vec2, len(m.UVs))
		copy(clone.UVs, m.UVs)
	}
	return clone
}

// triangulate fan-triangulates a convex polygon, keeping its winding.
func triangulate(poly []int) []Face {
	faces := make([]Face, 0, len(poly)-2)
	for i := 1; i < len(poly)-1; i++ {
		faces = append(faces, Face{poly[0], poly[i], poly[i+1]})
	}
	return faces
}

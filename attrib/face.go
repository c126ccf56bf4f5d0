// Package attrib synthesizes per-corner shading attributes for triangle meshes.
//
// A build computes one normal and one tangent per face, indexes which faces
// touch each vertex, and then emits three corners per face whose normal and
// tangent are either averaged across the vertex's faces (Smooth) or copied
// from the owning face (Faceted).
package attrib

import (
	"math"

	"github.com/ansipixels/facet/math3d"
)

// FaceAttributes holds the geometric quantities of one triangle.
type FaceAttributes struct {
	Normal  math3d.Vec3 // unit length, or zero for a zero-area face
	Tangent math3d.Vec3 // raw tangent solve, not normalized

	// DegenerateNormal is set when the face has no area (or non-finite
	// positions) and Normal is therefore zero.
	DegenerateNormal bool
	// DegenerateTangent is set when the UV layout has a zero or non-finite
	// determinant and Tangent is therefore zero.
	DegenerateTangent bool
}

// ComputeFaceNormal returns the unit normal of triangle abc.
// Counter-clockwise winding, seen from the front, points the normal at the viewer.
func ComputeFaceNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	return edge1.Cross(edge2).Normalize()
}

// ComputeFaceTangent solves the tangent-space basis of triangle abc against
// its texture coordinates. The result is not normalized.
//
// The second return value is false when the UV triangle has no area (or the
// solve is not finite); the tangent is then the zero vector.
func ComputeFaceTangent(a, b, c math3d.Vec3, uvA, uvB, uvC math3d.Vec2) (math3d.Vec3, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	deltaUV1 := uvB.Sub(uvA)
	deltaUV2 := uvC.Sub(uvA)

	det := deltaUV1.Cross(deltaUV2)
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return math3d.Zero3(), false
	}

	f := 1.0 / det
	tangent := edge1.Scale(deltaUV2.Y).Sub(edge2.Scale(deltaUV1.Y)).Scale(f)
	if !tangent.IsFinite() {
		return math3d.Zero3(), false
	}
	return tangent, true
}

// ComputeFaceAttributes computes the normal and tangent of one triangle.
// Callers without texture coordinates pass zero UVs.
func ComputeFaceAttributes(a, b, c math3d.Vec3, uvA, uvB, uvC math3d.Vec2) FaceAttributes {
	normal := ComputeFaceNormal(a, b, c)
	tangent, ok := ComputeFaceTangent(a, b, c, uvA, uvB, uvC)
	return FaceAttributes{
		Normal:            normal,
		Tangent:           tangent,
		DegenerateNormal:  normal.IsZero(),
		DegenerateTangent: !ok,
	}
}

package attrib

import (
	"fmt"

	"github.com/ansipixels/facet/math3d"
)

// SynthesizeCorner returns the normal and tangent for the corner of face
// that refers to vertex.
//
// In Smooth mode both vectors are the normalized mean over the faces in
// neighbors for that vertex, summed in traversal order. In Faceted mode they
// are faceAttrs[face] unchanged.
func SynthesizeCorner(vertex, face int, mode ShadingMode, neighbors NeighborIndex, faceAttrs []FaceAttributes) (normal, tangent math3d.Vec3, err error) {
	switch mode {
	case Faceted:
		if face < 0 || face >= len(faceAttrs) {
			return normal, tangent, fmt.Errorf("face %d of %d: %w", face, len(faceAttrs), ErrIndexOutOfRange)
		}
		fa := faceAttrs[face]
		return fa.Normal, fa.Tangent, nil

	case Smooth:
		adjacent := neighbors.Faces(vertex)
		if len(adjacent) == 0 {
			return normal, tangent, fmt.Errorf("vertex %d: %w", vertex, ErrNoNeighbors)
		}

		var normalSum, tangentSum math3d.Vec3
		for _, f := range adjacent {
			if f < 0 || f >= len(faceAttrs) {
				return normal, tangent, fmt.Errorf("vertex %d: neighbor face %d of %d: %w", vertex, f, len(faceAttrs), ErrIndexOutOfRange)
			}
			normalSum = normalSum.Add(faceAttrs[f].Normal)
			tangentSum = tangentSum.Add(faceAttrs[f].Tangent)
		}

		inv := 1.0 / float64(len(adjacent))
		return normalSum.Scale(inv).Normalize(), tangentSum.Scale(inv).Normalize(), nil

	default:
		return normal, tangent, fmt.Errorf("%w: %v", ErrUnknownShadingMode, mode)
	}
}

package attrib

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a face references a vertex that
	// does not exist, or a face index is outside the face list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUVCountMismatch is returned when a mesh carries UVs that are not
	// aligned one-to-one with its positions.
	ErrUVCountMismatch = errors.New("uv count does not match vertex count")

	// ErrNoNeighbors is returned when smooth synthesis is asked for a vertex
	// that no face references.
	ErrNoNeighbors = errors.New("vertex has no incident faces")

	// ErrUnknownShadingMode is returned for shading modes other than Smooth and Faceted.
	ErrUnknownShadingMode = errors.New("unknown shading mode")
)

// FaceIndexError reports a face corner whose vertex index is outside the
// mesh's position range.
type FaceIndexError struct {
	Face        int // face position in the face list
	Corner      int // 0, 1 or 2
	Index       int // offending vertex index
	VertexCount int
}

func (e *FaceIndexError) Error() string {
	return fmt.Sprintf("face %d corner %d: vertex index %d outside [0, %d)",
		e.Face, e.Corner, e.Index, e.VertexCount)
}

func (e *FaceIndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

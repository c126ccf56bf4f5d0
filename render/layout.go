// Package render hands triangle lists to renderers: a fixed interleaved
// vertex layout for direct buffer upload, and glTF binary export.
package render

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ansipixels/facet/attrib"
)

// Interleaved corner layout. Every field is little-endian float32.
const (
	OffsetPosition = 0  // vec3
	OffsetNormal   = 12 // vec3
	OffsetTangent  = 24 // vec3
	OffsetUV       = 36 // vec2

	FloatsPerCorner = 11
	CornerStride    = FloatsPerCorner * 4
)

// Interleave flattens the list into FloatsPerCorner floats per corner.
func Interleave(list *attrib.TriangleList) []float32 {
	out := make([]float32, 0, len(list.Corners)*FloatsPerCorner)
	for _, c := range list.Corners {
		p := c.Position.Float32()
		n := c.Normal.Float32()
		t := c.Tangent.Float32()
		uv := c.UV.Float32()
		out = append(out, p[:]...)
		out = append(out, n[:]...)
		out = append(out, t[:]...)
		out = append(out, uv[:]...)
	}
	return out
}

// Pack returns the interleaved corners as raw bytes, CornerStride bytes per corner.
func Pack(list *attrib.TriangleList) []byte {
	floats := Interleave(list)
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// WriteRaw writes the packed corner buffer to w.
func WriteRaw(w io.Writer, list *attrib.TriangleList) error {
	if _, err := w.Write(Pack(list)); err != nil {
		return fmt.Errorf("write corner buffer: %w", err)
	}
	return nil
}

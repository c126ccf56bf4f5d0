package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ansipixels/facet/math3d"
)

// STLLoader loads STL (stereolithography) files in both ASCII and binary formats.
//
// STL stores every triangle with its own three corner positions, so by
// default coincident corners are welded into shared vertices; without
// welding no vertex would have more than one incident face and smooth
// shading would degrade to faceted. Facet normals stored in the file are
// ignored. STL carries no texture coordinates.
type STLLoader struct {
	// Options
	NoDedupe       bool    // If true, don't weld vertices (each triangle gets its own)
	MergeTolerance float64 // Tolerance for vertex welding (0 = exact match)
}

// quantizedKey creates a hashable key from a position by quantizing to a grid.
// This handles floating point precision issues when comparing vertices.
type quantizedKey struct {
	x, y, z int64
}

func quantizePosition(pos math3d.Vec3, tolerance float64) quantizedKey {
	if tolerance <= 0 {
		tolerance = 1e-12
	}
	scale := 1.0 / tolerance
	return quantizedKey{
		x: int64(math.Round(pos.X * scale)),
		y: int64(math.Round(pos.Y * scale)),
		z: int64(math.Round(pos.Z * scale)),
	}
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{}
}

// LoadFile loads an STL file from disk.
func (l *STLLoader) LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}

	return l.LoadBytes(data, path)
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*Mesh, error) {
	if isBinarySTL(data) {
		return l.loadBinary(data, name)
	}
	return l.loadASCII(data, name)
}

// Load parses STL from a reader.
// Note: This reads the entire content into memory to detect format.
func (l *STLLoader) Load(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return l.LoadBytes(data, name)
}

// isBinarySTL detects if the data is binary STL format.
// Binary STL starts with 80-byte header, then 4-byte triangle count.
// ASCII STL starts with "solid".
func isBinarySTL(data []byte) bool {
	if len(data) < 84 {
		return false
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		// Could still be binary if "solid" appears in header;
		// trust the triangle count if it matches the file size exactly
		triCount := binary.LittleEndian.Uint32(data[80:84])
		return uint64(len(data)) == 84+uint64(triCount)*50
	}

	return true
}

// welder maps positions to vertex indices of the mesh being built.
type welder struct {
	mesh      *Mesh
	noDedupe  bool
	tolerance float64
	seen      map[quantizedKey]int
}

func (l *STLLoader) newWelder(mesh *Mesh) *welder {
	return &welder{
		mesh:      mesh,
		noDedupe:  l.NoDedupe,
		tolerance: l.MergeTolerance,
		seen:      make(map[quantizedKey]int),
	}
}

// add returns the vertex index for pos, appending a new vertex when needed.
func (w *welder) add(pos math3d.Vec3) int {
	if !w.noDedupe {
		key := quantizePosition(pos, w.tolerance)
		if idx, ok := w.seen[key]; ok {
			return idx
		}
		w.seen[key] = len(w.mesh.Positions)
	}
	w.mesh.Positions = append(w.mesh.Positions, pos)
	return len(w.mesh.Positions) - 1
}

// loadBinary parses binary STL format.
func (l *STLLoader) loadBinary(data []byte, name string) (*Mesh, error) {
	if len(data) < 84 {
		return nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}

	// Skip 80-byte header
	triCount := binary.LittleEndian.Uint32(data[80:84])

	expectedSize := 84 + uint64(triCount)*50
	if uint64(len(data)) < expectedSize {
		return nil, fmt.Errorf("binary STL truncated: expected %d bytes, got %d", expectedSize, len(data))
	}

	mesh := NewMesh(name)
	w := l.newWelder(mesh)

	offset := 84
	for range triCount {
		// Skip stored normal (3 floats = 12 bytes)
		offset += 12

		var face Face
		for v := range 3 {
			pos := math3d.V3(
				float64(readFloat32LE(data[offset:])),
				float64(readFloat32LE(data[offset+4:])),
				float64(readFloat32LE(data[offset+8:])),
			)
			offset += 12
			face[v] = w.add(pos)
		}

		// Skip 2-byte attribute byte count
		offset += 2

		mesh.Faces = append(mesh.Faces, face)
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// readFloat32LE reads a little-endian float32 from a byte slice.
func readFloat32LE(data []byte) float32 {
	bits := binary.LittleEndian.Uint32(data)
	return math.Float32frombits(bits)
}

// loadASCII parses ASCII STL format.
func (l *STLLoader) loadASCII(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	w := l.newWelder(mesh)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var faceVerts []int
	inFacet := false
	inLoop := false

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		case "facet":
			inFacet = true
			faceVerts = nil

		case "outer":
			if len(fields) >= 2 && strings.ToLower(fields[1]) == "loop" {
				inLoop = true
			}

		case "vertex":
			if !inFacet || !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside facet/loop", lineNum)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			pos, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			faceVerts = append(faceVerts, w.add(pos))

		case "endloop":
			inLoop = false

		case "endfacet":
			if len(faceVerts) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices: %w", lineNum, len(faceVerts), ErrNonTriangularFace)
			}
			mesh.Faces = append(mesh.Faces, Face{faceVerts[0], faceVerts[1], faceVerts[2]})
			inFacet = false
			faceVerts = nil

		default:
			// endsolid and unknown keywords
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// LoadSTL is a convenience function to load an STL file with default settings.
func LoadSTL(path string) (*Mesh, error) {
	return NewSTLLoader().LoadFile(path)
}


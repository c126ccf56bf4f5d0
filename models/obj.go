package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ansipixels/facet/math3d"
)

// OBJLoader loads Wavefront OBJ files.
type OBJLoader struct {
	// Options
	Triangulate bool // If true, fan-triangulate polygons; otherwise reject them
}

// NewOBJLoader creates a new OBJ loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		Triangulate: true,
	}
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses an OBJ from a reader.
//
// OBJ indexes positions and texture coordinates separately, while a Mesh
// aligns UVs with positions. Each distinct (position, uv) pair therefore
// becomes one mesh vertex. Vertex normals in the file are ignored; shading
// normals are synthesized downstream.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	// Temporary storage for OBJ data (1-indexed in OBJ format)
	var positions []math3d.Vec3
	var uvs []math3d.Vec2
	var normalCount int
	var vertexUVs []math3d.Vec2
	anyUV := false
	allUV := true

	type vertexKey struct {
		pos, uv int
	}
	vertexMap := make(map[vertexKey]int)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case "v": // Vertex position
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			p, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			positions = append(positions, p)

		case "vt": // Texture coordinate
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: invalid texture coord (need u v)", lineNum)
			}
			u, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid u coordinate: %w", lineNum, err)
			}
			v, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid v coordinate: %w", lineNum, err)
			}
			uvs = append(uvs, math3d.V2(u, v))

		case "vn": // Vertex normal, only counted for index resolution
			normalCount++

		case "f": // Face
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			if len(fields) > 4 && !l.Triangulate {
				return nil, fmt.Errorf("line %d: %d-sided face: %w", lineNum, len(fields)-1, ErrNonTriangularFace)
			}

			var faceVerts []int
			for i := 1; i < len(fields); i++ {
				posIdx, uvIdx, normalIdx, err := parseFaceVertex(fields[i])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}

				// Convert to 0-indexed, handle negative indices
				posIdx = resolveIndex(posIdx, len(positions))
				uvIdx = resolveIndex(uvIdx, len(uvs))
				normalIdx = resolveIndex(normalIdx, normalCount)

				if posIdx < 0 || posIdx >= len(positions) {
					return nil, fmt.Errorf("line %d: position index %d out of range", lineNum, posIdx+1)
				}
				if uvIdx < -1 || uvIdx >= len(uvs) {
					return nil, fmt.Errorf("line %d: texture index %d out of range", lineNum, uvIdx+1)
				}
				if normalIdx < -1 || normalIdx >= normalCount {
					return nil, fmt.Errorf("line %d: normal index %d out of range", lineNum, normalIdx+1)
				}

				if uvIdx >= 0 {
					anyUV = true
				} else {
					allUV = false
				}

				key := vertexKey{posIdx, uvIdx}
				vertIdx, exists := vertexMap[key]
				if !exists {
					vertIdx = len(mesh.Positions)
					mesh.Positions = append(mesh.Positions, positions[posIdx])
					var uv math3d.Vec2
					if uvIdx >= 0 {
						uv = uvs[uvIdx]
					}
					vertexUVs = append(vertexUVs, uv)
					vertexMap[key] = vertIdx
				}
				faceVerts = append(faceVerts, vertIdx)
			}

			mesh.Faces = append(mesh.Faces, triangulate(faceVerts)...)

		case "o", "g": // Object/group name (use as mesh name)
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		default:
			// mtllib, usemtl, s and unknown directives carry nothing we need
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	// Only keep UVs when every face corner referenced one; a partially
	// textured mesh would otherwise mix real and zero coordinates.
	if anyUV && allUV {
		mesh.UVs = vertexUVs
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// parseFaceVertex parses a face vertex in format: v, v/vt, v/vt/vn, or v//vn
// Returns 1-indexed values (0 means not specified)
func parseFaceVertex(s string) (pos, uv, normal int, err error) {
	parts := strings.Split(s, "/")

	// Position (required)
	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid vertex index: %s", parts[0])
	}

	// UV (optional)
	if len(parts) > 1 && parts[1] != "" {
		uv, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid texture index: %s", parts[1])
		}
	}

	// Normal (optional)
	if len(parts) > 2 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid normal index: %s", parts[2])
		}
	}

	return pos, uv, normal, nil
}

// resolveIndex converts OBJ 1-indexed (or negative) index to 0-indexed.
// Returns -1 if index was 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx // Negative indices count from end
	}
	return idx - 1
}

// parseVec3 parses three float fields.
func parseVec3(fields []string) (math3d.Vec3, error) {
	var c [3]float64
	for i, f := range fields[:3] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("invalid coordinate %q: %w", f, err)
		}
		c[i] = v
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

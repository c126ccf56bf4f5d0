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

// OFFLoader loads Object File Format (.off) meshes.
//
// Supported headers are OFF and STOFF; the latter carries a texture
// coordinate (s t) after each vertex position. Per-vertex and per-face
// colors are skipped.
type OFFLoader struct {
	// Options
	Triangulate bool // If true, fan-triangulate polygons; otherwise reject them
}

// NewOFFLoader creates a new OFF loader with default settings.
func NewOFFLoader() *OFFLoader {
	return &OFFLoader{
		Triangulate: true,
	}
}

// LoadFile loads an OFF file from disk.
func (l *OFFLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OFF file: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses an OFF mesh from a reader.
func (l *OFFLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	// next returns the fields of the next non-empty, non-comment line.
	next := func() ([]string, bool) {
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if i := strings.IndexByte(line, '#'); i >= 0 {
				line = line[:i]
			}
			if fields := strings.Fields(line); len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}

	fields, ok := next()
	if !ok {
		return nil, fmt.Errorf("empty OFF file")
	}

	header := fields[0]
	hasUV := false
	switch header {
	case "OFF":
	case "STOFF":
		hasUV = true
	default:
		return nil, fmt.Errorf("line %d: unsupported OFF header %q", lineNum, header)
	}

	// Counts may follow the header on the same line
	counts := fields[1:]
	if len(counts) == 0 {
		if counts, ok = next(); !ok {
			return nil, fmt.Errorf("missing OFF counts line")
		}
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("line %d: counts need vertex and face totals", lineNum)
	}
	nv, err := strconv.Atoi(counts[0])
	if err != nil || nv < 0 {
		return nil, fmt.Errorf("line %d: invalid vertex count %q", lineNum, counts[0])
	}
	nf, err := strconv.Atoi(counts[1])
	if err != nil || nf < 0 {
		return nil, fmt.Errorf("line %d: invalid face count %q", lineNum, counts[1])
	}

	mesh.Positions = make([]math3d.Vec3, 0, nv)
	if hasUV {
		mesh.UVs = make([]math3d.Vec2, 0, nv)
	}

	for range nv {
		fields, ok := next()
		if !ok {
			return nil, fmt.Errorf("unexpected end of file: read %d of %d vertices", len(mesh.Positions), nv)
		}
		want := 3
		if hasUV {
			want = 5
		}
		if len(fields) < want {
			return nil, fmt.Errorf("line %d: vertex needs %d values, got %d", lineNum, want, len(fields))
		}
		p, err := parseVec3(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		mesh.Positions = append(mesh.Positions, p)

		if hasUV {
			s, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid s coordinate: %w", lineNum, err)
			}
			t, err := strconv.ParseFloat(fields[4], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid t coordinate: %w", lineNum, err)
			}
			mesh.UVs = append(mesh.UVs, math3d.V2(s, t))
		}
	}

	for i := range nf {
		fields, ok := next()
		if !ok {
			return nil, fmt.Errorf("unexpected end of file: read %d of %d faces", i, nf)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid face size %q", lineNum, fields[0])
		}
		if n < 3 {
			return nil, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNum, n)
		}
		if n > 3 && !l.Triangulate {
			return nil, fmt.Errorf("line %d: %d-sided face: %w", lineNum, n, ErrNonTriangularFace)
		}
		if len(fields) < n+1 {
			return nil, fmt.Errorf("line %d: face lists %d of %d indices", lineNum, len(fields)-1, n)
		}

		poly := make([]int, n)
		for j := range n {
			idx, err := strconv.Atoi(fields[j+1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex index %q", lineNum, fields[j+1])
			}
			if idx < 0 || idx >= nv {
				return nil, fmt.Errorf("line %d: vertex index %d out of range [0, %d)", lineNum, idx, nv)
			}
			poly[j] = idx
		}
		mesh.Faces = append(mesh.Faces, triangulate(poly)...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OFF: %w", err)
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// LoadOFF is a convenience function to load an OFF file with default settings.
func LoadOFF(path string) (*Mesh, error) {
	return NewOFFLoader().LoadFile(path)
}

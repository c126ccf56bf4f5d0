package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// LoadOptions tunes the format loaders used by Load.
type LoadOptions struct {
	Triangulate    bool    // OBJ and OFF: fan-triangulate polygons
	MergeTolerance float64 // STL: vertex welding tolerance
	NoDedupe       bool    // STL: keep every triangle corner as its own vertex
}

// DefaultLoadOptions returns the options the convenience loaders use.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Triangulate: true,
	}
}

// Formats lists the file extensions Load understands.
func Formats() []string {
	return []string{".obj", ".off", ".stl", ".glb", ".gltf"}
}

// Load reads a mesh file, choosing the loader by file extension.
func Load(path string, opts LoadOptions) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".obj":
		return (&OBJLoader{Triangulate: opts.Triangulate}).LoadFile(path)
	case ".off":
		return (&OFFLoader{Triangulate: opts.Triangulate}).LoadFile(path)
	case ".stl":
		return (&STLLoader{NoDedupe: opts.NoDedupe, MergeTolerance: opts.MergeTolerance}).LoadFile(path)
	case ".glb", ".gltf":
		return NewGLTFLoader().Load(path)
	default:
		return nil, fmt.Errorf("%w: %q (use %s)", ErrUnsupportedFormat, ext, strings.Join(Formats(), ", "))
	}
}

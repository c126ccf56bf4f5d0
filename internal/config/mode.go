package config

import (
	"fmt"

	"github.com/ansipixels/facet/attrib"
)

// Render modes.
const (
	ModePerVertex     = "per_vertex"
	ModeNormalMapping = "normal_mapping"
	ModeFlat          = "flat"
	ModeWireframe     = "wireframe"
	ModeAuto          = "auto"
)

// RenderModes lists the accepted shading.mode values.
func RenderModes() []string {
	return []string{ModePerVertex, ModeNormalMapping, ModeFlat, ModeWireframe, ModeAuto}
}

// ResolveRenderMode replaces auto with normal_mapping for meshes with
// texture coordinates and per_vertex otherwise.
func ResolveRenderMode(mode string, hasUV bool) string {
	if mode != ModeAuto {
		return mode
	}
	if hasUV {
		return ModeNormalMapping
	}
	return ModePerVertex
}

// ShadingFor maps a resolved render mode to the attribute shading mode.
// Wireframe shares faceted attributes; only the draw mode differs.
func ShadingFor(mode string) (attrib.ShadingMode, error) {
	switch mode {
	case ModePerVertex, ModeNormalMapping:
		return attrib.Smooth, nil
	case ModeFlat, ModeWireframe:
		return attrib.Faceted, nil
	default:
		return attrib.Smooth, fmt.Errorf("%w: render mode %q", attrib.ErrUnknownShadingMode, mode)
	}
}

package attrib

import (
	"fmt"
	"strings"
)

// ShadingMode selects how corner normals and tangents are derived.
type ShadingMode int

const (
	// Smooth averages the attributes of every face sharing the vertex.
	Smooth ShadingMode = iota
	// Faceted uses the owning face's own attributes. It serves both flat
	// and wireframe rendering.
	Faceted
)

func (m ShadingMode) String() string {
	switch m {
	case Smooth:
		return "smooth"
	case Faceted:
		return "faceted"
	default:
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
}

// ParseShadingMode parses "smooth" or "faceted", ignoring case.
func ParseShadingMode(s string) (ShadingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "smooth":
		return Smooth, nil
	case "faceted":
		return Faceted, nil
	default:
		return Smooth, fmt.Errorf("%w: %q (use smooth or faceted)", ErrUnknownShadingMode, s)
	}
}

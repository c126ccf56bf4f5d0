package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/ansipixels/facet/attrib"
	"github.com/ansipixels/facet/math3d"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrEmptyList is returned when exporting a triangle list with no corners.
var ErrEmptyList = errors.New("triangle list is empty")

// GLBOptions controls glTF export.
type GLBOptions struct {
	Name       string // mesh and node name
	RenderMode string // recorded in the scene extras, e.g. "wireframe"
}

// Document builds a glTF document holding the list as one non-indexed
// triangle primitive.
//
// POSITION and NORMAL are always written. TEXCOORD_0 and TANGENT are only
// written when the list has UVs. Tangents are orthogonalized against the
// normal and normalized; a tangent that collapses to zero is replaced by an
// arbitrary unit vector perpendicular to the normal.
func Document(list *attrib.TriangleList, opts GLBOptions) (*gltf.Document, error) {
	if len(list.Corners) == 0 {
		return nil, ErrEmptyList
	}

	n := len(list.Corners)
	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	for i, c := range list.Corners {
		positions[i] = c.Position.Float32()
		normals[i] = c.Normal.Float32()
	}

	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
		gltf.NORMAL:   modeler.WriteNormal(doc, normals),
	}

	if list.HasUV {
		uvs := make([][2]float32, n)
		tangents := make([][4]float32, n)
		for i, c := range list.Corners {
			uv := c.UV.Float32()
			// glTF puts the UV origin at the top-left
			uvs[i] = [2]float32{uv[0], 1 - uv[1]}
			// w is the bitangent sign; right-handed frames only
			tangents[i] = math3d.V4FromV3(exportTangent(c.Normal, c.Tangent), 1).Float32()
		}
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
		attrs[gltf.TANGENT] = modeler.WriteTangent(doc, tangents)
	}

	name := opts.Name
	if name == "" {
		name = "facet"
	}
	doc.Meshes = []*gltf.Mesh{{
		Name:       name,
		Primitives: []*gltf.Primitive{{Attributes: attrs, Mode: gltf.PrimitiveTriangles}},
	}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	extras := map[string]any{"shading": list.Mode.String()}
	if opts.RenderMode != "" {
		extras["renderMode"] = opts.RenderMode
	}
	doc.Scenes[0].Extras = extras

	return doc, nil
}

// exportTangent returns a unit tangent orthogonal to normal.
func exportTangent(normal, tangent math3d.Vec3) math3d.Vec3 {
	t := tangent.Sub(normal.Scale(normal.Dot(tangent)))
	if t.LenSq() < 1e-12 || !t.IsFinite() {
		return normal.Perpendicular()
	}
	return t.Normalize()
}

// EncodeGLB writes the list to w as a binary glTF.
func EncodeGLB(w io.Writer, list *attrib.TriangleList, opts GLBOptions) error {
	doc, err := Document(list, opts)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode glb: %w", err)
	}
	return nil
}

// WriteGLB writes the list to a .glb file at path.
func WriteGLB(path string, list *attrib.TriangleList, opts GLBOptions) error {
	doc, err := Document(list, opts)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb %s: %w", path, err)
	}
	return nil
}

package models

import (
	"fmt"
	"path/filepath"

	"github.com/ansipixels/facet/math3d"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
//
// All triangle primitives reachable from the default scene are flattened
// into one mesh with node transforms applied. Texture coordinates are kept
// only when every primitive provides TEXCOORD_0.
type GLTFLoader struct {
	// Options
	FlipV bool // If true, convert GLTF's top-left UV origin to bottom-left
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		FlipV: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) or text GLTF file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc, filepath.Base(path))
}

// FromDocument flattens an already decoded GLTF document into a Mesh.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	b := &gltfBuilder{
		loader:  l,
		doc:     doc,
		mesh:    NewMesh(name),
		visited: make(map[int]bool),
		allUV:   true,
	}

	for _, nodeIdx := range rootNodes(doc) {
		if err := b.processNode(nodeIdx, math3d.Identity()); err != nil {
			return nil, err
		}
	}

	if b.allUV && b.anyPrim {
		b.mesh.UVs = b.uvs
	}
	b.mesh.CalculateBounds()

	return b.mesh, nil
}

// rootNodes returns the nodes of the default scene, or every parentless
// node when the document defines no scenes.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = int(*doc.Scene)
		}
		if sceneIdx < len(doc.Scenes) {
			roots := make([]int, len(doc.Scenes[sceneIdx].Nodes))
			for i, n := range doc.Scenes[sceneIdx].Nodes {
				roots[i] = int(n)
			}
			return roots
		}
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, child := range n.Children {
			isChild[int(child)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfBuilder accumulates geometry while walking the node hierarchy.
type gltfBuilder struct {
	loader  *GLTFLoader
	doc     *gltf.Document
	mesh    *Mesh
	uvs     []math3d.Vec2
	visited map[int]bool
	allUV   bool
	anyPrim bool
}

// processNode recursively processes a node and its children, accumulating transforms.
func (b *gltfBuilder) processNode(nodeIdx int, parentTransform math3d.Mat4) error {
	if nodeIdx < 0 || nodeIdx >= len(b.doc.Nodes) {
		return fmt.Errorf("node %d out of range", nodeIdx)
	}
	if b.visited[nodeIdx] {
		return fmt.Errorf("node %d: cycle in node hierarchy", nodeIdx)
	}
	b.visited[nodeIdx] = true
	defer delete(b.visited, nodeIdx)

	node := b.doc.Nodes[nodeIdx]
	worldTransform := parentTransform.Mul(localTransform(node))

	if node.Mesh != nil {
		meshIdx := int(*node.Mesh)
		if meshIdx >= len(b.doc.Meshes) {
			return fmt.Errorf("node %d: mesh %d out of range", nodeIdx, meshIdx)
		}
		if err := b.processMesh(b.doc.Meshes[meshIdx], worldTransform); err != nil {
			return fmt.Errorf("mesh %d: %w", meshIdx, err)
		}
	}

	for _, childIdx := range node.Children {
		if err := b.processNode(int(childIdx), worldTransform); err != nil {
			return err
		}
	}
	return nil
}

// localTransform builds a node's local matrix from its TRS or explicit matrix.
func localTransform(node *gltf.Node) math3d.Mat4 {
	if node.Matrix != [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1} &&
		node.Matrix != [16]float64{} {
		return math3d.Mat4FromSlice(node.Matrix[:])
	}

	local := math3d.Identity()

	if node.Translation != [3]float64{0, 0, 0} {
		local = local.Mul(math3d.Translate(math3d.V3(
			node.Translation[0],
			node.Translation[1],
			node.Translation[2],
		)))
	}

	if node.Rotation != [4]float64{0, 0, 0, 1} && node.Rotation != [4]float64{} {
		local = local.Mul(math3d.QuatToMat4(
			node.Rotation[0],
			node.Rotation[1],
			node.Rotation[2],
			node.Rotation[3],
		))
	}

	if node.Scale != [3]float64{1, 1, 1} && node.Scale != [3]float64{0, 0, 0} {
		local = local.Mul(math3d.Scale(math3d.V3(
			node.Scale[0],
			node.Scale[1],
			node.Scale[2],
		)))
	}

	return local
}

// accessor returns the accessor at idx or an error when it does not exist.
func (b *gltfBuilder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

// processMesh extracts triangle geometry from a GLTF mesh, applying the given transform.
func (b *gltfBuilder) processMesh(m *gltf.Mesh, transform math3d.Mat4) error {
	mirrored := transform.Determinant3() < 0

	for pi, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Lines and points have no faces
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		acr, err := b.accessor(posIdx)
		if err != nil {
			return fmt.Errorf("primitive %d: positions: %w", pi, err)
		}
		positions, err := modeler.ReadPosition(b.doc, acr, nil)
		if err != nil {
			return fmt.Errorf("primitive %d: read positions: %w", pi, err)
		}

		var texCoords [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			acr, err := b.accessor(uvIdx)
			if err != nil {
				return fmt.Errorf("primitive %d: uvs: %w", pi, err)
			}
			texCoords, err = modeler.ReadTextureCoord(b.doc, acr, nil)
			if err != nil {
				return fmt.Errorf("primitive %d: read uvs: %w", pi, err)
			}
		}
		if len(texCoords) != len(positions) {
			b.allUV = false
		}
		b.anyPrim = true

		baseVertex := len(b.mesh.Positions)
		for i, p := range positions {
			pos := math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
			b.mesh.Positions = append(b.mesh.Positions, transform.MulVec3(pos))

			var uv math3d.Vec2
			if i < len(texCoords) {
				uv = math3d.V2(float64(texCoords[i][0]), float64(texCoords[i][1]))
				if b.loader.FlipV {
					uv.Y = 1.0 - uv.Y
				}
			}
			b.uvs = append(b.uvs, uv)
		}

		var indices []uint32
		if prim.Indices != nil {
			acr, err := b.accessor(int(*prim.Indices))
			if err != nil {
				return fmt.Errorf("primitive %d: indices: %w", pi, err)
			}
			indices, err = modeler.ReadIndices(b.doc, acr, nil)
			if err != nil {
				return fmt.Errorf("primitive %d: read indices: %w", pi, err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return fmt.Errorf("primitive %d: index %d out of range (%d vertices)", pi, idx, len(positions))
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			face := Face{
				baseVertex + int(indices[i]),
				baseVertex + int(indices[i+1]),
				baseVertex + int(indices[i+2]),
			}
			if mirrored {
				face[1], face[2] = face[2], face[1]
			}
			b.mesh.Faces = append(b.mesh.Faces, face)
		}
	}

	return nil
}

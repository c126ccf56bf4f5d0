package attrib

import (
	"math"

	"github.com/ansipixels/facet/math3d"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Corner is one vertex occurrence within one face.
type Corner struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Tangent  math3d.Vec3
	UV       math3d.Vec2
}

// TriangleList is the flattened output of a build: three corners per face,
// in face order and in each face's stored corner order.
type TriangleList struct {
	Corners []Corner
	Mode    ShadingMode
	HasUV   bool // false means every UV is zero and tangents carry no meaning

	// Faces whose normal (or tangent) fell back to zero.
	DegenerateNormals  int
	DegenerateTangents int
}

// TriangleCount returns the number of triangles in the list.
func (l *TriangleList) TriangleCount() int {
	return len(l.Corners) / 3
}

// Bounds returns the axis-aligned bounds of all corner positions.
// An empty list has zero bounds.
func (l *TriangleList) Bounds() (lo, hi math3d.Vec3) {
	if len(l.Corners) == 0 {
		return lo, hi
	}
	lo = l.Corners[0].Position
	hi = lo
	for _, c := range l.Corners[1:] {
		lo = lo.Min(c.Position)
		hi = hi.Max(c.Position)
	}
	return lo, hi
}

// Options configures a Builder.
type Options struct {
	Mode ShadingMode
	// Workers > 1 computes face attributes on that many goroutines.
	Workers int
	// Logger receives degeneracy warnings and build summaries. Nil disables logging.
	Logger *zap.Logger
}

// minFacesPerWorker keeps tiny meshes on the serial path.
const minFacesPerWorker = 1024

// Builder turns meshes into triangle lists. A Builder holds no per-mesh
// state and may be reused.
type Builder struct {
	opts Options
	log  *zap.Logger
}

// NewBuilder creates a builder with the given options.
func NewBuilder(opts Options) *Builder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{opts: opts, log: log}
}

// BuildTriangleList builds a triangle list serially with the given mode.
func BuildTriangleList(mesh MeshSource, mode ShadingMode) (*TriangleList, error) {
	return NewBuilder(Options{Mode: mode}).Build(mesh)
}

// Build validates mesh, then computes face attributes, the neighbor index
// and the corner list. Nothing is cached between calls.
func (b *Builder) Build(mesh MeshSource) (*TriangleList, error) {
	if b.opts.Mode != Smooth && b.opts.Mode != Faceted {
		return nil, ErrUnknownShadingMode
	}
	if err := Validate(mesh); err != nil {
		return nil, err
	}

	hasUV := mesh.UVCount() > 0
	positions := make([]math3d.Vec3, mesh.VertexCount())
	for i := range positions {
		positions[i] = mesh.Position(i)
	}
	uvs := make([]math3d.Vec2, len(positions))
	if hasUV {
		for i := range uvs {
			uvs[i], _ = mesh.UV(i)
		}
	}
	faces := make([][3]int, mesh.TriangleCount())
	for i := range faces {
		faces[i] = mesh.Face(i)
	}

	faceAttrs, err := b.computeFaces(positions, uvs, faces)
	if err != nil {
		return nil, err
	}
	neighbors := BuildNeighborIndex(faces)

	list := &TriangleList{
		Corners: make([]Corner, 0, 3*len(faces)),
		Mode:    b.opts.Mode,
		HasUV:   hasUV,
	}

	// Smooth attributes depend only on the vertex
	type vertexAttrs struct {
		normal, tangent math3d.Vec3
		done            bool
	}
	var smooth []vertexAttrs
	if b.opts.Mode == Smooth {
		smooth = make([]vertexAttrs, len(positions))
	}

	for fi, face := range faces {
		fa := faceAttrs[fi]
		if fa.DegenerateNormal {
			list.DegenerateNormals++
		}
		if hasUV && fa.DegenerateTangent {
			list.DegenerateTangents++
		}

		for _, v := range face {
			var normal, tangent math3d.Vec3
			if smooth != nil && smooth[v].done {
				normal, tangent = smooth[v].normal, smooth[v].tangent
			} else {
				normal, tangent, err = SynthesizeCorner(v, fi, b.opts.Mode, neighbors, faceAttrs)
				if err != nil {
					return nil, err
				}
				if smooth != nil {
					smooth[v] = vertexAttrs{normal: normal, tangent: tangent, done: true}
				}
			}

			list.Corners = append(list.Corners, Corner{
				Position: positions[v],
				Normal:   normal,
				Tangent:  tangent,
				UV:       uvs[v],
			})
		}
	}

	if list.DegenerateNormals > 0 || list.DegenerateTangents > 0 {
		b.log.Warn("degenerate faces",
			zap.Int("faces", len(faces)),
			zap.Int("zeroNormals", list.DegenerateNormals),
			zap.Int("zeroTangents", list.DegenerateTangents),
		)
	}
	b.log.Debug("built triangle list",
		zap.Stringer("mode", b.opts.Mode),
		zap.Int("vertices", len(positions)),
		zap.Int("faces", len(faces)),
		zap.Int("referencedVertices", neighbors.Len()),
		zap.Bool("hasUV", hasUV),
	)

	return list, nil
}

// computeFaces fills one FaceAttributes slot per face. With more than one
// worker the faces are split into contiguous chunks; each goroutine writes
// only its own slots, so the result matches the serial path exactly.
func (b *Builder) computeFaces(positions []math3d.Vec3, uvs []math3d.Vec2, faces [][3]int) ([]FaceAttributes, error) {
	attrs := make([]FaceAttributes, len(faces))

	computeRange := func(start, end int) {
		for i := start; i < end; i++ {
			f := faces[i]
			attrs[i] = ComputeFaceAttributes(
				positions[f[0]], positions[f[1]], positions[f[2]],
				uvs[f[0]], uvs[f[1]], uvs[f[2]],
			)
		}
	}

	workers := b.workersFor(len(faces))
	if workers <= 1 {
		computeRange(0, len(faces))
		return attrs, nil
	}

	chunk := (len(faces) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(faces); start += chunk {
		end := min(start+chunk, len(faces))
		g.Go(func() error {
			computeRange(start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.log.Debug("computed face attributes",
		zap.Int("faces", len(faces)),
		zap.Int("workers", workers),
		zap.Int("chunk", chunk),
	)
	return attrs, nil
}

// workersFor caps the configured worker count so each worker gets at least
// minFacesPerWorker faces.
func (b *Builder) workersFor(faces int) int {
	if b.opts.Workers <= 1 {
		return 1
	}
	byLoad := int(math.Ceil(float64(faces) / minFacesPerWorker))
	return max(1, min(b.opts.Workers, byLoad))
}

package attrib

import (
	"errors"
	"math"
	"testing"

	"github.com/ansipixels/facet/math3d"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// unitSquare is the square {(0,0,0),(1,0,0),(1,1,0),(0,1,0)} split along
// its diagonal into two counter-clockwise triangles.
func unitSquare(withUV bool) *IndexedMesh {
	m := &IndexedMesh{
		Positions: []math3d.Vec3{
			math3d.V3(0, 0, 0),
			math3d.V3(1, 0, 0),
			math3d.V3(1, 1, 0),
			math3d.V3(0, 1, 0),
		},
		Faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
	if withUV {
		m.UVs = []math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1), math3d.V2(0, 1)}
	}
	return m
}

// grid returns an n×n grid of quads on a bumpy height field, with UVs.
func grid(n int) *IndexedMesh {
	m := &IndexedMesh{}
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			fx, fy := float64(x)/float64(n), float64(y)/float64(n)
			m.Positions = append(m.Positions, math3d.V3(fx, fy, 0.1*math.Sin(7*fx)*math.Cos(5*fy)))
			m.UVs = append(m.UVs, math3d.V2(fx, fy))
		}
	}
	row := n + 1
	for y := range n {
		for x := range n {
			i := y*row + x
			m.Faces = append(m.Faces, [3]int{i, i + 1, i + row + 1}, [3]int{i, i + row + 1, i + row})
		}
	}
	return m
}

func TestUnitSquare(t *testing.T) {
	for _, mode := range []ShadingMode{Smooth, Faceted} {
		t.Run(mode.String(), func(t *testing.T) {
			list, err := BuildTriangleList(unitSquare(true), mode)
			if err != nil {
				t.Fatalf("BuildTriangleList() error: %v", err)
			}
			if len(list.Corners) != 6 {
				t.Fatalf("got %d corners, want 6", len(list.Corners))
			}
			for i, c := range list.Corners {
				if !c.Normal.ApproxEqual(math3d.V3(0, 0, 1), eps) {
					t.Errorf("corner %d normal = %v, want (0,0,1)", i, c.Normal)
				}
				if !c.Tangent.ApproxEqual(math3d.V3(1, 0, 0), eps) {
					t.Errorf("corner %d tangent = %v, want (1,0,0)", i, c.Tangent)
				}
			}
			if list.Mode != mode || !list.HasUV {
				t.Errorf("Mode = %v, HasUV = %v; want %v, true", list.Mode, list.HasUV, mode)
			}
		})
	}
}

func TestCornerOrderAndCopies(t *testing.T) {
	mesh := unitSquare(true)
	list, err := BuildTriangleList(mesh, Faceted)
	if err != nil {
		t.Fatal(err)
	}

	// Corners follow each face's stored order
	order := []int{0, 1, 2, 0, 2, 3}
	for i, v := range order {
		c := list.Corners[i]
		if c.Position != mesh.Positions[v] {
			t.Errorf("corner %d position = %v, want vertex %d %v", i, c.Position, v, mesh.Positions[v])
		}
		if c.UV != mesh.UVs[v] {
			t.Errorf("corner %d uv = %v, want %v", i, c.UV, mesh.UVs[v])
		}
	}

	// Corners are independent copies
	list.Corners[0].Position = math3d.V3(9, 9, 9)
	if list.Corners[3].Position != math3d.V3(0, 0, 0) || mesh.Positions[0] != math3d.V3(0, 0, 0) {
		t.Error("modifying a corner affected another corner or the mesh")
	}
}

func TestNonCoplanarPair(t *testing.T) {
	mesh := hinge()

	faceted, err := BuildTriangleList(mesh, Faceted)
	if err != nil {
		t.Fatal(err)
	}
	smooth, err := BuildTriangleList(mesh, Smooth)
	if err != nil {
		t.Fatal(err)
	}

	// Vertex 0 is corner 0 of face 0 and corner 0 of face 1
	f0, f1 := faceted.Corners[0].Normal, faceted.Corners[3].Normal
	if f0.ApproxEqual(f1, eps) {
		t.Errorf("faceted corners share normal %v", f0)
	}

	s0, s1 := smooth.Corners[0].Normal, smooth.Corners[3].Normal
	if s0 != s1 {
		t.Errorf("smooth corners differ: %v vs %v", s0, s1)
	}
	if s0.ApproxEqual(f0, 1e-6) || s0.ApproxEqual(f1, 1e-6) {
		t.Errorf("smooth normal %v equals one face normal exactly", s0)
	}
	if math.Abs(s0.Len()-1) > eps {
		t.Errorf("smooth normal %v is not unit length", s0)
	}

	// Vertex 2 only touches face 0, so smooth equals faceted there
	if !smooth.Corners[2].Normal.ApproxEqual(faceted.Corners[2].Normal, eps) {
		t.Errorf("single-face vertex: smooth %v, faceted %v", smooth.Corners[2].Normal, faceted.Corners[2].Normal)
	}
}

func TestNoUVRoundTrip(t *testing.T) {
	for _, mode := range []ShadingMode{Smooth, Faceted} {
		list, err := BuildTriangleList(hinge(), mode)
		if err != nil {
			t.Fatalf("%v: BuildTriangleList() error: %v", mode, err)
		}
		if list.HasUV {
			t.Errorf("%v: HasUV = true for mesh without UVs", mode)
		}
		if len(list.Corners) != 6 {
			t.Errorf("%v: got %d corners, want 6", mode, len(list.Corners))
		}
		for i, c := range list.Corners {
			if c.UV != (math3d.Vec2{}) {
				t.Errorf("%v: corner %d uv = %v, want zero", mode, i, c.UV)
			}
			if !c.Normal.IsFinite() || !c.Tangent.IsFinite() {
				t.Errorf("%v: corner %d has non-finite attributes: %+v", mode, i, c)
			}
		}
		// Missing UVs are not counted as degenerate tangents
		if list.DegenerateTangents != 0 {
			t.Errorf("%v: DegenerateTangents = %d, want 0", mode, list.DegenerateTangents)
		}
	}
}

func TestCornerCountIsThreeTimesFaces(t *testing.T) {
	meshes := map[string]*IndexedMesh{
		"square":      unitSquare(true),
		"square_nouv": unitSquare(false),
		"hinge":       hinge(),
		"grid":        grid(6),
		"empty":       {},
	}
	for name, mesh := range meshes {
		for _, mode := range []ShadingMode{Smooth, Faceted} {
			list, err := BuildTriangleList(mesh, mode)
			if err != nil {
				t.Fatalf("%s/%v: %v", name, mode, err)
			}
			if len(list.Corners) != 3*len(mesh.Faces) {
				t.Errorf("%s/%v: %d corners for %d faces", name, mode, len(list.Corners), len(mesh.Faces))
			}
			if list.TriangleCount() != len(mesh.Faces) {
				t.Errorf("%s/%v: TriangleCount() = %d, want %d", name, mode, list.TriangleCount(), len(mesh.Faces))
			}
		}
	}
}

func TestUnreferencedVertexIsIgnored(t *testing.T) {
	mesh := unitSquare(false)
	mesh.Positions = append(mesh.Positions, math3d.V3(5, 5, 5))

	list, err := BuildTriangleList(mesh, Smooth)
	if err != nil {
		t.Fatalf("BuildTriangleList() error: %v", err)
	}
	if _, hi := list.Bounds(); hi != math3d.V3(1, 1, 0) {
		t.Errorf("Bounds() max = %v, want (1,1,0)", hi)
	}
}

func TestBuildOutOfRangeIndex(t *testing.T) {
	mesh := unitSquare(false)
	mesh.Faces[1] = [3]int{0, 2, 4}

	_, err := BuildTriangleList(mesh, Smooth)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	var fie *FaceIndexError
	if !errors.As(err, &fie) {
		t.Fatalf("err = %T, want *FaceIndexError", err)
	}
	if fie.Face != 1 || fie.Corner != 2 || fie.Index != 4 || fie.VertexCount != 4 {
		t.Errorf("FaceIndexError = %+v, want face 1 corner 2 index 4 of 4", *fie)
	}
}

func TestBuildNegativeIndex(t *testing.T) {
	mesh := unitSquare(false)
	mesh.Faces[0] = [3]int{-1, 1, 2}

	if _, err := BuildTriangleList(mesh, Faceted); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestBuildUVMismatch(t *testing.T) {
	mesh := unitSquare(true)
	mesh.UVs = mesh.UVs[:3]

	if _, err := BuildTriangleList(mesh, Smooth); !errors.Is(err, ErrUVCountMismatch) {
		t.Errorf("err = %v, want ErrUVCountMismatch", err)
	}
}

func TestBuildUnknownMode(t *testing.T) {
	if _, err := BuildTriangleList(unitSquare(false), ShadingMode(3)); !errors.Is(err, ErrUnknownShadingMode) {
		t.Errorf("err = %v, want ErrUnknownShadingMode", err)
	}
}

func TestDegenerateFacesAreCountedAndLogged(t *testing.T) {
	mesh := unitSquare(true)
	// Collinear positions and UVs
	mesh.Positions = append(mesh.Positions, math3d.V3(2, 0, 0), math3d.V3(3, 0, 0))
	mesh.UVs = append(mesh.UVs, math3d.V2(0.5, 0), math3d.V2(0.75, 0))
	mesh.Faces = append(mesh.Faces, [3]int{1, 4, 5})

	core, logs := observer.New(zapcore.WarnLevel)
	b := NewBuilder(Options{Mode: Smooth, Logger: zap.New(core)})

	list, err := b.Build(mesh)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if list.DegenerateNormals != 1 || list.DegenerateTangents != 1 {
		t.Errorf("degenerate counts = %d normals, %d tangents; want 1, 1",
			list.DegenerateNormals, list.DegenerateTangents)
	}
	for i, c := range list.Corners {
		if !c.Normal.IsFinite() || !c.Tangent.IsFinite() {
			t.Errorf("corner %d has non-finite attributes: %+v", i, c)
		}
	}
	// Vertex 1 also has a square face; vertex 4 has only the degenerate one
	if !list.Corners[6].Normal.ApproxEqual(math3d.V3(0, 0, 1), eps) {
		t.Errorf("shared vertex normal = %v, want (0,0,1)", list.Corners[6].Normal)
	}
	if !list.Corners[7].Normal.IsZero() {
		t.Errorf("isolated degenerate vertex normal = %v, want zero", list.Corners[7].Normal)
	}

	if logs.Len() != 1 {
		t.Fatalf("got %d warnings, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "degenerate faces" {
		t.Errorf("warning message = %q", entry.Message)
	}
	if got := entry.ContextMap()["zeroNormals"]; got != int64(1) {
		t.Errorf("zeroNormals field = %v, want 1", got)
	}
}

func TestCleanMeshLogsNoWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	if _, err := NewBuilder(Options{Logger: zap.New(core)}).Build(unitSquare(true)); err != nil {
		t.Fatal(err)
	}
	if logs.Len() != 0 {
		t.Errorf("got %d warnings for a clean mesh", logs.Len())
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	mesh := grid(48) // 4608 faces, enough for several workers

	for _, mode := range []ShadingMode{Smooth, Faceted} {
		serial, err := NewBuilder(Options{Mode: mode}).Build(mesh)
		if err != nil {
			t.Fatal(err)
		}
		parallel, err := NewBuilder(Options{Mode: mode, Workers: 8}).Build(mesh)
		if err != nil {
			t.Fatal(err)
		}
		if len(serial.Corners) != len(parallel.Corners) {
			t.Fatalf("%v: corner counts differ: %d vs %d", mode, len(serial.Corners), len(parallel.Corners))
		}
		for i := range serial.Corners {
			if serial.Corners[i] != parallel.Corners[i] {
				t.Fatalf("%v: corner %d differs: %+v vs %+v", mode, i, serial.Corners[i], parallel.Corners[i])
			}
		}
	}
}

func TestWorkersFor(t *testing.T) {
	tests := []struct {
		workers, faces, want int
	}{
		{0, 100000, 1},
		{1, 100000, 1},
		{8, 100, 1},
		{8, 2048, 2},
		{8, 2049, 3},
		{4, 100000, 4},
	}
	for _, tt := range tests {
		b := NewBuilder(Options{Workers: tt.workers})
		if got := b.workersFor(tt.faces); got != tt.want {
			t.Errorf("workersFor(%d) with %d workers = %d, want %d", tt.faces, tt.workers, got, tt.want)
		}
	}
}

func TestBounds(t *testing.T) {
	var empty TriangleList
	if lo, hi := empty.Bounds(); lo != (math3d.Vec3{}) || hi != (math3d.Vec3{}) {
		t.Errorf("empty Bounds() = %v, %v; want zero", lo, hi)
	}

	list, err := BuildTriangleList(hinge(), Smooth)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := list.Bounds()
	if lo != math3d.V3(0, 0, 0) || hi != math3d.V3(1, 1, 1) {
		t.Errorf("Bounds() = %v, %v; want (0,0,0), (1,1,1)", lo, hi)
	}
}

func BenchmarkBuildSmooth(b *testing.B) {
	mesh := grid(64)
	builder := NewBuilder(Options{Mode: Smooth})
	b.ResetTimer()
	for range b.N {
		if _, err := builder.Build(mesh); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildSmoothParallel(b *testing.B) {
	mesh := grid(64)
	builder := NewBuilder(Options{Mode: Smooth, Workers: 4})
	b.ResetTimer()
	for range b.N {
		if _, err := builder.Build(mesh); err != nil {
			b.Fatal(err)
		}
	}
}

package attrib

import (
	"slices"
	"testing"
)

func TestBuildNeighborIndex(t *testing.T) {
	faces := [][3]int{{0, 1, 2}, {0, 2, 3}, {2, 4, 0}}
	idx := BuildNeighborIndex(faces)

	tests := []struct {
		vertex int
		want   []int
	}{
		{0, []int{0, 1, 2}},
		{1, []int{0}},
		{2, []int{0, 1, 2}},
		{3, []int{1}},
		{4, []int{2}},
	}
	for _, tt := range tests {
		if got := idx.Faces(tt.vertex); !slices.Equal(got, tt.want) {
			t.Errorf("Faces(%d) = %v, want %v", tt.vertex, got, tt.want)
		}
		if got := idx.Count(tt.vertex); got != len(tt.want) {
			t.Errorf("Count(%d) = %d, want %d", tt.vertex, got, len(tt.want))
		}
	}
	if idx.Len() != 5 {
		t.Errorf("Len() = %d, want 5", idx.Len())
	}
}

func TestNeighborIndexUnreferencedVertex(t *testing.T) {
	// Vertex 3 exists in the mesh but no face uses it
	idx := BuildNeighborIndex([][3]int{{0, 1, 2}, {4, 1, 0}})

	if got := idx.Faces(3); got != nil {
		t.Errorf("Faces(3) = %v, want nil", got)
	}
	if idx.Count(3) != 0 {
		t.Errorf("Count(3) = %d, want 0", idx.Count(3))
	}
	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4", idx.Len())
	}
}

func TestNeighborIndexEmpty(t *testing.T) {
	idx := BuildNeighborIndex(nil)
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}

	var zero NeighborIndex
	if zero.Faces(0) != nil || zero.Len() != 0 {
		t.Error("zero NeighborIndex should report no neighbors")
	}
}

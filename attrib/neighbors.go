package attrib

// NeighborIndex maps a vertex index to the faces that reference it.
//
// Face lists are kept in face-traversal order. A vertex that no face
// references has no entry at all.
type NeighborIndex struct {
	faces map[int][]int
}

// BuildNeighborIndex records, for every face, its index under each of its
// three vertices. A face that names the same vertex twice is recorded twice.
func BuildNeighborIndex(faces [][3]int) NeighborIndex {
	idx := NeighborIndex{faces: make(map[int][]int)}
	for fi, face := range faces {
		for _, v := range face {
			idx.faces[v] = append(idx.faces[v], fi)
		}
	}
	return idx
}

// Faces returns the faces incident to vertex v, or nil when v is unreferenced.
// The returned slice is shared with the index and must not be modified.
func (n NeighborIndex) Faces(v int) []int {
	return n.faces[v]
}

// Count returns the number of face incidences recorded for vertex v.
func (n NeighborIndex) Count(v int) int {
	return len(n.faces[v])
}

// Len returns the number of referenced vertices.
func (n NeighborIndex) Len() int {
	return len(n.faces)
}

package hapt

import (
	"slices"
)

// Incidence holds per-vertex incidence lists: the tetrahedra that use a
// vertex and the vertices joined to it by a tetrahedron edge. Lists are
// stored contiguously and are sorted in ascending order.
type Incidence struct {
	tetOff  []uint32
	tets    []uint32
	vertOff []uint32
	verts   []uint32
}

// BuildIncidence builds vertex incidence lists with a single pass over all
// tetrahedra. When strict is set a vertex not used by any tetrahedron is
// reported as a malformed mesh.
func BuildIncidence(m *Mesh, strict bool) (*Incidence, error) {
	nv := len(m.Vertices)
	inc := &Incidence{}
	var err error
	inc.tetOff, err = makeSlice[uint32](nv+1, "tetra incidence offsets")
	if err != nil {
		return nil, err
	}
	inc.tets, err = makeSlice[uint32](4*len(m.Tetras), "tetra incidence")
	if err != nil {
		return nil, err
	}
	for _, t := range m.Tetras {
		for _, v := range t {
			inc.tetOff[v+1]++
		}
	}
	for v := 0; v < nv; v++ {
		if strict && inc.tetOff[v+1] == 0 {
			return nil, malformed("vertex %d has no incident tetrahedra", v)
		}
		inc.tetOff[v+1] += inc.tetOff[v]
	}
	// Filling in cell order leaves every list sorted.
	fill := slices.Clone(inc.tetOff[:nv])
	for i, t := range m.Tetras {
		for _, v := range t {
			inc.tets[fill[v]] = uint32(i)
			fill[v]++
		}
	}

	inc.vertOff, err = makeSlice[uint32](nv+1, "vertex incidence offsets")
	if err != nil {
		return nil, err
	}
	inc.verts = make([]uint32, 0, 3*len(inc.tets))
	var scratch []uint32
	for v := 0; v < nv; v++ {
		scratch = scratch[:0]
		for _, ti := range inc.TetrasOf(uint32(v)) {
			for _, w := range m.Tetras[ti] {
				if w != uint32(v) {
					scratch = append(scratch, w)
				}
			}
		}
		slices.Sort(scratch)
		scratch = slices.Compact(scratch)
		inc.verts = append(inc.verts, scratch...)
		inc.vertOff[v+1] = uint32(len(inc.verts))
	}
	return inc, nil
}

// NumVertices returns the number of vertices with incidence lists.
func (inc *Incidence) NumVertices() int { return len(inc.tetOff) - 1 }

// TetrasOf returns the ascending indices of the tetrahedra using vertex v.
// The returned slice must not be modified.
func (inc *Incidence) TetrasOf(v uint32) []uint32 {
	return inc.tets[inc.tetOff[v]:inc.tetOff[v+1]]
}

// VerticesOf returns the ascending unique indices of the vertices joined to v by an edge.
// The returned slice must not be modified.
func (inc *Incidence) VerticesOf(v uint32) []uint32 {
	return inc.verts[inc.vertOff[v]:inc.vertOff[v+1]]
}

func (inc *Incidence) memSize() int {
	return 4 * (len(inc.tetOff) + len(inc.tets) + len(inc.vertOff) + cap(inc.verts))
}

// sharedTetras appends to dst the cells present in all three sorted lists
// except the cell skip.
func sharedTetras(dst []uint32, a, b, c []uint32, skip uint32) []uint32 {
	var j, k int
	for _, t := range a {
		for j < len(b) && b[j] < t {
			j++
		}
		for k < len(c) && c[k] < t {
			k++
		}
		if j == len(b) || k == len(c) {
			break
		}
		if b[j] == t && c[k] == t && t != skip {
			dst = append(dst, t)
		}
	}
	return dst
}

package hapt

import "slices"

// Connectivity holds the face adjacency of a tetrahedral mesh. It is built
// once per mesh and is read-only during ordering.
type Connectivity struct {
	// Adj[i][f] is the cell sharing face f of cell i or Boundary.
	Adj [][4]Neighbor
	// ExtFaces is the number of boundary faces.
	ExtFaces int
	// twin[i][f] is the face slot of cell i within its neighbor across f.
	twin [][4]uint8
}

// BuildConnectivity derives face adjacency by intersecting the incidence
// lists of each face's 3 vertices. A face with no other cell in common is a
// boundary face. A face shared by more than two cells is reported as
// ErrMalformedMesh.
func BuildConnectivity(m *Mesh, inc *Incidence) (*Connectivity, error) {
	n := len(m.Tetras)
	adj, err := makeSlice[[4]Neighbor](n, "adjacency")
	if err != nil {
		return nil, err
	}
	shared := make([]uint32, 0, 4)
	for i := range m.Tetras {
		for f := 0; f < 4; f++ {
			face := m.Face(i, f)
			shared = sharedTetras(shared[:0],
				inc.TetrasOf(face[0]), inc.TetrasOf(face[1]), inc.TetrasOf(face[2]), uint32(i))
			switch len(shared) {
			case 0:
				adj[i][f] = Boundary
			case 1:
				adj[i][f] = NeighborOf(shared[0])
			default:
				return nil, malformed("tetra %d face %d shared by %d other tetrahedra %v", i, f, len(shared), shared)
			}
		}
	}
	return NewConnectivity(adj)
}

// NewConnectivity wraps an adjacency table, computing the boundary face count
// and the reverse face slots. The adjacency must be symmetric.
func NewConnectivity(adj [][4]Neighbor) (*Connectivity, error) {
	twin, err := makeSlice[[4]uint8](len(adj), "adjacency twins")
	if err != nil {
		return nil, err
	}
	conn := &Connectivity{Adj: adj, twin: twin}
	for i := range adj {
		for f, nb := range adj[i] {
			j, ok := nb.Index()
			if !ok {
				conn.ExtFaces++
				continue
			}
			if int(j) >= len(adj) {
				return nil, malformed("tetra %d face %d neighbor %d out of range", i, f, j)
			}
			if j == uint32(i) {
				return nil, malformed("tetra %d face %d references itself", i, f)
			}
			fp := conn.findSlot(j, uint32(i))
			if fp < 0 {
				return nil, malformed("tetra %d face %d neighbor %d does not reference it back", i, f, j)
			}
			twin[i][f] = uint8(fp)
		}
	}
	return conn, nil
}

// NumCells returns the number of cells in the adjacency table.
func (c *Connectivity) NumCells() int { return len(c.Adj) }

// Validate checks adjacency symmetry and that ExtFaces matches the number
// of boundary slots.
func (c *Connectivity) Validate() error {
	ext := 0
	for i := range c.Adj {
		for f, nb := range c.Adj[i] {
			j, ok := nb.Index()
			if !ok {
				ext++
				continue
			}
			if int(j) >= len(c.Adj) {
				return malformed("tetra %d face %d neighbor %d out of range", i, f, j)
			}
			fp := c.twin[i][f]
			if c.Adj[j][fp] != NeighborOf(uint32(i)) {
				return malformed("asymmetric adjacency between tetra %d face %d and tetra %d face %d", i, f, j, fp)
			}
		}
	}
	if ext != c.ExtFaces {
		return malformed("boundary face count %d does not match recorded %d", ext, c.ExtFaces)
	}
	return nil
}

// Reverse returns the face slot of cell i within the adjacency of its
// neighbor across face f. The result is meaningless for boundary faces.
func (c *Connectivity) Reverse(i uint32, f int) int {
	return int(c.twin[i][f])
}

// Matches reports ErrMalformedMesh when c was not built for m: the cell
// counts differ or two neighbors do not share the vertices of their
// common face.
func (c *Connectivity) Matches(m *Mesh) error {
	if len(c.Adj) != len(m.Tetras) {
		return malformed("connectivity has %d cells, mesh has %d", len(c.Adj), len(m.Tetras))
	}
	for i := range c.Adj {
		for f, adj := range c.Adj[i] {
			j, ok := adj.Index()
			if !ok || j < uint32(i) {
				continue
			}
			a, b := m.Face(i, f), m.Face(int(j), int(c.twin[i][f]))
			slices.Sort(a[:])
			slices.Sort(b[:])
			if a != b {
				return malformed("cell %d face %d and cell %d face %d do not share vertices", i, f, j, c.twin[i][f])
			}
		}
	}
	return nil
}

func (c *Connectivity) findSlot(j, i uint32) int {
	for fp, nb := range c.Adj[j] {
		if nb == NeighborOf(i) {
			return fp
		}
	}
	return -1
}

func (c *Connectivity) memSize() int {
	return 16*len(c.Adj) + 4*len(c.twin)
}

package hapt

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt/keysort"
)

// Direction is the view dependent orientation of a DAG edge as seen from
// one of the two cells sharing an internal face.
type Direction uint8

const (
	// Out means the cell must be drawn before its neighbor across the face.
	Out Direction = iota
	// In means the neighbor across the face must be drawn before the cell.
	In
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// DAG holds the per-face edge directions for one view along with the
// front-facing boundary cells found while building them.
type DAG struct {
	// Dir[i][f] is the direction of the edge across face f of cell i.
	// Entries of boundary faces are not meaningful.
	Dir      [][4]Direction
	boundary []keysort.Pair
	nb       int
}

// NewDAG allocates a DAG for n cells. Building it for a view does not allocate.
func NewDAG(n int) (*DAG, error) {
	dir, err := makeSlice[[4]Direction](n, "dag edges")
	if err != nil {
		return nil, err
	}
	boundary, err := makeSlice[keysort.Pair](n, "boundary candidates")
	if err != nil {
		return nil, err
	}
	return &DAG{Dir: dir, boundary: boundary}, nil
}

// Build orients every internal face for view v and collects the cells
// having a front-facing boundary face, each with the view-space depth of
// its centroid. It returns the number of boundary cells collected.
//
// A boundary face is front-facing when its outward normal makes a
// non-negative dot product with the eye direction; only the first such
// face of a cell is considered. For an internal face with a positive dot
// product the neighbor lies toward the viewer and is drawn after the cell.
func (d *DAG) Build(conn *Connectivity, normals, centroids []mgl32.Vec3, v View) int {
	eye := v.Eye()
	nb := 0
	for i := range conn.Adj {
		front := false
		for f, adj := range conn.Adj[i] {
			j, internal := adj.Index()
			if !internal {
				if !front && normals[4*i+f].Dot(eye) >= 0 {
					front = true
					d.boundary[nb] = keysort.Pair{ID: uint32(i), Key: v.Depth(centroids[i])}
					nb++
				}
				continue
			}
			if j < uint32(i) {
				continue
			}
			fp := conn.twin[i][f]
			if normals[4*i+f].Dot(eye) > 0 {
				d.Dir[i][f] = Out
				d.Dir[j][fp] = In
			} else {
				d.Dir[i][f] = In
				d.Dir[j][fp] = Out
			}
		}
	}
	d.nb = nb
	return nb
}

// Boundary returns the boundary candidates collected by the last Build.
// The slice is reused by the next Build.
func (d *DAG) Boundary() []keysort.Pair { return d.boundary[:d.nb] }

func (d *DAG) memSize() int { return 4*len(d.Dir) + 8*len(d.boundary) }

package meshio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/soypat/hapt"
)

// ReadCon reads a .con connectivity file for a mesh of numTets tetrahedra.
// The file holds the boundary face count, the tetra count and one row of 4
// neighbor indices per tetra where a tetra referencing itself marks a
// boundary face.
func ReadCon(r io.Reader, numTets int) (*hapt.Connectivity, error) {
	tok := newTokenizer(r)
	ext, err := tok.uint("boundary face count")
	if err != nil {
		return nil, err
	}
	n, err := tok.uint("tetra count")
	if err != nil {
		return nil, err
	}
	if int(n) != numTets {
		return nil, fmt.Errorf("meshio: connectivity for %d tetrahedra, mesh has %d", n, numTets)
	}
	adj := make([][4]hapt.Neighbor, n)
	for i := range adj {
		for f := range adj[i] {
			j, err := tok.uint("neighbor index")
			if err != nil {
				return nil, err
			}
			if j == uint64(i) {
				adj[i][f] = hapt.Boundary
			} else {
				adj[i][f] = hapt.NeighborOf(uint32(j))
			}
		}
	}
	conn, err := hapt.NewConnectivity(adj)
	if err != nil {
		return nil, err
	}
	if conn.ExtFaces != int(ext) {
		return nil, fmt.Errorf("%w: header records %d boundary faces, found %d", hapt.ErrMalformedMesh, ext, conn.ExtFaces)
	}
	return conn, nil
}

// WriteCon writes conn in .con text format.
func WriteCon(w io.Writer, conn *hapt.Connectivity) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", conn.ExtFaces, conn.NumCells())
	for i, adj := range conn.Adj {
		var row [4]uint32
		for f, nb := range adj {
			j, ok := nb.Index()
			if !ok {
				j = uint32(i)
			}
			row[f] = j
		}
		fmt.Fprintf(bw, "%d %d %d %d\n", row[0], row[1], row[2], row[3])
	}
	return bw.Flush()
}

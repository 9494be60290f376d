package meshio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/soypat/hapt"
	"github.com/soypat/hapt/internal/d3"
)

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

// WriteBoundarySTL writes the boundary faces of m as a binary STL with
// outward facing triangles. It returns the number of triangles written.
func WriteBoundarySTL(w io.Writer, m *hapt.Mesh, conn *hapt.Connectivity) (int, error) {
	if conn.ExtFaces == 0 {
		return 0, errors.New("meshio: mesh has no boundary faces")
	}
	bw := bufio.NewWriter(w)
	header := stlHeader{Count: uint32(conn.ExtFaces)}
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return 0, err
	}
	var (
		d  stlTriangle
		b  [50]byte
		nt int
	)
	for i, adj := range conn.Adj {
		for f, nb := range adj {
			if !nb.IsBoundary() {
				continue
			}
			face := outwardFace(m, i, f)
			v0, v1, v2 := m.Vertices[face[0]], m.Vertices[face[1]], m.Vertices[face[2]]
			d.Normal = d3.Unit(v1.Sub(v0).Cross(v2.Sub(v0)))
			d.Vertex1, d.Vertex2, d.Vertex3 = v0, v1, v2
			d.put(b[:])
			if _, err := bw.Write(b[:]); err != nil {
				return nt, err
			}
			nt++
		}
	}
	return nt, bw.Flush()
}

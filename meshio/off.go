package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt"
)

// maxPrealloc caps the capacity reserved from a file header.
const maxPrealloc = 1 << 16

// ReadOFF reads a tetrahedral OFF mesh. It returns the mesh and the scalar
// value stored with each vertex. An optional leading "OFF" keyword is accepted.
func ReadOFF(r io.Reader) (*hapt.Mesh, []float32, error) {
	tok := newTokenizer(r)
	first, err := tok.next("header")
	if err != nil {
		return nil, nil, err
	}
	if first == "OFF" {
		if first, err = tok.next("header"); err != nil {
			return nil, nil, err
		}
	}
	nv, err := strconv.ParseUint(first, 10, 32)
	if err != nil {
		return nil, nil, fmt.Errorf("meshio: OFF vertex count: %w", err)
	}
	nt, err := tok.uint("tetra count")
	if err != nil {
		return nil, nil, err
	}
	// Header counts are untrusted; buffers grow as records arrive.
	m := &hapt.Mesh{
		Vertices: make([]mgl32.Vec3, 0, min(nv, maxPrealloc)),
		Tetras:   make([]hapt.Tetra, 0, min(nt, maxPrealloc)),
	}
	scalars := make([]float32, 0, min(nv, maxPrealloc))
	for i := uint64(0); i < nv; i++ {
		var v mgl32.Vec3
		for k := range v {
			if v[k], err = tok.float("vertex coordinate"); err != nil {
				return nil, nil, fmt.Errorf("vertex %d of %d: %w", i, nv, err)
			}
		}
		s, err := tok.float("vertex scalar")
		if err != nil {
			return nil, nil, fmt.Errorf("vertex %d of %d: %w", i, nv, err)
		}
		m.Vertices = append(m.Vertices, v)
		scalars = append(scalars, s)
	}
	for i := uint64(0); i < nt; i++ {
		var t hapt.Tetra
		for k := range t {
			v, err := tok.uint("tetra index")
			if err != nil {
				return nil, nil, fmt.Errorf("tetra %d of %d: %w", i, nt, err)
			}
			if v >= nv {
				return nil, nil, fmt.Errorf("%w: tetra %d vertex %d out of range", hapt.ErrMalformedMesh, i, v)
			}
			t[k] = uint32(v)
		}
		m.Tetras = append(m.Tetras, t)
	}
	return m, scalars, nil
}

// WriteOFF writes m in OFF tetrahedral format. scalars may be nil, in which
// case every vertex scalar is written as 0.
func WriteOFF(w io.Writer, m *hapt.Mesh, scalars []float32) error {
	if scalars != nil && len(scalars) != len(m.Vertices) {
		return fmt.Errorf("meshio: %d scalars for %d vertices", len(scalars), len(m.Vertices))
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(m.Vertices), len(m.Tetras))
	for i, v := range m.Vertices {
		var s float32
		if scalars != nil {
			s = scalars[i]
		}
		fmt.Fprintf(bw, "%s %s %s %s\n", ftoa(v[0]), ftoa(v[1]), ftoa(v[2]), ftoa(s))
	}
	for _, t := range m.Tetras {
		fmt.Fprintf(bw, "%d %d %d %d\n", t[0], t[1], t[2], t[3])
	}
	return bw.Flush()
}

func ftoa(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }

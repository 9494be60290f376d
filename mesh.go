package hapt

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt/internal/d3"
)

// Mesh is an unstructured tetrahedral mesh. Vertex positions are in object
// space and tetrahedra reference them by index. Cell indices are dense and
// stable for the lifetime of the mesh.
type Mesh struct {
	Vertices []mgl32.Vec3
	Tetras   []Tetra
}

// Validate checks the mesh is non-empty, every tetra references existing
// vertices and no tetra repeats a vertex.
func (m *Mesh) Validate() error {
	if len(m.Tetras) == 0 {
		return malformed("mesh has no tetrahedra")
	}
	if len(m.Tetras) > maxCells {
		return malformed("%d tetrahedra exceed maximum %d", len(m.Tetras), maxCells)
	}
	nv := uint32(len(m.Vertices))
	for i, t := range m.Tetras {
		for k, v := range t {
			if v >= nv {
				return malformed("tetra %d vertex %d out of range (%d vertices)", i, v, nv)
			}
			for _, w := range t[k+1:] {
				if v == w {
					return malformed("tetra %d repeats vertex %d", i, v)
				}
			}
		}
	}
	return nil
}

// NumCells returns the number of tetrahedra.
func (m *Mesh) NumCells() int { return len(m.Tetras) }

// Face returns the vertex indices of face f of tetra t.
func (m *Mesh) Face(t, f int) [3]uint32 {
	tet := m.Tetras[t]
	return [3]uint32{tet[faceVertex(0, f)], tet[faceVertex(1, f)], tet[faceVertex(2, f)]}
}

// Opposite returns the vertex index of tetra t opposite to its face f.
func (m *Mesh) Opposite(t, f int) uint32 {
	return m.Tetras[t][faceVertex(3, f)]
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() d3.Box {
	if len(m.Vertices) == 0 {
		return d3.Box{}
	}
	return d3.Set(m.Vertices).Bounds()
}

// Normalize centers the mesh on the origin and scales it uniformly so
// that its longest half-extent is 1.
func (m *Mesh) Normalize() {
	if len(m.Vertices) == 0 {
		return
	}
	bb := m.Bounds()
	center := bb.Center()
	half := d3.Max(bb.Size()) / 2
	scale := float32(1)
	if half > 0 {
		scale = 1 / half
	}
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Sub(center).Mul(scale)
	}
}

// Fingerprint hashes vertex positions and tetra indices. Two meshes with
// the same fingerprint share connectivity, face normals and centroids.
func (m *Mesh) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(len(m.Vertices)))
	binary.LittleEndian.PutUint64(buf[8:], uint64(len(m.Tetras)))
	d.Write(buf[:])
	for _, v := range m.Vertices {
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v[2]))
		d.Write(buf[:12])
	}
	for _, t := range m.Tetras {
		for k, v := range t {
			binary.LittleEndian.PutUint32(buf[4*k:], v)
		}
		d.Write(buf[:])
	}
	return d.Sum64()
}

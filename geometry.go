package hapt

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt/internal/d3"
)

// BuildFaceNormals returns the unit outward normal of every tetra face,
// face f of tetra i stored at index i*4+f. Zero-area faces get a zero normal.
func BuildFaceNormals(m *Mesh) ([]mgl32.Vec3, error) {
	normals, err := makeSlice[mgl32.Vec3](4*len(m.Tetras), "face normals")
	if err != nil {
		return nil, err
	}
	for i, t := range m.Tetras {
		for f := 0; f < 4; f++ {
			v0 := m.Vertices[t[faceVertex(0, f)]]
			v1 := m.Vertices[t[faceVertex(1, f)]]
			v2 := m.Vertices[t[faceVertex(2, f)]]
			opp := m.Vertices[t[faceVertex(3, f)]]
			n := d3.Unit(v1.Sub(v0).Cross(v2.Sub(v0)))
			if n.Dot(opp.Sub(v0)) > 0 {
				n = n.Mul(-1)
			}
			normals[4*i+f] = n
		}
	}
	return normals, nil
}

// BuildCentroids returns the average of the 4 vertices of every tetra.
func BuildCentroids(m *Mesh) ([]mgl32.Vec3, error) {
	centroids, err := makeSlice[mgl32.Vec3](len(m.Tetras), "centroids")
	if err != nil {
		return nil, err
	}
	for i, t := range m.Tetras {
		var c mgl32.Vec3
		for _, v := range t {
			c = c.Add(m.Vertices[v])
		}
		centroids[i] = c.Mul(0.25)
	}
	return centroids, nil
}

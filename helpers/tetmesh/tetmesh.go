// Package tetmesh generates tetrahedral meshes for tests, benchmarks and
// the command line tools: regular grids, carved BCC lattices and small
// fixtures with known visibility relationships.
package tetmesh

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt"
)

// kuhnPaths lists the 6 tetrahedra of the Kuhn (Freudenthal) split of a
// unit cube as corner indices, bit 0 selecting +X, bit 1 +Y and bit 2 +Z.
// Every tetrahedron walks from corner 0 to corner 7 along one axis order,
// so neighboring cubes split their shared faces identically.
var kuhnPaths = [6][4]int{
	{0, 1, 3, 7}, // x y z
	{0, 1, 5, 7}, // x z y
	{0, 2, 3, 7}, // y x z
	{0, 2, 6, 7}, // y z x
	{0, 4, 5, 7}, // z x y
	{0, 4, 6, 7}, // z y x
}

// Grid returns a mesh of nx*ny*nz cubes of side size, each split into 6
// tetrahedra, with its minimum corner at the origin.
func Grid(nx, ny, nz int, size float32) (*hapt.Mesh, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, errors.New("tetmesh: grid dimensions must be positive")
	}
	vx, vy := nx+1, ny+1
	vid := func(i, j, k int) uint32 { return uint32(i + vx*(j+vy*k)) }
	m := &hapt.Mesh{
		Vertices: make([]mgl32.Vec3, 0, vx*vy*(nz+1)),
		Tetras:   make([]hapt.Tetra, 0, 6*nx*ny*nz),
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.Vertices = append(m.Vertices, mgl32.Vec3{float32(i), float32(j), float32(k)}.Mul(size))
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var corner [8]uint32
				for c := range corner {
					corner[c] = vid(i+c&1, j+c>>1&1, k+c>>2&1)
				}
				for _, p := range kuhnPaths {
					m.Tetras = append(m.Tetras, hapt.Tetra{corner[p[0]], corner[p[1]], corner[p[2]], corner[p[3]]})
				}
			}
		}
	}
	return m, nil
}

// GridCells returns the grid dimensions whose Grid mesh has at least n tetrahedra.
func GridCells(n int) (nx, ny, nz int) {
	side := 1
	for 6*side*side*side < n {
		side++
	}
	return side, side, side
}

// Single returns a mesh of one regular-ish tetrahedron around the origin.
func Single() *hapt.Mesh {
	return &hapt.Mesh{
		Vertices: []mgl32.Vec3{{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}},
		Tetras:   []hapt.Tetra{{0, 1, 2, 3}},
	}
}

// Pair returns two tetrahedra sharing a face on the z=0 plane. Cell 0 lies
// on the +Z side and cell 1 on the -Z side, so an OpenGL camera on the +Z
// axis looking down -Z sees cell 0 in front of cell 1.
func Pair() *hapt.Mesh {
	return &hapt.Mesh{
		Vertices: []mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, // shared face
			{0.3, 0.3, 1},  // front apex
			{0.3, 0.3, -1}, // back apex
		},
		Tetras: []hapt.Tetra{{0, 1, 2, 3}, {1, 0, 2, 4}},
	}
}

// Fan returns three tetrahedra around the Z axis edge from (0,0,-1) to
// (0,0,1), each pair sharing one face.
func Fan() *hapt.Mesh {
	return &hapt.Mesh{
		Vertices: []mgl32.Vec3{
			{0, 0, -1}, {0, 0, 1},
			{1, 0, 0}, {-0.5, 0.8660254, 0}, {-0.5, -0.8660254, 0},
		},
		Tetras: []hapt.Tetra{{0, 1, 2, 3}, {0, 1, 3, 4}, {0, 1, 4, 2}},
	}
}

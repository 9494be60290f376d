package tetmesh

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt"
	"gonum.org/v1/gonum/spatial/r3"
)

// bccLattice constructs a body centered cubic mesh for isotropic tetrahedron generation.
// Inspired by Tetrahedral Mesh Generation for Deformable Bodies
// Molino, Bridson, Fedkiw.
type bccLattice struct {
	nodes      []bccNode
	div        [3]int
	resolution float64
}

type bccidx int

// BCC node indices. Corners wind counterclockwise around the bottom face
// then around the top face.
const (
	i000 bccidx = iota
	ix00
	ixy0
	i0y0
	i00z
	ix0z
	ixyz
	i0yz
	ictr // BCC central node index.
	nBCC // number of BCC nodes.
)

// cornerOffset is the lattice offset of each corner from the cell's minimum corner.
var cornerOffset = [ictr][3]int{
	i000: {0, 0, 0},
	ix00: {1, 0, 0},
	ixy0: {1, 1, 0},
	i0y0: {0, 1, 0},
	i00z: {0, 0, 1},
	ix0z: {1, 0, 1},
	ixyz: {1, 1, 1},
	i0yz: {0, 1, 1},
}

var unmeshed = [nBCC]int{-1, -1, -1 /**/, -1, -1, -1 /**/, -1, -1, -1}

type bccNode struct {
	bccnod [nBCC]int
	ijk    [3]int
	pos    r3.Vec
	inside bool
	xm     *bccNode
	ym     *bccNode
	zm     *bccNode
}

func newBCCLattice(b r3.Box, resolution float64, inside func(r3.Vec) bool) (*bccLattice, error) {
	if resolution <= 0 {
		return nil, errors.New("tetmesh: resolution must be positive")
	}
	sz := r3.Sub(b.Max, b.Min)
	div := [3]int{
		int(math.Ceil(sz.X / resolution)),
		int(math.Ceil(sz.Y / resolution)),
		int(math.Ceil(sz.Z / resolution)),
	}
	if div[0] < 1 || div[1] < 1 || div[2] < 1 {
		return nil, errors.New("tetmesh: empty bcc box")
	}
	lat := &bccLattice{nodes: make([]bccNode, div[0]*div[1]*div[2]), div: div, resolution: resolution}
	for i := 0; i < div[0]; i++ {
		x := (float64(i)+0.5)*resolution + b.Min.X
		for j := 0; j < div[1]; j++ {
			y := (float64(j)+0.5)*resolution + b.Min.Y
			for k := 0; k < div[2]; k++ {
				z := (float64(k)+0.5)*resolution + b.Min.Z
				pos := r3.Vec{X: x, Y: y, Z: z}
				*lat.at(i, j, k) = bccNode{ijk: [3]int{i, j, k}, pos: pos, inside: inside == nil || inside(pos), bccnod: unmeshed}
			}
		}
	}
	lat.foreach(func(i, j, k int, n *bccNode) {
		if !n.inside {
			return
		}
		n.xm = lat.insideAt(i-1, j, k)
		n.ym = lat.insideAt(i, j-1, k)
		n.zm = lat.insideAt(i, j, k-1)
	})
	return lat, nil
}

func (lat *bccLattice) mesh() (nodes []r3.Vec, tetras [][4]int) {
	half := lat.resolution / 2
	corners := make(map[[3]int]int)
	tetras = make([][4]int, 0, 12*len(lat.nodes))
	lat.foreach(func(_, _, _ int, node *bccNode) {
		if !node.inside {
			return
		}
		node.bccnod[ictr] = len(nodes)
		nodes = append(nodes, node.pos)
		for in := i000; in < ictr; in++ {
			off := cornerOffset[in]
			key := [3]int{node.ijk[0] + off[0], node.ijk[1] + off[1], node.ijk[2] + off[2]}
			v, ok := corners[key]
			if !ok {
				v = len(nodes)
				corners[key] = v
				nodes = append(nodes, r3.Vec{
					X: node.pos.X + half*float64(2*off[0]-1),
					Y: node.pos.Y + half*float64(2*off[1]-1),
					Z: node.pos.Z + half*float64(2*off[2]-1),
				})
			}
			node.bccnod[in] = v
		}
		tetras = append(tetras, node.tetras()...)
	})
	return nodes, tetras
}

func (lat *bccLattice) at(i, j, k int) *bccNode {
	if i < 0 || j < 0 || k < 0 || i >= lat.div[0] || j >= lat.div[1] || k >= lat.div[2] {
		return nil
	}
	return &lat.nodes[i*lat.div[1]*lat.div[2]+j*lat.div[2]+k]
}

func (lat *bccLattice) insideAt(i, j, k int) *bccNode {
	n := lat.at(i, j, k)
	if n == nil || !n.inside {
		return nil
	}
	return n
}

func (lat *bccLattice) foreach(f func(i, j, k int, nod *bccNode)) {
	for i := 0; i < lat.div[0]; i++ {
		ii := i * lat.div[1] * lat.div[2]
		for j := 0; j < lat.div[1]; j++ {
			jj := j * lat.div[2]
			for k := 0; k < lat.div[2]; k++ {
				f(i, j, k, &lat.nodes[ii+jj+k])
			}
		}
	}
}

// tetras joins the node center to the centers of its already meshed minor
// side neighbors through the 4 triangles of each shared square face.
func (node *bccNode) tetras() (tetras [][4]int) {
	nctr := node.bccnod[ictr]
	c := &node.bccnod
	if node.zm != nil {
		zctr := node.zm.bccnod[ictr]
		tetras = append(tetras,
			[4]int{nctr, c[i000], c[ix00], zctr},
			[4]int{nctr, c[ix00], c[ixy0], zctr},
			[4]int{nctr, c[ixy0], c[i0y0], zctr},
			[4]int{nctr, c[i0y0], c[i000], zctr},
		)
	}
	if node.ym != nil {
		yctr := node.ym.bccnod[ictr]
		tetras = append(tetras,
			[4]int{nctr, c[ix00], c[i000], yctr},
			[4]int{nctr, c[ix0z], c[ix00], yctr},
			[4]int{nctr, c[i00z], c[ix0z], yctr},
			[4]int{nctr, c[i000], c[i00z], yctr},
		)
	}
	if node.xm != nil {
		xctr := node.xm.bccnod[ictr]
		tetras = append(tetras,
			[4]int{nctr, c[i000], c[i0y0], xctr},
			[4]int{nctr, c[i00z], c[i000], xctr},
			[4]int{nctr, c[i0yz], c[i00z], xctr},
			[4]int{nctr, c[i0y0], c[i0yz], xctr},
		)
	}
	return tetras
}

// BCC meshes the cells of a body centered cubic lattice of the given
// resolution covering box b whose centers satisfy inside. A nil inside keeps
// every cell. Tetrahedra join the centers of face adjacent cells, so the
// mesh has no tetrahedra unless at least two adjacent cells are kept.
// Corners of kept cells not used by any tetrahedron remain as unused vertices.
func BCC(b r3.Box, resolution float64, inside func(r3.Vec) bool) (*hapt.Mesh, error) {
	lat, err := newBCCLattice(b, resolution, inside)
	if err != nil {
		return nil, err
	}
	nodes, tetras := lat.mesh()
	m := &hapt.Mesh{
		Vertices: make([]mgl32.Vec3, len(nodes)),
		Tetras:   make([]hapt.Tetra, len(tetras)),
	}
	for i, p := range nodes {
		m.Vertices[i] = mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	for i, t := range tetras {
		m.Tetras[i] = hapt.Tetra{uint32(t[0]), uint32(t[1]), uint32(t[2]), uint32(t[3])}
	}
	return m, nil
}

// Sphere returns an inside function for a sphere of radius r centered at c.
func Sphere(c r3.Vec, r float64) func(r3.Vec) bool {
	return func(p r3.Vec) bool { return r3.Norm(r3.Sub(p, c)) <= r }
}

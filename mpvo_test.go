package hapt_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt"
	"github.com/soypat/hapt/helpers/tetmesh"
	"github.com/soypat/hapt/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectivitySymmetry(t *testing.T) {
	m, err := tetmesh.Grid(3, 4, 2, 1)
	require.NoError(t, err)
	inc, err := hapt.BuildIncidence(m, true)
	require.NoError(t, err)
	conn, err := hapt.BuildConnectivity(m, inc)
	require.NoError(t, err)
	require.NoError(t, conn.Validate())

	ext := 0
	for i := range conn.Adj {
		for f, nb := range conn.Adj[i] {
			j, ok := nb.Index()
			if !ok {
				ext++
				continue
			}
			fp := conn.Reverse(uint32(i), f)
			assert.Equal(t, hapt.NeighborOf(uint32(i)), conn.Adj[j][fp], "tetra %d face %d", i, f)
			assert.ElementsMatch(t, m.Face(i, f), m.Face(int(j), fp))
		}
	}
	assert.Equal(t, ext, conn.ExtFaces)
}

func TestIncidence(t *testing.T) {
	m := tetmesh.Fan()
	inc, err := hapt.BuildIncidence(m, true)
	require.NoError(t, err)
	assert.Equal(t, 5, inc.NumVertices())
	assert.Equal(t, []uint32{0, 1, 2}, inc.TetrasOf(0))
	assert.Equal(t, []uint32{0, 2}, inc.TetrasOf(2))
	assert.Equal(t, []uint32{1, 2, 3, 4}, inc.VerticesOf(0))
	assert.Equal(t, []uint32{0, 1, 3, 4}, inc.VerticesOf(2))
}

func TestNewConnectivityErrors(t *testing.T) {
	B := hapt.Boundary
	for _, adj := range [][][4]hapt.Neighbor{
		{{1, B, B, B}, {B, B, B, B}}, // one sided
		{{0, B, B, B}},               // self reference
		{{5, B, B, B}},               // out of range
	} {
		_, err := hapt.NewConnectivity(adj)
		assert.ErrorIs(t, err, hapt.ErrMalformedMesh, fmt.Sprint(adj))
	}
	conn, err := hapt.NewConnectivity([][4]hapt.Neighbor{{B, 1, B, B}, {B, B, 0, B}})
	require.NoError(t, err)
	assert.Equal(t, 6, conn.ExtFaces)
	assert.Equal(t, 2, conn.Reverse(0, 1))
	conn.ExtFaces = 3
	assert.ErrorIs(t, conn.Validate(), hapt.ErrMalformedMesh)
}

func TestFaceNormalsOutward(t *testing.T) {
	grid, err := tetmesh.Grid(2, 2, 2, 1)
	require.NoError(t, err)
	for _, m := range []*hapt.Mesh{tetmesh.Single(), tetmesh.Pair(), tetmesh.Fan(), grid} {
		normals, err := hapt.BuildFaceNormals(m)
		require.NoError(t, err)
		require.Len(t, normals, 4*len(m.Tetras))
		for i := range m.Tetras {
			for f := 0; f < 4; f++ {
				n := normals[4*i+f]
				v0 := m.Vertices[m.Face(i, f)[0]]
				opp := m.Vertices[m.Opposite(i, f)]
				assert.InDelta(t, 1, n.Len(), 1e-5)
				assert.Less(t, n.Dot(opp.Sub(v0)), float32(0), "tetra %d face %d", i, f)
			}
		}
	}
}

func TestDegenerateFaceNormal(t *testing.T) {
	// Face 0 is collinear and has no area.
	flat := &hapt.Mesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 1, 0}},
		Tetras:   []hapt.Tetra{{0, 1, 2, 3}},
	}
	normals, err := hapt.BuildFaceNormals(flat)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{}, normals[0])
	for _, n := range normals {
		assert.True(t, d3.IsFinite(n), "normal %v", n)
	}
	o, err := hapt.NewOrderer(flat)
	require.NoError(t, err)
	ids, err := o.Order(mgl32.Ident4())
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, ids)
}

func TestDAGSymmetry(t *testing.T) {
	m, err := tetmesh.Grid(3, 3, 3, 1)
	require.NoError(t, err)
	o, err := hapt.NewOrderer(m)
	require.NoError(t, err)
	conn := o.Connectivity()
	dag, err := hapt.NewDAG(len(m.Tetras))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(4))
	views := append(randomViews(rng, 20), mgl32.Ident4(), mgl32.HomogRotate3DX(mgl32.DegToRad(90)))
	for _, mv := range views {
		nb := dag.Build(conn, o.FaceNormals(), o.Centroids(), hapt.NewView(mv))
		assert.Positive(t, nb)
		assert.Len(t, dag.Boundary(), nb)
		for i := range conn.Adj {
			for f, adj := range conn.Adj[i] {
				j, ok := adj.Index()
				if !ok {
					continue
				}
				assert.NotEqual(t, dag.Dir[i][f], dag.Dir[j][conn.Reverse(uint32(i), f)])
			}
		}
	}
}

// Looking down the z axis every face lying in a vertical plane is exactly
// tangent to the eye direction.
func TestDAGTangentFaces(t *testing.T) {
	m, err := tetmesh.Grid(2, 2, 1, 1)
	require.NoError(t, err)
	o, err := hapt.NewOrderer(m)
	require.NoError(t, err)
	conn := o.Connectivity()
	normals := o.FaceNormals()
	dag, err := hapt.NewDAG(len(m.Tetras))
	require.NoError(t, err)
	v := hapt.NewView(mgl32.Ident4())
	require.Equal(t, mgl32.Vec3{0, 0, 1}, v.Eye())
	dag.Build(conn, normals, o.Centroids(), v)

	collected := make(map[uint32]bool)
	for _, p := range dag.Boundary() {
		collected[p.ID] = true
	}
	tangentOnly, tangentInternal := 0, 0
	for i := range conn.Adj {
		var front, tangent bool
		for f, adj := range conn.Adj[i] {
			dot := normals[4*i+f].Dot(v.Eye())
			j, internal := adj.Index()
			switch {
			case !internal:
				front = front || dot > 0
				tangent = tangent || dot == 0
			case dot == 0 && uint32(i) < j:
				tangentInternal++
				assert.Equal(t, hapt.In, dag.Dir[i][f], "cell %d face %d", i, f)
				assert.Equal(t, hapt.Out, dag.Dir[j][conn.Reverse(uint32(i), f)], "cell %d face %d", i, f)
			}
		}
		if tangent && !front {
			tangentOnly++
			assert.True(t, collected[uint32(i)], "cell %d has a tangent boundary face", i)
		}
		assert.Equal(t, front || tangent, collected[uint32(i)], "cell %d", i)
	}
	require.Positive(t, tangentOnly)
	require.Positive(t, tangentInternal)
}

// chain returns the connectivity of n cells where cell i shares its face 0
// with face 1 of cell i+1.
func chain(n int) *hapt.Connectivity {
	adj := make([][4]hapt.Neighbor, n)
	for i := range adj {
		adj[i] = [4]hapt.Neighbor{hapt.Boundary, hapt.Boundary, hapt.Boundary, hapt.Boundary}
		if i+1 < n {
			adj[i][0] = hapt.NeighborOf(uint32(i + 1))
		}
		if i > 0 {
			adj[i][1] = hapt.NeighborOf(uint32(i - 1))
		}
	}
	conn, err := hapt.NewConnectivity(adj)
	if err != nil {
		panic(err)
	}
	return conn
}

func TestLinearizerInjection(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, n := range []int{1, 10, 1000} {
		conn := chain(n)
		dag, err := hapt.NewDAG(n)
		require.NoError(t, err)
		for i := 0; i+1 < n; i++ {
			if rng.Intn(2) == 0 {
				dag.Dir[i][0], dag.Dir[i+1][1] = hapt.In, hapt.Out
			} else {
				dag.Dir[i][0], dag.Dir[i+1][1] = hapt.Out, hapt.In
			}
		}
		var starts []uint32
		for i := 0; i < n; i++ {
			if rng.Intn(8) == 0 {
				starts = append(starts, uint32(i))
			}
		}
		lin, err := hapt.NewLinearizer(n)
		require.NoError(t, err)
		dst := make([]uint32, n)
		got := lin.Run(conn, dag, starts, dst)
		assert.Equal(t, n, got)
		assertPermutation(t, dst, n, "n=%d", n)
		assert.Zero(t, lin.Cycles)
		order, err := hapt.SortError(conn, dag, dst)
		require.NoError(t, err)
		assert.Zero(t, order, "n=%d", n)

		// Reuse must not depend on previous state.
		got = lin.Run(conn, dag, nil, dst)
		assert.Equal(t, n, got)
		assertPermutation(t, dst, n, "rerun n=%d", n)
	}
}

func TestLinearizerCycle(t *testing.T) {
	B := hapt.Boundary
	// Cells 0, 1 and 2 share a face with each other.
	conn, err := hapt.NewConnectivity([][4]hapt.Neighbor{
		{1, 2, B, B},
		{2, 0, B, B},
		{0, 1, B, B},
	})
	require.NoError(t, err)
	dag, err := hapt.NewDAG(3)
	require.NoError(t, err)
	// 1 precedes 0, 2 precedes 1 and 0 precedes 2.
	dag.Dir[0] = [4]hapt.Direction{hapt.In, hapt.Out}
	dag.Dir[1] = [4]hapt.Direction{hapt.In, hapt.Out}
	dag.Dir[2] = [4]hapt.Direction{hapt.In, hapt.Out}

	lin, err := hapt.NewLinearizer(3)
	require.NoError(t, err)
	var closing [][2]uint32
	lin.OnCycle = func(cell, pred uint32) { closing = append(closing, [2]uint32{cell, pred}) }
	dst := make([]uint32, 3)
	n := lin.Run(conn, dag, []uint32{0}, dst)
	assert.Equal(t, 3, n)
	assert.Equal(t, []uint32{2, 1, 0}, dst)
	assert.Equal(t, 1, lin.Cycles)
	assert.Equal(t, [][2]uint32{{2, 0}}, closing)
	assert.Zero(t, lin.Unreached)

	violated, err := hapt.SortError(conn, dag, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, violated)
}

func TestLinearizerUnreached(t *testing.T) {
	conn := chain(4)
	dag, err := hapt.NewDAG(4)
	require.NoError(t, err)
	lin, err := hapt.NewLinearizer(4)
	require.NoError(t, err)
	dst := make([]uint32, 4)
	// All edges point out so nothing is reachable from cell 3.
	n := lin.Run(conn, dag, []uint32{3}, dst)
	assert.Equal(t, 4, n)
	assert.Equal(t, []uint32{3, 0, 1, 2}, dst)
	assert.Equal(t, 3, lin.Unreached)
}

func TestSortErrorRejectsNonPermutation(t *testing.T) {
	conn := chain(3)
	dag, err := hapt.NewDAG(3)
	require.NoError(t, err)
	_, err = hapt.SortError(conn, dag, []uint32{0, 0, 1})
	assert.Error(t, err)
	_, err = hapt.SortError(conn, dag, []uint32{0, 1})
	assert.Error(t, err)
}

func TestScaling(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	grid := func(n int) *hapt.Mesh {
		nx, ny, nz := tetmesh.GridCells(n)
		m, err := tetmesh.Grid(nx, ny, nz, 1)
		require.NoError(t, err)
		return m
	}
	small, large := grid(1000), grid(10000)
	mv := randomViews(rand.New(rand.NewSource(6)), 1)[0]
	perCell := func(m *hapt.Mesh, method hapt.Method) float64 {
		o, err := hapt.NewOrderer(m)
		require.NoError(t, err)
		res := testing.Benchmark(func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				o.OrderWith(method, mv)
			}
		})
		return float64(res.NsPerOp()) / float64(len(m.Tetras))
	}
	for _, method := range []hapt.Method{hapt.MethodMPVO, hapt.MethodCentroid} {
		ratio := perCell(large, method) / perCell(small, method)
		t.Logf("%s per-cell cost ratio 10k/1k: %.2f", method, ratio)
		// Linear and n log n growth both keep per-cell cost within a small factor.
		assert.Less(t, ratio, 8.0, method.String())
	}
}

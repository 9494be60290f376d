package meshio

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/soypat/hapt"
	"github.com/soypat/hapt/helpers/tetmesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connOf(t *testing.T, m *hapt.Mesh) *hapt.Connectivity {
	t.Helper()
	inc, err := hapt.BuildIncidence(m, false)
	require.NoError(t, err)
	conn, err := hapt.BuildConnectivity(m, inc)
	require.NoError(t, err)
	return conn
}

func TestReadOFF(t *testing.T) {
	const src = `5 2
0 0 0 0.5
1 0 0 1
0 1 0 0
0.3 0.3 1 0.25
0.3 0.3 -1 1
0 1 2 3
1 0 2 4
`
	m, scalars, err := ReadOFF(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, tetmesh.Pair().Vertices, m.Vertices)
	assert.Equal(t, tetmesh.Pair().Tetras, m.Tetras)
	assert.Equal(t, []float32{0.5, 1, 0, 0.25, 1}, scalars)

	_, _, err = ReadOFF(strings.NewReader("OFF\n4 1\n0 0 0 0\n1 0 0 0\n0 1 0 0\n0 0 1 0\n0 1 2 3"))
	assert.NoError(t, err)
}

func TestReadOFFErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"x 1",
		"4 1\n0 0 0 0\n",
		"4 1\n0 0 0 0\n1 0 0 0\n0 1 0 0\n0 0 1 0\n0 1 2 9",
		"4 1\n0 0 0 0\n1 0 0 0\n0 1 0 0\n0 0 1 zero\n0 1 2 3",
		"4000000000 4000000000",
		"OFF 4000000000 4000000000\n0 0 0 0\n",
	} {
		_, _, err := ReadOFF(strings.NewReader(src))
		assert.Error(t, err, "%q", src)
	}
}

func TestOFFRoundTrip(t *testing.T) {
	m, err := tetmesh.Grid(2, 2, 1, 0.3)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteOFF(&buf, m, nil))
	got, scalars, err := ReadOFF(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Len(t, scalars, len(m.Vertices))
}

func TestCon(t *testing.T) {
	m := tetmesh.Pair()
	conn := connOf(t, m)
	var buf bytes.Buffer
	require.NoError(t, WriteCon(&buf, conn))
	assert.Equal(t, "6\n2\n1 0 0 0\n0 1 1 1\n", buf.String())

	got, err := ReadCon(&buf, len(m.Tetras))
	require.NoError(t, err)
	assert.Equal(t, conn.Adj, got.Adj)
	assert.Equal(t, conn.ExtFaces, got.ExtFaces)
	require.NoError(t, got.Validate())

	o, err := hapt.NewOrderer(m, hapt.WithConnectivity(got))
	require.NoError(t, err)
	assert.Nil(t, o.Incidence())
}

func TestReadConErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
		n    int
	}{
		{"tetra count", "6\n2\n1 0 0 0\n0 1 1 1\n", 3},
		{"boundary count", "5\n2\n1 0 0 0\n0 1 1 1\n", 2},
		{"asymmetric", "6\n2\n1 0 0 0\n1 1 1 1\n", 2},
		{"truncated", "6\n2\n1 0 0 0\n", 2},
	} {
		_, err := ReadCon(strings.NewReader(test.src), test.n)
		assert.Error(t, err, test.name)
	}
}

func TestConCache(t *testing.T) {
	m, err := tetmesh.Grid(3, 2, 2, 1)
	require.NoError(t, err)
	conn := connOf(t, m)
	var buf bytes.Buffer
	require.NoError(t, WriteConCache(&buf, m, conn))
	data := buf.Bytes()
	assert.Equal(t, cacheMagic, string(data[:8]))

	got, err := ReadConCache(bytes.NewReader(data), m)
	require.NoError(t, err)
	assert.Equal(t, conn.Adj, got.Adj)
	assert.Equal(t, conn.ExtFaces, got.ExtFaces)

	moved, err := tetmesh.Grid(3, 2, 2, 1)
	require.NoError(t, err)
	moved.Vertices[0][0] += 0.01
	_, err = ReadConCache(bytes.NewReader(data), moved)
	assert.ErrorIs(t, err, ErrStaleCache)

	_, err = ReadConCache(strings.NewReader("NOTACACHE0000000000000000000"), m)
	assert.Error(t, err)
}

func TestWriteBoundarySTL(t *testing.T) {
	m := tetmesh.Pair()
	conn := connOf(t, m)
	var buf bytes.Buffer
	n, err := WriteBoundarySTL(&buf, m, conn)
	require.NoError(t, err)
	assert.Equal(t, conn.ExtFaces, n)
	data := buf.Bytes()
	require.Len(t, data, 84+50*n)
	assert.Equal(t, uint32(n), binary.LittleEndian.Uint32(data[80:]))
}

func TestWriteGLB(t *testing.T) {
	m := tetmesh.Pair()
	var buf bytes.Buffer
	require.NoError(t, WriteGLB(&buf, m, []uint32{1, 0}))
	assert.Equal(t, "glTF", buf.String()[:4])

	doc := new(gltf.Document)
	require.NoError(t, gltf.NewDecoder(&buf).Decode(doc))
	require.Len(t, doc.Meshes, 1)
	prim := doc.Meshes[0].Primitives[0]
	require.NotNil(t, prim.Indices)
	assert.Equal(t, 24, int(doc.Accessors[*prim.Indices].Count))

	assert.Error(t, WriteGLB(&buf, m, []uint32{5}))
}

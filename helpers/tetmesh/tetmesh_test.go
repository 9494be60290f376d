package tetmesh

import (
	"testing"

	"github.com/soypat/hapt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGrid(t *testing.T) {
	m, err := Grid(2, 3, 4, 0.5)
	require.NoError(t, err)
	assert.Len(t, m.Tetras, 6*2*3*4)
	assert.Len(t, m.Vertices, 3*4*5)
	require.NoError(t, m.Validate())

	o, err := hapt.NewOrderer(m, hapt.WithStrictIncidence())
	require.NoError(t, err)
	conn := o.Connectivity()
	require.NoError(t, conn.Validate())
	// Each cube face on the hull is split into 2 triangles.
	hull := 2 * 2 * (2*3 + 3*4 + 2*4)
	assert.Equal(t, hull, conn.ExtFaces)
}

func TestGridCells(t *testing.T) {
	nx, ny, nz := GridCells(10000)
	assert.GreaterOrEqual(t, 6*nx*ny*nz, 10000)
	assert.Less(t, 6*(nx-1)*(ny-1)*(nz-1), 10000)
}

func TestBCC(t *testing.T) {
	box := r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	for _, test := range []struct {
		name   string
		inside func(r3.Vec) bool
	}{
		{"box", nil},
		{"sphere", Sphere(r3.Vec{}, 0.9)},
	} {
		m, err := BCC(box, 0.25, test.inside)
		require.NoError(t, err, test.name)
		require.NotEmpty(t, m.Tetras, test.name)
		require.NoError(t, m.Validate(), test.name)
		o, err := hapt.NewOrderer(m)
		require.NoError(t, err, test.name)
		require.NoError(t, o.Connectivity().Validate(), test.name)
		for i, n := range o.FaceNormals() {
			assert.InDelta(t, 1, n.Len(), 1e-5, "%s face %d not unit", test.name, i)
		}
	}
}

func TestBCCErrors(t *testing.T) {
	box := r3.Box{Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	_, err := BCC(box, 0, nil)
	assert.Error(t, err)
	_, err = BCC(r3.Box{}, 0.1, nil)
	assert.Error(t, err)
}

func TestFixtures(t *testing.T) {
	for _, test := range []struct {
		name     string
		m        *hapt.Mesh
		extFaces int
	}{
		{"single", Single(), 4},
		{"pair", Pair(), 6},
		{"fan", Fan(), 6},
	} {
		o, err := hapt.NewOrderer(test.m, hapt.WithStrictIncidence())
		require.NoError(t, err, test.name)
		assert.Equal(t, test.extFaces, o.Connectivity().ExtFaces, test.name)
	}
}

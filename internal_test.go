package hapt

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSliceMemory(t *testing.T) {
	_, err := makeSlice[[4]Neighbor](1<<62, "adjacency")
	assert.ErrorIs(t, err, ErrMemory)
	_, err = makeSlice[uint8](-1, "flags")
	assert.ErrorIs(t, err, ErrMemory)
	s, err := makeSlice[uint32](3, "ids")
	require.NoError(t, err)
	assert.Len(t, s, 3)
}

func TestSharedTetras(t *testing.T) {
	for _, test := range []struct {
		a, b, c []uint32
		skip    uint32
		want    []uint32
	}{
		{[]uint32{0, 2, 5}, []uint32{2, 5, 7}, []uint32{1, 2, 5}, 2, []uint32{5}},
		{[]uint32{0, 2, 5}, []uint32{2, 5, 7}, []uint32{1, 2, 5}, 9, []uint32{2, 5}},
		{[]uint32{0}, []uint32{1}, []uint32{0}, 9, nil},
		{nil, []uint32{1}, []uint32{1}, 9, nil},
	} {
		got := sharedTetras(nil, test.a, test.b, test.c, test.skip)
		assert.Equal(t, test.want, got)
	}
}

func TestNeighbor(t *testing.T) {
	assert.True(t, Boundary.IsBoundary())
	_, ok := Boundary.Index()
	assert.False(t, ok)
	j, ok := NeighborOf(7).Index()
	assert.True(t, ok)
	assert.Equal(t, uint32(7), j)
}

func TestViewEye(t *testing.T) {
	v := NewView(mgl32.Translate3D(0, 0, -5))
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, v.Eye())
	assert.Equal(t, float32(-2), v.Depth(mgl32.Vec3{1, 1, 3}))

	singular := NewView(mgl32.Mat4{})
	assert.Equal(t, mgl32.Vec3{}, singular.Eye())
}

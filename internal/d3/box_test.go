package d3

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSetBounds(t *testing.T) {
	s := Set{{1, 5, 1.5}, {-3, 0, 1}, {2, 2, 1.25}}
	bb := s.Bounds()
	assert.Equal(t, Box{Min: mgl32.Vec3{-3, 0, 1}, Max: mgl32.Vec3{2, 5, 1.5}}, bb)
	assert.Equal(t, mgl32.Vec3{5, 5, 0.5}, bb.Size())
	assert.Equal(t, mgl32.Vec3{-0.5, 2.5, 1.25}, bb.Center())
	assert.Equal(t, float32(5), Max(bb.Size()))
	assert.Equal(t, bb, bb.Include(mgl32.Vec3{0, 1, 1.2}))
}

func TestUnit(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{}, Unit(mgl32.Vec3{}))
	u := Unit(mgl32.Vec3{3, 0, 4})
	assert.InDelta(t, 0.6, u[0], 1e-6)
	assert.InDelta(t, 0, u[1], 1e-6)
	assert.InDelta(t, 0.8, u[2], 1e-6)
	assert.True(t, IsFinite(u))
	assert.False(t, IsFinite(mgl32.Vec3{0, math32.Inf(1), 0}))
	assert.False(t, IsFinite(mgl32.Vec3{math32.NaN(), 0, 0}))
}

package keysort

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomCentroids(rng *rand.Rand, n int) []mgl32.Vec3 {
	c := make([]mgl32.Vec3, n)
	for i := range c {
		c[i] = mgl32.Vec3{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1}
	}
	return c
}

func TestDepthSorters(t *testing.T) {
	sorters := []struct {
		name   string
		sorter DepthSorter
	}{
		{"bitonic", NewBitonic()},
		{"quick", NewQuick()},
	}
	rng := rand.New(rand.NewSource(1))
	row := mgl32.Vec4{0.1, 0.5, -0.8, -3}
	for _, s := range sorters {
		for _, n := range []int{1, 2, 3, 17, 100, 1023, 1025} {
			centroids := randomCentroids(rng, n)
			require.NoError(t, s.sorter.Load(centroids))
			dst := make([]uint32, n)
			require.NoError(t, s.sorter.SortDepth(dst, row), s.name)

			seen := make([]bool, n)
			for i, id := range dst {
				require.Less(t, int(id), n, "%s n=%d", s.name, n)
				require.False(t, seen[id], "%s n=%d duplicate id %d", s.name, n, id)
				seen[id] = true
				if i > 0 {
					assert.LessOrEqual(t, Key(row, centroids[dst[i-1]]), Key(row, centroids[id]), "%s n=%d at %d", s.name, n, i)
				}
			}
		}
	}
}

func TestSorterErrors(t *testing.T) {
	for _, s := range []DepthSorter{NewBitonic(), NewQuick()} {
		err := s.SortDepth(make([]uint32, 3), mgl32.Vec4{})
		assert.ErrorIs(t, err, ErrNotLoaded)
		require.NoError(t, s.Load(make([]mgl32.Vec3, 4)))
		err = s.SortDepth(make([]uint32, 3), mgl32.Vec4{})
		assert.ErrorIs(t, err, ErrLength)
	}
}

func TestSortTiesByID(t *testing.T) {
	p := []Pair{{3, 1}, {1, 1}, {2, 0}, {0, 1}, {5, 0}}
	q := append([]Pair(nil), p...)
	QuickSort(q)
	assert.Equal(t, []Pair{{2, 0}, {5, 0}, {0, 1}, {1, 1}, {3, 1}}, q)
}

func TestPaddedLen(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 1, 2: 2, 3: 4, 5: 8, 1024: 1024, 1025: 2048} {
		assert.Equal(t, want, PaddedLen(n), "n=%d", n)
	}
}

func BenchmarkSortDepth(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	centroids := randomCentroids(rng, 1<<16)
	dst := make([]uint32, len(centroids))
	row := mgl32.Vec4{0, 0, 1, -2}
	for _, s := range []struct {
		name   string
		sorter DepthSorter
	}{{"bitonic", NewBitonic()}, {"quick", NewQuick()}} {
		s.sorter.Load(centroids)
		b.Run(s.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s.sorter.SortDepth(dst, row)
			}
		})
	}
}

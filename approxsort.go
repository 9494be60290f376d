package hapt

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt/keysort"
)

// CentroidSort orders all cells by the view-space depth of their centroids,
// farthest first, writing cell indices to dst. pairs is scratch space; both
// slices must hold one entry per centroid.
//
// The order is exact only when no two cells occlude each other in a way a
// single depth per cell cannot express.
func CentroidSort(centroids []mgl32.Vec3, v View, pairs []keysort.Pair, dst []uint32) {
	pairs = keysort.FillKeys(pairs, centroids, v.DepthRow())
	sortPairs(pairs)
	for i, p := range pairs {
		dst[i] = p.ID
	}
}

// sortPairs sorts by ascending key. Equal keys are left in any order.
func sortPairs(p []keysort.Pair) {
	slices.SortFunc(p, func(a, b keysort.Pair) int {
		return cmp.Compare(a.Key, b.Key)
	})
}

package keysort

import (
	"math"
	"math/bits"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// padID is the id of the padding pairs that fill a bitonic network up to a
// power of two. Padding sorts after every real key.
const padID = math.MaxUint32

// Bitonic is a CPU DepthSorter running a bitonic sorting network, the same
// network a GPU implementation dispatches one stage at a time.
type Bitonic struct {
	centroids []mgl32.Vec3
	pairs     []Pair
}

var _ DepthSorter = (*Bitonic)(nil)

// NewBitonic returns a CPU bitonic sorter.
func NewBitonic() *Bitonic { return &Bitonic{} }

// Load stores centroids and sizes the padded key buffer.
func (b *Bitonic) Load(centroids []mgl32.Vec3) error {
	b.centroids = centroids
	b.pairs = make([]Pair, PaddedLen(len(centroids)))
	return nil
}

// SortDepth implements DepthSorter.
func (b *Bitonic) SortDepth(dst []uint32, row mgl32.Vec4) error {
	if err := checkDst(dst, len(b.centroids)); err != nil {
		return err
	}
	n := len(b.centroids)
	FillKeys(b.pairs, b.centroids, row)
	for i := n; i < len(b.pairs); i++ {
		b.pairs[i] = Pair{ID: padID, Key: math32.Inf(1)}
	}
	BitonicSort(b.pairs)
	for i := range dst {
		dst[i] = b.pairs[i].ID
	}
	return nil
}

// PaddedLen returns the smallest power of two not less than n.
func PaddedLen(n int) int {
	if n <= 1 {
		return n
	}
	return 1 << bits.Len(uint(n-1))
}

// BitonicSort sorts p in ascending order with [Less]. len(p) must be a
// power of two.
func BitonicSort(p []Pair) {
	n := len(p)
	if n&(n-1) != 0 {
		panic("keysort: bitonic length not a power of two")
	}
	for k := 2; k <= n; k <<= 1 {
		for j := k >> 1; j > 0; j >>= 1 {
			for i := 0; i < n; i++ {
				l := i ^ j
				if l <= i {
					continue
				}
				ascending := i&k == 0
				if ascending == Less(p[l], p[i]) {
					p[i], p[l] = p[l], p[i]
				}
			}
		}
	}
}

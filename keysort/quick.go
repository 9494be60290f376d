package keysort

import "github.com/go-gl/mathgl/mgl32"

// insertionCutoff is the span length below which quicksort finishes with
// insertion sort.
const insertionCutoff = 16

// Quick is a CPU DepthSorter running an iterative quicksort.
type Quick struct {
	centroids []mgl32.Vec3
	pairs     []Pair
	spans     [][2]int
}

var _ DepthSorter = (*Quick)(nil)

// NewQuick returns a CPU quicksort sorter.
func NewQuick() *Quick { return &Quick{} }

// Load stores centroids and sizes the key buffer.
func (q *Quick) Load(centroids []mgl32.Vec3) error {
	q.centroids = centroids
	q.pairs = make([]Pair, len(centroids))
	return nil
}

// SortDepth implements DepthSorter.
func (q *Quick) SortDepth(dst []uint32, row mgl32.Vec4) error {
	if err := checkDst(dst, len(q.centroids)); err != nil {
		return err
	}
	FillKeys(q.pairs, q.centroids, row)
	q.spans = quickSort(q.pairs, q.spans[:0])
	for i := range dst {
		dst[i] = q.pairs[i].ID
	}
	return nil
}

// QuickSort sorts p in ascending order with [Less].
func QuickSort(p []Pair) {
	quickSort(p, nil)
}

// quickSort sorts with an explicit span stack, pushing the larger partition
// so the stack depth stays logarithmic. The stack is returned for reuse.
func quickSort(p []Pair, stack [][2]int) [][2]int {
	stack = append(stack, [2]int{0, len(p) - 1})
	for len(stack) > 0 {
		lo, hi := stack[len(stack)-1][0], stack[len(stack)-1][1]
		stack = stack[:len(stack)-1]
		for hi-lo >= insertionCutoff {
			m := partition(p, lo, hi)
			if m-lo < hi-m {
				stack = append(stack, [2]int{m + 1, hi})
				hi = m
			} else {
				stack = append(stack, [2]int{lo, m})
				lo = m + 1
			}
		}
		insertionSort(p, lo, hi)
	}
	return stack
}

// partition runs a Hoare partition of p[lo:hi+1] around the median of three
// and returns m such that p[lo:m+1] <= pivot <= p[m+1:hi+1].
func partition(p []Pair, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if Less(p[mid], p[lo]) {
		p[mid], p[lo] = p[lo], p[mid]
	}
	if Less(p[hi], p[lo]) {
		p[hi], p[lo] = p[lo], p[hi]
	}
	if Less(p[hi], p[mid]) {
		p[hi], p[mid] = p[mid], p[hi]
	}
	pivot := p[mid]
	i, j := lo-1, hi+1
	for {
		for i++; Less(p[i], pivot); i++ {
		}
		for j--; Less(pivot, p[j]); j-- {
		}
		if i >= j {
			return j
		}
		p[i], p[j] = p[j], p[i]
	}
}

func insertionSort(p []Pair, lo, hi int) {
	for i := lo + 1; i <= hi; i++ {
		for j := i; j > lo && Less(p[j], p[j-1]); j-- {
			p[j], p[j-1] = p[j-1], p[j]
		}
	}
}

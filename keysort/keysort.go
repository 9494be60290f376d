// Package keysort defines the contract of a parallel key sort service that
// orders cells by view-space depth, and provides CPU implementations of it.
package keysort

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNotLoaded is returned by SortDepth when Load was never called.
	ErrNotLoaded = errors.New("keysort: no centroids loaded")
	// ErrLength is returned when a destination does not hold one id per centroid.
	ErrLength = errors.New("keysort: destination length mismatch")
)

// Pair is a cell id with its sort key.
type Pair struct {
	ID  uint32
	Key float32
}

// Less orders pairs by key and breaks ties by id, giving a strict total order.
func Less(a, b Pair) bool {
	return a.Key < b.Key || (a.Key == b.Key && a.ID < b.ID)
}

// DepthSorter sorts cells by view-space depth.
//
// Load is called once per mesh with the cell centroids. SortDepth computes
// the key row·(c,1) of every loaded centroid c and writes the cell ids to dst
// in ascending key order, which is back-to-front for an OpenGL camera.
// dst must have exactly one entry per loaded centroid and on success holds a
// permutation of 0..len(dst)-1.
type DepthSorter interface {
	Load(centroids []mgl32.Vec3) error
	SortDepth(dst []uint32, row mgl32.Vec4) error
}

// Key returns the depth key of point c for the depth row.
func Key(row mgl32.Vec4, c mgl32.Vec3) float32 {
	return row[0]*c[0] + row[1]*c[1] + row[2]*c[2] + row[3]
}

// FillKeys writes one pair per centroid into dst and returns it.
func FillKeys(dst []Pair, centroids []mgl32.Vec3, row mgl32.Vec4) []Pair {
	dst = dst[:len(centroids)]
	for i, c := range centroids {
		dst[i] = Pair{ID: uint32(i), Key: Key(row, c)}
	}
	return dst
}

// IsSorted reports whether pairs are in non-decreasing key order.
func IsSorted(p []Pair) bool {
	for i := 1; i < len(p); i++ {
		if p[i].Key < p[i-1].Key {
			return false
		}
	}
	return true
}

func checkDst(dst []uint32, n int) error {
	if n == 0 {
		return ErrNotLoaded
	}
	if len(dst) != n {
		return fmt.Errorf("%w: got %d ids for %d centroids", ErrLength, len(dst), n)
	}
	return nil
}

// Package hapt computes per-frame visibility orderings of tetrahedral meshes
// for order dependent volume compositing, as used by Hardware-Assisted
// Projected Tetrahedra (HAPT) renderers.
//
// The central type is [Orderer], which precomputes mesh connectivity, outward
// face normals and cell centroids once and then produces a back-to-front
// permutation of cell indices for a given model-view matrix using one of
// several [Method]s: the Meshed Polyhedra Visibility Ordering (MPVO), an
// approximate centroid sort or an external parallel key sort.
package hapt

import (
	"log/slog"
	"math"
	"sync/atomic"
)

// Tetra holds the 4 vertex indices of a tetrahedron. Face f of a tetra is
// formed by vertices (f+0)&3, (f+1)&3 and (f+2)&3; vertex (f+3)&3 is the
// vertex opposite to face f.
type Tetra [4]uint32

// faceVertex returns the position within a Tetra of the k'th vertex of face f.
// k=3 is the vertex opposite to the face.
func faceVertex(k, f int) int { return (k + f) & 3 }

// Neighbor is the cell sharing a face with a tetrahedron or Boundary
// when the face lies on the mesh exterior.
type Neighbor uint32

// Boundary marks a face with no neighboring cell.
const Boundary Neighbor = math.MaxUint32

// maxCells is the largest cell count representable alongside the Boundary sentinel.
const maxCells = math.MaxUint32 - 1

// NeighborOf returns the Neighbor referencing cell i.
func NeighborOf(i uint32) Neighbor { return Neighbor(i) }

// IsBoundary reports whether the face has no neighbor.
func (n Neighbor) IsBoundary() bool { return n == Boundary }

// Index returns the neighboring cell index and true, or false for a boundary face.
func (n Neighbor) Index() (uint32, bool) { return uint32(n), n != Boundary }

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used by the package. A nil logger
// reverts to [slog.Default]. Visibility cycles are reported at
// [slog.LevelDebug] and are therefore silent with default handlers.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

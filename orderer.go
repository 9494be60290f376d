package hapt

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt/keysort"
)

// Stats describes the last ordering computed by an [Orderer].
type Stats struct {
	Method   Method
	Duration time.Duration
	// BoundaryCells is the number of front-facing boundary cells MPVO started from.
	BoundaryCells int
	// Cycles is the number of visibility cycles MPVO found.
	Cycles int
	// Unreached is the number of cells MPVO could not reach from the boundary.
	Unreached int
}

// Orderer is the ordering context of a mesh. It owns the connectivity,
// face normals and centroids built at construction and the transient
// buffers reused by every ordering. An Orderer is not safe for concurrent
// use; shared mesh data is never modified while ordering.
type Orderer struct {
	mesh      *Mesh
	inc       *Incidence
	conn      *Connectivity
	normals   []mgl32.Vec3
	centroids []mgl32.Vec3

	dag    *DAG
	lin    *Linearizer
	pairs  []keysort.Pair
	starts []uint32
	ids    []uint32

	method  Method
	sorters [numMethods]keysort.DepthSorter
	loaded  [numMethods]bool
	last    Stats
}

// NewOrderer validates the mesh and builds everything ordering needs. No
// Orderer is returned on error.
func NewOrderer(m *Mesh, opts ...Option) (*Orderer, error) {
	cfg := config{method: MethodMPVO, maxCells: maxCells}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.method >= numMethods {
		return nil, fmt.Errorf("hapt: invalid method %d", uint8(cfg.method))
	}
	if len(m.Tetras) > cfg.maxCells {
		return nil, fmt.Errorf("%w: %d tetrahedra exceed limit of %d", ErrMemory, len(m.Tetras), cfg.maxCells)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	n := len(m.Tetras)
	o := &Orderer{mesh: m, method: cfg.method, sorters: cfg.sorters}
	var err error
	if cfg.conn != nil {
		if err := cfg.conn.Matches(m); err != nil {
			return nil, err
		}
		o.conn = cfg.conn
	} else {
		o.inc, err = BuildIncidence(m, cfg.strict)
		if err != nil {
			return nil, err
		}
		o.conn, err = BuildConnectivity(m, o.inc)
		if err != nil {
			return nil, err
		}
	}
	if o.normals, err = BuildFaceNormals(m); err != nil {
		return nil, err
	}
	if o.centroids, err = BuildCentroids(m); err != nil {
		return nil, err
	}
	if o.dag, err = NewDAG(n); err != nil {
		return nil, err
	}
	if o.lin, err = NewLinearizer(n); err != nil {
		return nil, err
	}
	if o.pairs, err = makeSlice[keysort.Pair](n, "sort keys"); err != nil {
		return nil, err
	}
	if o.starts, err = makeSlice[uint32](n, "start cells"); err != nil {
		return nil, err
	}
	if o.ids, err = makeSlice[uint32](n, "ordered ids"); err != nil {
		return nil, err
	}
	log().Debug("ordering context ready",
		"cells", n, "vertices", len(m.Vertices), "extFaces", o.conn.ExtFaces, "bytes", o.MemSize())
	return o, nil
}

// SetMethod selects the method used by [Orderer.Order].
func (o *Orderer) SetMethod(m Method) error {
	if m >= numMethods {
		return fmt.Errorf("hapt: invalid method %d", uint8(m))
	}
	o.method = m
	return nil
}

// Method returns the current ordering method.
func (o *Orderer) Method() Method { return o.method }

// SetKeySorter replaces the key sort service of MethodBitonic or MethodQuick.
// It is loaded with the mesh centroids on first use.
func (o *Orderer) SetKeySorter(m Method, s keysort.DepthSorter) error {
	if !m.usesKeySorter() {
		return fmt.Errorf("hapt: method %s does not use a key sorter", m)
	}
	o.sorters[m] = s
	o.loaded[m] = false
	return nil
}

// Order computes a back-to-front ordering of all cells for the model-view
// matrix mv using the current method. The returned slice is owned by the
// Orderer and overwritten by the next ordering.
func (o *Orderer) Order(mv mgl32.Mat4) ([]uint32, error) {
	return o.OrderWith(o.method, mv)
}

// OrderTimed is like Order and also returns the statistics of the ordering.
func (o *Orderer) OrderTimed(mv mgl32.Mat4) ([]uint32, Stats, error) {
	ids, err := o.Order(mv)
	return ids, o.last, err
}

// OrderWith is like Order but uses method m without changing the current method.
func (o *Orderer) OrderWith(m Method, mv mgl32.Mat4) ([]uint32, error) {
	start := time.Now()
	o.last = Stats{Method: m}
	v := NewView(mv)
	switch m {
	case MethodNone:
		for i := range o.ids {
			o.ids[i] = uint32(i)
		}
	case MethodCentroid:
		CentroidSort(o.centroids, v, o.pairs, o.ids)
	case MethodBitonic, MethodQuick:
		s, err := o.keySorter(m)
		if err != nil {
			return nil, err
		}
		if err := s.SortDepth(o.ids, v.DepthRow()); err != nil {
			return nil, fmt.Errorf("hapt: %s key sort: %w", m, err)
		}
	case MethodMPVO:
		o.mpvo(v)
	default:
		return nil, fmt.Errorf("hapt: invalid method %d", uint8(m))
	}
	o.last.Duration = time.Since(start)
	return o.ids, nil
}

func (o *Orderer) mpvo(v View) {
	nb := o.dag.Build(o.conn, o.normals, o.centroids, v)
	boundary := o.dag.Boundary()
	sortPairs(boundary)
	starts := o.starts[:nb]
	for i, p := range boundary {
		starts[i] = p.ID
	}
	o.lin.Run(o.conn, o.dag, starts, o.ids)
	o.last.BoundaryCells = nb
	o.last.Cycles = o.lin.Cycles
	o.last.Unreached = o.lin.Unreached
}

func (o *Orderer) keySorter(m Method) (keysort.DepthSorter, error) {
	if o.sorters[m] == nil {
		if m == MethodBitonic {
			o.sorters[m] = keysort.NewBitonic()
		} else {
			o.sorters[m] = keysort.NewQuick()
		}
	}
	if !o.loaded[m] {
		if err := o.sorters[m].Load(o.centroids); err != nil {
			return nil, fmt.Errorf("hapt: loading %s key sorter: %w", m, err)
		}
		o.loaded[m] = true
	}
	return o.sorters[m], nil
}

// LastStats returns the statistics of the last ordering.
func (o *Orderer) LastStats() Stats { return o.last }

// OnCycle sets a function called for every visibility cycle MPVO finds.
func (o *Orderer) OnCycle(fn func(cell, pred uint32)) { o.lin.OnCycle = fn }

// Mesh returns the mesh being ordered.
func (o *Orderer) Mesh() *Mesh { return o.mesh }

// Connectivity returns the face adjacency of the mesh.
func (o *Orderer) Connectivity() *Connectivity { return o.conn }

// Incidence returns the vertex incidence lists or nil when connectivity
// was supplied with [WithConnectivity].
func (o *Orderer) Incidence() *Incidence { return o.inc }

// FaceNormals returns the unit outward face normals indexed by cell*4+face.
func (o *Orderer) FaceNormals() []mgl32.Vec3 { return o.normals }

// Centroids returns the cell centroids.
func (o *Orderer) Centroids() []mgl32.Vec3 { return o.centroids }

// DAG returns the DAG of the last MPVO ordering or SortError call.
func (o *Orderer) DAG() *DAG { return o.dag }

// SortError builds the DAG for mv and returns the number of internal faces
// whose direction is violated by order.
func (o *Orderer) SortError(mv mgl32.Mat4, order []uint32) (int, error) {
	o.dag.Build(o.conn, o.normals, o.centroids, NewView(mv))
	return SortError(o.conn, o.dag, order)
}

// MemSize returns the approximate number of bytes held by the Orderer,
// excluding the mesh and any key sort service.
func (o *Orderer) MemSize() int {
	size := o.conn.memSize() + 12*(len(o.normals)+len(o.centroids)) +
		o.dag.memSize() + o.lin.memSize() + 8*len(o.pairs) + 4*(len(o.starts)+len(o.ids))
	if o.inc != nil {
		size += o.inc.memSize()
	}
	return size
}

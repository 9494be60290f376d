package hapt

import "github.com/soypat/hapt/keysort"

// Option configures an [Orderer].
type Option func(*config)

type config struct {
	strict   bool
	maxCells int
	method   Method
	sorters  [numMethods]keysort.DepthSorter
	conn     *Connectivity
}

// WithStrictIncidence rejects meshes with vertices not used by any tetrahedron.
func WithStrictIncidence() Option {
	return func(c *config) { c.strict = true }
}

// WithMaxCells limits the number of tetrahedra an Orderer accepts. Larger
// meshes fail with ErrMemory before any buffer is allocated.
func WithMaxCells(n int) Option {
	return func(c *config) { c.maxCells = n }
}

// WithMethod sets the initial ordering method. The default is MethodMPVO.
func WithMethod(m Method) Option {
	return func(c *config) { c.method = m }
}

// WithKeySorter sets the key sort service used by MethodBitonic or
// MethodQuick. By default the CPU sorters of package keysort are used.
func WithKeySorter(m Method, s keysort.DepthSorter) Option {
	return func(c *config) {
		if m.usesKeySorter() {
			c.sorters[m] = s
		}
	}
}

// WithConnectivity supplies precomputed connectivity, such as one loaded
// from a cache, skipping incidence and connectivity construction.
func WithConnectivity(conn *Connectivity) Option {
	return func(c *config) { c.conn = conn }
}

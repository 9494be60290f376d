package hapt

// cell traversal states.
const (
	unvisited uint8 = iota
	onStack
	done
)

type frame struct {
	cell uint32
	face uint8
}

// Linearizer turns a DAG into a total order of cells by depth-first search,
// emitting each cell after all of its predecessors reachable through
// incoming edges. Its buffers are sized once and reused across runs.
type Linearizer struct {
	state []uint8
	stack []frame
	// Cycles is the number of edges found pointing back into the active
	// search path during the last Run. Cycles do not stop the traversal.
	Cycles int
	// Unreached is the number of cells the last Run could not reach from
	// the start cells and emitted in index order afterwards.
	Unreached int
	// OnCycle, if set, is called for every edge closing a cycle with the
	// cell being expanded and the predecessor found on the search path.
	OnCycle func(cell, pred uint32)
}

// NewLinearizer allocates a linearizer for n cells.
func NewLinearizer(n int) (*Linearizer, error) {
	state, err := makeSlice[uint8](n, "traversal state")
	if err != nil {
		return nil, err
	}
	stack, err := makeSlice[frame](n, "traversal stack")
	if err != nil {
		return nil, err
	}
	return &Linearizer{state: state, stack: stack[:0]}, nil
}

// Run traverses the DAG from each start cell in turn, then from every cell
// still unvisited in index order, and writes the resulting order to dst,
// which must hold one entry per cell. It returns the number of cells
// written, which is always the number of cells.
func (l *Linearizer) Run(conn *Connectivity, dag *DAG, starts []uint32, dst []uint32) int {
	clear(l.state)
	l.Cycles = 0
	l.Unreached = 0
	n := 0
	for _, s := range starts {
		n = l.visit(conn, dag, s, dst, n)
	}
	reached := n
	for i := range l.state {
		if l.state[i] == unvisited {
			n = l.visit(conn, dag, uint32(i), dst, n)
		}
	}
	l.Unreached = n - reached
	if l.Cycles > 0 {
		log().Debug("visibility cycles found", "cycles", l.Cycles, "cells", n)
	}
	return n
}

// visit runs the depth-first search rooted at cell s and returns the updated
// output count. The visit order matches a recursive search that scans faces
// in ascending order.
func (l *Linearizer) visit(conn *Connectivity, dag *DAG, s uint32, dst []uint32, n int) int {
	if l.state[s] != unvisited {
		return n
	}
	l.state[s] = onStack
	l.stack = append(l.stack[:0], frame{cell: s})
	for len(l.stack) > 0 {
		top := &l.stack[len(l.stack)-1]
		if top.face == 4 {
			l.state[top.cell] = done
			dst[n] = top.cell
			n++
			l.stack = l.stack[:len(l.stack)-1]
			continue
		}
		c, f := top.cell, top.face
		top.face++
		j, ok := conn.Adj[c][f].Index()
		if !ok || dag.Dir[c][f] != In {
			continue
		}
		switch l.state[j] {
		case unvisited:
			l.state[j] = onStack
			l.stack = append(l.stack, frame{cell: j})
		case onStack:
			l.Cycles++
			if l.OnCycle != nil {
				l.OnCycle(c, j)
			}
		}
	}
	return n
}

func (l *Linearizer) memSize() int { return len(l.state) + 8*cap(l.stack) }

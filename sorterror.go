package hapt

import "fmt"

// SortError returns the number of internal faces whose DAG direction is
// violated by order, that is faces where the cell that must be drawn first
// appears later. order must be a permutation of the cells.
func SortError(conn *Connectivity, dag *DAG, order []uint32) (int, error) {
	n := conn.NumCells()
	if len(order) != n {
		return 0, fmt.Errorf("hapt: order has %d cells, want %d", len(order), n)
	}
	pos, err := makeSlice[uint32](n, "order positions")
	if err != nil {
		return 0, err
	}
	seen, err := makeSlice[bool](n, "order membership")
	if err != nil {
		return 0, err
	}
	for p, c := range order {
		if int(c) >= n || seen[c] {
			return 0, fmt.Errorf("hapt: order is not a permutation at position %d (cell %d)", p, c)
		}
		seen[c] = true
		pos[c] = uint32(p)
	}
	violated := 0
	for i := range conn.Adj {
		for f, adj := range conn.Adj[i] {
			j, ok := adj.Index()
			if !ok || j < uint32(i) {
				continue
			}
			before := pos[i] < pos[j]
			if (dag.Dir[i][f] == In) == before {
				violated++
			}
		}
	}
	return violated, nil
}

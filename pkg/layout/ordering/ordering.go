// Package ordering provides horizontal row ordering algorithms for the
// layered layout pass.
//
// An orderer decides the left-to-right sequence of cluster nodes in each
// generation row so that parent-child edges cross as little as possible.
// The default implementation is [Barycentric], an iterative averaging
// heuristic seeded by the order in which edges were first encountered.
package ordering

import "github.com/kintreehq/kintree/pkg/dag"

// Orderer is an interface for horizontal row ordering algorithms.
// An orderer determines the horizontal sequence of nodes in each row
// to minimize edge crossings.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// initialOrders seeds each row with the graph's insertion order, which
// for the family layout encodes the order edges were first encountered.
func initialOrders(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, len(g.RowIDs()))
	for _, row := range g.RowIDs() {
		nodes := g.NodesInRow(row)
		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		orders[row] = ids
	}
	return orders
}

package transform

import (
	"slices"

	"github.com/kintreehq/kintree/pkg/dag"
)

// AssignLayers assigns nodes to horizontal rows (generation ranks) based
// on their depth in the graph.
//
// AssignLayers uses a longest-path algorithm via topological sort
// (Kahn's algorithm) to compute row assignments. Each node is placed at
// one plus the maximum row of any of its parents, ensuring that:
//   - Source nodes (no incoming edges) are at row 0
//   - All parent clusters are strictly above their child clusters
//   - Each node is pushed as deep as necessary to avoid parent conflicts
//
// Existing row assignments in the DAG are overwritten.
//
// # Cycles
//
// AssignLayers assumes the graph is acyclic. If cycles exist, nodes in
// the cycle never reach zero in-degree and remain at row 0 (their
// default). Run [BreakCycles] first to ensure correct layering.
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges. Space
// complexity is O(V) for the queue and row/degree maps.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}
	slices.Sort(queue)

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}

func sortedIDs(ids []string) []string {
	slices.Sort(ids)
	return ids
}

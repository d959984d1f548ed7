package transform

import "github.com/kintreehq/kintree/pkg/dag"

// BreakCycles removes back edges so the graph becomes acyclic, and
// returns the number of edges removed.
//
// User-edited relationship data can contain cycles (a person recorded as
// both ancestor and descendant of another). Rank assignment requires a
// DAG, so cycles are broken up front rather than left to incidental
// termination: a depth-first search with white/gray/black coloring marks
// any edge into a gray (in-progress) node as a back edge, and all back
// edges are removed afterwards.
//
// The DFS starts from source nodes in sorted ID order, then sweeps any
// remaining unvisited nodes, so the choice of which edge gets dropped is
// deterministic for identical inputs.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{node, child})
			}
		}
		color[node] = black
	}

	var sourceIDs []string
	for _, n := range g.Sources() {
		sourceIDs = append(sourceIDs, n.ID)
	}
	for _, id := range sortedIDs(sourceIDs) {
		if color[id] == white {
			dfs(id)
		}
	}

	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfs(id)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e[0], e[1])
	}
	return len(backEdges)
}

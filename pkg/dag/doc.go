// Package dag provides a directed acyclic graph optimized for row-based
// layered layouts of family trees.
//
// # Overview
//
// Kintree renders a relationship graph as a generationally-ranked chart:
// conjugal clusters (one or more mutually-married persons) become nodes,
// parent→child links between clusters become edges, and each node is
// assigned a row so that generations stack top-to-bottom.
//
// The row-based structure is what enables the Sugiyama-style drawing
// pass in pkg/layout: rank assignment, per-row crossing reduction, and
// left-to-right coordinate packing all operate on this graph.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges
// with [DAG.AddEdge]. Nodes must have unique IDs and carry their pixel
// footprint:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "grandparents", Width: 260, Height: 150})
//	g.AddNode(dag.Node{ID: "parents", Width: 260, Height: 150})
//	g.AddEdge(dag.Edge{From: "grandparents", To: "parents", Weight: 4})
//
// Rows are assigned afterwards by transform.AssignLayers; query the
// layered structure with [DAG.NodesInRow], [DAG.RowIDs] and [DAG.MaxRow].
// Use [DAG.Validate] to verify integrity before rank assignment.
//
// # Edge Crossings
//
// The [CountCrossings] and [CountLayerCrossings] functions use a Fenwick
// tree (binary indexed tree) to count inversions in O(E log V) time,
// which the barycentric orderer uses to pick the best of its candidate
// row orderings.
package dag

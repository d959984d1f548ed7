// Package transform provides graph transformations that prepare a
// cluster graph for layered layout.
//
// The layout pass in pkg/layout expects an acyclic graph with generation
// ranks assigned. The typical sequence is:
//
//	removed := transform.BreakCycles(g) // defend against bad user data
//	transform.AssignLayers(g)           // longest-path rank assignment
//
// Both transformations are deterministic for identical inputs: traversal
// orders are pinned to sorted node IDs rather than map iteration order.
package transform

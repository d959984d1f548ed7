// Package render turns computed tree layouts into viewable artifacts.
//
// Two render paths are provided:
//
//   - [RenderSVG] draws the engine's own coordinates directly: one box
//     per person at its computed position, with optional lineage and
//     marriage connectors. This is the faithful view of what the layout
//     engine produced.
//
//   - [ToDOT] plus [RenderDOT] hand the family graph to Graphviz for a
//     quick node-link diagram that ignores the engine's coordinates.
//     Useful for debugging the graph structure itself.
package render

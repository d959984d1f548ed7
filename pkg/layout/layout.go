// Package layout computes collision-free, generationally-ranked 2-D
// coordinates for every visible person in a family graph.
//
// The engine is a pure function over its inputs: persons (with embedded
// relationship ID lists), relationships (consulted only for marriage
// order), and a set of collapsed person IDs whose descendants are
// hidden. It performs no I/O, holds no state between calls, and is safe
// to call concurrently.
//
// # Passes
//
// A layout call runs six passes in dependency order:
//
//  1. Visibility resolution - BFS from parentless roots; collapse hides
//     descendants (visibility.go)
//  2. Cluster formation - married partners merge into conjugal clusters
//     with deterministic member order, including the two-wife inversion
//     rule (cluster.go)
//  3. Rank graph + layered solve - clusters become a weighted DAG,
//     ranked by longest path and ordered per row to reduce crossings
//     (rank.go)
//  4. Parent alignment - low-fan-out parent clusters recenter over the
//     member they belong above, with bounded collision push-apart
//     (align.go)
//  5. Sibling sorting - same-parent clusters swap x slots so the eldest
//     ends up leftmost (siblings.go)
//  6. Position expansion - cluster centers become per-person coordinates,
//     orphan clusters fill an overflow row, and the whole plane is
//     shifted to a non-negative origin (expand.go)
//
// Every pass returns a fresh position map instead of mutating shared
// state, and every iteration order is pinned to byte-wise ID sorting, so
// identical inputs always produce bit-identical output.
//
// # Error model
//
// The engine never fails. Dangling relationship references are skipped
// at every lookup site, an empty person list yields an empty map, and a
// relationship cycle is broken deterministically before ranking.
package layout

import (
	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/layout/ordering"
)

// Fixed layout constants, in pixels. These are the engine's entire
// configuration surface.
const (
	// NodeWidth and NodeHeight are the pixel footprint of a single
	// person box.
	NodeWidth  = 120.0
	NodeHeight = 150.0

	// SpouseGap separates members inside one conjugal cluster.
	SpouseGap = 20.0

	// RankSep is the vertical distance between generation rows.
	RankSep = 100.0

	// NodeSep is the minimum horizontal distance between adjacent
	// clusters in a row during coordinate assignment.
	NodeSep = 60.0

	// CollisionGap is the minimum horizontal gap enforced between
	// same-rank clusters by the parent-alignment push-apart pass.
	CollisionGap = 60.0

	// Margin is the distance from the canvas origin to the leftmost and
	// topmost coordinate of the final layout.
	Margin = 50.0
)

// Point is a 2-D pixel coordinate. For per-person output it is the
// top-left corner of the person's box.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Engine computes family tree layouts. The zero value is usable; New
// returns one with the default barycentric orderer.
type Engine struct {
	// Orderer decides the left-to-right sequence of clusters per
	// generation row. Nil means ordering.Barycentric{}.
	Orderer ordering.Orderer
}

// New returns an Engine with the default crossing-reduction heuristic.
func New() *Engine {
	return &Engine{Orderer: ordering.Barycentric{}}
}

// Compute lays out the given family graph and returns one coordinate
// per laid-out person. Persons hidden by the collapsed set are absent
// from the result. The inputs are never modified.
//
// Compute never panics on inconsistent data: relationship IDs that
// point to persons missing from the input are skipped, and cycles in
// the parent-child structure are broken before rank assignment.
func (e *Engine) Compute(persons []family.Person, rels []family.Relationship, collapsed map[string]bool) map[string]Point {
	if len(persons) == 0 {
		return map[string]Point{}
	}

	idx := family.IndexByID(persons)
	visible := resolveVisibility(idx, collapsed)
	clusters, byPerson := buildClusters(idx, rels, visible)
	g := buildRankGraph(clusters, byPerson, idx, visible)

	orderer := e.Orderer
	if orderer == nil {
		orderer = ordering.Barycentric{}
	}
	orders := orderer.OrderRows(g)

	pos := assignCoordinates(g, orders)
	pos = alignParents(g, clusters, byPerson, idx, pos)
	pos = sortSiblings(g, clusters, byPerson, pos)

	return expandPositions(clusters, g, pos)
}

// Compute is a convenience wrapper around New().Compute for callers
// that don't need to customize the engine.
func Compute(persons []family.Person, rels []family.Relationship, collapsed map[string]bool) map[string]Point {
	return New().Compute(persons, rels, collapsed)
}

package layout

import (
	"maps"
	"slices"

	"github.com/kintreehq/kintree/pkg/dag"
	"github.com/kintreehq/kintree/pkg/family"
)

// sortSiblings reorders sibling clusters by birth while preserving the
// set of occupied x slots.
//
// For each parent cluster, the distinct child clusters reachable via
// any member's ChildIDs are collected per rank. When a rank holds two
// or more of them, their current x positions are captured, sorted
// ascending, and reassigned to the clusters ordered by the birth of a
// representative child member - a value permutation, not a
// recomputation, so the eldest sibling ends up leftmost.
//
// Slots were sized for the clusters that originally occupied them, so a
// permutation across different widths can land a wide couple cluster in
// a slot cut for a singleton. Each permutation is therefore followed by
// a left-to-right sweep of the affected row that restores the minimum
// gap while keeping the new x order.
//
// The input map is not modified; a new map is returned.
func sortSiblings(g *dag.DAG, clusters []*Cluster, byPerson map[string]*Cluster, pos map[string]Point) map[string]Point {
	out := maps.Clone(pos)

	for _, pc := range clusters {
		if _, ok := g.Node(pc.ID); !ok {
			continue
		}
		for row, group := range childClustersByRank(g, pc, byPerson) {
			if len(group) < 2 {
				continue
			}
			permuteByBirth(pc, group, out)
			spreadRow(g, row, out)
		}
	}
	return out
}

// spreadRow removes horizontal overlap in one row by sweeping left to
// right, pushing each cluster rightward until it clears its left
// neighbor by CollisionGap. The x order of the row is preserved.
func spreadRow(g *dag.DAG, row int, pos map[string]Point) {
	ids := rowIDsByX(g, row, pos)
	for i := 1; i < len(ids); i++ {
		if overlap := overlapAmount(g, ids[i-1], ids[i], pos); overlap > 0 {
			pos[ids[i]] = Point{X: pos[ids[i]].X + overlap, Y: pos[ids[i]].Y}
		}
	}
}

// childClustersByRank collects the parent cluster's distinct child
// clusters grouped by rank, in first-encounter order within each group.
func childClustersByRank(g *dag.DAG, pc *Cluster, byPerson map[string]*Cluster) map[int][]*Cluster {
	groups := make(map[int][]*Cluster)
	seen := make(map[string]bool)

	for _, m := range pc.Members {
		for _, cid := range m.ChildIDs {
			cc := byPerson[cid]
			if cc == nil || cc == pc || seen[cc.ID] {
				continue
			}
			n, ok := g.Node(cc.ID)
			if !ok {
				continue
			}
			seen[cc.ID] = true
			groups[n.Row] = append(groups[n.Row], cc)
		}
	}
	return groups
}

// permuteByBirth reassigns the group's sorted x slots to the clusters
// ordered by representative birth.
func permuteByBirth(pc *Cluster, group []*Cluster, pos map[string]Point) {
	slots := make([]float64, len(group))
	for i, cc := range group {
		slots[i] = pos[cc.ID].X
	}
	slices.Sort(slots)

	byBirth := slices.Clone(group)
	slices.SortStableFunc(byBirth, func(a, b *Cluster) int {
		ra, rb := representative(pc, a), representative(pc, b)
		if ra == nil || rb == nil {
			return 0
		}
		return family.CompareBirth(ra, rb)
	})

	for i, cc := range byBirth {
		pos[cc.ID] = Point{X: slots[i], Y: pos[cc.ID].Y}
	}
}

// representative returns the first member of the child cluster whose
// parents include a member of the parent cluster.
func representative(pc *Cluster, cc *Cluster) *family.Person {
	parents := make(map[string]bool, len(pc.Members))
	for _, m := range pc.Members {
		parents[m.ID] = true
	}
	for _, m := range cc.Members {
		for _, pid := range m.ParentIDs {
			if parents[pid] {
				return m
			}
		}
	}
	return nil
}

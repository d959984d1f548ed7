package layout

import (
	"maps"
	"slices"

	"github.com/kintreehq/kintree/pkg/dag"
	"github.com/kintreehq/kintree/pkg/family"
)

// maxPushIterations bounds the collision push-apart loop. Pushes only
// ever move clusters away from the aligned cluster, so the loop
// normally converges long before the bound; the cap makes termination
// unconditional.
const maxPushIterations = 32

// alignParents recenters qualifying parent clusters directly above the
// member they belong under.
//
// For each multi-member cluster, each member's visible parents are
// considered: if the parent's cluster is in the rank graph, sits
// strictly above the member's cluster, and connects to at most two
// child clusters (the low-fan-out guard that keeps widely-shared
// ancestors undistorted), the parent cluster's x-center moves to the
// member's center. Each move is followed by a bounded push-apart pass
// that restores the minimum gap between same-rank clusters.
//
// Clusters are processed in sorted cluster-ID order, so repeated
// realignments cascade the same way on every call. The input map is not
// modified; a new map is returned.
func alignParents(g *dag.DAG, clusters []*Cluster, byPerson map[string]*Cluster, idx map[string]*family.Person, pos map[string]Point) map[string]Point {
	out := maps.Clone(pos)

	for _, c := range clusters {
		node, ok := g.Node(c.ID)
		if !ok || len(c.Members) < 2 {
			continue
		}
		for i, m := range c.Members {
			for _, pid := range m.ParentIDs {
				if _, exists := idx[pid]; !exists {
					continue
				}
				pc := byPerson[pid]
				if pc == nil || pc == c {
					continue
				}
				pn, ok := g.Node(pc.ID)
				if !ok || pn.Row >= node.Row {
					continue
				}
				if g.OutDegree(pc.ID) > 2 {
					continue
				}

				target := out[c.ID].X + c.memberOffset(i)
				if out[pc.ID].X == target {
					continue
				}
				out[pc.ID] = Point{X: target, Y: out[pc.ID].Y}
				pushApart(g, pc.ID, pn.Row, out)
			}
		}
	}
	return out
}

// pushApart restores the minimum horizontal gap between clusters in the
// given row after movedID was recentered. Colliding clusters are pushed
// away from movedID by exactly the overlap amount; the moved cluster
// itself never moves. The pass repeats until no overlap remains or the
// iteration bound is hit.
func pushApart(g *dag.DAG, movedID string, row int, pos map[string]Point) {
	ids := rowIDsByX(g, row, pos)
	if len(ids) < 2 {
		return
	}

	movedX := pos[movedID].X
	for iter := 0; iter < maxPushIterations; iter++ {
		sortByX(ids, pos)
		changed := false

		for i := 0; i < len(ids)-1; i++ {
			a, b := ids[i], ids[i+1]
			overlap := overlapAmount(g, a, b, pos)
			if overlap <= 0 {
				continue
			}

			// Push the cluster on the far side from the aligned one.
			switch {
			case a == movedID:
				pos[b] = Point{X: pos[b].X + overlap, Y: pos[b].Y}
			case b == movedID:
				pos[a] = Point{X: pos[a].X - overlap, Y: pos[a].Y}
			case pos[b].X >= movedX:
				pos[b] = Point{X: pos[b].X + overlap, Y: pos[b].Y}
			default:
				pos[a] = Point{X: pos[a].X - overlap, Y: pos[a].Y}
			}
			changed = true
		}

		if !changed {
			return
		}
	}
}

// overlapAmount returns how far the bounding boxes of a and b (plus the
// minimum gap) intrude on each other, given a is left of or equal to b.
func overlapAmount(g *dag.DAG, a, b string, pos map[string]Point) float64 {
	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	rightA := pos[a].X + na.Width/2
	leftB := pos[b].X - nb.Width/2
	return rightA + CollisionGap - leftB
}

func rowIDsByX(g *dag.DAG, row int, pos map[string]Point) []string {
	nodes := g.NodesInRow(row)
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := pos[n.ID]; ok {
			ids = append(ids, n.ID)
		}
	}
	sortByX(ids, pos)
	return ids
}

// sortByX orders ids by current x position, tie-breaking on ID so equal
// positions order deterministically.
func sortByX(ids []string, pos map[string]Point) {
	sortIDs(ids)
	slices.SortStableFunc(ids, func(a, b string) int {
		switch {
		case pos[a].X < pos[b].X:
			return -1
		case pos[a].X > pos[b].X:
			return 1
		default:
			return 0
		}
	})
}

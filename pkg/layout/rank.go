package layout

import (
	"slices"

	"github.com/kintreehq/kintree/pkg/dag"
	"github.com/kintreehq/kintree/pkg/dag/transform"
	"github.com/kintreehq/kintree/pkg/family"
)

// lineageWeight is the tie strength of a parent→child cluster edge.
// A weight well above the default of 1 makes rank ordering favor
// vertical alignment of direct lineages over looser in-law coupling.
const lineageWeight = 4

// buildRankGraph builds the layered cluster graph and assigns
// generation ranks.
//
// A cluster enters the graph only if at least one member has a visible
// parent or a visible child; isolated clusters stay out and are later
// laid out as orphans. For every member of every included cluster,
// children are iterated sorted by birth and a deduplicated weighted
// edge is added from the member's cluster to each child's cluster.
//
// Cycles from bad user data are broken before longest-path rank
// assignment, so the returned graph is always a valid DAG.
func buildRankGraph(clusters []*Cluster, byPerson map[string]*Cluster, idx map[string]*family.Person, visible map[string]bool) *dag.DAG {
	g := dag.New()

	for _, c := range clusters {
		if hasGraphEdges(c, idx, visible) {
			_ = g.AddNode(dag.Node{ID: c.ID, Width: c.Width(), Height: c.Height()})
		}
	}

	for _, c := range clusters {
		if _, ok := g.Node(c.ID); !ok {
			continue
		}
		for _, m := range c.Members {
			for _, child := range childrenByBirth(m, idx, visible) {
				cc := byPerson[child.ID]
				if cc == nil || cc == c {
					continue
				}
				if _, ok := g.Node(cc.ID); !ok {
					continue
				}
				if !g.HasEdge(c.ID, cc.ID) {
					_ = g.AddEdge(dag.Edge{From: c.ID, To: cc.ID, Weight: lineageWeight})
				}
			}
		}
	}

	transform.BreakCycles(g)
	transform.AssignLayers(g)
	return g
}

// hasGraphEdges reports whether any member has a visible parent or a
// visible child, which qualifies the cluster for the rank graph.
func hasGraphEdges(c *Cluster, idx map[string]*family.Person, visible map[string]bool) bool {
	for _, m := range c.Members {
		for _, pid := range m.ParentIDs {
			if _, ok := idx[pid]; ok && visible[pid] {
				return true
			}
		}
		for _, cid := range m.ChildIDs {
			if _, ok := idx[cid]; ok && visible[cid] {
				return true
			}
		}
	}
	return false
}

// childrenByBirth returns the person's visible children sorted by birth
// date, then birth order; children lacking both keep their relative
// position in the ChildIDs list.
func childrenByBirth(p *family.Person, idx map[string]*family.Person, visible map[string]bool) []*family.Person {
	var children []*family.Person
	for _, cid := range p.ChildIDs {
		if c, ok := idx[cid]; ok && visible[cid] {
			children = append(children, c)
		}
	}
	slices.SortStableFunc(children, family.CompareBirth)
	return children
}

// assignCoordinates converts row orderings into cluster center
// positions: y from the rank, x by packing each row left-to-right with
// the minimum separation and canvas margin.
func assignCoordinates(g *dag.DAG, orders map[int][]string) map[string]Point {
	pos := make(map[string]Point, g.NodeCount())
	for _, row := range g.RowIDs() {
		x := Margin
		y := float64(row)*(NodeHeight+RankSep) + NodeHeight/2
		for _, id := range orders[row] {
			n, ok := g.Node(id)
			if !ok {
				continue
			}
			pos[id] = Point{X: x + n.Width/2, Y: y}
			x += n.Width + NodeSep
		}
	}
	return pos
}

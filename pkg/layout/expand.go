package layout

import (
	"math"

	"github.com/kintreehq/kintree/pkg/dag"
)

// expandPositions converts cluster centers into one top-left coordinate
// per person and normalizes the plane to a non-negative origin.
//
// In-graph clusters expand around their center: member i sits at
// center.x − width/2 + i × (NodeWidth + SpouseGap). Clusters that never
// made it into the rank graph (no qualifying parent/child edge) are
// laid out left-to-right in a single overflow row below the deepest
// rank. Finally every position is translated so the minimum x and
// minimum y both equal Margin.
func expandPositions(clusters []*Cluster, g *dag.DAG, pos map[string]Point) map[string]Point {
	out := make(map[string]Point)

	orphanY := 0.0
	if g.NodeCount() > 0 {
		orphanY = float64(g.MaxRow()+1) * (NodeHeight + RankSep)
	}
	orphanX := 0.0

	for _, c := range clusters {
		var left, top float64
		if center, ok := pos[c.ID]; ok {
			left = center.X - c.Width()/2
			top = center.Y - c.Height()/2
		} else {
			left = orphanX
			top = orphanY
			orphanX += c.Width() + NodeSep
		}
		for i, m := range c.Members {
			out[m.ID] = Point{X: left + float64(i)*(NodeWidth+SpouseGap), Y: top}
		}
	}

	return normalize(out)
}

// normalize shifts all positions uniformly so the minimum x and minimum
// y both equal Margin. An empty map stays empty.
func normalize(positions map[string]Point) map[string]Point {
	if len(positions) == 0 {
		return positions
	}

	minX, minY := math.Inf(1), math.Inf(1)
	for _, p := range positions {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}

	dx, dy := Margin-minX, Margin-minY
	out := make(map[string]Point, len(positions))
	for id, p := range positions {
		out[id] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

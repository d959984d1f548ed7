package layout

import (
	"testing"

	"github.com/kintreehq/kintree/pkg/family"
)

// layoutUpTo runs the passes through alignment and returns the graph,
// clusters and positions for inspection.
func layoutUpTo(t *testing.T, persons []family.Person, rels []family.Relationship) (map[string]*Cluster, map[string]Point) {
	t.Helper()
	idx := family.IndexByID(persons)
	visible := resolveVisibility(idx, nil)
	clusters, byPerson := buildClusters(idx, rels, visible)
	g := buildRankGraph(clusters, byPerson, idx, visible)
	orders := New().Orderer.OrderRows(g)
	pos := assignCoordinates(g, orders)
	return byPerson, alignParents(g, clusters, byPerson, idx, pos)
}

func TestAlignParents_RecentersLowFanOutParent(t *testing.T) {
	byPerson, pos := layoutUpTo(t, fiveGenScenario(), nil)

	// G has a single child cluster; it must recenter over F's slot
	// inside the F+M cluster.
	fm := byPerson["F"]
	wantX := pos[fm.ID].X + fm.memberOffset(0)
	if pos["G"].X != wantX {
		t.Errorf("G center x = %v, want %v (aligned over F)", pos["G"].X, wantX)
	}
}

func TestAlignParents_HighFanOutParentStaysPut(t *testing.T) {
	// g has three child clusters, two of them couples. The fan-out
	// guard (>2) must keep g where coordinate assignment put it.
	persons := makePersons([]testPerson{
		{id: "g", gender: family.GenderMale, childs: []string{"a", "b", "c"}},
		{id: "a", gender: family.GenderMale, parents: []string{"g"}, spouses: []string{"aw"}},
		{id: "aw", gender: family.GenderFemale, spouses: []string{"a"}},
		{id: "b", gender: family.GenderMale, parents: []string{"g"}, spouses: []string{"bw"}},
		{id: "bw", gender: family.GenderFemale, spouses: []string{"b"}},
		{id: "c", gender: family.GenderFemale, parents: []string{"g"}},
	})

	idx := family.IndexByID(persons)
	visible := resolveVisibility(idx, nil)
	clusters, byPerson := buildClusters(idx, nil, visible)
	g := buildRankGraph(clusters, byPerson, idx, visible)
	orders := New().Orderer.OrderRows(g)
	before := assignCoordinates(g, orders)

	after := alignParents(g, clusters, byPerson, idx, before)

	if before["g"] != after["g"] {
		t.Errorf("high fan-out parent moved: %v -> %v", before["g"], after["g"])
	}
}

func TestAlignParents_PushApartRestoresGap(t *testing.T) {
	// g1 is a's parent and g2 is aw's parent: both align over members
	// of the same couple, which drives their rank-0 clusters into each
	// other. The push-apart pass must restore the minimum gap.
	persons := makePersons([]testPerson{
		{id: "g1", gender: family.GenderMale, childs: []string{"a"}},
		{id: "g2", gender: family.GenderMale, childs: []string{"aw"}},
		{id: "a", gender: family.GenderMale, parents: []string{"g1"}, spouses: []string{"aw"}},
		{id: "aw", gender: family.GenderFemale, parents: []string{"g2"}, spouses: []string{"a"}},
	})

	idx := family.IndexByID(persons)
	visible := resolveVisibility(idx, nil)
	clusters, byPerson := buildClusters(idx, nil, visible)
	g := buildRankGraph(clusters, byPerson, idx, visible)
	orders := New().Orderer.OrderRows(g)
	pos := alignParents(g, clusters, byPerson, idx, assignCoordinates(g, orders))

	assertNoRowOverlap(t, g, pos)
}

func TestAlignParents_DoesNotMutateInput(t *testing.T) {
	idx := family.IndexByID(fiveGenScenario())
	visible := resolveVisibility(idx, nil)
	clusters, byPerson := buildClusters(idx, nil, visible)
	g := buildRankGraph(clusters, byPerson, idx, visible)
	orders := New().Orderer.OrderRows(g)
	pos := assignCoordinates(g, orders)

	snapshot := make(map[string]Point, len(pos))
	for k, v := range pos {
		snapshot[k] = v
	}

	alignParents(g, clusters, byPerson, idx, pos)

	for k, v := range snapshot {
		if pos[k] != v {
			t.Fatalf("input position map mutated at %s", k)
		}
	}
}

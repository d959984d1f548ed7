package layout

import (
	"testing"

	"github.com/kintreehq/kintree/pkg/family"
)

func allVisible(idx map[string]*family.Person) map[string]bool {
	visible := make(map[string]bool, len(idx))
	for id := range idx {
		visible[id] = true
	}
	return visible
}

func memberIDs(c *Cluster) []string {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ID
	}
	return ids
}

func TestBuildClusters_Partition(t *testing.T) {
	idx := family.IndexByID(fiveGenScenario())
	visible := allVisible(idx)

	clusters, byPerson := buildClusters(idx, nil, visible)

	seen := make(map[string]int)
	for _, c := range clusters {
		for _, m := range c.Members {
			seen[m.ID]++
		}
	}
	for id := range visible {
		if seen[id] != 1 {
			t.Errorf("person %s appears in %d clusters, want exactly 1", id, seen[id])
		}
		if byPerson[id] == nil {
			t.Errorf("byPerson[%s] is nil", id)
		}
	}
	if len(clusters) != 4 {
		t.Errorf("cluster count = %d, want 4 (G, F+M, C1, C2)", len(clusters))
	}
}

func TestBuildClusters_SpouseFloodFill(t *testing.T) {
	idx := family.IndexByID(fiveGenScenario())
	clusters, byPerson := buildClusters(idx, nil, allVisible(idx))

	fm := byPerson["F"]
	if fm != byPerson["M"] {
		t.Fatal("F and M should share a cluster")
	}
	got := memberIDs(fm)
	if len(got) != 2 || got[0] != "F" || got[1] != "M" {
		t.Errorf("F+M member order = %v, want [F M]", got)
	}
	_ = clusters
}

func TestBuildClusters_TwoWivesInversion(t *testing.T) {
	persons := makePersons([]testPerson{
		{id: "h", gender: family.GenderMale, spouses: []string{"w1", "w2"}},
		{id: "w1", gender: family.GenderFemale, spouses: []string{"h"}},
		{id: "w2", gender: family.GenderFemale, spouses: []string{"h"}},
	})
	rels := []family.Relationship{
		{Type: family.RelSpouse, Person1ID: "h", Person2ID: "w1", MarriageOrder: 1},
		{Type: family.RelSpouse, Person1ID: "h", Person2ID: "w2", MarriageOrder: 2},
	}
	idx := family.IndexByID(persons)

	clusters, _ := buildClusters(idx, rels, allVisible(idx))

	if len(clusters) != 1 {
		t.Fatalf("cluster count = %d, want 1", len(clusters))
	}
	got := memberIDs(clusters[0])
	want := []string{"w1", "h", "w2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("member order = %v, want %v", got, want)
		}
	}
}

func TestBuildClusters_TwoWivesHonorsMarriageOrderNotID(t *testing.T) {
	// The second marriage carries the ID that sorts first; marriage
	// order must win over ID order.
	persons := makePersons([]testPerson{
		{id: "h", gender: family.GenderMale, spouses: []string{"a", "z"}},
		{id: "a", gender: family.GenderFemale, spouses: []string{"h"}},
		{id: "z", gender: family.GenderFemale, spouses: []string{"h"}},
	})
	rels := []family.Relationship{
		{Type: family.RelSpouse, Person1ID: "h", Person2ID: "z", MarriageOrder: 1},
		{Type: family.RelSpouse, Person1ID: "h", Person2ID: "a", MarriageOrder: 2},
	}
	idx := family.IndexByID(persons)

	clusters, _ := buildClusters(idx, rels, allVisible(idx))

	got := memberIDs(clusters[0])
	want := []string{"z", "h", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("member order = %v, want %v", got, want)
		}
	}
}

func TestBuildClusters_ThreeWivesGeneralRule(t *testing.T) {
	// Three wives falls out of the inversion special case: husband
	// first, wives by marriage order.
	persons := makePersons([]testPerson{
		{id: "h", gender: family.GenderMale, spouses: []string{"w1", "w2", "w3"}},
		{id: "w1", gender: family.GenderFemale, spouses: []string{"h"}},
		{id: "w2", gender: family.GenderFemale, spouses: []string{"h"}},
		{id: "w3", gender: family.GenderFemale, spouses: []string{"h"}},
	})
	rels := []family.Relationship{
		{Type: family.RelSpouse, Person1ID: "h", Person2ID: "w1", MarriageOrder: 3},
		{Type: family.RelSpouse, Person1ID: "h", Person2ID: "w2", MarriageOrder: 1},
		{Type: family.RelSpouse, Person1ID: "h", Person2ID: "w3", MarriageOrder: 2},
	}
	idx := family.IndexByID(persons)

	clusters, _ := buildClusters(idx, rels, allVisible(idx))

	got := memberIDs(clusters[0])
	want := []string{"h", "w2", "w3", "w1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("member order = %v, want %v", got, want)
		}
	}
}

func TestBuildClusters_InvisibleSpouseExcluded(t *testing.T) {
	persons := makePersons([]testPerson{
		{id: "a", spouses: []string{"b"}},
		{id: "b", spouses: []string{"a"}},
	})
	idx := family.IndexByID(persons)
	visible := map[string]bool{"a": true}

	clusters, byPerson := buildClusters(idx, nil, visible)

	if len(clusters) != 1 || len(clusters[0].Members) != 1 {
		t.Fatalf("clusters = %v, want single singleton", clusters)
	}
	if byPerson["b"] != nil {
		t.Error("invisible person must not be clustered")
	}
}

func TestClusterWidth(t *testing.T) {
	idx := family.IndexByID(fiveGenScenario())
	_, byPerson := buildClusters(idx, nil, allVisible(idx))

	if got, want := byPerson["G"].Width(), NodeWidth; got != want {
		t.Errorf("singleton width = %v, want %v", got, want)
	}
	if got, want := byPerson["F"].Width(), 2*NodeWidth+SpouseGap; got != want {
		t.Errorf("couple width = %v, want %v", got, want)
	}
}

func TestClusterMemberOffset(t *testing.T) {
	idx := family.IndexByID(fiveGenScenario())
	_, byPerson := buildClusters(idx, nil, allVisible(idx))

	fm := byPerson["F"]
	// Two members: offsets are symmetric around the cluster center.
	if got := fm.memberOffset(0); got != -(NodeWidth+SpouseGap)/2 {
		t.Errorf("memberOffset(0) = %v, want %v", got, -(NodeWidth+SpouseGap)/2)
	}
	if got := fm.memberOffset(1); got != (NodeWidth+SpouseGap)/2 {
		t.Errorf("memberOffset(1) = %v, want %v", got, (NodeWidth+SpouseGap)/2)
	}
}

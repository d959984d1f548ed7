package layout

import (
	"testing"
	"time"

	"github.com/kintreehq/kintree/pkg/dag"
	"github.com/kintreehq/kintree/pkg/family"
)

// testPerson builds a Person for layout tests.
type testPerson struct {
	id      string
	gender  family.Gender
	born    string // YYYY-MM-DD, empty for unknown
	order   int    // 0 for unknown
	parents []string
	childs  []string
	spouses []string
}

func makePersons(specs []testPerson) []family.Person {
	persons := make([]family.Person, len(specs))
	for i, s := range specs {
		p := family.Person{
			ID:        s.id,
			Gender:    s.gender,
			ParentIDs: s.parents,
			ChildIDs:  s.childs,
			SpouseIDs: s.spouses,
		}
		if s.born != "" {
			t, err := time.Parse("2006-01-02", s.born)
			if err != nil {
				panic(err)
			}
			p.BirthDate = &t
		}
		if s.order != 0 {
			o := s.order
			p.BirthOrder = &o
		}
		persons[i] = p
	}
	return persons
}

// fiveGenScenario is the reference tree: grandparent G, married parents
// F+M, children C1 (born 2010) and C2 (born 2012).
func fiveGenScenario() []family.Person {
	return makePersons([]testPerson{
		{id: "G", gender: family.GenderMale, childs: []string{"F"}},
		{id: "F", gender: family.GenderMale, parents: []string{"G"}, childs: []string{"C1", "C2"}, spouses: []string{"M"}},
		{id: "M", gender: family.GenderFemale, childs: []string{"C1", "C2"}, spouses: []string{"F"}},
		{id: "C1", gender: family.GenderFemale, born: "2010-05-01", parents: []string{"F", "M"}},
		{id: "C2", gender: family.GenderMale, born: "2012-09-01", parents: []string{"F", "M"}},
	})
}

func centerX(p Point) float64 { return p.X + NodeWidth/2 }

// assertNoRowOverlap fails the test if any two positioned clusters in
// the same row intrude on each other's bounding box plus the minimum
// collision gap.
func assertNoRowOverlap(t *testing.T, g *dag.DAG, pos map[string]Point) {
	t.Helper()
	for _, row := range g.RowIDs() {
		nodes := g.NodesInRow(row)
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				a, b := nodes[i], nodes[j]
				pa, okA := pos[a.ID]
				pb, okB := pos[b.ID]
				if !okA || !okB {
					continue
				}
				if pa.X > pb.X {
					a, b = b, a
					pa, pb = pb, pa
				}
				rightA := pa.X + a.Width/2
				leftB := pb.X - b.Width/2
				if rightA+CollisionGap > leftB+1e-9 {
					t.Errorf("row %d: clusters %s and %s overlap (right=%v, left=%v)", row, a.ID, b.ID, rightA, leftB)
				}
			}
		}
	}
}

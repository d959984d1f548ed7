package layout_test

import (
	"fmt"
	"time"

	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/layout"
)

func date(year int) *time.Time {
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func ExampleCompute() {
	persons := []family.Person{
		{ID: "f", Gender: family.GenderMale, SpouseIDs: []string{"m"}, ChildIDs: []string{"c1", "c2"}},
		{ID: "m", Gender: family.GenderFemale, SpouseIDs: []string{"f"}, ChildIDs: []string{"c1", "c2"}},
		{ID: "c1", BirthDate: date(1980), ParentIDs: []string{"f", "m"}},
		{ID: "c2", BirthDate: date(1982), ParentIDs: []string{"f", "m"}},
	}
	rels := []family.Relationship{
		{Type: family.RelSpouse, Person1ID: "f", Person2ID: "m", MarriageOrder: 1},
	}

	pos := layout.Compute(persons, rels, nil)

	fmt.Println("positions:", len(pos))
	fmt.Println("eldest child leftmost:", pos["c1"].X < pos["c2"].X)
	fmt.Println("siblings share a row:", pos["c1"].Y == pos["c2"].Y)
	fmt.Println("parents above children:", pos["f"].Y < pos["c1"].Y)
	// Output:
	// positions: 4
	// eldest child leftmost: true
	// siblings share a row: true
	// parents above children: true
}

func ExampleCompute_collapsed() {
	persons := []family.Person{
		{ID: "f", Gender: family.GenderMale, SpouseIDs: []string{"m"}, ChildIDs: []string{"c1"}},
		{ID: "m", Gender: family.GenderFemale, SpouseIDs: []string{"f"}, ChildIDs: []string{"c1"}},
		{ID: "c1", ParentIDs: []string{"f", "m"}},
	}

	// Collapsing both parents hides their descendants.
	pos := layout.Compute(persons, nil, map[string]bool{"f": true, "m": true})

	_, childVisible := pos["c1"]
	fmt.Println("positions:", len(pos))
	fmt.Println("child visible:", childVisible)
	// Output:
	// positions: 2
	// child visible: false
}

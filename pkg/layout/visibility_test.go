package layout

import (
	"testing"

	"github.com/kintreehq/kintree/pkg/family"
)

func TestResolveVisibility_AllVisibleWithoutCollapse(t *testing.T) {
	idx := family.IndexByID(fiveGenScenario())

	visible := resolveVisibility(idx, nil)

	if len(visible) != 5 {
		t.Fatalf("visible count = %d, want 5", len(visible))
	}
	for id := range idx {
		if !visible[id] {
			t.Errorf("person %s should be visible", id)
		}
	}
}

func TestResolveVisibility_CollapseHidesDescendants(t *testing.T) {
	persons := makePersons([]testPerson{
		{id: "g", childs: []string{"f"}},
		{id: "f", parents: []string{"g"}, childs: []string{"c"}},
		{id: "c", parents: []string{"f"}},
	})
	idx := family.IndexByID(persons)

	visible := resolveVisibility(idx, map[string]bool{"g": true})

	if !visible["g"] {
		t.Error("collapsed person itself stays visible")
	}
	if visible["f"] || visible["c"] {
		t.Errorf("descendants of collapsed person leaked: %v", visible)
	}
}

func TestResolveVisibility_SpouseEdgeBypassesCollapse(t *testing.T) {
	// m is a root in her own right, so collapsing g does not hide f:
	// f is reachable through the spouse edge from m.
	persons := makePersons([]testPerson{
		{id: "g", childs: []string{"f"}},
		{id: "f", parents: []string{"g"}, spouses: []string{"m"}},
		{id: "m", spouses: []string{"f"}},
	})
	idx := family.IndexByID(persons)

	visible := resolveVisibility(idx, map[string]bool{"g": true})

	if !visible["f"] || !visible["m"] {
		t.Errorf("spouse-edge reachability broken: %v", visible)
	}
}

func TestResolveVisibility_DanglingParentStillRoot(t *testing.T) {
	persons := makePersons([]testPerson{
		{id: "a", parents: []string{"ghost"}},
	})
	idx := family.IndexByID(persons)

	visible := resolveVisibility(idx, nil)

	if !visible["a"] {
		t.Error("person with only dangling parents should be a root")
	}
}

func TestResolveVisibility_ParentCycleYieldsNothing(t *testing.T) {
	// Mutually-recorded ancestry leaves no root; behavior on cyclic
	// input is undefined, but the traversal must terminate.
	persons := makePersons([]testPerson{
		{id: "a", parents: []string{"b"}, childs: []string{"b"}},
		{id: "b", parents: []string{"a"}, childs: []string{"a"}},
	})
	idx := family.IndexByID(persons)

	visible := resolveVisibility(idx, nil)

	if len(visible) != 0 {
		t.Errorf("visible = %v, want empty for rootless cycle", visible)
	}
}

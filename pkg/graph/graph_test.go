package graph

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/layout"
)

func sampleTree() *Tree {
	born := time.Date(1950, 3, 14, 0, 0, 0, 0, time.UTC)
	return &Tree{
		ID:   "t1",
		Name: "Smith Family",
		Persons: []family.Person{
			{ID: "p1", Name: "Ada", Gender: family.GenderFemale, BirthDate: &born, ChildIDs: []string{"p2"}},
			{ID: "p2", Name: "Ben", Gender: family.GenderMale, ParentIDs: []string{"p1"}, SpouseIDs: []string{"p3"}},
			{ID: "p3", Name: "Cleo", Gender: family.GenderFemale, SpouseIDs: []string{"p2"}},
		},
		Relationships: []family.Relationship{
			{Type: family.RelSpouse, Person1ID: "p2", Person2ID: "p3", MarriageOrder: 1},
		},
	}
}

func TestNewTree(t *testing.T) {
	tree := NewTree("Smith Family")

	if tree.ID == "" {
		t.Error("NewTree must assign an ID")
	}
	if tree.Name != "Smith Family" {
		t.Errorf("Name = %q, want %q", tree.Name, "Smith Family")
	}
	if tree.CreatedAt.IsZero() || tree.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}

	other := NewTree("Smith Family")
	if other.ID == tree.ID {
		t.Error("tree IDs must be unique")
	}
}

func TestTreeValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Tree)
		wantCode errors.Code
	}{
		{
			name:   "valid tree",
			mutate: func(*Tree) {},
		},
		{
			name:     "empty name",
			mutate:   func(tr *Tree) { tr.Name = "" },
			wantCode: errors.ErrCodeInvalidTree,
		},
		{
			name: "duplicate person id",
			mutate: func(tr *Tree) {
				tr.Persons = append(tr.Persons, family.Person{ID: "p1"})
			},
			wantCode: errors.ErrCodeInvalidTree,
		},
		{
			name: "invalid person id",
			mutate: func(tr *Tree) {
				tr.Persons[0].ID = "../evil"
			},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name: "relationship to unknown person",
			mutate: func(tr *Tree) {
				tr.Relationships = append(tr.Relationships, family.Relationship{
					Type: family.RelSpouse, Person1ID: "p1", Person2ID: "ghost",
				})
			},
			wantCode: errors.ErrCodeInvalidRelationship,
		},
		{
			name: "self relationship",
			mutate: func(tr *Tree) {
				tr.Relationships = append(tr.Relationships, family.Relationship{
					Type: family.RelParentChild, Person1ID: "p1", Person2ID: "p1",
				})
			},
			wantCode: errors.ErrCodeInvalidRelationship,
		},
		{
			name: "unknown relationship type",
			mutate: func(tr *Tree) {
				tr.Relationships = append(tr.Relationships, family.Relationship{
					Type: "sibling", Person1ID: "p1", Person2ID: "p2",
				})
			},
			wantCode: errors.ErrCodeInvalidRelationship,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree()
			tt.mutate(tree)

			err := tree.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestTreePerson(t *testing.T) {
	tree := sampleTree()

	if p := tree.Person("p2"); p == nil || p.Name != "Ben" {
		t.Errorf("Person(p2) = %v, want Ben", p)
	}
	if p := tree.Person("ghost"); p != nil {
		t.Errorf("Person(ghost) = %v, want nil", p)
	}
}

func TestTreeClone(t *testing.T) {
	tree := sampleTree()
	clone := tree.Clone()

	if !reflect.DeepEqual(tree, clone) {
		t.Fatal("clone differs from original")
	}

	clone.Persons[0].Name = "Changed"
	clone.Persons[1].ChildIDs = append(clone.Persons[1].ChildIDs, "x")
	*clone.Persons[0].BirthDate = time.Time{}

	if tree.Persons[0].Name != "Ada" {
		t.Error("mutating clone changed original name")
	}
	if len(tree.Persons[1].ChildIDs) != 0 {
		t.Error("mutating clone changed original slice")
	}
	if tree.Persons[0].BirthDate.IsZero() {
		t.Error("mutating clone changed original birth date")
	}
}

func TestTreeRoundTrip(t *testing.T) {
	tree := sampleTree()

	data, err := MarshalTree(tree)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}

	parsed, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if !reflect.DeepEqual(tree, parsed) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, tree)
	}
}

func TestTreeFileRoundTrip(t *testing.T) {
	tree := sampleTree()
	path := filepath.Join(t.TempDir(), "tree.json")

	if err := WriteTreeFile(tree, path); err != nil {
		t.Fatalf("WriteTreeFile: %v", err)
	}
	parsed, err := ReadTreeFile(path)
	if err != nil {
		t.Fatalf("ReadTreeFile: %v", err)
	}
	if !reflect.DeepEqual(tree, parsed) {
		t.Error("file round trip mismatch")
	}
}

func TestReadTreeRejectsInvalid(t *testing.T) {
	if _, err := UnmarshalTree([]byte(`{"id":"t1","name":""}`)); !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("UnmarshalTree accepted invalid tree: %v", err)
	}
	if _, err := UnmarshalTree([]byte(`not json`)); err == nil {
		t.Error("UnmarshalTree accepted malformed JSON")
	}
}

func TestLayoutFromPositions(t *testing.T) {
	pos := map[string]layout.Point{
		"p1": {X: 50, Y: 50},
		"p2": {X: 230, Y: 300},
	}

	l := LayoutFromPositions("t1", map[string]bool{"p2": true, "p1": false}, pos)

	if l.TreeID != "t1" {
		t.Errorf("TreeID = %q, want t1", l.TreeID)
	}
	if want := 230 + layout.NodeWidth + layout.Margin; l.Width != want {
		t.Errorf("Width = %v, want %v", l.Width, want)
	}
	if want := 300 + layout.NodeHeight + layout.Margin; l.Height != want {
		t.Errorf("Height = %v, want %v", l.Height, want)
	}
	if len(l.Collapsed) != 1 || l.Collapsed[0] != "p2" {
		t.Errorf("Collapsed = %v, want [p2]", l.Collapsed)
	}
}

func TestLayoutFromPositions_Empty(t *testing.T) {
	l := LayoutFromPositions("t1", nil, nil)
	if l.Width != 0 || l.Height != 0 {
		t.Errorf("empty layout frame = %v×%v, want 0×0", l.Width, l.Height)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := LayoutFromPositions("t1", nil, map[string]layout.Point{"p1": {X: 50, Y: 50}})

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	parsed, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if !reflect.DeepEqual(l, parsed) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, l)
	}
}

package graph

import (
	"time"

	"github.com/google/uuid"

	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/family"
)

// =============================================================================
// Tree - Family Tree Serialization
// =============================================================================

// Tree is the canonical serialization format for a family tree.
// Used for API responses, storage, caching, and file import/export.
//
// The format is human-readable and designed for round-trip fidelity:
// import → transform → export → re-import produces identical results.
type Tree struct {
	ID            string                `json:"id" bson:"_id"`
	Name          string                `json:"name" bson:"name"`
	Persons       []family.Person       `json:"persons" bson:"persons"`
	Relationships []family.Relationship `json:"relationships,omitempty" bson:"relationships,omitempty"`
	CreatedAt     time.Time             `json:"created_at,omitzero" bson:"created_at,omitempty"`
	UpdatedAt     time.Time             `json:"updated_at,omitzero" bson:"updated_at,omitempty"`
}

// NewTree returns an empty tree with a fresh UUID and both timestamps set
// to the current time.
func NewTree(name string) *Tree {
	now := time.Now().UTC()
	return &Tree{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Person returns the person with the given ID, or nil.
func (t *Tree) Person(id string) *family.Person {
	for i := range t.Persons {
		if t.Persons[i].ID == id {
			return &t.Persons[i]
		}
	}
	return nil
}

// Touch updates the modification timestamp.
func (t *Tree) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// Validate checks structural consistency: a non-empty name, unique valid
// person IDs, and relationship endpoints that resolve to persons in the
// tree. Dangling ParentIDs/ChildIDs/SpouseIDs on persons are permitted -
// the layout engine skips them - but explicit relationship records must
// resolve.
func (t *Tree) Validate() error {
	if err := errors.ValidateTreeName(t.Name); err != nil {
		return err
	}

	seen := make(map[string]bool, len(t.Persons))
	for i := range t.Persons {
		p := &t.Persons[i]
		if err := errors.ValidatePersonID(p.ID); err != nil {
			return err
		}
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidTree, "duplicate person id: %s", p.ID)
		}
		seen[p.ID] = true
	}

	for _, r := range t.Relationships {
		if r.Type != family.RelSpouse && r.Type != family.RelParentChild {
			return errors.New(errors.ErrCodeInvalidRelationship, "unknown relationship type: %q", r.Type)
		}
		if !seen[r.Person1ID] {
			return errors.New(errors.ErrCodeInvalidRelationship, "relationship references unknown person: %s", r.Person1ID)
		}
		if !seen[r.Person2ID] {
			return errors.New(errors.ErrCodeInvalidRelationship, "relationship references unknown person: %s", r.Person2ID)
		}
		if r.Person1ID == r.Person2ID {
			return errors.New(errors.ErrCodeInvalidRelationship, "relationship endpoints must differ: %s", r.Person1ID)
		}
	}

	return nil
}

// Clone returns a deep copy of the tree. Mutating the copy never affects
// the original.
func (t *Tree) Clone() *Tree {
	out := &Tree{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Persons != nil {
		out.Persons = make([]family.Person, len(t.Persons))
		for i, p := range t.Persons {
			out.Persons[i] = clonePerson(p)
		}
	}
	if t.Relationships != nil {
		out.Relationships = append([]family.Relationship(nil), t.Relationships...)
	}
	return out
}

func clonePerson(p family.Person) family.Person {
	if p.BirthDate != nil {
		d := *p.BirthDate
		p.BirthDate = &d
	}
	if p.BirthOrder != nil {
		o := *p.BirthOrder
		p.BirthOrder = &o
	}
	p.ParentIDs = append([]string(nil), p.ParentIDs...)
	p.ChildIDs = append([]string(nil), p.ChildIDs...)
	p.SpouseIDs = append([]string(nil), p.SpouseIDs...)
	return p
}

// Package family defines the genealogical data model consumed by the
// layout engine.
//
// Persons carry denormalized relationship ID lists (parents, children,
// spouses) owned by an external data layer; everything in this package
// treats them as read-only. Relationships are only consulted for
// marriage-order lookups, which decide how co-wives are arranged inside
// a conjugal cluster.
//
// All comparators in this package are pinned to byte-wise ordinal string
// comparison. Locale-sensitive collation would make cluster formation
// nondeterministic across environments.
package family

import (
	"strings"
	"time"
)

// Gender classifies a person for cluster-ordering purposes.
// Layout only distinguishes male from non-male.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// RelationshipType distinguishes the two edge kinds in the source data.
type RelationshipType string

const (
	// RelSpouse links two married persons. Its MarriageOrder field is the
	// only relationship attribute the layout engine reads.
	RelSpouse RelationshipType = "spouse"

	// RelParentChild links a parent (Person1) to a child (Person2). It is
	// redundant with Person.ParentIDs/ChildIDs and kept for round-trip
	// fidelity with the data layer.
	RelParentChild RelationshipType = "parent-child"
)

// Person is a single individual in the tree. The zero value is not
// usable - ID must be non-empty.
//
// BirthDate and BirthOrder are optional; a nil pointer means the data
// is unknown. Relationship slices may reference IDs that are absent
// from the input set (dangling references); consumers must skip those.
type Person struct {
	ID         string     `json:"id" bson:"id"`
	Name       string     `json:"name,omitempty" bson:"name,omitempty"`
	Gender     Gender     `json:"gender,omitempty" bson:"gender,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	BirthOrder *int       `json:"birth_order,omitempty" bson:"birth_order,omitempty"`
	ParentIDs  []string   `json:"parent_ids,omitempty" bson:"parent_ids,omitempty"`
	ChildIDs   []string   `json:"child_ids,omitempty" bson:"child_ids,omitempty"`
	SpouseIDs  []string   `json:"spouse_ids,omitempty" bson:"spouse_ids,omitempty"`
}

// IsMale reports whether the person sorts into the male group during
// cluster ordering.
func (p *Person) IsMale() bool { return p.Gender == GenderMale }

// Relationship is an edge between two persons. Only spouse relationships
// carry a MarriageOrder; zero means unset and defaults to 1 during
// lookups.
type Relationship struct {
	Type          RelationshipType `json:"type" bson:"type"`
	Person1ID     string           `json:"person1_id" bson:"person1_id"`
	Person2ID     string           `json:"person2_id" bson:"person2_id"`
	MarriageOrder int              `json:"marriage_order,omitempty" bson:"marriage_order,omitempty"`
}

// CompareID compares two person IDs byte-wise. This is the only string
// ordering used anywhere in the layout engine.
func CompareID(a, b string) int { return strings.Compare(a, b) }

// CompareBirth orders two persons by birth: ascending birth date first,
// then ascending birth order. It returns 0 when neither field decides,
// so callers must use a stable sort to keep the relative insertion
// order of persons lacking birth data.
func CompareBirth(a, b *Person) int {
	if a.BirthDate != nil && b.BirthDate != nil {
		if a.BirthDate.Before(*b.BirthDate) {
			return -1
		}
		if b.BirthDate.Before(*a.BirthDate) {
			return 1
		}
	}
	if a.BirthOrder != nil && b.BirthOrder != nil {
		return *a.BirthOrder - *b.BirthOrder
	}
	return 0
}

// MarriageOrder returns the marriage order recorded on the spouse
// relationship between spouseID and anchorID, in either direction.
// A missing relationship or an unset order defaults to 1.
//
// This is a pure function over the relationship list so it can be
// tested in isolation; callers that need many lookups should still
// prefer it over caching closures for determinism.
func MarriageOrder(rels []Relationship, spouseID, anchorID string) int {
	for _, r := range rels {
		if r.Type != RelSpouse {
			continue
		}
		if (r.Person1ID == spouseID && r.Person2ID == anchorID) ||
			(r.Person1ID == anchorID && r.Person2ID == spouseID) {
			if r.MarriageOrder > 0 {
				return r.MarriageOrder
			}
			return 1
		}
	}
	return 1
}

// IndexByID builds a lookup map over the person list. Pointers index
// into the given slice, so the slice must not be reallocated while the
// index is in use.
func IndexByID(persons []Person) map[string]*Person {
	idx := make(map[string]*Person, len(persons))
	for i := range persons {
		idx[persons[i].ID] = &persons[i]
	}
	return idx
}

package server

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/graph"
)

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	var p family.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	s.mutateTree(w, r, func(t *graph.Tree) error {
		if err := errors.ValidatePersonID(p.ID); err != nil {
			return err
		}
		if t.Person(p.ID) != nil {
			return errors.New(errors.ErrCodeConflict, "person already exists: %s", p.ID)
		}
		t.Persons = append(t.Persons, p)
		crossLink(t, &t.Persons[len(t.Persons)-1])
		return nil
	})
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	var p family.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	personID := chi.URLParam(r, "personID")

	s.mutateTree(w, r, func(t *graph.Tree) error {
		existing := t.Person(personID)
		if existing == nil {
			return errors.New(errors.ErrCodePersonNotFound, "person not found: %s", personID)
		}
		p.ID = personID
		*existing = p
		crossLink(t, existing)
		return nil
	})
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")

	s.mutateTree(w, r, func(t *graph.Tree) error {
		idx := slices.IndexFunc(t.Persons, func(p family.Person) bool { return p.ID == personID })
		if idx < 0 {
			return errors.New(errors.ErrCodePersonNotFound, "person not found: %s", personID)
		}
		t.Persons = slices.Delete(t.Persons, idx, idx+1)

		// Scrub references so the remaining tree stays consistent.
		for i := range t.Persons {
			p := &t.Persons[i]
			p.ParentIDs = removeID(p.ParentIDs, personID)
			p.ChildIDs = removeID(p.ChildIDs, personID)
			p.SpouseIDs = removeID(p.SpouseIDs, personID)
		}
		t.Relationships = slices.DeleteFunc(t.Relationships, func(rel family.Relationship) bool {
			return rel.Person1ID == personID || rel.Person2ID == personID
		})
		return nil
	})
}

func (s *Server) handleAddRelationship(w http.ResponseWriter, r *http.Request) {
	var rel family.Relationship
	if err := json.NewDecoder(r.Body).Decode(&rel); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	s.mutateTree(w, r, func(t *graph.Tree) error {
		p1, p2 := t.Person(rel.Person1ID), t.Person(rel.Person2ID)
		if p1 == nil {
			return errors.New(errors.ErrCodePersonNotFound, "person not found: %s", rel.Person1ID)
		}
		if p2 == nil {
			return errors.New(errors.ErrCodePersonNotFound, "person not found: %s", rel.Person2ID)
		}

		switch rel.Type {
		case family.RelSpouse:
			p1.SpouseIDs = addID(p1.SpouseIDs, p2.ID)
			p2.SpouseIDs = addID(p2.SpouseIDs, p1.ID)
		case family.RelParentChild:
			p1.ChildIDs = addID(p1.ChildIDs, p2.ID)
			p2.ParentIDs = addID(p2.ParentIDs, p1.ID)
		default:
			return errors.New(errors.ErrCodeInvalidRelationship, "unknown relationship type: %q", rel.Type)
		}

		t.Relationships = append(t.Relationships, rel)
		return nil
	})
}

// handleDeleteRelationship removes the relationship named by the
// person1, person2, and type query parameters, in either direction.
func (s *Server) handleDeleteRelationship(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p1ID, p2ID := q.Get("person1"), q.Get("person2")
	relType := family.RelationshipType(q.Get("type"))

	s.mutateTree(w, r, func(t *graph.Tree) error {
		if p1ID == "" || p2ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "person1 and person2 query parameters are required")
		}

		before := len(t.Relationships)
		t.Relationships = slices.DeleteFunc(t.Relationships, func(rel family.Relationship) bool {
			if relType != "" && rel.Type != relType {
				return false
			}
			return (rel.Person1ID == p1ID && rel.Person2ID == p2ID) ||
				(rel.Person1ID == p2ID && rel.Person2ID == p1ID)
		})
		if len(t.Relationships) == before {
			return errors.New(errors.ErrCodeRelationshipNotFound, "no relationship between %s and %s", p1ID, p2ID)
		}

		unlink(t, p1ID, p2ID, relType)
		return nil
	})
}

// crossLink mirrors a person's relationship ID lists onto the persons
// they reference, so a one-sided edit still yields a symmetric graph.
// Dangling IDs are left alone.
func crossLink(t *graph.Tree, p *family.Person) {
	for _, id := range p.SpouseIDs {
		if sp := t.Person(id); sp != nil {
			sp.SpouseIDs = addID(sp.SpouseIDs, p.ID)
		}
	}
	for _, id := range p.ParentIDs {
		if parent := t.Person(id); parent != nil {
			parent.ChildIDs = addID(parent.ChildIDs, p.ID)
		}
	}
	for _, id := range p.ChildIDs {
		if child := t.Person(id); child != nil {
			child.ParentIDs = addID(child.ParentIDs, p.ID)
		}
	}
}

// unlink removes the denormalized ID-list entries for a deleted
// relationship. An empty relType removes both kinds of links.
func unlink(t *graph.Tree, p1ID, p2ID string, relType family.RelationshipType) {
	p1, p2 := t.Person(p1ID), t.Person(p2ID)
	if p1 == nil || p2 == nil {
		return
	}
	if relType == "" || relType == family.RelSpouse {
		p1.SpouseIDs = removeID(p1.SpouseIDs, p2ID)
		p2.SpouseIDs = removeID(p2.SpouseIDs, p1ID)
	}
	if relType == "" || relType == family.RelParentChild {
		p1.ChildIDs = removeID(p1.ChildIDs, p2ID)
		p2.ParentIDs = removeID(p2.ParentIDs, p1ID)
		p2.ChildIDs = removeID(p2.ChildIDs, p1ID)
		p1.ParentIDs = removeID(p1.ParentIDs, p2ID)
	}
}

func addID(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(s string) bool { return s == id })
}

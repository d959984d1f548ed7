package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kintreehq/kintree/pkg/buildinfo"
	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/graph"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListTrees(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, summaries)
}

type createTreeRequest struct {
	Name          string                `json:"name"`
	Persons       []family.Person       `json:"persons,omitempty"`
	Relationships []family.Relationship `json:"relationships,omitempty"`
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	t := graph.NewTree(req.Name)
	t.Persons = req.Persons
	t.Relationships = req.Relationships

	if err := s.store.CreateTree(r.Context(), t); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.GetTree(r.Context(), chi.URLParam(r, "treeID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	s.mutateTree(w, r, func(t *graph.Tree) error {
		if req.Name != "" {
			t.Name = req.Name
		}
		t.Persons = req.Persons
		t.Relationships = req.Relationships
		return nil
	})
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTree(r.Context(), chi.URLParam(r, "treeID")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mutateTree runs a read-modify-write cycle on the tree named in the
// URL and responds with the updated tree. The store validates before
// persisting, so a failed mutation leaves the stored tree untouched.
func (s *Server) mutateTree(w http.ResponseWriter, r *http.Request, fn func(*graph.Tree) error) {
	t, err := s.store.GetTree(r.Context(), chi.URLParam(r, "treeID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := fn(t); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.store.UpdateTree(r.Context(), t); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, t)
}

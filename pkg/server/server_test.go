package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/graph"
	"github.com/kintreehq/kintree/pkg/store"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	born := time.Date(1950, 3, 14, 0, 0, 0, 0, time.UTC)
	tree := graph.NewTree("Smith")
	tree.Persons = []family.Person{
		{ID: "p1", Name: "Ada", Gender: family.GenderFemale, BirthDate: &born, ChildIDs: []string{"p2"}, SpouseIDs: []string{"p3"}},
		{ID: "p2", Name: "Ben", Gender: family.GenderMale, ParentIDs: []string{"p1", "p3"}},
		{ID: "p3", Name: "Cid", Gender: family.GenderMale, ChildIDs: []string{"p2"}, SpouseIDs: []string{"p1"}},
	}
	tree.Relationships = []family.Relationship{
		{Type: family.RelSpouse, Person1ID: "p1", Person2ID: "p3"},
	}

	st := store.NewMemory()
	if err := st.CreateTree(t.Context(), tree); err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(st, nil, logger), tree.ID
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decodeTree(t *testing.T, w *httptest.ResponseRecorder) *graph.Tree {
	t.Helper()
	var tree graph.Tree
	if err := json.Unmarshal(w.Body.Bytes(), &tree); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	return &tree
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestTreeCRUD(t *testing.T) {
	s, _ := newTestServer(t)

	// Create
	w := doJSON(t, s, http.MethodPost, "/api/trees", map[string]any{"name": "Jones"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decodeTree(t, w)
	if created.ID == "" || created.Name != "Jones" {
		t.Fatalf("created = %+v", created)
	}

	// Get
	w = doJSON(t, s, http.MethodGet, "/api/trees/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	// List contains both trees
	w = doJSON(t, s, http.MethodGet, "/api/trees", nil)
	var summaries []store.TreeSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summaries); err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Errorf("summaries = %d, want 2", len(summaries))
	}

	// Update
	w = doJSON(t, s, http.MethodPut, "/api/trees/"+created.ID, map[string]any{"name": "Jones-Smith"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	if got := decodeTree(t, w).Name; got != "Jones-Smith" {
		t.Errorf("name = %q", got)
	}

	// Delete
	w = doJSON(t, s, http.MethodDelete, "/api/trees/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/trees/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "TREE_NOT_FOUND") {
		t.Errorf("missing error code: %s", w.Body.String())
	}
}

func TestAddPerson(t *testing.T) {
	s, id := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/trees/"+id+"/persons", family.Person{
		ID: "p4", Name: "Dot", ParentIDs: []string{"p2"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	tree := decodeTree(t, w)
	if tree.Person("p4") == nil {
		t.Fatal("person not added")
	}
	// The parent's ChildIDs must be mirrored.
	ben := tree.Person("p2")
	if ben == nil || len(ben.ChildIDs) != 1 || ben.ChildIDs[0] != "p4" {
		t.Errorf("parent not cross-linked: %+v", ben)
	}

	// Duplicate ID conflicts
	w = doJSON(t, s, http.MethodPost, "/api/trees/"+id+"/persons", family.Person{ID: "p4"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}
}

func TestUpdatePerson(t *testing.T) {
	s, id := newTestServer(t)

	w := doJSON(t, s, http.MethodPut, "/api/trees/"+id+"/persons/p2", family.Person{
		Name: "Benjamin", Gender: family.GenderMale, ParentIDs: []string{"p1", "p3"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decodeTree(t, w).Person("p2").Name; got != "Benjamin" {
		t.Errorf("name = %q", got)
	}

	w = doJSON(t, s, http.MethodPut, "/api/trees/"+id+"/persons/nope", family.Person{Name: "X"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown person status = %d, want 404", w.Code)
	}
}

func TestDeletePersonScrubsReferences(t *testing.T) {
	s, id := newTestServer(t)

	w := doJSON(t, s, http.MethodDelete, "/api/trees/"+id+"/persons/p3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	tree := decodeTree(t, w)
	if tree.Person("p3") != nil {
		t.Fatal("person not removed")
	}
	if ada := tree.Person("p1"); len(ada.SpouseIDs) != 0 {
		t.Errorf("spouse reference survived: %v", ada.SpouseIDs)
	}
	if ben := tree.Person("p2"); len(ben.ParentIDs) != 1 || ben.ParentIDs[0] != "p1" {
		t.Errorf("parent reference survived: %v", ben.ParentIDs)
	}
	if len(tree.Relationships) != 0 {
		t.Errorf("relationship survived: %v", tree.Relationships)
	}
}

func TestAddRelationship(t *testing.T) {
	s, id := newTestServer(t)

	// Add a second wife for p3.
	w := doJSON(t, s, http.MethodPost, "/api/trees/"+id+"/persons", family.Person{ID: "p5", Name: "Eve", Gender: family.GenderFemale})
	if w.Code != http.StatusOK {
		t.Fatal(w.Body.String())
	}
	w = doJSON(t, s, http.MethodPost, "/api/trees/"+id+"/relationships", family.Relationship{
		Type: family.RelSpouse, Person1ID: "p3", Person2ID: "p5", MarriageOrder: 2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	tree := decodeTree(t, w)
	cid := tree.Person("p3")
	if len(cid.SpouseIDs) != 2 {
		t.Errorf("SpouseIDs = %v", cid.SpouseIDs)
	}
	if eve := tree.Person("p5"); len(eve.SpouseIDs) != 1 || eve.SpouseIDs[0] != "p3" {
		t.Errorf("reverse link missing: %v", eve.SpouseIDs)
	}

	// Unknown endpoint
	w = doJSON(t, s, http.MethodPost, "/api/trees/"+id+"/relationships", family.Relationship{
		Type: family.RelSpouse, Person1ID: "p3", Person2ID: "ghost",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown person status = %d, want 404", w.Code)
	}
}

func TestDeleteRelationship(t *testing.T) {
	s, id := newTestServer(t)

	w := doJSON(t, s, http.MethodDelete, "/api/trees/"+id+"/relationships?person1=p1&person2=p3&type=spouse", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	tree := decodeTree(t, w)
	if len(tree.Relationships) != 0 {
		t.Errorf("relationships = %v", tree.Relationships)
	}
	if ada := tree.Person("p1"); len(ada.SpouseIDs) != 0 {
		t.Errorf("spouse link survived: %v", ada.SpouseIDs)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/trees/"+id+"/relationships?person1=p1&person2=p3", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing relationship status = %d, want 404", w.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	s, id := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/trees/"+id+"/layout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var l graph.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	if len(l.Positions) != 3 {
		t.Errorf("positions = %d, want 3", len(l.Positions))
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("frame = %v x %v", l.Width, l.Height)
	}
	if w.Header().Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q", w.Header().Get("X-Cache"))
	}

	// Collapsing both parents hides the child.
	w = doJSON(t, s, http.MethodGet, "/api/trees/"+id+"/layout?collapsed=p1,p3", nil)
	var l2 graph.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &l2); err != nil {
		t.Fatal(err)
	}
	if len(l2.Positions) != 2 {
		t.Errorf("collapsed positions = %d, want 2", len(l2.Positions))
	}
}

func TestRenderEndpoint(t *testing.T) {
	s, id := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/trees/"+id+"/render?format=svg&edges=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}

	w = doJSON(t, s, http.MethodGet, "/api/trees/"+id+"/render?format=gif", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid format status = %d, want 400", w.Code)
	}
}

func TestLayoutUnknownTree(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/trees/nope/layout", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

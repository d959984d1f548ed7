package transform

import (
	"testing"

	"github.com/kintreehq/kintree/pkg/dag"
)

func rowOf(t *testing.T, g *dag.DAG, id string) int {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %s not found", id)
	}
	return n.Row
}

func TestAssignLayers_Chain(t *testing.T) {
	g := dag.New()
	for _, id := range []string{"g", "p", "c"} {
		g.AddNode(dag.Node{ID: id})
	}
	g.AddEdge(dag.Edge{From: "g", To: "p"})
	g.AddEdge(dag.Edge{From: "p", To: "c"})

	AssignLayers(g)

	for id, want := range map[string]int{"g": 0, "p": 1, "c": 2} {
		if got := rowOf(t, g, id); got != want {
			t.Errorf("row(%s) = %d, want %d", id, got, want)
		}
	}
}

func TestAssignLayers_LongestPathWins(t *testing.T) {
	// c has two parents: one at row 0 and one at row 1.
	// The longest path pushes c to row 2.
	g := dag.New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(dag.Node{ID: id})
	}
	g.AddEdge(dag.Edge{From: "a", To: "b"})
	g.AddEdge(dag.Edge{From: "a", To: "c"})
	g.AddEdge(dag.Edge{From: "b", To: "c"})

	AssignLayers(g)

	if got := rowOf(t, g, "c"); got != 2 {
		t.Errorf("row(c) = %d, want 2", got)
	}
}

func TestAssignLayers_DisconnectedComponents(t *testing.T) {
	g := dag.New()
	for _, id := range []string{"a", "b", "x", "y"} {
		g.AddNode(dag.Node{ID: id})
	}
	g.AddEdge(dag.Edge{From: "a", To: "b"})
	g.AddEdge(dag.Edge{From: "x", To: "y"})

	AssignLayers(g)

	if rowOf(t, g, "a") != 0 || rowOf(t, g, "x") != 0 {
		t.Error("both roots should sit at row 0")
	}
	if rowOf(t, g, "b") != 1 || rowOf(t, g, "y") != 1 {
		t.Error("both children should sit at row 1")
	}
}

func TestAssignLayers_EmptyGraph(t *testing.T) {
	g := dag.New()
	AssignLayers(g)
	if g.NodeCount() != 0 {
		t.Error("empty graph should stay empty")
	}
}

package dag

import "testing"

// buildBipartite creates a two-row graph with the given edges.
func buildBipartite(t *testing.T, upper, lower []string, edges [][2]string) *DAG {
	t.Helper()
	g := New()
	for _, id := range upper {
		if err := g.AddNode(Node{ID: id, Row: 0}); err != nil {
			t.Fatal(err)
		}
	}
	for _, id := range lower {
		if err := g.AddNode(Node{ID: id, Row: 1}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestCountLayerCrossings(t *testing.T) {
	upper := []string{"a", "b"}
	lower := []string{"x", "y"}

	tests := []struct {
		name  string
		edges [][2]string
		want  int
	}{
		{"parallel edges", [][2]string{{"a", "x"}, {"b", "y"}}, 0},
		{"crossing pair", [][2]string{{"a", "y"}, {"b", "x"}}, 1},
		{"shared target never crosses", [][2]string{{"a", "x"}, {"b", "x"}}, 0},
		{"single edge", [][2]string{{"a", "y"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildBipartite(t, upper, lower, tt.edges)
			if got := CountLayerCrossings(g, upper, lower); got != tt.want {
				t.Errorf("CountLayerCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountLayerCrossings_EmptyRows(t *testing.T) {
	g := New()
	if got := CountLayerCrossings(g, nil, nil); got != 0 {
		t.Errorf("CountLayerCrossings(nil, nil) = %d, want 0", got)
	}
}

func TestCountCrossings_MultiRow(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b"} {
		g.AddNode(Node{ID: id, Row: 0})
	}
	for _, id := range []string{"x", "y"} {
		g.AddNode(Node{ID: id, Row: 1})
	}
	for _, id := range []string{"p", "q"} {
		g.AddNode(Node{ID: id, Row: 2})
	}
	g.AddEdge(Edge{From: "a", To: "y"})
	g.AddEdge(Edge{From: "b", To: "x"})
	g.AddEdge(Edge{From: "x", To: "q"})
	g.AddEdge(Edge{From: "y", To: "p"})

	orders := map[int][]string{
		0: {"a", "b"},
		1: {"x", "y"},
		2: {"p", "q"},
	}
	// One crossing between rows 0-1 and one between rows 1-2.
	if got := CountCrossings(g, orders); got != 2 {
		t.Errorf("CountCrossings() = %d, want 2", got)
	}

	// Swapping the middle row resolves both.
	orders[1] = []string{"y", "x"}
	orders[2] = []string{"p", "q"}
	if got := CountCrossings(g, orders); got != 0 {
		t.Errorf("CountCrossings() after swap = %d, want 0", got)
	}
}

func TestPosMap(t *testing.T) {
	pos := PosMap([]string{"a", "b", "c"})
	if pos["a"] != 0 || pos["b"] != 1 || pos["c"] != 2 {
		t.Errorf("PosMap() = %v", pos)
	}
}

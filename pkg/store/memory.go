package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/graph"
)

// Memory is an in-memory Store for development and tests. Trees are
// deep-copied on the way in and out, so callers can mutate freely.
type Memory struct {
	mu    sync.RWMutex
	trees map[string]*graph.Tree
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{trees: make(map[string]*graph.Tree)}
}

// CreateTree stores a new tree.
func (m *Memory) CreateTree(_ context.Context, t *graph.Tree) error {
	if err := t.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.trees[t.ID]; exists {
		return errors.New(errors.ErrCodeConflict, "tree %s already exists", t.ID)
	}
	m.trees[t.ID] = t.Clone()
	return nil
}

// GetTree retrieves a tree by ID.
func (m *Memory) GetTree(_ context.Context, id string) (*graph.Tree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trees[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeTreeNotFound, "tree %s", id)
	}
	return t.Clone(), nil
}

// ListTrees returns summaries of all trees, sorted by name then ID.
func (m *Memory) ListTrees(_ context.Context) ([]TreeSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]TreeSummary, 0, len(m.trees))
	for _, t := range m.trees {
		out = append(out, summarize(t))
	}
	slices.SortFunc(out, func(a, b TreeSummary) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// UpdateTree replaces a stored tree and refreshes its UpdatedAt.
func (m *Memory) UpdateTree(_ context.Context, t *graph.Tree) error {
	if err := t.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.trees[t.ID]; !exists {
		return errors.New(errors.ErrCodeTreeNotFound, "tree %s", t.ID)
	}
	t.Touch()
	m.trees[t.ID] = t.Clone()
	return nil
}

// DeleteTree removes a tree.
func (m *Memory) DeleteTree(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.trees[id]; !exists {
		return errors.New(errors.ErrCodeTreeNotFound, "tree %s", id)
	}
	delete(m.trees, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close(context.Context) error { return nil }

// Package store provides persistence for family trees.
//
// This package defines the storage interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for the server
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemory()
//
//	// Server
//	st, err := store.NewMongo(ctx, store.MongoConfig{
//	    URI:      "mongodb://localhost:27017",
//	    Database: "kintree",
//	})
//
// Manage trees:
//
//	tree := graph.NewTree("Smith Family")
//	if err := st.CreateTree(ctx, tree); err != nil {
//	    return err
//	}
//
//	loaded, err := st.GetTree(ctx, tree.ID)
//	if errors.Is(err, errors.ErrCodeTreeNotFound) {
//	    // Tree does not exist
//	}
package store

import (
	"context"
	"time"

	"github.com/kintreehq/kintree/pkg/graph"
)

// TreeSummary is the listing projection of a stored tree: enough for an
// index view without loading every person.
type TreeSummary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Persons   int       `json:"persons" bson:"persons"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for tree storage backends.
//
// Implementations return pkg/errors codes: ErrCodeTreeNotFound for
// missing trees, ErrCodeConflict for duplicate creates, ErrCodeStorage
// for backend failures. Returned trees are owned by the caller; mutating
// them does not affect the stored copy until UpdateTree.
type Store interface {
	// CreateTree stores a new tree. The tree ID must not already exist.
	CreateTree(ctx context.Context, t *graph.Tree) error

	// GetTree retrieves a tree by ID.
	GetTree(ctx context.Context, id string) (*graph.Tree, error)

	// ListTrees returns summaries of all trees, sorted by name then ID.
	ListTrees(ctx context.Context) ([]TreeSummary, error)

	// UpdateTree replaces a stored tree and refreshes its UpdatedAt.
	UpdateTree(ctx context.Context, t *graph.Tree) error

	// DeleteTree removes a tree.
	DeleteTree(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func summarize(t *graph.Tree) TreeSummary {
	return TreeSummary{
		ID:        t.ID,
		Name:      t.Name,
		Persons:   len(t.Persons),
		UpdatedAt: t.UpdatedAt,
	}
}

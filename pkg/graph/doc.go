// Package graph provides serialization types for family trees and layouts.
//
// This package defines the canonical wire format for Kintree's tree data,
// used for JSON files, API responses, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Tree], [Layout]: Serialization types (this package)
//   - pkg/family: Internal person/relationship model
//   - pkg/layout: Coordinate computation over the internal model
//
// # Tree Serialization
//
// Trees use a flat JSON format with denormalized relationship lists:
//
//	{
//	  "id": "…",
//	  "name": "Smith Family",
//	  "persons": [{"id": "p1", "name": "Ada", "child_ids": ["p2"]}],
//	  "relationships": [{"type": "spouse", "person1_id": "p1", "person2_id": "p3"}]
//	}
//
// Common operations:
//
//	tree, _ := graph.ReadTreeFile("smith.json")   // File → Tree
//	graph.WriteTreeFile(tree, "out.json")         // Tree → File
//	data, _ := graph.MarshalTree(tree)            // Tree → []byte
//	parsed, _ := graph.UnmarshalTree(data)        // []byte → Tree
//
// # Layout Serialization
//
// Layouts carry one top-left coordinate per laid-out person plus the frame
// dimensions derived from them:
//
//	lay := graph.LayoutFromPositions(tree.ID, collapsed, positions)
//	data, _ := graph.MarshalLayout(lay)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// TTLs per entry kind. Layout entries already invalidate on tree edits
// through the key, so the TTLs only bound disk and memory growth.
const (
	TTLLayout = 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// LayoutKey builds the cache key for a computed layout. The tree's
// modification time is part of the key, so editing a tree naturally
// invalidates its cached layouts; the collapsed set is sorted before
// hashing so callers need not canonicalize it.
func LayoutKey(treeID string, updatedAt time.Time, collapsed []string) string {
	c := slices.Clone(collapsed)
	slices.Sort(c)
	return hashKey("layout", treeID, updatedAt.UTC().UnixNano(), c)
}

// RenderKeyOpts are the rendering options that change artifact bytes
// and therefore must be part of the artifact cache key.
type RenderKeyOpts struct {
	Format    string `json:"format"`
	ShowEdges bool   `json:"show_edges"`
	Detailed  bool   `json:"detailed"`
}

// RenderKey builds the cache key for a rendered artifact derived from a
// layout. layoutKey is the LayoutKey of the source layout.
func RenderKey(layoutKey string, opts RenderKeyOpts) string {
	return hashKey("render", layoutKey, opts)
}

// hashKey builds a "prefix:digest" key from the JSON encoding of its
// parts. The full SHA-256 digest keeps layout and render entries for
// distinct trees and option sets from ever colliding.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 digest of data. FileCache uses it to map
// keys onto filesystem-safe entry names.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

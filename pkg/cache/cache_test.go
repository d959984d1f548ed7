package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "layout:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want %q", data, "payload")
	}

	// Unknown key is a miss, not an error
	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("missing key: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}
	// FileCache records an expiry only for positive TTLs, so this entry
	// never expires.
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("non-positive TTL should store without expiry")
	}

	if err := c.Set(ctx, "short", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should be a miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.(*FileCache).Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("key %q survived Clear", k)
		}
	}
}

func TestLayoutKey(t *testing.T) {
	now := time.Now()

	// Collapsed order must not matter
	k1 := LayoutKey("t1", now, []string{"a", "b"})
	k2 := LayoutKey("t1", now, []string{"b", "a"})
	if k1 != k2 {
		t.Error("LayoutKey should canonicalize the collapsed set")
	}

	// A tree edit (new UpdatedAt) must change the key
	if k1 == LayoutKey("t1", now.Add(time.Second), []string{"a", "b"}) {
		t.Error("LayoutKey should change with the tree's UpdatedAt")
	}

	// Different collapsed sets must differ
	if k1 == LayoutKey("t1", now, []string{"a"}) {
		t.Error("LayoutKey should change with the collapsed set")
	}

	// Different trees must differ
	if k1 == LayoutKey("t2", now, []string{"a", "b"}) {
		t.Error("LayoutKey should change with the tree ID")
	}
}

func TestRenderKey(t *testing.T) {
	svg := RenderKeyOpts{Format: "svg"}

	if RenderKey("lk", svg) == RenderKey("lk", RenderKeyOpts{Format: "png"}) {
		t.Error("RenderKey should change with the format")
	}
	if RenderKey("lk1", svg) == RenderKey("lk2", svg) {
		t.Error("RenderKey should change with the layout key")
	}
	if RenderKey("lk", svg) == RenderKey("lk", RenderKeyOpts{Format: "svg", ShowEdges: true}) {
		t.Error("RenderKey should change with the edge option")
	}
}

package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestGraphKeyStable(t *testing.T) {
	a := GraphKey("abc", true, "well")
	b := GraphKey("abc", true, "well")
	if a != b {
		t.Errorf("same inputs gave different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "graph:") {
		t.Errorf("key %q missing graph prefix", a)
	}
}

func TestGraphKeyVariesByOption(t *testing.T) {
	base := GraphKey("abc", true, "")
	tests := []struct {
		name string
		key  string
	}{
		{"schema hash", GraphKey("def", true, "")},
		{"view", GraphKey("abc", false, "")},
		{"filter", GraphKey("abc", true, "well")},
	}
	for _, tt := range tests {
		if tt.key == base {
			t.Errorf("changing %s did not change the key", tt.name)
		}
	}
}

func TestLayoutKey(t *testing.T) {
	a := LayoutKey("abc", "erd")
	if a != LayoutKey("abc", "erd") {
		t.Error("layout key not stable")
	}
	if a == LayoutKey("abc", "layered") {
		t.Error("layout mode must change the key")
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("well"))
	if len(h) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(h))
	}
	if h == Hash([]byte("wellbore")) {
		t.Error("different inputs hashed to the same value")
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("Get() = hit %v, err %v; want miss", hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get() on empty cache reported a hit")
	}

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get() = hit %v, err %v; want hit", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get() = %q, want payload", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() after Delete() reported a hit")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of a missing key should not error, got %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry reported as hit")
	}
}

func TestFileCacheClear(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear()")
	}
}

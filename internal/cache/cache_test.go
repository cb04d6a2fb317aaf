package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := New("", 24, false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := c.Set("key", "hash", []byte("data")); err != nil {
		t.Errorf("Set() on disabled cache error: %v", err)
	}
	if _, ok := c.Get("key", "hash"); ok {
		t.Error("Get() on disabled cache should miss")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() on disabled cache error: %v", err)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	if _, err := New(dir, 24, true); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache directory not created: %v", err)
	}
}

func TestSetGetRoundtrip(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	hash := HashBytes([]byte("def f(): pass"))
	if err := c.Set("safety:app.py", hash, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, ok := c.Get("safety:app.py", hash)
	if !ok {
		t.Fatal("Get() should hit")
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("Get() = %s, want stored payload", data)
	}
}

func TestGetMissesOnWrongHash(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := c.Set("key", HashBytes([]byte("v1")), []byte("data")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok := c.Get("key", HashBytes([]byte("v2"))); ok {
		t.Error("Get() should miss when the content hash changed")
	}
}

func TestGetMissesOnUnknownKey(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, ok := c.Get("nope", "hash"); ok {
		t.Error("Get() should miss for unknown keys")
	}
}

func TestExpiredEntryIsRemoved(t *testing.T) {
	c, err := New(t.TempDir(), 0, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	hash := HashBytes([]byte("src"))
	if err := c.Set("key", hash, []byte("data")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	if _, ok := c.Get("key", hash); ok {
		t.Error("Get() should miss with a zero TTL")
	}
	if _, err := os.Stat(c.keyPath("key")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestInvalidate(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	hash := HashBytes([]byte("src"))
	if err := c.Set("key", hash, []byte("data")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Invalidate("key"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.Get("key", hash); ok {
		t.Error("Get() should miss after Invalidate")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	hash := HashBytes([]byte("src"))
	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(key, hash, []byte("data")); err != nil {
			t.Fatalf("Set(%s) error: %v", key, err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, ok := c.Get("a", hash); ok {
		t.Error("Get() should miss after Clear")
	}
}

func TestHashBytesIsStable(t *testing.T) {
	a := HashBytes([]byte("content"))
	b := HashBytes([]byte("content"))
	if a != b {
		t.Errorf("HashBytes not deterministic: %s vs %s", a, b)
	}
	if a == HashBytes([]byte("other")) {
		t.Error("distinct content should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hex digest length = %d, want 64", len(a))
	}
}

func TestKeyPathIsDeterministic(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if c.keyPath("safety:a.py") != c.keyPath("safety:a.py") {
		t.Error("keyPath should be deterministic")
	}
	if c.keyPath("safety:a.py") == c.keyPath("complexity:a.py") {
		t.Error("distinct keys should map to distinct paths")
	}
	if filepath.Ext(c.keyPath("safety:a.py")) != ".json" {
		t.Error("entries should be stored as .json files")
	}
}

func TestGetStats(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries = %d, want 0", stats.Entries)
	}

	hash := HashBytes([]byte("src"))
	if err := c.Set("a", hash, []byte("data")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Set("b", hash, []byte("data")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	stats, err = c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if stats.TotalSize <= 0 {
		t.Errorf("TotalSize = %d, want > 0", stats.TotalSize)
	}
}

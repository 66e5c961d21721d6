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

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v, %v)", data, hit, err)
	}
	if string(data) != "v" {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key still present")
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "doc:signup", []byte(`{"schema":1}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "doc:signup")
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v, %v)", data, hit, err)
	}
	if string(data) != `{"schema":1}` {
		t.Errorf("data = %q", data)
	}

	// Unknown key is a miss, not an error
	if _, hit, err := c.Get(ctx, "doc:ghost"); hit || err != nil {
		t.Errorf("miss = (%v, %v)", hit, err)
	}

	// Delete is idempotent
	if err := c.Delete(ctx, "doc:signup"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "doc:signup"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
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

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// DocumentKey
	if got := k.DocumentKey("signup"); got != "doc:signup" {
		t.Errorf("DocumentKey unexpected: %s", got)
	}

	// ExportKey should include options in hash
	ek1 := k.ExportKey("hash123", ExportKeyOpts{Format: "html", Theme: "light"})
	ek2 := k.ExportKey("hash123", ExportKeyOpts{Format: "svg", Theme: "light"})
	if ek1 == ek2 {
		t.Error("Different ExportKeyOpts should produce different keys")
	}

	// PreviewKey
	pk1 := k.PreviewKey("hash123", PreviewKeyOpts{Width: 800, Height: 600})
	pk2 := k.PreviewKey("hash123", PreviewKeyOpts{Width: 400, Height: 600})
	if pk1 == pk2 {
		t.Error("Different PreviewKeyOpts should produce different keys")
	}

	// Same inputs produce the same key
	if ek1 != k.ExportKey("hash123", ExportKeyOpts{Format: "html", Theme: "light"}) {
		t.Error("ExportKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "ws:123:")

	// All keys should be prefixed
	if got := scoped.DocumentKey("signup"); got != "ws:123:doc:signup" {
		t.Errorf("ScopedKeyer DocumentKey unexpected: %s", got)
	}

	ek := scoped.ExportKey("hash123", ExportKeyOpts{})
	if len(ek) < 10 || ek[:7] != "ws:123:" {
		t.Errorf("ScopedKeyer ExportKey should be prefixed: %s", ek)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.DocumentKey("x"); got != "prefix:doc:x" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

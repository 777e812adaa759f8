package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig() Config {
	config := DefaultConfig()
	config.RequestsPerSecond = 0 // no throttling in tests
	config.RetryBaseDelay = time.Millisecond
	return config
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "marklab/1.0" {
			t.Errorf("Unexpected User-Agent %q", got)
		}
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	body, err := NewClient(testConfig()).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "<html><body>hello</body></html>" {
		t.Errorf("Unexpected body %q", body)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := NewClient(testConfig()).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "ok" {
		t.Errorf("Unexpected body %q", body)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig()).Get(context.Background(), srv.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("Unexpected status %d", statusErr.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("404 should not be retried, got %d attempts", calls.Load())
	}
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	config := testConfig()
	config.MaxRetries = 2

	_, err := NewClient(config).Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts (1 + 2 retries), got %d", calls.Load())
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := NewClient(testConfig()).Get(ctx, srv.URL); err == nil {
		t.Fatal("Expected error from cancelled context")
	}
}

func TestClient_DecodesLegacyCharset(t *testing.T) {
	// "café" in ISO-8859-1: é is byte 0xE9
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte{'c', 'a', 'f', 0xE9})
	}))
	defer srv.Close()

	body, err := NewClient(testConfig()).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "café" {
		t.Errorf("Charset should be decoded to UTF-8, got %q", body)
	}
}

func TestClient_UsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("cached body"))
	}))
	defer srv.Close()

	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	defer cache.Close()

	client := NewClient(testConfig()).WithCache(cache)

	for i := 0; i < 3; i++ {
		body, err := client.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Get %d failed: %v", i, err)
		}
		if body != "cached body" {
			t.Errorf("Unexpected body %q", body)
		}
	}

	if calls.Load() != 1 {
		t.Errorf("Cache should serve repeat requests, server saw %d calls", calls.Load())
	}
}

func TestCache_Expiry(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Set(ctx, "https://example.com", "body"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok, _ := cache.Get(ctx, "https://example.com"); !ok {
		t.Fatal("Fresh entry should be served")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok, _ := cache.Get(ctx, "https://example.com"); ok {
		t.Error("Expired entry should not be served")
	}
}

func TestCache_Cleanup(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "https://example.com/a", "a")
	cache.Set(ctx, "https://example.com/b", "b")

	time.Sleep(100 * time.Millisecond)

	removed, err := cache.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 entries removed, got %d", removed)
	}
}

func TestNewCache_Validation(t *testing.T) {
	if _, err := NewCache("", time.Hour); err == nil {
		t.Error("Empty path should be rejected")
	}
	if _, err := NewCache(filepath.Join(t.TempDir(), "c.db"), 0); err == nil {
		t.Error("Zero TTL should be rejected")
	}
}

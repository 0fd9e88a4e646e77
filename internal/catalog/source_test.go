package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestSourcePrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0644); err != nil {
		t.Fatal(err)
	}
	s := &Source{File: path, Client: NewClient("http://127.0.0.1:1")}

	if s.NeedsFetch(context.Background()) {
		t.Error("NeedsFetch() = true with a local file")
	}
	cat, origin, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if origin != OriginFile {
		t.Errorf("origin = %q, want file", origin)
	}
	if len(cat.Tools) != 5 {
		t.Errorf("len(Tools) = %d, want 5", len(cat.Tools))
	}
}

func TestSourceFetchesThenUsesCache(t *testing.T) {
	ctx := context.Background()
	srv, hits := storeServer(t, 0, 0)
	client := NewClient(srv.URL)
	client.RetryDelay = time.Millisecond
	s := &Source{Cache: openTestCache(t, time.Minute), Client: client}

	if !s.NeedsFetch(ctx) {
		t.Error("NeedsFetch() = false on an empty cache")
	}
	_, origin, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if origin != OriginRemote {
		t.Errorf("first origin = %q, want remote", origin)
	}

	cat, origin, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if origin != OriginCache {
		t.Errorf("second origin = %q, want cache", origin)
	}
	if gh, ok := cat.Tool("gh"); !ok || gh.Name != "GitHub CLI" {
		t.Errorf("cached catalog lost tool data: %+v", gh)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
	if s.NeedsFetch(ctx) {
		t.Error("NeedsFetch() = true with a fresh cache entry")
	}
}

func TestSourceFallsBackToStaleCache(t *testing.T) {
	ctx := context.Background()
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/categories":
			fmt.Fprint(w, categoriesBody)
		case "/tools":
			fmt.Fprint(w, toolsBody)
		}
	}))
	t.Cleanup(srv.Close)

	cache := openTestCache(t, time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }
	client := NewClient(srv.URL)
	client.RetryDelay = time.Millisecond
	s := &Source{Cache: cache, Client: client}

	if _, origin, err := s.Load(ctx); err != nil || origin != OriginRemote {
		t.Fatalf("first Load() = %q, %v; want remote", origin, err)
	}

	now = now.Add(time.Hour)
	down.Store(true)
	cat, origin, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() with the store down error = %v", err)
	}
	if origin != OriginStale {
		t.Errorf("origin = %q, want %q", origin, OriginStale)
	}
	if _, ok := cat.Tool("gh"); !ok {
		t.Error("stale catalog should still hold gh")
	}

	// Without a cached copy the fetch error comes through.
	if _, err := cache.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Load(ctx); err == nil {
		t.Error("Load() should fail with the store down and no cache")
	}
}

func TestSourceWithoutAnything(t *testing.T) {
	if _, _, err := (&Source{}).Load(context.Background()); err == nil {
		t.Fatal("expected error with no file and no client")
	}
}

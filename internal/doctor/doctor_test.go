package doctor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lamchakchan/fastmac/internal/catalog"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const healthyCatalog = `
categories:
  - id: vcs
    name: Version Control
tools:
  - id: git
    name: Git
    category: vcs
  - id: gh
    name: GitHub CLI
    category: vcs
    requires: [git]
`

func TestRunToHealthyCatalog(t *testing.T) {
	var buf bytes.Buffer
	src := &catalog.Source{File: writeCatalog(t, healthyCatalog)}
	cacheDir := filepath.Join(t.TempDir(), "cache")

	if _, err := RunTo(context.Background(), &buf, Options{Source: src, CacheDir: cacheDir}); err != nil {
		t.Fatalf("RunTo() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Loaded 2 tools in 1 categories",
		"Schema valid",
		"no requirement cycles",
		"1 categories in use",
		"Cache directory writable",
		"Summary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunToReportsCatalogProblems(t *testing.T) {
	const broken = `
categories:
  - id: vcs
    name: Version Control
  - id: editors
    name: Editors
tools:
  - id: a
    category: vcs
    requires: [b, ghost]
  - id: b
    category: vcs
    requires: [a]
  - id: stray
    category: nowhere
`
	var buf bytes.Buffer
	src := &catalog.Source{File: writeCatalog(t, broken)}
	res, err := RunTo(context.Background(), &buf, Options{Source: src})
	if err != nil {
		t.Fatalf("RunTo() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"a requires unknown tools: ghost",
		"Requirement cycle: cyclic dependency: a -> b -> a",
		`Category "Editors" has no tools`,
		`Tool stray points at missing category "nowhere"`,
		"Catalog cache disabled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if res.Healthy() {
		t.Error("a cyclic catalog should not be healthy")
	}
	if res.Warnings < 4 {
		t.Errorf("Warnings = %d, want at least 4", res.Warnings)
	}
}

func TestRunToCatalogLoadFailure(t *testing.T) {
	var buf bytes.Buffer
	src := &catalog.Source{File: writeCatalog(t, "tools:\n  - name: no id\n")}
	res, _ := RunTo(context.Background(), &buf, Options{Source: src, CacheDir: t.TempDir()})

	out := buf.String()
	if !strings.Contains(out, "Catalog failed to load") {
		t.Errorf("expected load failure in output:\n%s", out)
	}
	if !strings.Contains(out, "id is required") {
		t.Errorf("expected schema detail in output:\n%s", out)
	}
	if res.Issues == 0 {
		t.Error("expected at least one issue")
	}
}

func TestRunToWarnsOnExpiredCache(t *testing.T) {
	ctx := context.Background()
	cache, err := catalog.OpenCache(ctx, filepath.Join(t.TempDir(), "catalog.db"), time.Nanosecond)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	client := catalog.NewClient("http://127.0.0.1:1")
	client.Retries = 1
	data := []byte(`{"categories":[{"id":"vcs","name":"Version Control"}],"tools":[{"id":"git","name":"Git","category":"vcs"}]}`)
	if err := cache.Put(ctx, "catalog:"+client.BaseURL, data); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)

	var buf bytes.Buffer
	res, _ := RunTo(ctx, &buf, Options{Source: &catalog.Source{Cache: cache, Client: client}, CacheDir: t.TempDir()})
	if !strings.Contains(buf.String(), "using an expired cached copy") {
		t.Errorf("expected a stale cache warning:\n%s", buf.String())
	}
	if res.Warnings == 0 {
		t.Error("an expired catalog should count as a warning")
	}
}

func TestRunToWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	res, _ := RunTo(context.Background(), &buf, Options{})
	if !strings.Contains(buf.String(), "No catalog source configured") {
		t.Errorf("output:\n%s", buf.String())
	}
	if res.Healthy() {
		t.Error("missing source should be an issue")
	}
}

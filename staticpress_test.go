package staticpress

import (
	"context"
	"net/http/httptest"
	"testing"
)

func newTestModule(t *testing.T) *Module {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Content.Root = t.TempDir()
	cfg.Content.Bootstrap = true

	module, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return module
}

func TestModuleLoadServesBootstrapCorpus(t *testing.T) {
	module := newTestModule(t)

	if err := module.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	svc := module.Content()
	if got := len(svc.Articles()); got != 3 {
		t.Fatalf("expected 3 sample articles, got %d", got)
	}
	if got := len(svc.Collections()); got != 2 {
		t.Fatalf("expected 2 sample collections, got %d", got)
	}
	if got := len(svc.Groups()); got != 1 {
		t.Fatalf("expected 1 sample group, got %d", got)
	}

	server := httptest.NewServer(module.Router())
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/api/articles/getting-started")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestModuleRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.Root = ""

	if _, err := New(cfg); err == nil {
		t.Fatal("expected validation error for empty content root")
	}
}

func TestWatchIsNoOpWhenDisabled(t *testing.T) {
	module := newTestModule(t)

	// Watch is disabled by default, so this must return without blocking.
	if err := module.Watch(context.Background()); err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func TestOptimizerNilWhenImagesDisabled(t *testing.T) {
	module := newTestModule(t)

	if module.Optimizer() != nil {
		t.Fatal("expected nil optimizer when images are disabled")
	}
}

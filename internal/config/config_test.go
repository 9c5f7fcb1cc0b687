package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.APIPort)
	}
	if cfg.RAGTopK != 6 || cfg.MMRFetchK != 20 || cfg.MMRLambda != 0.5 {
		t.Fatalf("retrieval defaults wrong: k=%d fetchK=%d lambda=%f", cfg.RAGTopK, cfg.MMRFetchK, cfg.MMRLambda)
	}
	if cfg.RouterMode != "simplified" {
		t.Fatalf("expected simplified router by default, got %s", cfg.RouterMode)
	}
	if cfg.GraphMaxEdges != 15 || cfg.GraphKeywordLimit != 5 {
		t.Fatalf("graph defaults wrong: max=%d perKeyword=%d", cfg.GraphMaxEdges, cfg.GraphKeywordLimit)
	}
	if !cfg.BreakerEnabled || cfg.BreakerMinRequests != 10 {
		t.Fatalf("breaker defaults wrong: enabled=%v min=%d", cfg.BreakerEnabled, cfg.BreakerMinRequests)
	}
	if cfg.APIRateLimitRPS != 0 {
		t.Fatalf("rate limiting must be off by default, got %d", cfg.APIRateLimitRPS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("ROUTER_MODE", "full")
	t.Setenv("RAG_TOP_K", "12")
	t.Setenv("RAG_MMR_LAMBDA", "0.8")
	t.Setenv("BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.APIPort != "9999" {
		t.Fatalf("expected port override, got %s", cfg.APIPort)
	}
	if cfg.RouterMode != "full" {
		t.Fatalf("expected router mode override, got %s", cfg.RouterMode)
	}
	if cfg.RAGTopK != 12 || cfg.MMRLambda != 0.8 {
		t.Fatalf("retrieval overrides wrong: k=%d lambda=%f", cfg.RAGTopK, cfg.MMRLambda)
	}
	if cfg.BreakerEnabled {
		t.Fatalf("expected breaker disabled")
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RAG_TOP_K", "not-a-number")
	t.Setenv("RAG_MMR_LAMBDA", "banana")
	cfg := Load()
	if cfg.RAGTopK != 6 || cfg.MMRLambda != 0.5 {
		t.Fatalf("unparseable values must keep defaults: k=%d lambda=%f", cfg.RAGTopK, cfg.MMRLambda)
	}
}

func TestLoadStoreManifestResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stores.yaml")
	manifest := `
simple_index: simple.json
child_index: nested/child.json
parent_store: parents.json
child_to_parent: child_to_parent.json
`
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := LoadStoreManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SimpleIndex != filepath.Join(dir, "simple.json") {
		t.Fatalf("expected resolved path, got %s", m.SimpleIndex)
	}
	if m.ChildIndex != filepath.Join(dir, "nested", "child.json") {
		t.Fatalf("expected nested path resolved, got %s", m.ChildIndex)
	}
}

func TestLoadStoreManifestRejectsMissingEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stores.yaml")
	if err := os.WriteFile(path, []byte("simple_index: simple.json\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := LoadStoreManifest(path); err == nil {
		t.Fatalf("expected error for incomplete manifest")
	}
}

func TestLoadStoreManifestMissingFile(t *testing.T) {
	if _, err := LoadStoreManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}

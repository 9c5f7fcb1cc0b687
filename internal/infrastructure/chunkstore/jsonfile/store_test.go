package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

func writeArtifacts(t *testing.T, parents, childMap string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	parentPath := filepath.Join(dir, "parents.json")
	mapPath := filepath.Join(dir, "child_to_parent.json")
	if err := os.WriteFile(parentPath, []byte(parents), 0o600); err != nil {
		t.Fatalf("write parent store: %v", err)
	}
	if err := os.WriteFile(mapPath, []byte(childMap), 0o600); err != nil {
		t.Fatalf("write child map: %v", err)
	}
	return parentPath, mapPath
}

func TestLoadResolvesChildren(t *testing.T) {
	parentPath, mapPath := writeArtifacts(t,
		`{"p1": {"text": "parent text", "title": "SSO Guide", "page_range": "1-3"}}`,
		`{"c1": "p1", "c2": "p1"}`,
	)

	store, err := Load(parentPath, mapPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parentID, ok := store.ResolveParent("c1")
	if !ok || parentID != "p1" {
		t.Fatalf("expected c1 -> p1, got %q ok=%v", parentID, ok)
	}
	parent, ok := store.Parent("p1")
	if !ok {
		t.Fatalf("expected parent p1")
	}
	// The map key backfills a missing id field.
	if parent.ID != "p1" {
		t.Fatalf("expected backfilled id p1, got %q", parent.ID)
	}
	if parent.Title != "SSO Guide" || parent.PageRange != "1-3" {
		t.Fatalf("parent fields wrong: %+v", parent)
	}
	if store.ParentCount() != 1 {
		t.Fatalf("expected 1 parent, got %d", store.ParentCount())
	}
}

func TestLoadUnknownChildNotResolved(t *testing.T) {
	parentPath, mapPath := writeArtifacts(t,
		`{"p1": {"text": "t"}}`,
		`{"c1": "p1"}`,
	)
	store, err := Load(parentPath, mapPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.ResolveParent("nope"); ok {
		t.Fatalf("unknown child must not resolve")
	}
}

func TestLoadFailuresAreIndexUnavailable(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.json")

	parentPath, mapPath := writeArtifacts(t, `{"p1": {"text": "t"}}`, `{}`)

	if _, err := Load(missing, mapPath); !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("missing parent store: expected index-unavailable, got %v", err)
	}
	if _, err := Load(parentPath, missing); !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("missing child map: expected index-unavailable, got %v", err)
	}

	badPath, goodMap := writeArtifacts(t, "not json", `{}`)
	if _, err := Load(badPath, goodMap); !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("corrupt parent store: expected index-unavailable, got %v", err)
	}

	emptyPath, emptyMap := writeArtifacts(t, `{}`, `{}`)
	if _, err := Load(emptyPath, emptyMap); !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("empty parent store: expected index-unavailable, got %v", err)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StoreManifest names the pre-built retrieval artifacts. The manifest is
// the single declarative description of the read-only store layout; paths
// are resolved relative to the manifest file itself.
type StoreManifest struct {
	SimpleIndex   string `yaml:"simple_index"`
	ChildIndex    string `yaml:"child_index"`
	ParentStore   string `yaml:"parent_store"`
	ChildToParent string `yaml:"child_to_parent"`
}

func LoadStoreManifest(path string) (StoreManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StoreManifest{}, fmt.Errorf("read store manifest: %w", err)
	}

	var manifest StoreManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return StoreManifest{}, fmt.Errorf("parse store manifest: %w", err)
	}

	base := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	manifest.SimpleIndex = resolve(manifest.SimpleIndex)
	manifest.ChildIndex = resolve(manifest.ChildIndex)
	manifest.ParentStore = resolve(manifest.ParentStore)
	manifest.ChildToParent = resolve(manifest.ChildToParent)

	for name, p := range map[string]string{
		"simple_index":    manifest.SimpleIndex,
		"child_index":     manifest.ChildIndex,
		"parent_store":    manifest.ParentStore,
		"child_to_parent": manifest.ChildToParent,
	} {
		if p == "" {
			return StoreManifest{}, fmt.Errorf("store manifest: %s is required", name)
		}
	}
	return manifest, nil
}

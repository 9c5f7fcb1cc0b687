package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

// Store holds the pre-built parent chunks and the child-to-parent mapping,
// both loaded once at startup and read-only afterwards.
type Store struct {
	parents       map[string]domain.ParentChunk
	childToParent map[string]string
}

// Load reads the two artifacts backing the parent tier. Missing or broken
// artifacts are fatal at startup, same class as a missing vector index.
func Load(parentStorePath, childToParentPath string) (*Store, error) {
	parentData, err := os.ReadFile(parentStorePath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "load parent store", err)
	}
	var parents map[string]domain.ParentChunk
	if err := json.Unmarshal(parentData, &parents); err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "parse parent store", err)
	}

	mapData, err := os.ReadFile(childToParentPath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "load child-parent map", err)
	}
	var childToParent map[string]string
	if err := json.Unmarshal(mapData, &childToParent); err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "parse child-parent map", err)
	}

	if len(parents) == 0 {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "load parent store", fmt.Errorf("artifact %s holds no parents", parentStorePath))
	}

	for id, parent := range parents {
		if parent.ID == "" {
			parent.ID = id
			parents[id] = parent
		}
	}

	return &Store{parents: parents, childToParent: childToParent}, nil
}

// New builds a store from in-memory maps. Used by tests.
func New(parents map[string]domain.ParentChunk, childToParent map[string]string) *Store {
	return &Store{parents: parents, childToParent: childToParent}
}

func (s *Store) ResolveParent(childID string) (string, bool) {
	parentID, ok := s.childToParent[childID]
	return parentID, ok
}

func (s *Store) Parent(parentID string) (domain.ParentChunk, bool) {
	parent, ok := s.parents[parentID]
	return parent, ok
}

func (s *Store) ParentCount() int { return len(s.parents) }

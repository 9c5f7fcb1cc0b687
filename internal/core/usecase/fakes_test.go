package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.vector == nil {
		return []float32{1, 0, 0}, nil
	}
	return f.vector, nil
}

type fakeIndex struct {
	hits []domain.RetrievedChunk
	err  error

	lastK      int
	lastFetchK int
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, k int) ([]domain.RetrievedChunk, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.hits) {
		k = len(f.hits)
	}
	return f.hits[:k], nil
}

func (f *fakeIndex) SearchMMR(_ context.Context, _ []float32, k, fetchK int, _ float64) ([]domain.RetrievedChunk, error) {
	f.lastK = k
	f.lastFetchK = fetchK
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.hits) {
		k = len(f.hits)
	}
	return f.hits[:k], nil
}

func (f *fakeIndex) Size() int { return len(f.hits) }

type fakeParentStore struct {
	childToParent map[string]string
	parents       map[string]domain.ParentChunk
}

func (f *fakeParentStore) ResolveParent(childID string) (string, bool) {
	id, ok := f.childToParent[childID]
	return id, ok
}

func (f *fakeParentStore) Parent(parentID string) (domain.ParentChunk, bool) {
	p, ok := f.parents[parentID]
	return p, ok
}

type fakeGenerator struct {
	answer string
	err    error

	lastSystem string
	lastPrompt string
	calls      int
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	if f.answer == "" {
		return "generated answer", nil
	}
	return f.answer, nil
}

type fakeGraph struct {
	edgesByKeyword map[string][]domain.GraphEdge
	err            error
	errByKeyword   map[string]error
	calls          []string
}

func (f *fakeGraph) RelationshipsByKeyword(_ context.Context, keyword string, limit int) ([]domain.GraphEdge, error) {
	f.calls = append(f.calls, keyword)
	if f.err != nil {
		return nil, f.err
	}
	if err := f.errByKeyword[keyword]; err != nil {
		return nil, err
	}
	edges := f.edgesByKeyword[keyword]
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	return edges, nil
}

func graphEdge(source, rel, target string) domain.GraphEdge {
	return domain.GraphEdge{
		SourceEntity:     source,
		RelationshipType: rel,
		TargetEntity:     target,
		Description:      fmt.Sprintf("%s -[%s]-> %s", source, rel, target),
	}
}

func childHit(id, text, title, page string, score float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Chunk: domain.ChildChunk{ID: id, Text: text, Title: title, Page: page},
		Score: score,
	}
}

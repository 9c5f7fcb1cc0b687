package ports

import (
	"context"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

// Embedder builds a vector for query text.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is a read-only similarity index over embedded chunks, loaded
// once at startup and never mutated afterwards.
type VectorIndex interface {
	// Search returns the top-k hits by cosine similarity, descending,
	// ties broken by original index order.
	Search(ctx context.Context, queryVector []float32, k int) ([]domain.RetrievedChunk, error)
	// SearchMMR balances similarity to the query against dissimilarity to
	// already-selected hits (maximal marginal relevance).
	SearchMMR(ctx context.Context, queryVector []float32, k, fetchK int, lambda float64) ([]domain.RetrievedChunk, error)
	Size() int
}

// ParentStore resolves child chunk ids to parent chunks.
type ParentStore interface {
	ResolveParent(childID string) (string, bool)
	Parent(parentID string) (domain.ParentChunk, bool)
}

// GraphStore answers per-keyword relationship lookups against the external
// graph database. Implementations establish their connection lazily on
// first call and share it across concurrent requests.
type GraphStore interface {
	RelationshipsByKeyword(ctx context.Context, keyword string, limit int) ([]domain.GraphEdge, error)
}

// AnswerGenerator is the opaque text-generation capability: given a system
// prompt and a user prompt it returns generated text.
type AnswerGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

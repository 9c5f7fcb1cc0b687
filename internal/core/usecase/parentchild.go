package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
	"github.com/kirillkom/rag-answer-engine/internal/core/ports"
)

// ParentChildUseCase implements two-tier retrieval: search the precise
// child index, expand each hit to its parent chunk, deduplicate by parent
// id, answer from the larger parent context.
type ParentChildUseCase struct {
	embedder  ports.Embedder
	index     ports.VectorIndex
	parents   ports.ParentStore
	generator ports.AnswerGenerator
	opts      DenseOptions
}

func NewParentChildUseCase(
	embedder ports.Embedder,
	index ports.VectorIndex,
	parents ports.ParentStore,
	generator ports.AnswerGenerator,
	opts DenseOptions,
) *ParentChildUseCase {
	return &ParentChildUseCase{
		embedder:  embedder,
		index:     index,
		parents:   parents,
		generator: generator,
		opts:      opts.normalize(),
	}
}

// Retrieve runs the child search and resolves hits to deduplicated
// parents, rank order of first occurrence preserved. A child with no
// parent mapping is dropped with a warning: retrieval degrades, the
// request does not fail.
func (uc *ParentChildUseCase) Retrieve(ctx context.Context, question string) (*domain.ParentRetrieval, error) {
	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	children, err := uc.index.SearchMMR(ctx, queryVector, uc.opts.TopK, uc.opts.TopK*4, uc.opts.MMRLambda)
	if err != nil {
		return nil, fmt.Errorf("search child index: %w", err)
	}

	seen := make(map[string]struct{}, len(children))
	parents := make([]domain.RetrievedParent, 0, len(children))
	warnings := make([]string, 0)

	for _, child := range children {
		parentID, ok := uc.parents.ResolveParent(child.Chunk.ID)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("child chunk %s has no parent mapping", child.Chunk.ID))
			slog.Warn("data_integrity_warning", "child_id", child.Chunk.ID, "reason", "missing parent mapping")
			continue
		}
		if _, dup := seen[parentID]; dup {
			continue
		}
		parent, ok := uc.parents.Parent(parentID)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("parent chunk %s missing from parent store", parentID))
			slog.Warn("data_integrity_warning", "parent_id", parentID, "reason", "missing parent content")
			continue
		}
		seen[parentID] = struct{}{}
		parents = append(parents, domain.RetrievedParent{Parent: parent, Score: child.Score})
	}

	return &domain.ParentRetrieval{Parents: parents, Warnings: warnings}, nil
}

func (uc *ParentChildUseCase) Query(ctx context.Context, question string) (*domain.UnifiedResult, error) {
	retrieval, err := uc.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	answer, err := uc.generator.Generate(ctx, parentChildSystemPrompt, buildQuestionPrompt(question, formatParentContext(retrieval.Parents)))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGenerationFailure, "parent-child query", err)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, domain.WrapError(domain.ErrGenerationFailure, "parent-child query", fmt.Errorf("empty generation result"))
	}

	sources := make([]domain.SourceRecord, 0, len(retrieval.Parents))
	for _, hit := range retrieval.Parents {
		sources = append(sources, domain.ParentChunkSource(hit))
	}

	metadata := map[string]any{
		"parent_chunks_retrieved": len(retrieval.Parents),
		"strategy":                "parent-child (child=400, parent=2000)",
	}
	if len(retrieval.Warnings) > 0 {
		metadata["integrity_warnings"] = retrieval.Warnings
	}

	return &domain.UnifiedResult{
		Answer:   answer,
		Sources:  sources,
		Metadata: metadata,
	}, nil
}

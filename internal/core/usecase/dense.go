package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
	"github.com/kirillkom/rag-answer-engine/internal/core/ports"
)

const (
	defaultTopK      = 6
	defaultMMRFetchK = 20
	defaultMMRLambda = 0.5
)

type DenseOptions struct {
	TopK      int
	MMRFetchK int
	MMRLambda float64
}

func (o DenseOptions) normalize() DenseOptions {
	if o.TopK <= 0 {
		o.TopK = defaultTopK
	}
	if o.MMRFetchK <= 0 {
		o.MMRFetchK = defaultMMRFetchK
	}
	if o.MMRLambda <= 0 || o.MMRLambda > 1 {
		o.MMRLambda = defaultMMRLambda
	}
	return o
}

// DenseQueryUseCase answers a question straight from the simple chunk
// index: MMR retrieval, context assembly, one generation call.
type DenseQueryUseCase struct {
	embedder  ports.Embedder
	index     ports.VectorIndex
	generator ports.AnswerGenerator
	opts      DenseOptions
}

func NewDenseQueryUseCase(
	embedder ports.Embedder,
	index ports.VectorIndex,
	generator ports.AnswerGenerator,
	opts DenseOptions,
) *DenseQueryUseCase {
	return &DenseQueryUseCase{
		embedder:  embedder,
		index:     index,
		generator: generator,
		opts:      opts.normalize(),
	}
}

func (uc *DenseQueryUseCase) Query(ctx context.Context, question string) (*domain.UnifiedResult, error) {
	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := uc.index.SearchMMR(ctx, queryVector, uc.opts.TopK, uc.opts.MMRFetchK, uc.opts.MMRLambda)
	if err != nil {
		return nil, fmt.Errorf("search chunk index: %w", err)
	}

	answer, err := uc.generator.Generate(ctx, denseSystemPrompt, buildQuestionPrompt(question, formatChunkContext(hits)))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGenerationFailure, "dense query", err)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, domain.WrapError(domain.ErrGenerationFailure, "dense query", fmt.Errorf("empty generation result"))
	}

	sources := make([]domain.SourceRecord, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, domain.ChunkSource(hit))
	}

	return &domain.UnifiedResult{
		Answer:  answer,
		Sources: sources,
		Metadata: map[string]any{
			"chunks_retrieved": len(hits),
			"strategy":         "simple-vector (mmr)",
		},
	}, nil
}

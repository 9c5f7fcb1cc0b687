package ports

import (
	"context"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

// QueryStrategy is one user-facing answering strategy. Every strategy
// produces the same unified result shape.
type QueryStrategy interface {
	Query(ctx context.Context, question string) (*domain.UnifiedResult, error)
}

// MethodDispatcher is the top-level entry point selecting a strategy by
// method id and normalizing its output into the response contract.
type MethodDispatcher interface {
	Dispatch(ctx context.Context, methodID int, question string) (*domain.DispatchResult, error)
}

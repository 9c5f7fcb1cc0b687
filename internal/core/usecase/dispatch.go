package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
	"github.com/kirillkom/rag-answer-engine/internal/core/ports"
)

// DispatcherUseCase selects among the three strategies and normalizes
// their output into the response contract. Client-input faults are
// rejected before any strategy runs; strategy failures propagate typed,
// never swallowed.
type DispatcherUseCase struct {
	dense       ports.QueryStrategy
	parentChild ports.QueryStrategy
	router      ports.QueryStrategy
}

func NewDispatcherUseCase(dense, parentChild, router ports.QueryStrategy) *DispatcherUseCase {
	return &DispatcherUseCase{
		dense:       dense,
		parentChild: parentChild,
		router:      router,
	}
}

func (uc *DispatcherUseCase) Dispatch(ctx context.Context, methodID int, question string) (*domain.DispatchResult, error) {
	method := domain.Method(methodID)
	if !method.Valid() {
		return nil, domain.WrapError(domain.ErrUnknownMethod, "dispatch", fmt.Errorf("method_id must be 1, 2, or 3, got %d", methodID))
	}
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrEmptyQuestion, "dispatch", fmt.Errorf("question is required"))
	}

	var strategy ports.QueryStrategy
	switch method {
	case domain.MethodSimpleVector:
		strategy = uc.dense
	case domain.MethodParentChild:
		strategy = uc.parentChild
	case domain.MethodToolRouter:
		strategy = uc.router
	}

	start := time.Now()
	result, err := strategy.Query(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("method %d: %w", methodID, err)
	}

	return &domain.DispatchResult{
		Method:          method,
		MethodName:      method.Name(),
		Answer:          result.Answer,
		Sources:         result.Sources,
		Metadata:        result.Metadata,
		ExecutionTimeMS: float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}

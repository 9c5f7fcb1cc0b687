package neo4j

import (
	"context"
	"errors"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

// recordGraphFailure decides whether an error counts against the graph
// breaker. Caller-side cancellation is not the store's fault.
func recordGraphFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// wrapUnavailable converts any failed graph call into the recoverable
// per-request kind: the caller omits graph sources and keeps going.
func wrapUnavailable(operation string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrGraphUnavailable) {
		return err
	}
	return domain.WrapError(domain.ErrGraphUnavailable, operation, err)
}

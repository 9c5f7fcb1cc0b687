package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownMethod),
		errors.Is(err, domain.ErrEmptyQuestion),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGenerationFailure),
		errors.Is(err, domain.ErrAllToolsFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrIndexUnavailable),
		errors.Is(err, domain.ErrGraphUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

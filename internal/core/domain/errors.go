package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexUnavailable is fatal at startup: the process must not serve
	// traffic without its vector indexes and chunk stores.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrGraphUnavailable is recoverable per request: the caller omits
	// graph sources and continues with the remaining tools.
	ErrGraphUnavailable = errors.New("graph store unavailable")

	ErrUnknownMethod     = errors.New("unknown method")
	ErrEmptyQuestion     = errors.New("empty question")
	ErrGenerationFailure = errors.New("generation failure")
	ErrAllToolsFailed    = errors.New("all selected tools failed")
	ErrInvalidInput      = errors.New("invalid input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ErrorKind maps a typed error onto the wire-level error kind of the
// response contract.
func ErrorKind(err error) string {
	switch {
	case IsKind(err, ErrUnknownMethod):
		return "UnknownMethod"
	case IsKind(err, ErrEmptyQuestion):
		return "EmptyQuestion"
	case IsKind(err, ErrGraphUnavailable):
		return "GraphUnavailable"
	case IsKind(err, ErrIndexUnavailable):
		return "IndexUnavailable"
	case IsKind(err, ErrGenerationFailure):
		return "GenerationFailure"
	case IsKind(err, ErrAllToolsFailed):
		return "AllToolsFailed"
	case IsKind(err, ErrInvalidInput):
		return "InvalidInput"
	default:
		return "Internal"
	}
}

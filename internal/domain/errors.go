package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a category selector that resolves to nothing. An empty
	// result set is a valid state, not an error.
	ErrNotFound = errors.New("category not found")

	// ErrReservedCategory marks an attempt to list or filter on the reserved
	// category.
	ErrReservedCategory = errors.New("reserved category")
)

// ValidationError reports a malformed inbound request. Handled at the request
// boundary, never propagated past it.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

// RetrievalError wraps a failure of the underlying content storage. Callers
// surface a generic message; the wrapped detail is only logged.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Retrieval wraps err as a RetrievalError for the given storage operation.
func Retrieval(op string, err error) error {
	return &RetrievalError{Op: op, Err: err}
}

// IsRetrieval reports whether err is (or wraps) a storage failure.
func IsRetrieval(err error) bool {
	var re *RetrievalError
	return errors.As(err, &re)
}

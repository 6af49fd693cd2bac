package fetch

import (
	"errors"
	"fmt"
)

// RetrievalError means the primary request and every relay failed.
type RetrievalError struct {
	URL    string
	Causes []error // one per attempted path, primary first
}

func (e *RetrievalError) Error() string {
	return "fetch failed"
}

func (e *RetrievalError) Unwrap() []error {
	return e.Causes
}

// IsRetrievalError reports whether err (or anything it wraps) is a RetrievalError.
func IsRetrievalError(err error) bool {
	var re *RetrievalError
	return errors.As(err, &re)
}

// StatusError is a non-2xx response on one path.
type StatusError struct {
	Source string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Source, e.Code)
}

// TooLargeError is a response body over the read limit on one path.
type TooLargeError struct {
	Source string
	Limit  int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s: body exceeds %d bytes", e.Source, e.Limit)
}

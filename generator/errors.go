package generator

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned by clients whose reply envelope carries no payload.
var ErrEmptyResponse = errors.New("empty response")

// ExternalCallError wraps a failure from the completion or image API.
type ExternalCallError struct {
	Op  string
	Err error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s: external call failed: %v", e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }

// EmptyResultError means the remote call succeeded but produced nothing usable.
type EmptyResultError struct {
	Op string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: generator returned no usable payload", e.Op)
}

func classify(op string, err error) error {
	if errors.Is(err, ErrEmptyResponse) {
		return &EmptyResultError{Op: op}
	}
	return &ExternalCallError{Op: op, Err: err}
}

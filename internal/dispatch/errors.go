package dispatch

import (
	"errors"
	"fmt"

	"github.com/multimethod/genfunc/internal/types"
)

// ErrNoMethod is the sentinel wrapped by a NoMethodError: no method in
// the table's definitions matches the call's argument types.
var ErrNoMethod = errors.New("no applicable method")

// ErrInference is the sentinel an InferenceError unwraps to; the error
// the injected Inferer returned is kept in InferenceError.Cause.
var ErrInference = errors.New("type inference failed")

// NoMethodError reports the call signature that had no match.
type NoMethodError struct {
	Args []types.Type
}

func (e *NoMethodError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNoMethod, types.TTuple{Elements: e.Args})
}

func (e *NoMethodError) Unwrap() error { return ErrNoMethod }

// InferenceError wraps an Inferer failure.
type InferenceError struct {
	Cause error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInference, e.Cause)
}

func (e *InferenceError) Unwrap() error { return ErrInference }

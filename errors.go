package conduit

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	ErrInvalidChunkSize = errors.New("invalid chunk size")
	ErrInvalidQueueSize = errors.New("invalid queue size")
	ErrInvalidPoolSize  = errors.New("invalid pool size")
	ErrWorkerPanicked   = errors.New("worker panicked")
)

// PanicError reports a worker which terminated abnormally. It matches ErrWorkerPanicked, and Value when Value is an
// error.
type PanicError struct {
	Stage string
	Value any
	Stack []byte
}

func newPanicError(stage string, value any) *PanicError {
	if pe, ok := value.(*PanicError); ok {
		// raised again from a pool goroutine, keep the original stack
		return &PanicError{Stage: stage, Value: pe.Value, Stack: pe.Stack}
	}
	return &PanicError{Stage: stage, Value: value, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s: %v", ErrWorkerPanicked, e.Value)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, ErrWorkerPanicked, e.Value)
}

func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrWorkerPanicked, err}
	}
	return []error{ErrWorkerPanicked}
}

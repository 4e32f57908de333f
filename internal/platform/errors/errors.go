package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrAlreadyRunning    = errors.New("focus session already running")
	ErrNotRunning        = errors.New("no focus session running")
	ErrSignalUnavailable = errors.New("signal unavailable")
	ErrProvider          = errors.New("provider error")
	ErrNotLoggedIn       = errors.New("not logged in")
)

// ProviderError is an opaque failure reported by an external collaborator.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

func NewProviderError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Op: op, Err: err}
}

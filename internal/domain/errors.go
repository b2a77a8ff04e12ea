package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors for the common failure classes. Services wrap these with
// fmt.Errorf("...: %w", Err...) so handlers can match with errors.Is().
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ConflictError carries details about the existing resource that caused a
// create or rename to fail.
type ConflictError struct {
	Message      string
	ResourceType string // "folder" or "file"
	ResourceID   int64
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

package core

import "errors"

// Common errors.
var (
	ErrNotFound      = errors.New("document not found")
	ErrReadOnly      = errors.New("repository is in read-only mode")
	ErrEmptyID       = errors.New("document ID cannot be empty")
	ErrNotWatchable  = errors.New("repository does not support watching")
	ErrAlreadyExists = errors.New("document already exists")
)

// Memo-level failures. Callers classify them with errors.Is and turn them
// into local view state.
var (
	ErrNotAuthenticated        = errors.New("not authenticated")
	ErrForbidden               = errors.New("forbidden")
	ErrFetchFailed             = errors.New("fetch failed")
	ErrCreateFailed            = errors.New("create failed")
	ErrProfileResolutionFailed = errors.New("profile resolution failed")
	ErrReadOnlyField           = errors.New("field is read-only")
	ErrInvalidItem             = errors.New("invalid item")
)

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyInitialized indicates a one-shot initialisation ran twice.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrUnsupportedType indicates an unknown provider or driver name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrTransportFailure indicates a collaborator was unreachable or returned a failure.
	// It is the only failure kind surfaced when requesting a completion.
	ErrTransportFailure = errors.New("transport failure")

	// ErrCompletionUnavailable indicates no completion service is configured.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrUploadBackendUnavailable indicates the backend upload driver was
	// selected without an upload backend.
	ErrUploadBackendUnavailable = errors.New("upload backend unavailable")
)

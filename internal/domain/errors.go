package domain

import "errors"

var (
	// ErrInvalidArgument indicates an unknown parameter or category was
	// passed to a scoring operation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIncompletePrecondition indicates completion was requested before
	// every parameter was answered.
	ErrIncompletePrecondition = errors.New("assessment incomplete")

	// ErrAlreadyCompleted indicates a mutation was attempted on a completed
	// assessment. Only a reset leaves the completed state.
	ErrAlreadyCompleted = errors.New("assessment already completed")

	// ErrMalformedImport indicates an import or backup document is missing
	// required structure or is internally inconsistent.
	ErrMalformedImport = errors.New("malformed import document")

	// ErrPersistenceFailure marks a failed write to the local store. It is
	// reported as a warning and never fails the operation that caused it.
	ErrPersistenceFailure = errors.New("persistence failure")
)

package model

import "errors"

var (
	// ErrInvalidInput marks malformed or missing required data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIntegrityViolation marks a breach of a data invariant.
	ErrIntegrityViolation = errors.New("integrity violation")
	// ErrTransactionFailure marks a datastore transaction that could not
	// commit; the whole write is rolled back.
	ErrTransactionFailure = errors.New("transaction failure")
)

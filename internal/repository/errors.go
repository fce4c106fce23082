package repository

import "errors"

var (
	// ErrNotFound is returned when a key or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded is returned when a write would push the store past
	// its configured byte quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

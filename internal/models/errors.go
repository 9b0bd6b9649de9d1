package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicateTransfer indicates a transfer with the same ext_id already exists
	ErrDuplicateTransfer = errors.New("duplicate transfer")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")
)

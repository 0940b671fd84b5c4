package services

import "errors"

// Error taxonomy shared by all stock workflows. Callers match with errors.Is;
// services wrap these with context via fmt.Errorf and %w.
var (
	// ErrInsufficientStock means the requested deduction would drive stock
	// negative on an item that does not allow negative stock. The operation
	// leaves no partial state behind.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound means the referenced item, order, stocktake, transfer or
	// alert does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means the requested lifecycle change is not legal
	// from the record's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation means the input was rejected before any side effect.
	ErrValidation = errors.New("validation failed")
)

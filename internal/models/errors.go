package models

import "errors"

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrConflict          = errors.New("conflict")           // 409
	ErrInsufficientStock = errors.New("insufficient stock") // 409

	// ErrStockConflict means a stock row changed between validation and
	// the conditional write. The only retryable failure kind.
	ErrStockConflict = errors.New("stock conflict")
)

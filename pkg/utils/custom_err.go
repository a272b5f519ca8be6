package utils

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidState       = errors.New("operation not valid for current comparison status")
	ErrComparisonNotFound = errors.New("comparison not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrOracle             = errors.New("oracle request failed")
	ErrCartReconciliation = errors.New("cart reconciliation failed")
	ErrDatabaseError      = errors.New("database error")
)

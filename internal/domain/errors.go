package domain

import "errors"

// Pipeline error taxonomy. Fatal errors abort the run; ErrValidationFailed is
// non-fatal and only drives the process exit status.
var (
	// ErrDataUnavailable means the source dataset could not be read at all.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrSchemaMismatch means a required column is absent from the source.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInsufficientData means too few valid records survived cleaning for
	// the analysis to stand on. Quality metrics are still reported.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrValidationFailed means one or more research claims fell outside
	// tolerance. The run completes and reports results.
	ErrValidationFailed = errors.New("validation failed")
)

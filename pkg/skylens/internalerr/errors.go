package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrDataLoad      = errors.New("data load failed")
	ErrMissingColumn = errors.New("required column missing")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrOutputDir     = errors.New("output directory not writable")
	ErrNotFound      = errors.New("not found")
)

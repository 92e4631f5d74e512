package model

import "github.com/rotisserie/eris"

// Sentinel errors for the pipeline's failure taxonomy. Callers wrap
// these with eris and match with eris.Is at the orchestrator boundary.
var (
	// ErrNotFound means the input path does not exist.
	ErrNotFound = eris.New("input path not found")

	// ErrEmptyFile means zero sample rows could be read from the input.
	ErrEmptyFile = eris.New("no readable rows")

	// ErrDecode means every encoding candidate failed to decode the input.
	ErrDecode = eris.New("input could not be decoded")

	// ErrIO means a read or write failed; a failed write cleans up any
	// partial output file.
	ErrIO = eris.New("io failure")

	// ErrStrictValidation means strict mode was set and validation found
	// at least one warning-or-error issue, aborting the file before write.
	ErrStrictValidation = eris.New("strict validation failed")
)

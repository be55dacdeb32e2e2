package services

import "errors"

// Sentinel errors translated to protocol faults at the API boundary.
var (
	// ErrNotFound reports a referenced post that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation reports malformed caller input, e.g. an unsafe media
	// path.
	ErrValidation = errors.New("invalid input")
	// ErrStorage reports a filesystem or content-store failure.
	ErrStorage = errors.New("storage failure")
)

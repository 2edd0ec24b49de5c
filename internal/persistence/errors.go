package persistence

import "errors"

var (
	// ErrCorruptDocument is returned when stored data cannot be decoded into a document.
	ErrCorruptDocument = errors.New("persistence: corrupt document")
)

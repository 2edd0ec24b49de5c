package application

import "errors"

var (
	// ErrNotFound is returned when a room, seat or person id does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrSaveFailed is returned together with a valid result when the change
	// was applied in memory but could not be persisted. It is not retried.
	ErrSaveFailed = errors.New("application: save failed")
	// ErrNotLoaded is returned until the document has been loaded successfully.
	ErrNotLoaded = errors.New("application: document not loaded")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// fieldError builds a validation error with a single entry.
func fieldError(field, message string) *ValidationError {
	vErr := &ValidationError{}
	vErr.add(field, message)
	return vErr
}

package directory

import "fmt"

type DirectoryError struct {
	Message string
}

func (errorValue DirectoryError) Error() string {
	return errorValue.Message
}

// MalformedInputError reports a lookup or registration with a zero subject,
// zero tag, or otherwise unusable input.
type MalformedInputError struct {
	DirectoryError
	Field string
}

func NewMalformedInputError(field string, reason string) error {
	return MalformedInputError{
		DirectoryError: DirectoryError{Message: fmt.Sprintf("malformed %s: %s", field, reason)},
		Field:          field,
	}
}

// LookupError wraps a Service failure so callers can distinguish transport
// trouble from a clean miss.
type LookupError struct {
	DirectoryError
	Err error
}

func (errorValue LookupError) Unwrap() error {
	return errorValue.Err
}

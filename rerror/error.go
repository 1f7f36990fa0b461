package rerror

import "fmt"

// RailError is the error type used across the module for faults raised by the
// locomotion core and its collaborators.
type RailError struct {
	Err string
}

func New(format string, args ...interface{}) *RailError {
	return &RailError{Err: fmt.Sprintf(format, args...)}
}

func (e *RailError) Error() string {
	return e.Err
}

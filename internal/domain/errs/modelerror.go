package errs

import "fmt"

// ModelUnavailableError wraps any failure talking to the chat model.
// A turn that fails this way leaves the stored history untouched.
type ModelUnavailableError struct {
	message string
	cause   error
}

func (e *ModelUnavailableError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.cause)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.cause
}

func ModelUnavailableErrorf(cause error, format string, args ...any) *ModelUnavailableError {
	return &ModelUnavailableError{
		message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

var _ error = &ModelUnavailableError{}

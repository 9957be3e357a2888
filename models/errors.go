package models

import "fmt"

// Error codes used across the pipeline.
const (
	ErrCodeSetup             = "SETUP_FAILED"
	ErrCodeNavigationTimeout = "NAVIGATION_TIMEOUT"
	ErrCodeTimeout           = "PROFILE_TIMEOUT"
	ErrCodeFieldParse        = "FIELD_PARSE"
	ErrCodeFetch             = "FETCH_FAILED"
	ErrCodeWrite             = "WRITE_FAILED"
)

// ProfileError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ProfileError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ProfileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// NewProfileError creates a new ProfileError.
func NewProfileError(code, message string, err error) *ProfileError {
	return &ProfileError{Code: code, Message: message, Err: err}
}

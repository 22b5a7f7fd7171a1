package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Locations file errors
	ErrCodeLocationsNotFound ErrorCode = "LOCATIONS_NOT_FOUND"
	ErrCodeLocationsInvalid  ErrorCode = "LOCATIONS_INVALID"

	// Link errors
	ErrCodeLinkConflict  ErrorCode = "LINK_CONFLICT"
	ErrCodeSourceMissing ErrorCode = "SOURCE_MISSING"
	ErrCodePathEscape    ErrorCode = "PATH_ESCAPE"

	// Command execution errors
	ErrCodeCommandTimeout  ErrorCode = "COMMAND_TIMEOUT"
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// Git errors
	ErrCodeGitNotInstalled ErrorCode = "GIT_NOT_INSTALLED"
	ErrCodeGitNotRepo      ErrorCode = "GIT_NOT_REPO"
	ErrCodeGitRemoteFailed ErrorCode = "GIT_REMOTE_FAILED"

	// General errors
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// DotkitError represents a structured error with context
type DotkitError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *DotkitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotkitError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *DotkitError) WithDetail(key string, value interface{}) *DotkitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *DotkitError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new DotkitError
func New(code ErrorCode, message string) *DotkitError {
	return &DotkitError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a DotkitError
func Wrap(err error, code ErrorCode, message string) *DotkitError {
	return &DotkitError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific DotkitError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	dotkitErr, ok := err.(*DotkitError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return dotkitErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	dotkitErr, ok := err.(*DotkitError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return dotkitErr.Code
}

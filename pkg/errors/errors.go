package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrUsage        ErrorCode = "USAGE"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Manifest errors
	ErrManifestNotFound ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestParse    ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid  ErrorCode = "MANIFEST_INVALID"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
)

// AddonError represents a structured error with code and details
type AddonError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AddonError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AddonError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an AddonError carrying the same code
func (e *AddonError) Is(target error) bool {
	var targetErr *AddonError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AddonError with the given code and message
func New(code ErrorCode, message string) *AddonError {
	return &AddonError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AddonError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AddonError {
	return &AddonError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AddonError
func Wrap(err error, code ErrorCode, message string) *AddonError {
	if err == nil {
		return nil
	}
	return &AddonError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AddonError {
	if err == nil {
		return nil
	}
	return &AddonError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AddonError) WithDetail(key string, value interface{}) *AddonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *AddonError) WithDetails(details map[string]interface{}) *AddonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var addonErr *AddonError
	if errors.As(err, &addonErr) {
		return addonErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AddonError
func GetErrorCode(err error) ErrorCode {
	var addonErr *AddonError
	if errors.As(err, &addonErr) {
		return addonErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AddonError
func GetErrorDetails(err error) map[string]interface{} {
	var addonErr *AddonError
	if errors.As(err, &addonErr) {
		return addonErr.Details
	}
	return nil
}

// FormatDetails renders the details of err as sorted "key=value" lines.
// Details of wrapped AddonErrors are included, outermost first.
func FormatDetails(err error) []string {
	var lines []string
	seen := make(map[string]bool)
	for err != nil {
		var addonErr *AddonError
		if !errors.As(err, &addonErr) {
			break
		}
		keys := make([]string, 0, len(addonErr.Details))
		for k := range addonErr.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line := fmt.Sprintf("%s=%v", k, addonErr.Details[k])
			if seen[line] {
				continue
			}
			seen[line] = true
			lines = append(lines, line)
		}
		err = addonErr.Wrapped
	}
	return lines
}

// Summary returns the message chain of err without error codes
func Summary(err error) string {
	var parts []string
	for err != nil {
		var addonErr *AddonError
		if !errors.As(err, &addonErr) {
			parts = append(parts, err.Error())
			break
		}
		parts = append(parts, addonErr.Message)
		err = addonErr.Wrapped
	}
	return strings.Join(parts, ": ")
}

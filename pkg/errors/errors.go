// Package errors provides the structured error types returned by the
// registry client.
//
// Every failure surfaced by the client is an [*Error] carrying one of a
// closed set of codes, so callers can branch on the kind of failure instead
// of matching strings:
//   - NETWORK_ERROR: connection, DNS or timeout failures and unexpected HTTP statuses
//   - NOT_FOUND: HTTP 404, or a crate name that can never resolve
//   - PERMISSION_DENIED: HTTP 403, with the server's reason text
//   - API_ERROR: a 2xx response carrying the registry's error envelope
//   - JSON_DECODE_ERROR: a 2xx response that does not match the expected schema
//   - INVALID_INPUT / INVALID_HEADER: rejected before any request is made
//
// # Usage
//
//	krate, err := client.Crate(ctx, "serde")
//	switch {
//	case errors.Is(err, errors.ErrCodeNotFound):
//	    // crate does not exist
//	case errors.Is(err, errors.ErrCodeDecode):
//	    // library and API disagree on the schema
//	}
//
// The sentinel values ([ErrNotFound], [ErrDecode], ...) also work with the
// standard library's errors.Is.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the client's failure taxonomy.
const (
	// Transport errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// HTTP status errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodePermissionDenied Code = "PERMISSION_DENIED"

	// Body errors
	ErrCodeAPI    Code = "API_ERROR"
	ErrCodeDecode Code = "JSON_DECODE_ERROR"

	// Caller errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidHeader Code = "INVALID_HEADER"
)

// UnknownAPIError is reported for API errors that carry no detail message.
const UnknownAPIError = "Unknown API error"

// Sentinels for use with the standard library's errors.Is. They match any
// [*Error] with the same code.
var (
	ErrNetwork          = &Error{Code: ErrCodeNetwork}
	ErrNotFound         = &Error{Code: ErrCodeNotFound}
	ErrPermissionDenied = &Error{Code: ErrCodePermissionDenied}
	ErrAPI              = &Error{Code: ErrCodeAPI}
	ErrDecode           = &Error{Code: ErrCodeDecode}
	ErrInvalidInput     = &Error{Code: ErrCodeInvalidInput}
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code     // Machine-readable error code
	Message string   // Human-readable message
	URL     string   // Requested URL (NOT_FOUND)
	Path    string   // Structural JSON path of a schema mismatch (JSON_DECODE_ERROR)
	Details []string // Detail messages reported by the registry (API_ERROR)
	Cause   error    // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a bare sentinel with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	return t.Code == e.Code
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// NotFound reports that the resource at url does not exist.
func NotFound(url string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("resource at url '%s' could not be found", url),
		URL:     url,
	}
}

// PermissionDenied reports a 403 response with the server's reason text.
func PermissionDenied(reason string) *Error {
	return &Error{
		Code:    ErrCodePermissionDenied,
		Message: fmt.Sprintf("permission denied: %s", reason),
	}
}

// API reports an error envelope returned by the registry. Empty details are
// replaced with [UnknownAPIError]; an empty list reports a single unknown error.
func API(details []string) *Error {
	msgs := make([]string, 0, max(len(details), 1))
	for _, d := range details {
		if d == "" {
			d = UnknownAPIError
		}
		msgs = append(msgs, d)
	}
	if len(msgs) == 0 {
		msgs = append(msgs, UnknownAPIError)
	}
	return &Error{
		Code:    ErrCodeAPI,
		Message: strings.Join(msgs, "; "),
		Details: msgs,
	}
}

// Decode reports a body that does not match the expected schema at path.
func Decode(cause error, path string) *Error {
	if path == "" {
		path = "."
	}
	return &Error{
		Code:    ErrCodeDecode,
		Message: fmt.Sprintf("could not decode JSON (path: %s)", path),
		Path:    path,
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

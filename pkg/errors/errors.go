package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur during a run
type ErrorType string

const (
	// Fetch failures, consumed by the download retry budget
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeIO          ErrorType = "io"

	// Fatal: the run stops and the process exits non-zero
	ErrorTypeDirectory      ErrorType = "directory"
	ErrorTypeRemove         ErrorType = "remove"
	ErrorTypeRetryExhausted ErrorType = "retry_exhausted"
	ErrorTypePlanMismatch   ErrorType = "plan_mismatch"
	ErrorTypeState          ErrorType = "state"

	// Warnings: the file stays under its original name and the run continues
	ErrorTypeDataType     ErrorType = "data_type"
	ErrorTypePrecondition ErrorType = "precondition"
	ErrorTypeRename       ErrorType = "rename"

	ErrorTypeUnknown ErrorType = "unknown"
)

// Error is an error with type information and the operation/path it concerns
type Error struct {
	Type    ErrorType
	Op      string
	Path    string
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Path != "" && e.Code != 0:
		return fmt.Sprintf("%s error during %s %s (code %d): %s", e.Type, e.Op, e.Path, e.Code, msg)
	case e.Path != "":
		return fmt.Sprintf("%s error during %s %s: %s", e.Type, e.Op, e.Path, msg)
	case e.Code != 0:
		return fmt.Sprintf("%s error during %s (code %d): %s", e.Type, e.Op, e.Code, msg)
	default:
		return fmt.Sprintf("%s error during %s: %s", e.Type, e.Op, msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a typed error wrapping err
func New(t ErrorType, op, path string, err error) *Error {
	return &Error{Type: t, Op: op, Path: path, Err: err}
}

// Newf builds a typed error with a formatted message and no cause
func Newf(t ErrorType, op, path, format string, args ...interface{}) *Error {
	return &Error{Type: t, Op: op, Path: path, Message: fmt.Sprintf(format, args...)}
}

// TypeOf returns the type of the first *Error in err's chain, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries the given type anywhere in its chain
func Is(err error, t ErrorType) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == t {
			return true
		}
		err = e.Err
	}
	return false
}

// IsFatal checks if an error type ends the run
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeDirectory, ErrorTypeRemove, ErrorTypeRetryExhausted,
		ErrorTypePlanMismatch, ErrorTypeState:
		return true
	default:
		return false
	}
}

// IsWarning checks if an error type is downgraded to a warning
func IsWarning(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeDataType, ErrorTypePrecondition, ErrorTypeRename:
		return true
	default:
		return false
	}
}

// TypeForStatusCode maps an HTTP status code to an error type
func TypeForStatusCode(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuth
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

// Package errors defines the coded errors returned by pomedit.
//
// Every failure the engine reports to a caller is an [*Error] carrying a
// [Code]. The CLI prints it, the HTTP server maps the code to a status, and
// tests match on the code instead of on message text.
//
// Four codes belong to the POM engine itself:
//
//	MALFORMED_COORDINATE   a dependency string does not parse
//	AMBIGUOUS_STRUCTURE    more than one node where Maven allows one
//	WRONG_DEPENDENCY_TYPE  an import into a non-pom, or a non-pom parent
//	QUERY_VALIDATION       a strict query met a dependency missing its ids
//
// The remaining codes cover input, I/O and network failures.
//
//	if errors.Is(err, errors.ErrCodeAmbiguousStructure) {
//	    // the POM has two <dependencyManagement> sections
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	ErrCodeMalformedCoordinate Code = "MALFORMED_COORDINATE"
	ErrCodeAmbiguousStructure  Code = "AMBIGUOUS_STRUCTURE"
	ErrCodeWrongDependencyType Code = "WRONG_DEPENDENCY_TYPE"
	ErrCodeQueryValidation     Code = "QUERY_VALIDATION"

	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeNetwork         Code = "NETWORK_ERROR"
	ErrCodeUnsupported     Code = "UNSUPPORTED"
	ErrCodeInternal        Code = "INTERNAL_ERROR"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// UserMessage returns the message of the outermost *Error without its code
// prefix or cause, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

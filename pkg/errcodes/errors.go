package errcodes

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
	// Field names the offending input for invalid_format errors.
	Field    string

	cause error
}

func (err *Error) Error() string {
	return err.Message
}

// Unwrap exposes the underlying store error for aborted transactions so that
// it can be logged. It is never part of the user-facing message.
func (err *Error) Unwrap() error {
	return err.cause
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Field = err.Field
	te.cause = err.cause
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// HasCode reports whether err is (or wraps) an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

const (
	CodeValidation         = "validation_error"
	CodeInvalidFormat      = "invalid_format"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeTransactionAborted = "transaction_aborted"
)

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     CodeNotFound,
	}
}

// Conflict returns a 409 error. It is used when a write would collide with an
// existing row, e.g. a rename onto an identifier that is already taken.
func Conflict(msg string) error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  msg,
		Code:     CodeConflict,
	}
}

// TransactionAborted returns a 503 error for a store failure inside a
// transaction. The transaction has been rolled back, so callers may retry.
func TransactionAborted(cause error) error {
	return &Error{
		HTTPCode: http.StatusServiceUnavailable,
		Message:  "The operation was aborted and no changes were made. Please retry.",
		Code:     CodeTransactionAborted,
		cause:    cause,
	}
}

// InvalidFormat returns a 400 error naming the field whose value doesn't match
// the expected format.
func InvalidFormat(field, expected string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  fmt.Sprintf("%q has an invalid format: expected %s", field, expected),
		Code:     CodeInvalidFormat,
		Field:    field,
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  msg,
		Code:     CodeValidation,
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}

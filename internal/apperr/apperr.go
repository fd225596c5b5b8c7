// Package apperr defines the error kinds that coordination services return
// and the table that turns each kind into an HTTP status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for status translation.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindPermission
	KindArgument
	KindRepository
	KindIntegration
	KindConfiguration
	KindSessionExpired
	KindInvalidOperation
	KindNotSupported
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission"
	case KindArgument:
		return "argument"
	case KindRepository:
		return "repository"
	case KindIntegration:
		return "integration"
	case KindConfiguration:
		return "configuration"
	case KindSessionExpired:
		return "session expired"
	case KindInvalidOperation:
		return "invalid operation"
	case KindNotSupported:
		return "not supported"
	default:
		return "unknown"
	}
}

// Default integration error codes.
const (
	CodeGlobalInternal = "Global.Internal.Error"
	CodeGUIDNotFound   = "GUID.Not.Found"
	CodeAccessDenied   = "Access.Denied"
	CodeValidation     = "Validation.Exception"
	CodeMissingField   = "Missing.Required.Property"
	CodeSessionExpired = "Session.Expired"
	CodeNotAcceptable  = "Invalid.Media.Type"
)

// Messages shared by several endpoints.
const (
	NotSupportedMessage   = "Unsupported Request"
	SessionExpiredMessage = "Your previous session has expired and is no longer valid."
)

// Detail is one entry of an integration error payload.
type Detail struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	ID          string `json:"id,omitempty"`
	GUID        string `json:"guid,omitempty"`
}

// Error is the error type returned by services and handlers.
type Error struct {
	Kind    Kind
	Message string
	Details []Detail
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetail appends a detail entry and returns the same error.
func (e *Error) WithDetail(code, message, description string) *Error {
	e.Details = append(e.Details, Detail{Code: code, Message: message, Description: description})
	return e
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error   { return newError(KindNotFound, format, args...) }
func Permission(format string, args ...any) *Error { return newError(KindPermission, format, args...) }
func Argument(format string, args ...any) *Error   { return newError(KindArgument, format, args...) }
func Configuration(format string, args ...any) *Error {
	return newError(KindConfiguration, format, args...)
}
func InvalidOperation(format string, args ...any) *Error {
	return newError(KindInvalidOperation, format, args...)
}

// Integration builds an integration error with a single detail whose
// description is the user facing text.
func Integration(message, description string) *Error {
	return newError(KindIntegration, "%s", message).WithDetail(CodeGlobalInternal, message, description)
}

// Repository wraps a storage failure.
func Repository(err error, format string, args ...any) *Error {
	e := newError(KindRepository, format, args...)
	e.Err = err
	return e
}

// SessionExpired reports an expired or revoked bearer token.
func SessionExpired() *Error {
	return newError(KindSessionExpired, "%s", SessionExpiredMessage)
}

// NotSupported is returned by HeDM operations that exist only to satisfy
// the full CRUD contract.
func NotSupported() *Error {
	return newError(KindNotSupported, "%s", NotSupportedMessage).
		WithDetail(CodeGlobalInternal, NotSupportedMessage, NotSupportedMessage)
}

// KindOf reports the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// Status maps err to an HTTP status code. permissionStatus is what the
// endpoint answers for permission failures, 401 or 403; zero means 403.
func Status(err error, permissionStatus int) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindPermission:
		if permissionStatus == 0 {
			return http.StatusForbidden
		}
		return permissionStatus
	case KindSessionExpired:
		return http.StatusUnauthorized
	case KindNotSupported:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusBadRequest
	}
}

// Details converts err into integration error entries. Errors that carry
// no details get one entry whose code follows the kind.
func Details(err error) []Detail {
	var e *Error
	if errors.As(err, &e) && len(e.Details) > 0 {
		return e.Details
	}

	code := CodeGlobalInternal
	switch KindOf(err) {
	case KindNotFound:
		code = CodeGUIDNotFound
	case KindPermission:
		code = CodeAccessDenied
	case KindArgument:
		code = CodeValidation
	case KindSessionExpired:
		code = CodeSessionExpired
	}

	return []Detail{{Code: code, Message: err.Error(), Description: err.Error()}}
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the request boundary can map it to a
// stable status code and reason.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation_error"
	KindMissingCredential  ErrorKind = "missing_credential"
	KindInvalidToken       ErrorKind = "invalid_token"
	KindExpired            ErrorKind = "token_expired"
	KindUserNotFound       ErrorKind = "user_not_found"
	KindDuplicateEmail     ErrorKind = "duplicate_email"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindNotFound           ErrorKind = "not_found"
	KindUpstream           ErrorKind = "upstream_failure"
)

// Error is the tagged failure returned by fallible operations.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
	// exposeCause lets PublicMessage include Err in the client-facing text.
	exposeCause bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, ErrNotFound(""))
// style checks work regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a tagged error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds a tagged error around a cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func ErrValidation(message string) *Error {
	return NewError(KindValidation, message)
}

func ErrNotFound(message string) *Error {
	return NewError(KindNotFound, message)
}

// ErrUpstream reports a collaborator failure. The cause is logged but never
// shown to clients.
func ErrUpstream(message string, err error) *Error {
	return WrapError(KindUpstream, message, err)
}

// ErrUpstreamDetail is ErrUpstream for collaborators whose failure text is
// meant for the client, such as the text generator.
func ErrUpstreamDetail(message string, err error) *Error {
	e := WrapError(KindUpstream, message, err)
	e.exposeCause = true
	return e
}

var (
	ErrMissingCredential  = NewError(KindMissingCredential, "not authenticated")
	ErrInvalidToken       = NewError(KindInvalidToken, "invalid token")
	ErrTokenExpired       = NewError(KindExpired, "token expired")
	ErrUserNotFound       = NewError(KindUserNotFound, "user not found")
	ErrDuplicateEmail     = NewError(KindDuplicateEmail, "email already registered")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "invalid credentials")
)

// KindOf classifies err. Untyped errors come from storage or transport and are
// reported as upstream failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// PublicMessage returns the message that is safe to show to a client.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.exposeCause && e.Err != nil {
			return e.Error()
		}
		return e.Message
	}
	return "internal error"
}

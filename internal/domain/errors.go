package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error. The HTTP layer maps each kind to one status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a business error carrying a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on kind and message so wrapped copies compare equal to the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Cause: cause}
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of err, KindInternal for anything that is not a *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err, or "" when err is not a *Error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// Registration
var (
	ErrPasswordTooShort = NewError(KindValidation, "Password is too short")
	ErrUsernameTooShort = NewError(KindValidation, "Username is too short")
	ErrUsernameInvalid  = NewError(KindValidation, "Username should be alphanumeric, also no spaces")
	ErrEmailInvalid     = NewError(KindValidation, "Email is not valid")
	ErrEmailTaken       = NewError(KindConflict, "Email is taken")
	ErrUsernameTaken    = NewError(KindConflict, "Username is taken")
)

// Authentication
var (
	ErrWrongCredentials = NewError(KindUnauthorized, "Wrong credentials")
	ErrMissingToken     = NewError(KindUnauthorized, "Missing Authorization Header")
	ErrInvalidToken     = NewError(KindUnauthorized, "Invalid or expired token")
	ErrWrongTokenType   = NewError(KindUnauthorized, "Wrong token type")
	ErrUnknownUser      = NewError(KindUnauthorized, "User not found")
)

// Bookmarks
var (
	ErrURLInvalid       = NewError(KindValidation, "Must enter a valid url")
	ErrURLTaken         = NewError(KindConflict, "URL already exists")
	ErrBookmarkNotFound = NewError(KindNotFound, "Item not found")
	ErrShortURLNotFound = NewError(KindNotFound, "Not found")
)

// Transport
var (
	ErrBadRequestBody = NewError(KindValidation, "Invalid request body")
	ErrRouteNotFound  = NewError(KindNotFound, "Not found")
	ErrInternal       = NewError(KindInternal, "Internal server error. Try again.")
)

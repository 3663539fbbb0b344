package domain

import (
	"errors"
	"fmt"
)

// ErrKind is the high-level error category.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"
	KindAuth           ErrKind = "auth"
	KindNotFound       ErrKind = "not_found"
	KindConflict       ErrKind = "conflict"
	KindConfiguration  ErrKind = "configuration"
	KindInfrastructure ErrKind = "infrastructure"
	KindInternal       ErrKind = "internal"
)

// Error is a structured domain error.
// - Kind: high-level category
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients
// - Meta: optional details (field, form, reason)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err is a domain error carrying the given code.
func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrNotLogged() *Error {
	return New(KindAuth, "not_logged", "no active session")
}

// ErrNotActivated gates accounts whose group level is below MinLoginLevel.
func ErrNotActivated() *Error {
	return New(KindAuth, "not_activated", "account is not activated")
}

func ErrDuplicateEmail(email string) *Error {
	return WithMeta(New(KindConflict, "duplicate_email", "email already registered"), map[string]string{
		"email": email,
	})
}

// ErrMissingFormDefinition is a configuration error: a form was submitted
// but no field list is defined for it. It halts the dispatch.
func ErrMissingFormDefinition(form string) *Error {
	return WithMeta(New(KindConfiguration, "missing_form_definition", "no definition for the form"), map[string]string{
		"form": form,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrSessionExpired() *Error {
	return New(KindAuth, "session_expired", "session is expired")
}

func ErrStore(op string, cause error) *Error {
	return WithMeta(Wrap(KindInfrastructure, "store_failure", "storage operation failed", cause), map[string]string{
		"op": op,
	})
}

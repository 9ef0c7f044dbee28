// Package apperror carries the failure kinds every operation surfaces to its
// caller. Transport layers map a Kind to a status code; nothing else inspects
// the message text.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindSelfTarget    Kind = "self_target"
	KindPersistence   Kind = "persistence"
)

// Error is a typed failure. Details holds per-field messages for validation errors.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error. A nil err yields nil.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func WithDetails(kind Kind, msg string, details map[string]string) *Error {
	return &Error{Kind: kind, Message: msg, Details: details}
}

// KindOf returns the kind of the outermost *Error in the chain, or
// KindPersistence for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

func Validation(msg string) *Error { return New(KindValidation, msg) }
func Conflict(msg string) *Error   { return New(KindConflict, msg) }
func NotFound(msg string) *Error   { return New(KindNotFound, msg) }
func Forbidden(msg string) *Error  { return New(KindAuthorization, msg) }
func SelfTarget(msg string) *Error { return New(KindSelfTarget, msg) }
func Persistence(err error) error  { return Wrap(err, KindPersistence, "storage failure") }

// Package apperr defines the error kinds surfaced to callers of the
// booking, auth and catalog services.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindRoomUnavailable
	KindUnauthorized
	KindNotFound
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRoomUnavailable:
		return "room_unavailable"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream_unavailable"
	}
	return "internal"
}

// Error is a typed, user-presentable failure. Message is safe to show to
// the user; Err is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so that errors.Is(err, ErrRoomUnavailable) holds for
// any RoomUnavailable error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrRoomUnavailable = &Error{Kind: KindRoomUnavailable, Message: "This room is already booked for the selected dates. Please choose different dates."}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "Unauthorized action."}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUpstream        = &Error{Kind: KindUpstream, Message: "service temporarily unavailable, please try again later"}
)

// Validation returns a field-level validation error.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// RoomUnavailable returns the booking conflict error.
func RoomUnavailable() *Error {
	return &Error{Kind: KindRoomUnavailable, Message: ErrRoomUnavailable.Message}
}

// Unauthorized returns an authorization failure with a generic message.
func Unauthorized(message string) *Error {
	if message == "" {
		message = ErrUnauthorized.Message
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NotFound returns a not-found error for the named resource.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// Upstream wraps an infrastructure failure behind a generic message.
func Upstream(message string, err error) *Error {
	if message == "" {
		message = ErrUpstream.Message
	}
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

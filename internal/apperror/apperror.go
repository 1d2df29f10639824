// Package apperror defines the closed set of failure kinds the API exposes.
// Every error that reaches the HTTP boundary is classified into exactly one
// Kind, which fixes both the response status and whether the message is safe
// to show to the caller.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// Internal is the zero value so that an unset Kind never leaks details.
	Internal Kind = iota
	BadRequest
	Unauthorized
	Forbidden
	NotFound
	Conflict
)

// GenericMessage replaces the message of every Internal error on the wire.
const GenericMessage = "An error occurred on the server"

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// StatusCode maps the kind onto its HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is what the client sees; Err is the
// underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
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

func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

// SafeMessage is the message that may be written to a response body.
func (e *Error) SafeMessage() string {
	if e.Kind == Internal || e.Message == "" {
		return GenericMessage
	}
	return e.Message
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func NewBadRequest(message string, cause error) *Error {
	return New(BadRequest, message, cause)
}

func NewUnauthorized(message string, cause error) *Error {
	return New(Unauthorized, message, cause)
}

func NewForbidden(message string, cause error) *Error {
	return New(Forbidden, message, cause)
}

func NewNotFound(message string, cause error) *Error {
	return New(NotFound, message, cause)
}

func NewConflict(message string, cause error) *Error {
	return New(Conflict, message, cause)
}

func NewInternal(message string, cause error) *Error {
	return New(Internal, message, cause)
}

// Classify maps any error onto the taxonomy. Already-classified errors pass
// through (also when wrapped); everything else is Internal.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(GenericMessage, err)
}

// KindOf returns the kind err would be classified as.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}
	return Classify(err).Kind
}

func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

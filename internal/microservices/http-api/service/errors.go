package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure; handlers map it to a status code.
type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindEmptyCart
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindEmptyCart:
		return "empty_cart"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "storage"
	}
}

// Error is the single error type services return.
// Field is set for validation failures and names the offending input field.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

const msgRequired = "this field is required"

var (
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "unable to log in with provided credentials"}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "invalid token"}
	ErrEmptyCart          = &Error{Kind: KindEmptyCart, Message: "shopping cart is empty"}
)

func validationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func notFoundError(entity string, id int64) *Error {
	return &Error{Kind: KindNotFound, Field: entity, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

func conflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func forbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func storageError(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: op, Err: err}
}

// KindOf returns the kind of a service error anywhere in err's chain.
// Errors that are not service errors count as storage faults.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// asServiceError passes service errors through and wraps everything else as storage.
func asServiceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return storageError(op, err)
}

// Package apperror classifies domain failures so the HTTP layer can map
// them to status codes without inspecting message text.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindDuplicateSlug
	KindInvalidCategory
	KindInvalidRating
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func DuplicateSlug(slug string) *Error {
	return &Error{Kind: KindDuplicateSlug, Message: fmt.Sprintf("slug %q is already in use", slug)}
}

func InvalidCategory(refs []string) *Error {
	return &Error{
		Kind:    KindInvalidCategory,
		Message: fmt.Sprintf("one or more categories are invalid: %s", strings.Join(refs, ", ")),
	}
}

func InvalidRating(value int) *Error {
	return &Error{Kind: KindInvalidRating, Message: fmt.Sprintf("rating must be between 1 and 5, got %d", value)}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unexpected(message string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf reports the classification of err; unclassified errors are
// treated as unexpected.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldsOf returns the field-level detail of a validation error, if any.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

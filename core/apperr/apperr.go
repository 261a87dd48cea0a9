// Package apperr defines the closed set of business error kinds raised by
// the van inventory engine. Handlers map kinds to HTTP status codes instead
// of matching on message text, so wording stays free to change.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindInsufficientQuantity
	KindBatchExpired
	KindBatchInactive
	KindInvalidState
)

// Error is a business error with a classification kind and a human message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Duplicatef(format string, args ...interface{}) *Error {
	return newf(KindDuplicate, format, args...)
}

func InsufficientQuantityf(format string, args ...interface{}) *Error {
	return newf(KindInsufficientQuantity, format, args...)
}

func BatchExpiredf(format string, args ...interface{}) *Error {
	return newf(KindBatchExpired, format, args...)
}

func BatchInactivef(format string, args ...interface{}) *Error {
	return newf(KindBatchInactive, format, args...)
}

func InvalidStatef(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, format, args...)
}

// KindOf returns the kind of err, or KindUnknown for non-business errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsClient reports whether err should surface as a 4xx to the caller.
// Anything with a known kind is the caller's fault; the rest is ours.
func IsClient(err error) bool {
	return KindOf(err) != KindUnknown
}

package input

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies why a run was rejected.
type ErrorKind int

const (
	UnknownError ErrorKind = iota
	InvalidVerb
	MissingCacheKey
	MissingValue
	MalformedJSON
	FileReadError
	MissingCredential
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidVerb:
		return "InvalidVerb"
	case MissingCacheKey:
		return "MissingCacheKey"
	case MissingValue:
		return "MissingValue"
	case MalformedJSON:
		return "MalformedJSON"
	case FileReadError:
		return "FileReadError"
	case MissingCredential:
		return "MissingCredential"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a validation failure that aborts the invocation before any request
// is sent.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError returns an *Error with a stack trace attached.
func NewError(kind ErrorKind, message string) error {
	return errors.WithStack(&Error{Kind: kind, Message: message})
}

func newErrorf(kind ErrorKind, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause})
}

// KindOf reports the ErrorKind of err, or UnknownError when err did not come
// from validation.
func KindOf(err error) ErrorKind {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind
	}
	return UnknownError
}

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

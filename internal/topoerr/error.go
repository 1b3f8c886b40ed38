// Package topoerr defines the error kinds of topodown.
//
// Errors made by New can be tested against their kind and their cause with errors.Is.
package topoerr

import (
	"errors"
	"fmt"
)

var (
	// ErrFeedUnavailable means an upstream document could not be fetched or decoded.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrInvalidDocument means a document was not a well-formed topology document.
	ErrInvalidDocument = errors.New("invalid topology document")

	// ErrInvalidDate means a downtime timestamp was not in the topology date format.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidSort means an unknown sort key or order.
	ErrInvalidSort = errors.New("invalid sort specification")

	// ErrInvalidArgument means a wrong command line argument.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error is an error that has a kind and an optional cause.
type Error struct {
	kind    error
	from    error
	message string
}

// New creates a new Error.
// The message is made from format and args, and followed by the message of from if it is not nil.
func New(kind error, from error, format string, args ...interface{}) Error {
	msg := fmt.Sprintf(format, args...)
	if from != nil {
		if msg != "" {
			msg += ": "
		}
		msg += from.Error()
	}

	return Error{
		kind:    kind,
		from:    from,
		message: msg,
	}
}

// Error implements error interface.
func (e Error) Error() string {
	return e.message
}

// Unwrap implement for errors.Unwrap.
func (e Error) Unwrap() error {
	return e.from
}

// Is implement for errors.Is.
func (e Error) Is(err error) bool {
	return e.kind == err
}

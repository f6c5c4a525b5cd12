// Package direrr wraps delegate-surfaced errors (import/source-read
// failures) with both a short message suitable to show directly in a
// REPL session and, optionally, the lower-level error being wrapped.
package direrr

import "fmt"

// delegateError is an error encountered while a Delegate resolves,
// reads, or imports a file. It carries a user-facing message separate
// from the wrapped technical error, mirroring the teacher's
// interpreterError split between a display message and Error().
type delegateError struct {
	msg  string
	user string
	wrap error
}

func (e *delegateError) Error() string {
	return e.msg
}

// UserMessage gives the short message to show directly to a REPL user,
// as opposed to the fuller Error() text that also names the failing
// operation.
func (e *delegateError) UserMessage() string {
	return e.user
}

func (e *delegateError) Unwrap() error {
	return e.wrap
}

// Wrap returns a new error usable as a Delegate result: Error() names op
// and the underlying cause, while UserMessage returns just userMsg.
func Wrap(err error, op, userMsg string) error {
	return &delegateError{
		msg:  fmt.Sprintf("%s: %s", op, err),
		user: userMsg,
		wrap: err,
	}
}

// UserMessage returns the short display message for err if it was
// produced by Wrap, otherwise err.Error().
func UserMessage(err error) string {
	if de, ok := err.(*delegateError); ok {
		return de.UserMessage()
	}
	return err.Error()
}

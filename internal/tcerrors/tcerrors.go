// Package tcerrors has errors that carry a message meant for whoever is typing
// at the console alongside the usual technical one.
package tcerrors

import (
	"errors"
	"fmt"

	"github.com/dekarrin/tunacon/internal/scan"
)

// consoleError is an error caused by attempting to carry out a prompt. Either
// the prompt could not be understood or it asks for something that is not
// allowed.
//
// It includes a human-readable message to show to an operator as well as a
// typical more technical "error message" style message.
type consoleError struct {
	msg   string
	human string
	wrap  error
}

func (e *consoleError) Error() string {
	return e.msg
}

// ConsoleMessage shows the message that should be displayed at the console to
// describe the error.
func (e *consoleError) ConsoleMessage() string {
	return e.human
}

// Unwrap gives the error that the consoleError wraps, if it wraps one.
func (e *consoleError) Unwrap() error {
	return e.wrap
}

// Console returns a new error that has both the message to show the operator
// and the technical description of the error.
func Console(human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got ConsoleError(%q)", human)
	}
	return &consoleError{
		msg:   technical,
		human: human,
	}
}

// Consolef returns a new error that has a message to show to the operator and
// an automatically generated Error() description.
func Consolef(humanFormat string, a ...interface{}) error {
	return Console(fmt.Sprintf(humanFormat, a...), "")
}

// WrapConsole returns a new error that has both the message to show the
// operator and the technical description of the error, and that wraps the
// given error.
func WrapConsole(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got ConsoleError(%q)", human)
	}
	return &consoleError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// WrapConsolef is like WrapConsole but builds the human message from a format
// string and its arguments.
func WrapConsolef(e error, humanFormat string, a ...interface{}) error {
	return WrapConsole(e, fmt.Sprintf(humanFormat, a...), "")
}

// ConsoleMessage gets the message to display to the console for the given
// error. Errors created by this package give their human message. Syntax
// errors anywhere in the chain give the offending line with a cursor under the
// problem. Anything else gives err.Error().
func ConsoleMessage(err error) string {
	var conErr *consoleError
	if errors.As(err, &conErr) {
		return conErr.ConsoleMessage()
	}

	var synErr *scan.Error
	if errors.As(err, &synErr) {
		return synErr.FullMessage()
	}

	return err.Error()
}

// Package serr holds the errors returned by the TunaCon server's service
// layer. Error may have several causes, and errors.Is on an Error reports true
// for any of them, so callers can check for conditions such as ErrNotFound
// without unwrapping by hand.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
	ErrParse          = errors.New("the prompt could not be parsed")
	ErrExecution      = errors.New("the command could not be run")
)

// Error is an error with a message and any number of causes.
//
// Its Error() is the message followed by the Error() of the first cause. If
// the message is empty, only the first cause's text is used.
//
// Use New or WrapDB to create one.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of the Error, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether target is an identical Error or is one of e's causes.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok && e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
		same := true
		for i := range e.cause {
			if e.cause[i] != errTarget.cause[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}

	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// WrapDB creates an Error with err and ErrDB as its causes. msg may be empty.
func WrapDB(msg string, err error) Error {
	return Error{
		msg:   msg,
		cause: []error{err, ErrDB},
	}
}

// New creates an Error with the given message and causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

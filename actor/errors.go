// errors
package actor

import (
	"fmt"
)

// ErrorCode classifies the failures of the actor runtime.
type ErrorCode int

const (
	ErrCodeNone ErrorCode = iota
	ErrCodeTimeout
	ErrCodeClosed
	ErrCodeMailboxFull
	ErrCodeProtocol
	ErrCodeNoRoute
	ErrCodeInvalid
)

// String implements the Stringer interface.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrCodeNone:
		return "no error"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeClosed:
		return "closed"
	case ErrCodeMailboxFull:
		return "queue full"
	case ErrCodeProtocol:
		return "protocol violation"
	case ErrCodeNoRoute:
		return "no route"
	case ErrCodeInvalid:
		return "invalid"
	default:
		return "unknown error"
	}
}

// ActorError describes a failure of an operation on an actor. Two
// ActorErrors match with errors.Is when their codes are equal, so
// the sentinel values below can be used to test for a class of error.
type ActorError struct {
	Op   string
	Err  error
	Code ErrorCode
}

// Sentinels for errors.Is.
var (
	ErrTimeout     = &ActorError{Code: ErrCodeTimeout}
	ErrClosed      = &ActorError{Code: ErrCodeClosed}
	ErrMailboxFull = &ActorError{Code: ErrCodeMailboxFull}
	ErrProtocol    = &ActorError{Code: ErrCodeProtocol}
	ErrNoRoute     = &ActorError{Code: ErrCodeNoRoute}
	ErrInvalid     = &ActorError{Code: ErrCodeInvalid}
)

// NewError creates a new actor error.
func NewError(op string, err error, code ErrorCode) *ActorError {
	return &ActorError{
		Op:   op,
		Err:  err,
		Code: code,
	}
}

// Error implements the error interface.
func (e *ActorError) Error() string {
	switch {
	case e.Op == "":
		return e.Code.String()
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v (%v)", e.Op, e.Err, e.Code)
	default:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Code)
	}
}

// Unwrap implements error unwrapping.
func (e *ActorError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an ActorError with the same code.
func (e *ActorError) Is(target error) bool {
	t, ok := target.(*ActorError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The numeric values are part of the API contract
// and must not be renumbered.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindForbidden
	KindPreconditionFailed
	KindConflict
	KindDependencyFailure
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindConflict:
		return "conflict"
	case KindDependencyFailure:
		return "dependency_failure"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a business failure tagged with its Kind. Sentinels are *Error
// values and are matched with errors.Is by identity.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags cause with kind, keeping it reachable through errors.Unwrap.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Message returns the client-facing message of the outermost *Error in err's
// chain without the wrapped cause.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return err.Error()
}

var (
	ErrEmployeeNotFound    = &Error{Kind: KindNotFound, Msg: "employee not found"}
	ErrEmployeeExists      = &Error{Kind: KindConflict, Msg: "employee with this email already exists"}
	ErrLeaveNotFound       = &Error{Kind: KindNotFound, Msg: "leave not found"}
	ErrCandidateNotFound   = &Error{Kind: KindNotFound, Msg: "candidate not found"}
	ErrCandidateExists     = &Error{Kind: KindConflict, Msg: "candidate with this email already exists"}
	ErrCandidateHired      = &Error{Kind: KindConflict, Msg: "candidate has already been hired"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Msg: "user not found"}
	ErrUserExists          = &Error{Kind: KindConflict, Msg: "user with this email already exists"}
	ErrInvalidCredentials  = &Error{Kind: KindUnauthorized, Msg: "invalid user credentials"}
	ErrInvalidRefreshToken = &Error{Kind: KindUnauthorized, Msg: "invalid or expired refresh token"}
	ErrForbidden           = &Error{Kind: KindForbidden, Msg: "access forbidden"}
	ErrNoPresentAttendance = &Error{Kind: KindPreconditionFailed, Msg: "employee must have at least one day of attendance marked as Present before applying for leave"}
	ErrLeaveDecided        = &Error{Kind: KindConflict, Msg: "leave has already been decided"}
	ErrDocumentNotFound    = &Error{Kind: KindNotFound, Msg: "document not found"}
)

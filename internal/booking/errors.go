package booking

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why an engine operation was rejected.
type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindForbidden
	KindNotFound
	KindInvalidComposition
	KindResourceInactive
	KindInvalidWindow
	KindInsufficientTickets
	KindQuotaExceeded
	KindConflict
	KindDeadlinePassed
	KindInfrastructure
)

var kindNames = map[Kind]string{
	KindUnauthenticated:     "unauthenticated",
	KindForbidden:           "forbidden",
	KindNotFound:            "not_found",
	KindInvalidComposition:  "invalid_composition",
	KindResourceInactive:    "resource_inactive",
	KindInvalidWindow:       "invalid_window",
	KindInsufficientTickets: "insufficient_tickets",
	KindQuotaExceeded:       "quota_exceeded",
	KindConflict:            "conflict",
	KindDeadlinePassed:      "deadline_passed",
	KindInfrastructure:      "infrastructure_error",
}

var kindMessages = map[Kind]string{
	KindUnauthenticated:     "Sign in to manage bookings.",
	KindForbidden:           "You are not allowed to perform this action.",
	KindNotFound:            "The requested resource does not exist.",
	KindInvalidComposition:  "A booking needs exactly 4 players: add participants or use tickets for the missing places.",
	KindResourceInactive:    "This court is closed for maintenance.",
	KindInvalidWindow:       "Choose a start time in the future.",
	KindInsufficientTickets: "You do not have enough tickets. Invite more participants or use fewer tickets.",
	KindQuotaExceeded:       "The limit of active bookings is reached. Wait for a booking to finish or cancel one.",
	KindConflict:            "This court is already taken for that time. Pick another slot or court.",
	KindDeadlinePassed:      "Bookings can no longer be modified this close to the start time. Used tickets are forfeited.",
	KindInfrastructure:      "The booking service is temporarily unavailable. Please retry.",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Message returns the user-facing template for the kind.
func (k Kind) Message() string {
	return kindMessages[k]
}

// Retryable reports whether the caller may safely repeat the operation.
func (k Kind) Retryable() bool {
	return k == KindInfrastructure
}

// CoOccupant is a member sharing one of the reservations that count against
// a quota.
type CoOccupant struct {
	MemberID int64  `json:"memberId"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Error is returned by every engine operation that rejects a request.
type Error struct {
	Kind        Kind
	Reason      string
	ActiveCount int
	CoOccupants []CoOccupant
	Err         error
}

func (e *Error) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = e.Kind.Message()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can compare against the
// package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// UserMessage is the reason when set, otherwise the kind template.
func (e *Error) UserMessage() string {
	if e.Reason != "" {
		return e.Reason
	}
	return e.Kind.Message()
}

var (
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInvalidComposition  = &Error{Kind: KindInvalidComposition}
	ErrResourceInactive    = &Error{Kind: KindResourceInactive}
	ErrInvalidWindow       = &Error{Kind: KindInvalidWindow}
	ErrInsufficientTickets = &Error{Kind: KindInsufficientTickets}
	ErrQuotaExceeded       = &Error{Kind: KindQuotaExceeded}
	ErrConflict            = &Error{Kind: KindConflict}
	ErrDeadlinePassed      = &Error{Kind: KindDeadlinePassed}
	ErrInfrastructure      = &Error{Kind: KindInfrastructure}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of err. Errors that did not originate in the
// engine are infrastructure failures.
func KindOf(err error) Kind {
	var bErr *Error
	if errors.As(err, &bErr) {
		return bErr.Kind
	}
	return KindInfrastructure
}

// classify converts store and context failures into infrastructure errors
// and passes domain errors through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var bErr *Error
	if errors.As(err, &bErr) {
		return bErr
	}
	reason := ""
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "The booking service timed out. Please retry."
	}
	return &Error{Kind: KindInfrastructure, Reason: reason, Err: err}
}

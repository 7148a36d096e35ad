// Package booking implements seat inventory, ticket issuance and the
// booking coordinator for scheduled train services.  This file defines
// the error taxonomy shared by the components.  These sentinel values
// let the handler layer map failures onto HTTP statuses
// deterministically instead of parsing message strings.
package booking

import "errors"

// ErrCapacityExceeded is returned by a seat reservation when the fare
// class has no seats left.  It is recoverable: the coordinator reacts
// by searching for an alternative schedule on the same route.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrScheduleNotBookable is returned when the schedule's status
// forbids new reservations (cancelled, completed, delayed or
// deactivated).  Handlers should translate this into an HTTP 409.
var ErrScheduleNotBookable = errors.New("schedule not bookable")

// ErrInvalidTransition indicates caller misuse of the ticket state
// machine, such as confirming a ticket that is not RESERVED.
// Handlers should translate this into an HTTP 409.
var ErrInvalidTransition = errors.New("invalid ticket transition")

// ErrCancellationWindowClosed is a policy rejection: the schedule has
// already departed, so the ticket can no longer be cancelled.
var ErrCancellationWindowClosed = errors.New("cancellation window closed")

// ErrRetryExhausted is returned when the bounded optimistic retry
// loop around the seat counter keeps losing to concurrent writers.
// It is transient; callers may retry the whole booking attempt.
var ErrRetryExhausted = errors.New("concurrency retry exhausted")

// ErrInvariantViolation reports a caller bug that would break the
// occupied <= total contract, such as releasing a seat that was never
// reserved.
var ErrInvariantViolation = errors.New("seat accounting invariant violation")

// ErrScheduleNotFound indicates an unknown schedule id, or a fare
// class with no allotment on the schedule.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrTicketNotFound indicates an unknown ticket id.
var ErrTicketNotFound = errors.New("ticket not found")

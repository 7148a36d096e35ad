package model

import "time"

// SeatHold is the value returned by a successful seat reservation.
// It represents one provisional, capacity-decrementing claim on a
// seat.  The token is opaque and is persisted on the ticket created
// from the hold so clients can correlate the two.
type SeatHold struct {
    ScheduleID uint64    // schedule the seat was taken on
    FareClass  string    // fare class the seat was taken from
    Token      string    // random hex token for correlation
    HeldAt     time.Time // when the hold was taken (UTC)
}

// Suggestion points at an alternative schedule on the same route that
// still has seats in the requested fare class.  It is attached to a
// capacity rejection so the caller can offer the passenger the next
// feasible departure without auto-booking it.
type Suggestion struct {
    ScheduleID  uint64    `json:"schedule_id"`
    ServiceCode string    `json:"service_code"`
    DepartsAt   time.Time `json:"departs_at"`
}

// Rejection describes a booking attempt that could not be seated.
// Suggestion is nil when no later schedule on the route qualifies.
type Rejection struct {
    Reason     string      `json:"reason"`
    Suggestion *Suggestion `json:"suggestion,omitempty"`
}

// BookingOutcome is the tagged result of a booking attempt: exactly
// one of Ticket or Rejection is set.  Capacity exhaustion is a domain
// outcome, not an error, so it travels in the result value.
type BookingOutcome struct {
    Ticket    *Ticket
    Rejection *Rejection
}

// Rejected reports whether the attempt ended without a ticket.
func (o *BookingOutcome) Rejected() bool { return o.Rejection != nil }

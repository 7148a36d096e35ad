package model

import "time"

// TicketStatus enumerates the states of a ticket's lifecycle.
// Tickets are created RESERVED by a successful seat reservation, move
// to CONFIRMED when payment completes (external trigger), and to
// CANCELLED by explicit cancellation, which returns the seat to its
// fare class allotment.
type TicketStatus string

const (
    TicketReserved  TicketStatus = "RESERVED"
    TicketConfirmed TicketStatus = "CONFIRMED"
    TicketCancelled TicketStatus = "CANCELLED"
)

// Ticket records one issued seat claim on a schedule.  A ticket is
// always bound to a prior successful inventory hold; the hold token
// generated at reservation time is kept for client correlation.
//
// Fields:
//  ID          – primary key identifier.
//  PassengerID – user who holds the ticket.
//  ScheduleID  – schedule the seat belongs to.
//  FareClass   – fare class the seat was taken from.
//  Status      – lifecycle state (see TicketStatus).
//  HoldToken   – opaque token issued when the seat was reserved.
//  IssuedAt    – when the ticket was created.
//  UpdatedAt   – last state change.
type Ticket struct {
    ID          uint64       // tickets.id
    PassengerID uint64       // tickets.passenger_id
    ScheduleID  uint64       // tickets.schedule_id
    FareClass   string       // tickets.fare_class
    Status      TicketStatus // tickets.status
    HoldToken   string       // tickets.hold_token
    IssuedAt    time.Time    // tickets.issued_at
    UpdatedAt   time.Time    // tickets.updated_at
}

// Terminal reports whether the ticket can no longer change state.
func (t *Ticket) Terminal() bool { return t.Status == TicketCancelled }

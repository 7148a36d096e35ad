package booking

import (
	"context"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// Ledger owns ticket records and their state machine
// (RESERVED -> CONFIRMED / CANCELLED).  The ledger never touches the
// seat counters on creation: callers must hold a successful seat
// reservation first.  Cancellation is the one place where the ledger
// reaches back into inventory, returning the seat it held.
type Ledger struct {
	tickets   TicketStore
	schedules ScheduleStore
	inventory *Inventory
	now       func() time.Time
}

// NewLedger builds a Ledger over the given stores and inventory.
func NewLedger(tickets TicketStore, schedules ScheduleStore, inventory *Inventory) *Ledger {
	if tickets == nil || schedules == nil || inventory == nil {
		panic("nil dependency passed to NewLedger")
	}
	return &Ledger{
		tickets:   tickets,
		schedules: schedules,
		inventory: inventory,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create issues a ticket in RESERVED state bound to a prior
// successful seat hold.  The hold token is persisted on the ticket so
// clients can correlate the reservation with the issued ticket.
func (l *Ledger) Create(ctx context.Context, passengerID uint64, hold *model.SeatHold) (*model.Ticket, error) {
	t := &model.Ticket{
		PassengerID: passengerID,
		ScheduleID:  hold.ScheduleID,
		FareClass:   hold.FareClass,
		Status:      model.TicketReserved,
		HoldToken:   hold.Token,
		IssuedAt:    l.now(),
	}
	if err := l.tickets.CreateTicket(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Confirm moves a RESERVED ticket to CONFIRMED.  The seat was already
// committed at reservation time, so no inventory change happens here.
// Confirming a ticket in any other state is ErrInvalidTransition.
func (l *Ledger) Confirm(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	ok, err := l.tickets.TransitionTicket(ctx, ticketID, model.TicketReserved, model.TicketConfirmed)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Distinguish an unknown ticket from one in the wrong state.
		if _, err := l.tickets.Ticket(ctx, ticketID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}
	return l.tickets.Ticket(ctx, ticketID)
}

// Cancel moves a RESERVED or CONFIRMED ticket to CANCELLED and
// releases the held seat back to its fare class.  Cancelling an
// already-CANCELLED ticket is a no-op returning the existing record,
// without touching inventory again.  Once the schedule has departed
// the cancellation window is closed and the request is refused.
func (l *Ledger) Cancel(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	t, err := l.tickets.Ticket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.Status == model.TicketCancelled {
		return t, nil
	}
	sched, err := l.schedules.Schedule(ctx, t.ScheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Departed(l.now()) {
		return nil, ErrCancellationWindowClosed
	}
	ok, err := l.tickets.TransitionTicket(ctx, ticketID, t.Status, model.TicketCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race on the same ticket.  If the winner already
		// cancelled it, the seat has been released once; report the
		// terminal record as the idempotent outcome.
		cur, err := l.tickets.Ticket(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if cur.Status == model.TicketCancelled {
			return cur, nil
		}
		return nil, ErrInvalidTransition
	}
	if err := l.inventory.ReleaseSeat(ctx, t.ScheduleID, t.FareClass); err != nil {
		return nil, err
	}
	return l.tickets.Ticket(ctx, ticketID)
}

// Ticket loads a single ticket record.
func (l *Ledger) Ticket(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	return l.tickets.Ticket(ctx, ticketID)
}

package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// rejectionCapacity is the reason string attached to capacity
// rejections surfaced to clients.
const rejectionCapacity = "capacity_exceeded"

// Coordinator is the single entry point for ticket-issuing use cases.
// It orchestrates reserve/confirm/cancel across the inventory, the
// ledger and the fallback resolver.  It is also the only component
// allowed to convert a low-level failure into a compensating action:
// when ledger creation fails after a successful reserve, the seat is
// released before the error surfaces, so no seat is left stranded.
type Coordinator struct {
	inventory *Inventory
	ledger    *Ledger
	fallback  *FallbackResolver
	occupancy *OccupancyTracker
	schedules ScheduleStore
}

// NewCoordinator wires the booking components together.
func NewCoordinator(inventory *Inventory, ledger *Ledger, fallback *FallbackResolver, occupancy *OccupancyTracker, schedules ScheduleStore) *Coordinator {
	if inventory == nil || ledger == nil || fallback == nil || occupancy == nil || schedules == nil {
		panic("nil dependency passed to NewCoordinator")
	}
	return &Coordinator{
		inventory: inventory,
		ledger:    ledger,
		fallback:  fallback,
		occupancy: occupancy,
		schedules: schedules,
	}
}

// BookTicket attempts to seat the passenger on the schedule in the
// given fare class.  The outcome is tagged: either a RESERVED ticket,
// or a rejection carrying the next feasible alternative on the route
// (when one exists).  Capacity exhaustion is a domain outcome, not an
// error; every other failure is returned as an error.
func (c *Coordinator) BookTicket(ctx context.Context, passengerID, scheduleID uint64, fareClass string) (*model.BookingOutcome, error) {
	hold, err := c.inventory.ReserveSeat(ctx, scheduleID, fareClass)
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			return c.reject(ctx, scheduleID, fareClass)
		}
		return nil, err
	}
	ticket, err := c.ledger.Create(ctx, passengerID, hold)
	if err != nil {
		// The seat increment already committed; give it back before
		// surfacing the ledger failure.
		if relErr := c.inventory.ReleaseSeat(ctx, scheduleID, fareClass); relErr != nil {
			return nil, fmt.Errorf("ticket create failed: %w (compensating release failed: %v)", err, relErr)
		}
		return nil, fmt.Errorf("ticket create failed: %w", err)
	}
	return &model.BookingOutcome{Ticket: ticket}, nil
}

// reject builds the capacity rejection, consulting the fallback
// resolver for a substitute schedule.
func (c *Coordinator) reject(ctx context.Context, scheduleID uint64, fareClass string) (*model.BookingOutcome, error) {
	sched, err := c.schedules.Schedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	suggestion, err := c.fallback.NextAvailable(ctx, sched, fareClass)
	if err != nil {
		return nil, err
	}
	return &model.BookingOutcome{
		Rejection: &model.Rejection{Reason: rejectionCapacity, Suggestion: suggestion},
	}, nil
}

// ConfirmTicket finalises a reserved ticket.  No inventory change:
// the seat was committed at reservation time.
func (c *Coordinator) ConfirmTicket(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	return c.ledger.Confirm(ctx, ticketID)
}

// CancelTicket cancels a ticket and returns its seat to the fare
// class allotment.
func (c *Coordinator) CancelTicket(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	return c.ledger.Cancel(ctx, ticketID)
}

// Availability reports current occupancy for one (schedule, fare
// class) pair.
func (c *Coordinator) Availability(ctx context.Context, scheduleID uint64, fareClass string) (*OccupancyReport, error) {
	return c.occupancy.Report(ctx, scheduleID, fareClass)
}

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

func newCoordinator(store *memStore) *Coordinator {
	inv := NewInventory(store, store)
	ledger := NewLedger(store, store, inv)
	fallback := NewFallbackResolver(store, store)
	tracker := NewOccupancyTracker(inv)
	return NewCoordinator(inv, ledger, fallback, tracker, store)
}

// The end-to-end scenario from the booking contract: capacity 2 on
// H1 — A and B get seats, C is rejected while occupancy stays at 2,
// cancelling A frees one seat, and D takes it.
func TestCoordinatorCapacityScenario(t *testing.T) {
	base := time.Now().UTC().Add(3 * time.Hour)
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "H1", base))
	store.addCapacity(1, tourist, 0, 2)
	co := newCoordinator(store)
	ctx := context.Background()

	a, err := co.BookTicket(ctx, 100, 1, tourist)
	if err != nil || a.Rejected() {
		t.Fatalf("passenger A: outcome=%+v err=%v", a, err)
	}
	b, err := co.BookTicket(ctx, 101, 1, tourist)
	if err != nil || b.Rejected() {
		t.Fatalf("passenger B: outcome=%+v err=%v", b, err)
	}
	if got := store.occupied(1, tourist); got != 2 {
		t.Fatalf("occupied = %d, want 2", got)
	}

	c, err := co.BookTicket(ctx, 102, 1, tourist)
	if err != nil {
		t.Fatalf("passenger C: %v", err)
	}
	if !c.Rejected() {
		t.Fatalf("passenger C should be rejected, got ticket %+v", c.Ticket)
	}
	if c.Rejection.Suggestion != nil {
		t.Fatalf("no alternative exists, suggestion = %+v", c.Rejection.Suggestion)
	}
	if got := store.occupied(1, tourist); got != 2 {
		t.Fatalf("rejected booking mutated occupancy: %d", got)
	}

	if _, err := co.CancelTicket(ctx, a.Ticket.ID); err != nil {
		t.Fatalf("cancel A: %v", err)
	}
	if got := store.occupied(1, tourist); got != 1 {
		t.Fatalf("occupied = %d after cancel, want 1", got)
	}

	d, err := co.BookTicket(ctx, 103, 1, tourist)
	if err != nil || d.Rejected() {
		t.Fatalf("passenger D: outcome=%+v err=%v", d, err)
	}
	if got := store.occupied(1, tourist); got != 2 {
		t.Fatalf("occupied = %d, want 2", got)
	}
}

func TestCoordinatorRejectionCarriesSuggestion(t *testing.T) {
	base := time.Now().UTC().Add(3 * time.Hour)
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "H1", base))
	store.addCapacity(1, tourist, 2, 2)
	store.addSchedule(bookableSchedule(2, 10, "H2", base.Add(time.Hour)))
	store.addCapacity(2, tourist, 0, 4)
	co := newCoordinator(store)

	out, err := co.BookTicket(context.Background(), 100, 1, tourist)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	if !out.Rejected() {
		t.Fatalf("expected rejection, got %+v", out.Ticket)
	}
	sug := out.Rejection.Suggestion
	if sug == nil || sug.ScheduleID != 2 || sug.ServiceCode != "H2" {
		t.Fatalf("suggestion = %+v, want schedule 2 (H2)", sug)
	}
	// The suggestion is advice only; nothing was booked on H2.
	if got := store.occupied(2, tourist); got != 0 {
		t.Fatalf("suggestion auto-booked a seat: occupied = %d", got)
	}
}

// A collaborator failure after the seat increment must trigger a
// compensating release: the seat may not stay stranded.
func TestCoordinatorCompensatesLedgerFailure(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "H1", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 0, 2)
	store.createErr = errors.New("ledger write refused")
	co := newCoordinator(store)

	_, err := co.BookTicket(context.Background(), 100, 1, tourist)
	if err == nil {
		t.Fatalf("expected error from ledger failure")
	}
	if got := store.occupied(1, tourist); got != 0 {
		t.Fatalf("seat stranded after failed create: occupied = %d", got)
	}

	// Once the ledger recovers the seat is bookable again.
	store.createErr = nil
	out, err := co.BookTicket(context.Background(), 100, 1, tourist)
	if err != nil || out.Rejected() {
		t.Fatalf("booking after recovery: outcome=%+v err=%v", out, err)
	}
}

func TestCoordinatorNotBookableIsError(t *testing.T) {
	store := newMemStore()
	s := bookableSchedule(1, 10, "H1", time.Now().UTC().Add(time.Hour))
	s.Status = model.ScheduleCompleted
	store.addSchedule(s)
	store.addCapacity(1, tourist, 0, 2)
	co := newCoordinator(store)

	_, err := co.BookTicket(context.Background(), 100, 1, tourist)
	if !errors.Is(err, ErrScheduleNotBookable) {
		t.Fatalf("got %v, want ErrScheduleNotBookable", err)
	}
}

func TestCoordinatorConfirmFlow(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "H1", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 0, 2)
	co := newCoordinator(store)
	ctx := context.Background()

	out, err := co.BookTicket(ctx, 100, 1, tourist)
	if err != nil || out.Rejected() {
		t.Fatalf("book: outcome=%+v err=%v", out, err)
	}
	confirmed, err := co.ConfirmTicket(ctx, out.Ticket.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != model.TicketConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", confirmed.Status)
	}
	// Confirmation commits nothing new to inventory.
	if got := store.occupied(1, tourist); got != 1 {
		t.Fatalf("occupied = %d, want 1", got)
	}
}

func TestCoordinatorAvailability(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "H1", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 1, 4)
	co := newCoordinator(store)

	rep, err := co.Availability(context.Background(), 1, tourist)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if rep.Occupied != 1 || rep.Total != 4 || rep.Percent != 25.0 {
		t.Fatalf("report = %+v", rep)
	}
}

package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// reserveAttempts bounds the optimistic retry loop around the seat
// counter.  Each attempt re-reads the counter, so a loser only keeps
// retrying while other writers are actively landing updates.
const reserveAttempts = 5

// Inventory owns the per-(schedule, fare class) seat counters.  The
// check-then-increment in ReserveSeat is the single concurrency-
// critical operation of the system: it is performed as a versioned
// compare-and-swap against the capacity store so the check and the
// update are one atomic step even across service instances.
type Inventory struct {
	schedules ScheduleStore
	capacity  CapacityStore
	attempts  int
}

// NewInventory builds an Inventory over the given stores.
func NewInventory(schedules ScheduleStore, capacity CapacityStore) *Inventory {
	if schedules == nil || capacity == nil {
		panic("nil store passed to NewInventory")
	}
	return &Inventory{schedules: schedules, capacity: capacity, attempts: reserveAttempts}
}

// ReserveSeat claims one seat in the fare class of the schedule.  It
// succeeds only when the schedule is bookable and occupied < total,
// incrementing the occupied count atomically.  On success it returns
// a SeatHold carrying an opaque token.  Failure modes:
// ErrScheduleNotBookable when the status forbids booking,
// ErrCapacityExceeded when the class is full, and ErrRetryExhausted
// when the compare-and-swap keeps losing to concurrent writers.
func (inv *Inventory) ReserveSeat(ctx context.Context, scheduleID uint64, fareClass string) (*model.SeatHold, error) {
	sched, err := inv.schedules.Schedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if !sched.Bookable() {
		return nil, ErrScheduleNotBookable
	}
	// Generate the token before touching the counter: once the
	// increment commits there must be no failure path left that
	// would strand the seat.
	token, err := holdToken(32)
	if err != nil {
		return nil, err
	}
	for i := 0; i < inv.attempts; i++ {
		snap, err := inv.capacity.Capacity(ctx, scheduleID, fareClass)
		if err != nil {
			return nil, err
		}
		if snap.Occupied >= snap.Total {
			return nil, ErrCapacityExceeded
		}
		ok, err := inv.capacity.CompareAndIncrement(ctx, scheduleID, fareClass, snap.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			return &model.SeatHold{
				ScheduleID: scheduleID,
				FareClass:  fareClass,
				Token:      token,
				HeldAt:     time.Now().UTC(),
			}, nil
		}
		// Version moved: another request changed the counter
		// between our read and write.  Re-read and try again.
	}
	return nil, ErrRetryExhausted
}

// ReleaseSeat returns one previously reserved seat to the fare class.
// It must only be paired with a prior successful reserve; releasing
// below zero is a caller bug reported as ErrInvariantViolation rather
// than silently floored.
func (inv *Inventory) ReleaseSeat(ctx context.Context, scheduleID uint64, fareClass string) error {
	for i := 0; i < inv.attempts; i++ {
		snap, err := inv.capacity.Capacity(ctx, scheduleID, fareClass)
		if err != nil {
			return err
		}
		if snap.Occupied == 0 {
			return ErrInvariantViolation
		}
		ok, err := inv.capacity.CompareAndDecrement(ctx, scheduleID, fareClass, snap.Version)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrRetryExhausted
}

// AvailableSeats returns a read-only count of unsold seats.
func (inv *Inventory) AvailableSeats(ctx context.Context, scheduleID uint64, fareClass string) (uint32, error) {
	snap, err := inv.capacity.Capacity(ctx, scheduleID, fareClass)
	if err != nil {
		return 0, err
	}
	return snap.Available(), nil
}

// Snapshot exposes the raw counter state for read-only observers such
// as the occupancy tracker.
func (inv *Inventory) Snapshot(ctx context.Context, scheduleID uint64, fareClass string) (CapacitySnapshot, error) {
	return inv.capacity.Capacity(ctx, scheduleID, fareClass)
}

// holdToken generates a random hexadecimal string of n bytes (2n hex
// characters) for seat hold correlation.
func holdToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

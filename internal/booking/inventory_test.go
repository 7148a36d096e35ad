package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

const tourist = "Tourist"

func TestReserveSeatHappyPath(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "IC-101", time.Now().UTC().Add(2*time.Hour)))
	store.addCapacity(1, tourist, 0, 3)
	inv := NewInventory(store, store)

	hold, err := inv.ReserveSeat(context.Background(), 1, tourist)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if hold.Token == "" {
		t.Fatalf("expected a hold token")
	}
	if hold.ScheduleID != 1 || hold.FareClass != tourist {
		t.Fatalf("hold bound to wrong key: %+v", hold)
	}
	if got := store.occupied(1, tourist); got != 1 {
		t.Fatalf("occupied = %d, want 1", got)
	}
}

func TestReserveSeatNotBookableStatuses(t *testing.T) {
	store := newMemStore()
	departs := time.Now().UTC().Add(time.Hour)
	for id, status := range map[uint64]string{
		2: "CANCELLED",
		3: "COMPLETED",
		4: "DELAYED",
	} {
		s := bookableSchedule(id, 10, "IC-101", departs)
		s.Status = scheduleStatus(status)
		store.addSchedule(s)
		store.addCapacity(id, tourist, 0, 5)
	}
	inv := NewInventory(store, store)
	for _, id := range []uint64{2, 3, 4} {
		if _, err := inv.ReserveSeat(context.Background(), id, tourist); !errors.Is(err, ErrScheduleNotBookable) {
			t.Fatalf("schedule %d: got %v, want ErrScheduleNotBookable", id, err)
		}
	}
	if got := store.occupied(2, tourist); got != 0 {
		t.Fatalf("occupied mutated on refused reserve: %d", got)
	}
}

func TestReserveSeatUnknownSchedule(t *testing.T) {
	store := newMemStore()
	inv := NewInventory(store, store)
	if _, err := inv.ReserveSeat(context.Background(), 99, tourist); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("got %v, want ErrScheduleNotFound", err)
	}
}

// With capacity K and N concurrent reserves on the same key, exactly
// K succeed and the rest fail with capacity exceeded; the counter
// never exceeds K.
func TestReserveSeatConcurrentExactCapacity(t *testing.T) {
	const (
		capacityK = 5
		requests  = 40
	)
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "IC-101", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 0, capacityK)
	inv := NewInventory(store, store)
	// Plenty of attempts so contention losers keep retrying instead of
	// reporting exhaustion in this test.
	inv.attempts = requests * 2

	var wg sync.WaitGroup
	results := make(chan error, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := inv.ReserveSeat(context.Background(), 1, tourist)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	won, full := 0, 0
	for err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrCapacityExceeded):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != capacityK {
		t.Fatalf("winners = %d, want %d", won, capacityK)
	}
	if full != requests-capacityK {
		t.Fatalf("capacity failures = %d, want %d", full, requests-capacityK)
	}
	if got := store.occupied(1, tourist); got != capacityK {
		t.Fatalf("occupied = %d, want %d", got, capacityK)
	}
}

func TestReserveThenReleaseRoundTrip(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "IC-101", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 2, 5)
	inv := NewInventory(store, store)
	ctx := context.Background()

	if _, err := inv.ReserveSeat(ctx, 1, tourist); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := inv.ReleaseSeat(ctx, 1, tourist); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if got := store.occupied(1, tourist); got != 2 {
		t.Fatalf("occupied = %d, want pre-reserve value 2", got)
	}
}

func TestReleaseSeatBelowZeroIsInvariantViolation(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "IC-101", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 0, 5)
	inv := NewInventory(store, store)

	if err := inv.ReleaseSeat(context.Background(), 1, tourist); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("got %v, want ErrInvariantViolation", err)
	}
	if got := store.occupied(1, tourist); got != 0 {
		t.Fatalf("occupied mutated: %d", got)
	}
}

func TestReserveSeatRetryExhausted(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "IC-101", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 0, 5)
	inv := NewInventory(store, contested{store})

	if _, err := inv.ReserveSeat(context.Background(), 1, tourist); !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("got %v, want ErrRetryExhausted", err)
	}
}

func TestAvailableSeats(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "IC-101", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 3, 5)
	inv := NewInventory(store, store)

	n, err := inv.AvailableSeats(context.Background(), 1, tourist)
	if err != nil {
		t.Fatalf("available failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("available = %d, want 2", n)
	}
}

// contested wraps a capacity store and makes every snapshot report a
// stale version, so each compare-and-swap loses.
type contested struct {
	*memStore
}

func (c contested) Capacity(ctx context.Context, scheduleID uint64, fareClass string) (CapacitySnapshot, error) {
	snap, err := c.memStore.Capacity(ctx, scheduleID, fareClass)
	if err != nil {
		return snap, err
	}
	snap.Version += 1000
	return snap, nil
}

func scheduleStatus(s string) model.ScheduleStatus { return model.ScheduleStatus(s) }

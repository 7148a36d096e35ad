package booking

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

func TestFallbackPicksEarliestLaterDeparture(t *testing.T) {
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	store := newMemStore()
	h1 := bookableSchedule(1, 10, "H1", base)
	store.addSchedule(h1)
	store.addCapacity(1, tourist, 2, 2) // full
	// Later on the same route, seats available.
	store.addSchedule(bookableSchedule(2, 10, "H2", base.Add(2*time.Hour)))
	store.addCapacity(2, tourist, 0, 4)
	// Even later, also available; must not win.
	store.addSchedule(bookableSchedule(3, 10, "H3", base.Add(4*time.Hour)))
	store.addCapacity(3, tourist, 0, 4)
	// Different route, earlier than H2; must be ignored.
	store.addSchedule(bookableSchedule(4, 11, "X1", base.Add(time.Hour)))
	store.addCapacity(4, tourist, 0, 4)

	r := NewFallbackResolver(store, store)
	sug, err := r.NextAvailable(context.Background(), &h1, tourist)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sug == nil || sug.ScheduleID != 2 {
		t.Fatalf("suggestion = %+v, want schedule 2", sug)
	}
	if sug.ServiceCode != "H2" || !sug.DepartsAt.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("suggestion fields wrong: %+v", sug)
	}
}

func TestFallbackTieBreakOnServiceCode(t *testing.T) {
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	store := newMemStore()
	h1 := bookableSchedule(1, 10, "H1", base)
	store.addSchedule(h1)
	store.addCapacity(1, tourist, 2, 2)
	later := base.Add(time.Hour)
	store.addSchedule(bookableSchedule(2, 10, "B-200", later))
	store.addCapacity(2, tourist, 0, 4)
	store.addSchedule(bookableSchedule(3, 10, "A-100", later))
	store.addCapacity(3, tourist, 0, 4)

	r := NewFallbackResolver(store, store)
	sug, err := r.NextAvailable(context.Background(), &h1, tourist)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sug == nil || sug.ServiceCode != "A-100" {
		t.Fatalf("suggestion = %+v, want service A-100", sug)
	}
}

func TestFallbackSkipsUnusableCandidates(t *testing.T) {
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	store := newMemStore()
	h1 := bookableSchedule(1, 10, "H1", base)
	store.addSchedule(h1)
	store.addCapacity(1, tourist, 2, 2)

	cancelled := bookableSchedule(2, 10, "H2", base.Add(time.Hour))
	cancelled.Status = model.ScheduleCancelled
	store.addSchedule(cancelled)
	store.addCapacity(2, tourist, 0, 4)

	completed := bookableSchedule(3, 10, "H3", base.Add(time.Hour))
	completed.Status = model.ScheduleCompleted
	store.addSchedule(completed)
	store.addCapacity(3, tourist, 0, 4)

	// Later but full in the requested class.
	store.addSchedule(bookableSchedule(4, 10, "H4", base.Add(2*time.Hour)))
	store.addCapacity(4, tourist, 4, 4)

	// No Tourist allotment at all.
	store.addSchedule(bookableSchedule(5, 10, "H5", base.Add(3*time.Hour)))
	store.addCapacity(5, "Preferred", 0, 4)

	// A delayed schedule further out still qualifies as a suggestion.
	delayed := bookableSchedule(6, 10, "H6", base.Add(5*time.Hour))
	delayed.Status = model.ScheduleDelayed
	store.addSchedule(delayed)
	store.addCapacity(6, tourist, 0, 4)

	r := NewFallbackResolver(store, store)
	sug, err := r.NextAvailable(context.Background(), &h1, tourist)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sug == nil || sug.ScheduleID != 6 {
		t.Fatalf("suggestion = %+v, want delayed schedule 6", sug)
	}
}

func TestFallbackNoCandidate(t *testing.T) {
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	store := newMemStore()
	h1 := bookableSchedule(1, 10, "H1", base)
	store.addSchedule(h1)
	store.addCapacity(1, tourist, 2, 2)
	// Earlier departure on the same route never qualifies.
	store.addSchedule(bookableSchedule(2, 10, "H0", base.Add(-time.Hour)))
	store.addCapacity(2, tourist, 0, 4)

	r := NewFallbackResolver(store, store)
	sug, err := r.NextAvailable(context.Background(), &h1, tourist)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if sug != nil {
		t.Fatalf("suggestion = %+v, want nil", sug)
	}
}

// The resolver is a pure query: resolving must not change any
// counter.
func TestFallbackDoesNotMutateInventory(t *testing.T) {
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	store := newMemStore()
	h1 := bookableSchedule(1, 10, "H1", base)
	store.addSchedule(h1)
	store.addCapacity(1, tourist, 2, 2)
	store.addSchedule(bookableSchedule(2, 10, "H2", base.Add(time.Hour)))
	store.addCapacity(2, tourist, 1, 4)

	r := NewFallbackResolver(store, store)
	if _, err := r.NextAvailable(context.Background(), &h1, tourist); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got := store.occupied(2, tourist); got != 1 {
		t.Fatalf("resolver mutated inventory: occupied = %d", got)
	}
}

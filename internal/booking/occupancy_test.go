package booking

import (
	"context"
	"testing"
	"time"
)

func trackerFixture(t *testing.T, occupied, total uint32) *OccupancyTracker {
	t.Helper()
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "IC-101", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, occupied, total)
	return NewOccupancyTracker(NewInventory(store, store))
}

func TestOccupancyPercent(t *testing.T) {
	tr := trackerFixture(t, 45, 60)
	pct, err := tr.Percent(context.Background(), 1, tourist)
	if err != nil {
		t.Fatalf("percent failed: %v", err)
	}
	if pct != 75.0 {
		t.Fatalf("percent = %.2f, want 75.00", pct)
	}
}

func TestOccupancyClassification(t *testing.T) {
	cases := []struct {
		name         string
		occupied     uint32
		total        uint32
		nearFull     bool
		lowOccupancy bool
	}{
		{"empty", 0, 10, false, true},
		{"just below low threshold", 2, 10, false, true},
		{"at low threshold", 3, 10, false, false},
		{"mid", 5, 10, false, false},
		{"at near-full threshold", 9, 10, true, false},
		{"full", 10, 10, true, false},
		{"zero capacity reports full", 0, 0, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := trackerFixture(t, tc.occupied, tc.total)
			rep, err := tr.Report(context.Background(), 1, tourist)
			if err != nil {
				t.Fatalf("report failed: %v", err)
			}
			if rep.NearFull != tc.nearFull {
				t.Fatalf("near_full = %v, want %v", rep.NearFull, tc.nearFull)
			}
			if rep.LowOccupancy != tc.lowOccupancy {
				t.Fatalf("low_occupancy = %v, want %v", rep.LowOccupancy, tc.lowOccupancy)
			}
		})
	}
}

// The tracker derives from live counters; a mutation between two
// reads must show up immediately.
func TestOccupancyNeverCaches(t *testing.T) {
	store := newMemStore()
	store.addSchedule(bookableSchedule(1, 10, "IC-101", time.Now().UTC().Add(time.Hour)))
	store.addCapacity(1, tourist, 0, 4)
	inv := NewInventory(store, store)
	tr := NewOccupancyTracker(inv)
	ctx := context.Background()

	before, err := tr.Percent(ctx, 1, tourist)
	if err != nil {
		t.Fatalf("percent failed: %v", err)
	}
	if before != 0 {
		t.Fatalf("percent = %.2f, want 0", before)
	}
	if _, err := inv.ReserveSeat(ctx, 1, tourist); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	after, err := tr.Percent(ctx, 1, tourist)
	if err != nil {
		t.Fatalf("percent failed: %v", err)
	}
	if after != 25.0 {
		t.Fatalf("percent = %.2f, want 25.00", after)
	}
}

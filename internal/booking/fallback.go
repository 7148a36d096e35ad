package booking

import (
	"context"
	"sort"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// FallbackResolver finds an alternative schedule on the same route
// when the requested one is full.  It is a pure query: it never
// mutates inventory, and the caller surfaces the suggestion without
// auto-booking it.
type FallbackResolver struct {
	schedules ScheduleStore
	capacity  CapacityStore
}

// NewFallbackResolver builds a resolver over the given stores.
func NewFallbackResolver(schedules ScheduleStore, capacity CapacityStore) *FallbackResolver {
	if schedules == nil || capacity == nil {
		panic("nil store passed to NewFallbackResolver")
	}
	return &FallbackResolver{schedules: schedules, capacity: capacity}
}

// NextAvailable returns the best substitute for the full schedule in
// the given fare class: among schedules on the same route that depart
// strictly later and are neither cancelled nor completed, the one
// with the earliest departure that still has seats, ties broken by
// lexicographically smallest service code.  It returns nil when no
// candidate qualifies.
func (r *FallbackResolver) NextAvailable(ctx context.Context, original *model.Schedule, fareClass string) (*model.Suggestion, error) {
	candidates, err := r.schedules.SchedulesByRouteAfter(ctx, original.RouteID, original.DepartsAt)
	if err != nil {
		return nil, err
	}
	eligible := candidates[:0]
	for _, s := range candidates {
		if s.Status == model.ScheduleCancelled || s.Status == model.ScheduleCompleted {
			continue
		}
		if !s.DepartsAt.After(original.DepartsAt) {
			continue
		}
		eligible = append(eligible, s)
	}
	// The store orders results, but the tie-break rule belongs to the
	// resolver, so sort here as well.
	sort.SliceStable(eligible, func(i, j int) bool {
		if !eligible[i].DepartsAt.Equal(eligible[j].DepartsAt) {
			return eligible[i].DepartsAt.Before(eligible[j].DepartsAt)
		}
		return eligible[i].ServiceCode < eligible[j].ServiceCode
	})
	for _, s := range eligible {
		snap, err := r.capacity.Capacity(ctx, s.ID, fareClass)
		if err != nil {
			// A schedule without an allotment in this fare class is
			// simply not a candidate.
			if err == ErrScheduleNotFound {
				continue
			}
			return nil, err
		}
		if snap.Available() > 0 {
			return &model.Suggestion{
				ScheduleID:  s.ID,
				ServiceCode: s.ServiceCode,
				DepartsAt:   s.DepartsAt,
			}, nil
		}
	}
	return nil, nil
}

package booking

import (
	"context"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// CapacitySnapshot is a point-in-time view of one (schedule, fare
// class) counter together with the version observed.  The version is
// the optimistic-lock handle for the compare-and-swap primitives.
type CapacitySnapshot struct {
	ScheduleID uint64
	FareClass  string
	Occupied   uint32
	Total      uint32
	Version    uint64
}

// Available returns the number of unsold seats in the snapshot.
func (s CapacitySnapshot) Available() uint32 {
	if s.Occupied >= s.Total {
		return 0
	}
	return s.Total - s.Occupied
}

// CapacityStore is the persistence collaborator for seat counters.
// The store, not an in-process lock, is the authority for the atomic
// check-and-update: multiple service instances mutate the same row
// concurrently.  Both conditional mutations must be single atomic
// statements that only apply when the stored version still matches
// and the occupied/total bound holds; they report false when the row
// changed underneath the caller.
//
// Capacity returns ErrScheduleNotFound when no allotment row exists
// for the pair.
type CapacityStore interface {
	Capacity(ctx context.Context, scheduleID uint64, fareClass string) (CapacitySnapshot, error)
	CompareAndIncrement(ctx context.Context, scheduleID uint64, fareClass string, version uint64) (bool, error)
	CompareAndDecrement(ctx context.Context, scheduleID uint64, fareClass string, version uint64) (bool, error)
}

// ScheduleStore loads schedules for status checks and for the
// fallback search.  SchedulesByRouteAfter returns schedules on the
// route departing strictly later than the given time, ordered by
// departure time then service code.  Schedule returns
// ErrScheduleNotFound for unknown ids.
type ScheduleStore interface {
	Schedule(ctx context.Context, id uint64) (*model.Schedule, error)
	SchedulesByRouteAfter(ctx context.Context, routeID uint64, after time.Time) ([]model.Schedule, error)
}

// TicketStore persists ticket records.  TransitionTicket applies the
// status change only when the ticket is currently in the from state
// and reports whether a row was updated, so concurrent transitions on
// the same ticket cannot both take effect.  Ticket returns
// ErrTicketNotFound for unknown ids.
type TicketStore interface {
	CreateTicket(ctx context.Context, t *model.Ticket) error
	Ticket(ctx context.Context, id uint64) (*model.Ticket, error)
	TransitionTicket(ctx context.Context, id uint64, from, to model.TicketStatus) (bool, error)
}

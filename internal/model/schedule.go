package model

import "time"

// ScheduleStatus enumerates the operational states of a scheduled
// service.  Only SCHEDULED and RUNNING schedules accept new
// reservations; the remaining states refuse bookings.
type ScheduleStatus string

const (
    ScheduleScheduled ScheduleStatus = "SCHEDULED" // planned, not yet departed
    ScheduleRunning   ScheduleStatus = "RUNNING"   // en route, still bookable
    ScheduleDelayed   ScheduleStatus = "DELAYED"   // delayed, selling suspended
    ScheduleCancelled ScheduleStatus = "CANCELLED" // cancelled by operations
    ScheduleCompleted ScheduleStatus = "COMPLETED" // journey finished
)

// Schedule represents one instance of a train service departing at a
// specific time on a route.  Schedules are created by schedule
// planning and transition status as operational events occur.  Seat
// allotments per fare class are tracked separately in
// FareClassCapacity records owned by the schedule.
//
// Fields:
//  ID          – primary key identifier.
//  ServiceCode – public code of the service (e.g. "IC-204").
//  RouteID     – route the service runs on; fallback suggestions are
//                searched within the same route.
//  DepartsAt   – scheduled departure time (UTC).
//  Status      – operational status (see ScheduleStatus).
//  IsActive    – whether the schedule is visible for booking.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Schedule struct {
    ID          uint64         // schedules.id
    ServiceCode string         // schedules.service_code
    RouteID     uint64         // schedules.route_id
    DepartsAt   time.Time      // schedules.departs_at
    Status      ScheduleStatus // schedules.status
    IsActive    bool           // schedules.is_active
    CreatedAt   time.Time      // schedules.created_at
    UpdatedAt   time.Time      // schedules.updated_at
}

// Bookable reports whether the schedule accepts new reservations.
// Only SCHEDULED and RUNNING services sell seats; delayed services
// stop selling until operations moves them back to SCHEDULED.
func (s *Schedule) Bookable() bool {
    switch s.Status {
    case ScheduleScheduled, ScheduleRunning:
        return s.IsActive
    }
    return false
}

// Departed reports whether the departure time has been reached
// relative to now.  Cancellation requests arriving at or after
// departure are refused.
func (s *Schedule) Departed(now time.Time) bool {
    return !now.Before(s.DepartsAt)
}

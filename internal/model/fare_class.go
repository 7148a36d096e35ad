package model

import "time"

// FareClassCapacity tracks the aggregate seat allotment for one fare
// class on one schedule.  There is exactly one row per (schedule,
// fare class) pair.  The pair of counters carries the system's
// central invariant: 0 <= Occupied <= Total at all times, checked and
// updated together in a single conditional statement.
//
// Fields:
//  ID         – primary key identifier.
//  ScheduleID – owning schedule.
//  FareClass  – fare class name (e.g. "Tourist", "Preferred").
//  Total      – total seats allotted to this class.
//  Occupied   – seats currently held or sold.
//  Version    – optimistic locking counter; bumped on every
//               occupied-count change.
//  CreatedAt  – timestamp when the row was inserted.
//  UpdatedAt  – timestamp of last modification.
type FareClassCapacity struct {
    ID         uint64    // fare_class_capacities.id
    ScheduleID uint64    // fare_class_capacities.schedule_id
    FareClass  string    // fare_class_capacities.fare_class
    Total      uint32    // fare_class_capacities.total_seats
    Occupied   uint32    // fare_class_capacities.occupied_seats
    Version    uint64    // fare_class_capacities.version
    CreatedAt  time.Time // fare_class_capacities.created_at
    UpdatedAt  time.Time // fare_class_capacities.updated_at
}

// Available returns the number of unsold seats.
func (c *FareClassCapacity) Available() uint32 {
    if c.Occupied >= c.Total {
        return 0
    }
    return c.Total - c.Occupied
}

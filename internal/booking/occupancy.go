package booking

import "context"

// Classification thresholds for reporting.  These are fixed
// constants, not per-call parameters.
const (
	nearFullPercent     = 90.0
	lowOccupancyPercent = 30.0
)

// OccupancyReport is the read-only availability view exposed to
// reporting use cases and the availability endpoint.
type OccupancyReport struct {
	ScheduleID   uint64  `json:"schedule_id"`
	FareClass    string  `json:"fare_class"`
	Occupied     uint32  `json:"occupied"`
	Total        uint32  `json:"total"`
	Percent      float64 `json:"percent"`
	NearFull     bool    `json:"near_full"`
	LowOccupancy bool    `json:"low_occupancy"`
}

// OccupancyTracker derives occupancy percentages from the live seat
// counters.  Every query recomputes from the inventory's current
// state; nothing is cached that could drift from the counters.
type OccupancyTracker struct {
	inventory *Inventory
}

// NewOccupancyTracker builds a tracker observing the given inventory.
func NewOccupancyTracker(inventory *Inventory) *OccupancyTracker {
	if inventory == nil {
		panic("nil inventory passed to NewOccupancyTracker")
	}
	return &OccupancyTracker{inventory: inventory}
}

// Report returns occupancy for one (schedule, fare class) pair.
// A zero-total allotment reports 100% occupied: such a class can
// never seat anyone.
func (t *OccupancyTracker) Report(ctx context.Context, scheduleID uint64, fareClass string) (*OccupancyReport, error) {
	snap, err := t.inventory.Snapshot(ctx, scheduleID, fareClass)
	if err != nil {
		return nil, err
	}
	pct := 100.0
	if snap.Total > 0 {
		pct = float64(snap.Occupied) / float64(snap.Total) * 100.0
	}
	return &OccupancyReport{
		ScheduleID:   scheduleID,
		FareClass:    fareClass,
		Occupied:     snap.Occupied,
		Total:        snap.Total,
		Percent:      pct,
		NearFull:     pct >= nearFullPercent,
		LowOccupancy: pct < lowOccupancyPercent,
	}, nil
}

// Percent returns just the occupancy percentage.
func (t *OccupancyTracker) Percent(ctx context.Context, scheduleID uint64, fareClass string) (float64, error) {
	rep, err := t.Report(ctx, scheduleID, fareClass)
	if err != nil {
		return 0, err
	}
	return rep.Percent, nil
}

// NearFull reports whether the pair is at or above the near-full
// threshold.
func (t *OccupancyTracker) NearFull(ctx context.Context, scheduleID uint64, fareClass string) (bool, error) {
	rep, err := t.Report(ctx, scheduleID, fareClass)
	if err != nil {
		return false, err
	}
	return rep.NearFull, nil
}

// LowOccupancy reports whether the pair is below the low-occupancy
// threshold.
func (t *OccupancyTracker) LowOccupancy(ctx context.Context, scheduleID uint64, fareClass string) (bool, error) {
	rep, err := t.Report(ctx, scheduleID, fareClass)
	if err != nil {
		return false, err
	}
	return rep.LowOccupancy, nil
}

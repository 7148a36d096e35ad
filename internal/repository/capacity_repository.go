package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-seat-reservation/internal/booking"
	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// CapacityRepo persists the per-(schedule, fare class) seat counters.
// It implements booking.CapacityStore.  The conditional UPDATEs here
// are the system's atomic check-and-update: the database applies the
// version check, the bound check and the counter change in one
// statement, which is what makes the counters safe to mutate from
// multiple service instances at once.
type CapacityRepo struct {
	db *sql.DB
}

// NewCapacityRepo constructs a CapacityRepo with the given DB handle.
func NewCapacityRepo(db *sql.DB) *CapacityRepo {
	return &CapacityRepo{db: db}
}

// Capacity reads the current counter state for one pair.  It returns
// booking.ErrScheduleNotFound when the schedule has no allotment in
// the fare class.
func (r *CapacityRepo) Capacity(ctx context.Context, scheduleID uint64, fareClass string) (booking.CapacitySnapshot, error) {
	const q = `SELECT occupied_seats, total_seats, version
               FROM fare_class_capacities
               WHERE schedule_id = ? AND fare_class = ?`
	snap := booking.CapacitySnapshot{ScheduleID: scheduleID, FareClass: fareClass}
	err := r.db.QueryRowContext(ctx, q, scheduleID, fareClass).Scan(&snap.Occupied, &snap.Total, &snap.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.CapacitySnapshot{}, booking.ErrScheduleNotFound
		}
		return booking.CapacitySnapshot{}, err
	}
	return snap, nil
}

// CompareAndIncrement claims one seat: it increments occupied_seats
// only while the caller's version still matches and the class is not
// full.  Zero rows affected means the row moved underneath the caller
// (or filled up); the inventory re-reads and decides.
func (r *CapacityRepo) CompareAndIncrement(ctx context.Context, scheduleID uint64, fareClass string, version uint64) (bool, error) {
	const q = `UPDATE fare_class_capacities
               SET occupied_seats = occupied_seats + 1, version = version + 1
               WHERE schedule_id = ? AND fare_class = ? AND version = ? AND occupied_seats < total_seats`
	res, err := r.db.ExecContext(ctx, q, scheduleID, fareClass, version)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CompareAndDecrement returns one seat, guarded the same way and
// additionally refusing to move occupied_seats below zero.
func (r *CapacityRepo) CompareAndDecrement(ctx context.Context, scheduleID uint64, fareClass string, version uint64) (bool, error) {
	const q = `UPDATE fare_class_capacities
               SET occupied_seats = occupied_seats - 1, version = version + 1
               WHERE schedule_id = ? AND fare_class = ? AND version = ? AND occupied_seats > 0`
	res, err := r.db.ExecContext(ctx, q, scheduleID, fareClass, version)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateBulkTx inserts the fare class allotments for a schedule in
// one statement within the provided transaction.  Occupied and
// version start at their DB defaults of zero.
func (r *CapacityRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, caps []model.FareClassCapacity) error {
	if len(caps) == 0 {
		return nil
	}
	query := `INSERT INTO fare_class_capacities (schedule_id, fare_class, total_seats) VALUES `
	args := make([]interface{}, 0, len(caps)*3)
	for i, c := range caps {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, c.ScheduleID, c.FareClass, c.Total)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListBySchedule returns all fare class allotments of a schedule,
// used by the browse endpoints to show per-class availability.
func (r *CapacityRepo) ListBySchedule(ctx context.Context, scheduleID uint64) ([]model.FareClassCapacity, error) {
	const q = `SELECT id, schedule_id, fare_class, total_seats, occupied_seats, version, created_at, updated_at
               FROM fare_class_capacities
               WHERE schedule_id = ?
               ORDER BY fare_class ASC`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.FareClassCapacity
	for rows.Next() {
		var c model.FareClassCapacity
		if err := rows.Scan(&c.ID, &c.ScheduleID, &c.FareClass, &c.Total, &c.Occupied, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

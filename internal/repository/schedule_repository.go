// Package repository contains the MySQL data access layer.  This file
// holds persistence for schedules: one row per scheduled service
// instance on a route.  Repositories return domain entities from
// internal/model and the sentinel errors from internal/booking so the
// core components never see driver-level failures for the common
// cases.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/booking"
	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// ScheduleRepo manages persistence for schedules.  It implements
// booking.ScheduleStore.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ScheduleRepo) DB() *sql.DB {
	return r.db
}

const scheduleColumns = `id, service_code, route_id, departs_at, status, is_active, created_at, updated_at`

func scanSchedule(row interface{ Scan(...interface{}) error }, s *model.Schedule) error {
	return row.Scan(&s.ID, &s.ServiceCode, &s.RouteID, &s.DepartsAt, &s.Status, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

// Schedule retrieves a schedule by its ID.  It returns
// booking.ErrScheduleNotFound when no matching row exists.
func (r *ScheduleRepo) Schedule(ctx context.Context, id uint64) (*model.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`
	var s model.Schedule
	if err := scanSchedule(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SchedulesByRouteAfter returns schedules on the route departing
// strictly later than the given time, ordered by departure time then
// service code.  The fallback resolver walks this list front to back,
// so the ordering here is the suggestion preference order.
func (r *ScheduleRepo) SchedulesByRouteAfter(ctx context.Context, routeID uint64, after time.Time) ([]model.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + `
               FROM schedules
               WHERE route_id = ? AND departs_at > ?
               ORDER BY departs_at ASC, service_code ASC`
	rows, err := r.db.QueryContext(ctx, q, routeID, after.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Schedule
	for rows.Next() {
		var s model.Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByRoute returns all schedules on a route ordered by departure
// time.  It backs the public browse endpoint.
func (r *ScheduleRepo) ListByRoute(ctx context.Context, routeID uint64) ([]model.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + `
               FROM schedules
               WHERE route_id = ?
               ORDER BY departs_at ASC`
	rows, err := r.db.QueryContext(ctx, q, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Schedule
	for rows.Next() {
		var s model.Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateTx inserts a new schedule within the provided transaction and
// populates the generated ID and DB-default fields on the given
// model.  The caller commits or rolls back; schedule creation is
// paired with the insertion of its fare class allotments in the same
// transaction.
func (r *ScheduleRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Schedule) error {
	const q = `INSERT INTO schedules (service_code, route_id, departs_at) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.ServiceCode, s.RouteID, s.DepartsAt.UTC())
	if err != nil {
		// 1062: unique key on (service_code, departs_at).
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`
	return scanSchedule(tx.QueryRowContext(ctx, sel, s.ID), s)
}

// UpdateStatus moves a schedule into a new operational status and
// reports whether a row changed.  Status transitions are triggered by
// operations events outside this service; the repository only records
// them.
func (r *ScheduleRepo) UpdateStatus(ctx context.Context, id uint64, status model.ScheduleStatus) (bool, error) {
	const q = `UPDATE schedules SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

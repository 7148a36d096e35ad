package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-seat-reservation/internal/booking"
	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// TicketRepo persists ticket records.  It implements
// booking.TicketStore.  Status transitions are conditional updates so
// two racing transitions on the same ticket cannot both take effect.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

const ticketColumns = `id, passenger_id, schedule_id, fare_class, status, hold_token, issued_at, updated_at`

func scanTicket(row interface{ Scan(...interface{}) error }, t *model.Ticket) error {
	return row.Scan(&t.ID, &t.PassengerID, &t.ScheduleID, &t.FareClass, &t.Status, &t.HoldToken, &t.IssuedAt, &t.UpdatedAt)
}

// CreateTicket inserts a ticket and populates the generated ID and
// DB-default timestamps on the given model.
func (r *TicketRepo) CreateTicket(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets (passenger_id, schedule_id, fare_class, status, hold_token, issued_at)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.PassengerID, t.ScheduleID, t.FareClass, string(t.Status), t.HoldToken, t.IssuedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	return scanTicket(r.db.QueryRowContext(ctx, sel, t.ID), t)
}

// Ticket retrieves a ticket by its ID.  It returns
// booking.ErrTicketNotFound when no matching row exists.
func (r *TicketRepo) Ticket(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	var t model.Ticket
	if err := scanTicket(r.db.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// TransitionTicket applies a status change only when the ticket is
// currently in the from state and reports whether a row was updated.
// It distinguishes an unknown ticket from a state mismatch so the
// ledger can surface the right error.
func (r *TicketRepo) TransitionTicket(ctx context.Context, id uint64, from, to model.TicketStatus) (bool, error) {
	const q = `UPDATE tickets SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	// No row changed: either the ticket does not exist or it is in a
	// different state.
	var exists uint64
	err = r.db.QueryRowContext(ctx, `SELECT id FROM tickets WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, booking.ErrTicketNotFound
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// ListByPassenger returns all tickets issued to a passenger, newest
// first.
func (r *TicketRepo) ListByPassenger(ctx context.Context, passengerID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + `
               FROM tickets
               WHERE passenger_id = ?
               ORDER BY issued_at DESC, id DESC`
	return r.list(ctx, q, passengerID)
}

// ListByScheduleAndStatus returns the tickets of a schedule in the
// given status.  Operators use it to audit a schedule's manifest.
func (r *TicketRepo) ListByScheduleAndStatus(ctx context.Context, scheduleID uint64, status model.TicketStatus) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + `
               FROM tickets
               WHERE schedule_id = ? AND status = ?
               ORDER BY issued_at ASC, id ASC`
	return r.list(ctx, q, scheduleID, string(status))
}

// CountActiveBySchedule counts non-cancelled tickets per fare class
// on a schedule.  The result is used to audit the occupied counters:
// for every fare class the count here must never exceed the
// allotment's total.
func (r *TicketRepo) CountActiveBySchedule(ctx context.Context, scheduleID uint64) (map[string]uint32, error) {
	const q = `SELECT fare_class, COUNT(*)
               FROM tickets
               WHERE schedule_id = ? AND status <> 'CANCELLED'
               GROUP BY fare_class`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]uint32)
	for rows.Next() {
		var class string
		var n uint32
		if err := rows.Scan(&class, &n); err != nil {
			return nil, err
		}
		counts[class] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *TicketRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/train-seat-reservation/internal/booking"
	"github.com/iliyamo/train-seat-reservation/internal/model"
)

func TestTransitionTicketApplies(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectExec(`UPDATE tickets SET status = \? WHERE id = \? AND status = \?`).
		WithArgs("CONFIRMED", uint64(5), "RESERVED").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.TransitionTicket(context.Background(), 5, model.TicketReserved, model.TicketConfirmed)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected transition to apply")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionTicketWrongState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs("CONFIRMED", uint64(5), "RESERVED").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The follow-up existence probe finds the ticket, so the caller
	// learns it is a state mismatch rather than a missing row.
	mock.ExpectQuery("SELECT id FROM tickets WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	ok, err := repo.TransitionTicket(context.Background(), 5, model.TicketReserved, model.TicketConfirmed)
	if err != nil {
		t.Fatalf("transition errored: %v", err)
	}
	if ok {
		t.Fatalf("mismatched state must not apply")
	}
}

func TestTransitionTicketUnknownID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs("CANCELLED", uint64(404), "RESERVED").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id FROM tickets WHERE id").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.TransitionTicket(context.Background(), 404, model.TicketReserved, model.TicketCancelled)
	if !errors.Is(err, booking.ErrTicketNotFound) {
		t.Fatalf("got %v, want booking.ErrTicketNotFound", err)
	}
}

func TestTicketNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectQuery("SELECT id, passenger_id, schedule_id").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.Ticket(context.Background(), 404); !errors.Is(err, booking.ErrTicketNotFound) {
		t.Fatalf("got %v, want booking.ErrTicketNotFound", err)
	}
}

func TestCountActiveBySchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectQuery(`SELECT fare_class, COUNT\(\*\)\s+FROM tickets\s+WHERE schedule_id = \? AND status <> 'CANCELLED'`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"fare_class", "count"}).
			AddRow("Tourist", 12).
			AddRow("Preferred", 3))

	counts, err := repo.CountActiveBySchedule(context.Background(), 7)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if counts["Tourist"] != 12 || counts["Preferred"] != 3 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestCreateTicketPopulatesDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTicketRepo(db)

	issued := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(uint64(9), uint64(7), "Tourist", "RESERVED", "abc123", issued).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery("SELECT id, passenger_id, schedule_id").
		WithArgs(uint64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_id", "schedule_id", "fare_class", "status", "hold_token", "issued_at", "updated_at"}).
			AddRow(31, 9, 7, "Tourist", "RESERVED", "abc123", issued, issued))

	ticket := &model.Ticket{
		PassengerID: 9,
		ScheduleID:  7,
		FareClass:   "Tourist",
		Status:      model.TicketReserved,
		HoldToken:   "abc123",
		IssuedAt:    issued,
	}
	if err := repo.CreateTicket(context.Background(), ticket); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ticket.ID != 31 {
		t.Fatalf("id = %d, want 31", ticket.ID)
	}
}

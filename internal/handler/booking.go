package handler

import (
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-seat-reservation/internal/booking"
    "github.com/iliyamo/train-seat-reservation/internal/model"
    "github.com/iliyamo/train-seat-reservation/internal/queue"
    "github.com/iliyamo/train-seat-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/train-seat-reservation/internal/service"
)

// BookingHandler serves the passenger-facing ticket lifecycle: booking
// a seat, confirming and cancelling tickets, and listing the current
// passenger's tickets.  All mutation flows go through the booking
// coordinator so seat accounting and ticket state stay consistent; the
// repositories here are only used for reads and event enrichment.
type BookingHandler struct {
    Coordinator *booking.Coordinator
    Tickets     *repository.TicketRepo
    Schedules   *repository.ScheduleRepo
}

// NewBookingHandler constructs a BookingHandler.  All dependencies
// must be non-nil.
func NewBookingHandler(coord *booking.Coordinator, tickets *repository.TicketRepo, schedules *repository.ScheduleRepo) *BookingHandler {
    if coord == nil || tickets == nil || schedules == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Coordinator: coord, Tickets: tickets, Schedules: schedules}
}

// ticketView is the JSON shape of a ticket in responses.
type ticketView struct {
    ID         uint64    `json:"id"`
    ScheduleID uint64    `json:"schedule_id"`
    FareClass  string    `json:"fare_class"`
    Status     string    `json:"status"`
    HoldToken  string    `json:"hold_token"`
    IssuedAt   time.Time `json:"issued_at"`
    UpdatedAt  time.Time `json:"updated_at"`
}

func viewOf(t *model.Ticket) ticketView {
    return ticketView{
        ID:         t.ID,
        ScheduleID: t.ScheduleID,
        FareClass:  t.FareClass,
        Status:     string(t.Status),
        HoldToken:  t.HoldToken,
        IssuedAt:   t.IssuedAt,
        UpdatedAt:  t.UpdatedAt,
    }
}

// BookTicket handles POST /v1/schedules/:id/tickets.  The body carries
// the requested fare class.  A seated booking returns 201 with the
// RESERVED ticket.  A sold-out fare class is not an error: the
// response is 200 with a rejection naming the reason and, when one
// exists, the next same-route departure that still has seats.
func (h *BookingHandler) BookTicket(c echo.Context) error {
    passengerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || scheduleID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
    }
    var body struct {
        FareClass string `json:"fare_class"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    fareClass := strings.TrimSpace(body.FareClass)
    if fareClass == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "fare_class is required"})
    }

    outcome, err := h.Coordinator.BookTicket(c.Request().Context(), passengerID, scheduleID, fareClass)
    if err != nil {
        return bookingError(c, err)
    }
    if outcome.Rejected() {
        return c.JSON(http.StatusOK, echo.Map{
            "status":    "rejected",
            "rejection": outcome.Rejection,
        })
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "status": "reserved",
        "ticket": viewOf(outcome.Ticket),
    })
}

// ConfirmTicket handles POST /v1/tickets/:id/confirm.  Only RESERVED
// tickets confirm; anything else is a 409.  On success a confirmation
// event is published for downstream consumers; publish failures are
// logged and do not fail the request.
func (h *BookingHandler) ConfirmTicket(c echo.Context) error {
    passengerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || ticketID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    ctx := c.Request().Context()
    prior, err := h.Tickets.Ticket(ctx, ticketID)
    if err != nil {
        return bookingError(c, err)
    }
    if prior.PassengerID != passengerID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    ticket, err := h.Coordinator.ConfirmTicket(ctx, ticketID)
    if err != nil {
        return bookingError(c, err)
    }

    if sched, serr := h.Schedules.Schedule(ctx, ticket.ScheduleID); serr == nil {
        ev := queue.TicketConfirmedEvent{
            TicketID:    ticket.ID,
            PassengerID: ticket.PassengerID,
            ScheduleID:  ticket.ScheduleID,
            ServiceCode: sched.ServiceCode,
            RouteID:     sched.RouteID,
            FareClass:   ticket.FareClass,
            DepartsAt:   sched.DepartsAt.UTC().Format(time.RFC3339),
            ConfirmedAt: ticket.UpdatedAt.UTC().Format(time.RFC3339),
        }
        if perr := queue_publisher.PublishTicketConfirmed(ctx, ev); perr != nil {
            log.Printf("publish ticket.confirmed failed for ticket %d: %v", ticket.ID, perr)
        }
    }

    return c.JSON(http.StatusOK, echo.Map{"ticket": viewOf(ticket)})
}

// CancelTicket handles POST /v1/tickets/:id/cancel.  Cancellation is
// idempotent: repeating it on an already cancelled ticket returns the
// record again without touching the seat allotment.  Cancellations at
// or after departure are refused with 409.
func (h *BookingHandler) CancelTicket(c echo.Context) error {
    passengerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || ticketID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    ctx := c.Request().Context()
    prior, err := h.Tickets.Ticket(ctx, ticketID)
    if err != nil {
        return bookingError(c, err)
    }
    if prior.PassengerID != passengerID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    // Remember the prior state so an idempotent repeat does not
    // publish a second cancellation event.
    alreadyCancelled := prior.Status == model.TicketCancelled

    ticket, err := h.Coordinator.CancelTicket(ctx, ticketID)
    if err != nil {
        return bookingError(c, err)
    }

    if !alreadyCancelled {
        if sched, serr := h.Schedules.Schedule(ctx, ticket.ScheduleID); serr == nil {
            ev := queue.TicketCancelledEvent{
                TicketID:    ticket.ID,
                PassengerID: ticket.PassengerID,
                ScheduleID:  ticket.ScheduleID,
                ServiceCode: sched.ServiceCode,
                FareClass:   ticket.FareClass,
                CancelledAt: ticket.UpdatedAt.UTC().Format(time.RFC3339),
            }
            if perr := queue_publisher.PublishTicketCancelled(ctx, ev); perr != nil {
                log.Printf("publish ticket.cancelled failed for ticket %d: %v", ticket.ID, perr)
            }
        }
    }

    return c.JSON(http.StatusOK, echo.Map{"ticket": viewOf(ticket)})
}

// GetTicket handles GET /v1/tickets/:id for the owning passenger.
func (h *BookingHandler) GetTicket(c echo.Context) error {
    passengerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || ticketID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    ticket, err := h.Tickets.Ticket(c.Request().Context(), ticketID)
    if err != nil {
        return bookingError(c, err)
    }
    if ticket.PassengerID != passengerID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, echo.Map{"ticket": viewOf(ticket)})
}

// ListMyTickets handles GET /v1/my-tickets.  Returns every ticket the
// passenger has ever held, newest first, including cancelled ones.
func (h *BookingHandler) ListMyTickets(c echo.Context) error {
    passengerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    tickets, err := h.Tickets.ListByPassenger(c.Request().Context(), passengerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
    }
    items := make([]ticketView, 0, len(tickets))
    for i := range tickets {
        items = append(items, viewOf(&tickets[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-seat-reservation/internal/model"
    "github.com/iliyamo/train-seat-reservation/internal/repository"
)

// OperatorHandler bundles repositories for operators to publish
// schedules, adjust their status and inspect sold seats.  Role
// enforcement happens in middleware; these handlers trust that the
// caller is an OPERATOR.
type OperatorHandler struct {
    Schedules  *repository.ScheduleRepo
    Capacities *repository.CapacityRepo
    Tickets    *repository.TicketRepo
}

// NewOperatorHandler constructs an OperatorHandler and panics on a nil
// dependency.
func NewOperatorHandler(schedules *repository.ScheduleRepo, capacities *repository.CapacityRepo, tickets *repository.TicketRepo) *OperatorHandler {
    if schedules == nil || capacities == nil || tickets == nil {
        panic("nil repository passed to NewOperatorHandler")
    }
    return &OperatorHandler{Schedules: schedules, Capacities: capacities, Tickets: tickets}
}

type fareClassInput struct {
    FareClass  string `json:"fare_class"`
    TotalSeats uint32 `json:"total_seats"`
}

type createScheduleReq struct {
    ServiceCode string           `json:"service_code"`
    RouteID     uint64           `json:"route_id"`
    DepartsAt   time.Time        `json:"departs_at"`
    FareClasses []fareClassInput `json:"fare_classes"`
}

// CreateSchedule handles POST /v1/operator/schedules.  The schedule
// and its fare class allotments are created in one transaction so a
// schedule can never exist without seat counters.  New schedules
// start SCHEDULED with zero occupied seats in every class.
func (h *OperatorHandler) CreateSchedule(c echo.Context) error {
    var req createScheduleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.ServiceCode = strings.TrimSpace(req.ServiceCode)
    if req.ServiceCode == "" || req.RouteID == 0 || req.DepartsAt.IsZero() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_code, route_id and departs_at are required"})
    }
    if len(req.FareClasses) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one fare class is required"})
    }
    seen := make(map[string]bool, len(req.FareClasses))
    caps := make([]model.FareClassCapacity, 0, len(req.FareClasses))
    for _, fc := range req.FareClasses {
        name := strings.TrimSpace(fc.FareClass)
        if name == "" || fc.TotalSeats == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "fare classes need a name and a positive seat count"})
        }
        if seen[name] {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate fare class: " + name})
        }
        seen[name] = true
        caps = append(caps, model.FareClassCapacity{FareClass: name, Total: fc.TotalSeats})
    }

    ctx := c.Request().Context()
    tx, err := h.Schedules.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    sched := &model.Schedule{
        ServiceCode: req.ServiceCode,
        RouteID:     req.RouteID,
        DepartsAt:   req.DepartsAt.UTC(),
        Status:      model.ScheduleScheduled,
        IsActive:    true,
    }
    if err := h.Schedules.CreateTx(ctx, tx, sched); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "schedule already exists for this service and departure"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create schedule"})
    }
    for i := range caps {
        caps[i].ScheduleID = sched.ID
    }
    if err := h.Capacities.CreateBulkTx(ctx, tx, caps); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create fare class allotments"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    classes := make([]PublicFareClass, 0, len(caps))
    for i := range caps {
        classes = append(classes, PublicFareClass{
            FareClass: caps[i].FareClass,
            Total:     caps[i].Total,
            Available: caps[i].Total,
        })
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "schedule": PublicSchedule{
            ID:          sched.ID,
            ServiceCode: sched.ServiceCode,
            RouteID:     sched.RouteID,
            DepartsAt:   sched.DepartsAt,
            Status:      string(sched.Status),
        },
        "fare_classes": classes,
    })
}

// UpdateScheduleStatus handles PATCH /v1/operator/schedules/:id/status.
// Moving a schedule to CANCELLED or COMPLETED stops further bookings;
// existing tickets are left alone, cancellation of those remains a
// passenger action.
func (h *OperatorHandler) UpdateScheduleStatus(c echo.Context) error {
    scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || scheduleID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := model.ScheduleStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
    switch status {
    case model.ScheduleScheduled, model.ScheduleRunning, model.ScheduleDelayed,
        model.ScheduleCancelled, model.ScheduleCompleted:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }

    ok, err := h.Schedules.UpdateStatus(c.Request().Context(), scheduleID, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
    }
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": scheduleID, "status": string(status)})
}

// ListScheduleTickets handles GET /v1/operator/schedules/:id/tickets.
// An optional status query parameter narrows to one lifecycle state;
// without it all tickets on the schedule are returned.
func (h *OperatorHandler) ListScheduleTickets(c echo.Context) error {
    scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || scheduleID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Schedules.Schedule(ctx, scheduleID); err != nil {
        return bookingError(c, err)
    }

    statuses := []model.TicketStatus{model.TicketReserved, model.TicketConfirmed, model.TicketCancelled}
    if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); raw != "" {
        switch st := model.TicketStatus(raw); st {
        case model.TicketReserved, model.TicketConfirmed, model.TicketCancelled:
            statuses = []model.TicketStatus{st}
        default:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
        }
    }

    items := make([]ticketView, 0)
    for _, st := range statuses {
        tickets, err := h.Tickets.ListByScheduleAndStatus(ctx, scheduleID, st)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
        }
        for i := range tickets {
            items = append(items, viewOf(&tickets[i]))
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// occupancyAuditRow compares the seat counter of one fare class with
// the number of live tickets actually pointing at it.
type occupancyAuditRow struct {
    FareClass     string `json:"fare_class"`
    OccupiedSeats uint32 `json:"occupied_seats"`
    LiveTickets   uint32 `json:"live_tickets"`
    Consistent    bool   `json:"consistent"`
}

// AuditOccupancy handles GET /v1/operator/schedules/:id/occupancy.
// It cross-checks the fare class counters against the ticket ledger:
// occupied seats must equal non-cancelled tickets in every class.  A
// mismatch indicates drift between the counters and the ledger and is
// flagged per class rather than hidden behind an aggregate.
func (h *OperatorHandler) AuditOccupancy(c echo.Context) error {
    scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || scheduleID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Schedules.Schedule(ctx, scheduleID); err != nil {
        return bookingError(c, err)
    }
    caps, err := h.Capacities.ListBySchedule(ctx, scheduleID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load allotments"})
    }
    live, err := h.Tickets.CountActiveBySchedule(ctx, scheduleID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count tickets"})
    }

    rows := make([]occupancyAuditRow, 0, len(caps))
    consistent := true
    for i := range caps {
        n := live[caps[i].FareClass]
        ok := caps[i].Occupied == n
        if !ok {
            consistent = false
        }
        rows = append(rows, occupancyAuditRow{
            FareClass:     caps[i].FareClass,
            OccupiedSeats: caps[i].Occupied,
            LiveTickets:   n,
            Consistent:    ok,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "schedule_id": scheduleID,
        "consistent":  consistent,
        "classes":     rows,
    })
}

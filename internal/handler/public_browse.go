// This file defines handlers for the public browsing API.  These routes
// let unauthenticated users discover schedules on a route and check how
// many seats remain in a fare class before registering or logging in.
// Internal fields (version counters, audit timestamps) are filtered
// from responses.

package handler

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-seat-reservation/internal/booking"
    "github.com/iliyamo/train-seat-reservation/internal/repository"
)

// PublicHandler aggregates dependencies for unauthenticated browsing.
type PublicHandler struct {
    Schedules  *repository.ScheduleRepo
    Capacities *repository.CapacityRepo
    Occupancy  *booking.OccupancyTracker
}

// PublicSchedule is a schedule as exposed to anonymous clients.
type PublicSchedule struct {
    ID          uint64    `json:"id"`
    ServiceCode string    `json:"service_code"`
    RouteID     uint64    `json:"route_id"`
    DepartsAt   time.Time `json:"departs_at"`
    Status      string    `json:"status"`
}

// PublicFareClass pairs a fare class with its remaining seats.
type PublicFareClass struct {
    FareClass string `json:"fare_class"`
    Total     uint32 `json:"total_seats"`
    Available uint32 `json:"available_seats"`
}

// ListRouteSchedules handles GET /v1/routes/:id/schedules.  Inactive
// schedules are hidden; cancelled and completed ones are included so
// clients can show why a departure is gone, ordered by departure time.
func (h *PublicHandler) ListRouteSchedules(c echo.Context) error {
    routeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || routeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
    }
    schedules, err := h.Schedules.ListByRoute(c.Request().Context(), routeID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedules"})
    }
    items := make([]PublicSchedule, 0, len(schedules))
    for _, s := range schedules {
        if !s.IsActive {
            continue
        }
        items = append(items, PublicSchedule{
            ID:          s.ID,
            ServiceCode: s.ServiceCode,
            RouteID:     s.RouteID,
            DepartsAt:   s.DepartsAt,
            Status:      string(s.Status),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSchedule handles GET /v1/schedules/:id.  Returns the schedule
// together with per-fare-class seat availability.
func (h *PublicHandler) GetSchedule(c echo.Context) error {
    scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || scheduleID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
    }
    ctx := c.Request().Context()
    s, err := h.Schedules.Schedule(ctx, scheduleID)
    if err != nil {
        return bookingError(c, err)
    }
    if !s.IsActive {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
    }
    caps, err := h.Capacities.ListBySchedule(ctx, scheduleID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
    }
    classes := make([]PublicFareClass, 0, len(caps))
    for i := range caps {
        classes = append(classes, PublicFareClass{
            FareClass: caps[i].FareClass,
            Total:     caps[i].Total,
            Available: caps[i].Available(),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "schedule": PublicSchedule{
            ID:          s.ID,
            ServiceCode: s.ServiceCode,
            RouteID:     s.RouteID,
            DepartsAt:   s.DepartsAt,
            Status:      string(s.Status),
        },
        "fare_classes": classes,
    })
}

// GetAvailability handles GET /v1/schedules/:id/availability.  The
// fare_class query parameter is required.  The response carries the
// occupancy report with the near-full and low-occupancy flags used by
// dashboards; this endpoint is deliberately kept off the response
// cache so the counts are always live.
func (h *PublicHandler) GetAvailability(c echo.Context) error {
    scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || scheduleID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
    }
    fareClass := strings.TrimSpace(c.QueryParam("fare_class"))
    if fareClass == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "fare_class is required"})
    }
    report, err := h.Occupancy.Report(c.Request().Context(), scheduleID, fareClass)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, report)
}

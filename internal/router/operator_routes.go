package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-seat-reservation/internal/handler"
    "github.com/iliyamo/train-seat-reservation/internal/middleware"
)

// RegisterOperator registers OPERATOR-scoped endpoints under
// /v1/operator.  All routes require a valid JWT and OPERATOR role.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, jwtSecret string) {
    g := e.Group(
        "/v1/operator",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("OPERATOR"),
    )

    g.POST("/schedules", o.CreateSchedule)
    g.PATCH("/schedules/:id/status", o.UpdateScheduleStatus)
    g.GET("/schedules/:id/tickets", o.ListScheduleTickets)
    g.GET("/schedules/:id/occupancy", o.AuditOccupancy)
}

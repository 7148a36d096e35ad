package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-seat-reservation/internal/handler"
    "github.com/iliyamo/train-seat-reservation/internal/middleware"
)

// RegisterPassenger registers passenger-scoped endpoints under /v1.
// All routes require a valid JWT and the PASSENGER role.  The limitMW
// parameter is the token bucket limiter; it sits on the booking
// mutation so a misbehaving client cannot burn the retry budget of
// the seat counters for everyone else.
func RegisterPassenger(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limitMW echo.MiddlewareFunc) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("PASSENGER"),
    )

    g.POST("/schedules/:id/tickets", h.BookTicket, limitMW)
    g.POST("/tickets/:id/confirm", h.ConfirmTicket)
    g.POST("/tickets/:id/cancel", h.CancelTicket)
    g.GET("/tickets/:id", h.GetTicket)
    g.GET("/my-tickets", h.ListMyTickets)
}

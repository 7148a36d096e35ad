package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-seat-reservation/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints.  The
// cacheMW parameter is the Redis response cache middleware (or a
// pass-through when Redis is unavailable); it wraps only the browse
// routes.  Availability is served uncached so seat counts are live.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
    // Browse endpoints tolerate slightly stale data.
    e.GET("/v1/routes/:id/schedules", p.ListRouteSchedules, cacheMW)
    e.GET("/v1/schedules/:id", p.GetSchedule, cacheMW)

    // Live availability with occupancy classification.
    e.GET("/v1/schedules/:id/availability", p.GetAvailability)
}

package handler // handler defines http handlers

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-seat-reservation/internal/booking"
)

// getUserID extracts the user_id placed into the context by the JWT
// middleware and converts it to uint64.  The claim may arrive as a
// float64 (JSON number) or a string depending on how the token was
// minted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// bookingError maps booking sentinel errors to HTTP responses.  Domain
// conflicts surface as 409 so clients can distinguish a rule refusal
// from a missing resource; retry exhaustion is a transient condition
// and gets 503 with a hint to try again.
func bookingError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, booking.ErrScheduleNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
    case errors.Is(err, booking.ErrTicketNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
    case errors.Is(err, booking.ErrScheduleNotBookable):
        return c.JSON(http.StatusConflict, echo.Map{"error": "schedule not bookable"})
    case errors.Is(err, booking.ErrInvalidTransition):
        return c.JSON(http.StatusConflict, echo.Map{"error": "invalid ticket transition"})
    case errors.Is(err, booking.ErrCancellationWindowClosed):
        return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation window closed"})
    case errors.Is(err, booking.ErrRetryExhausted):
        c.Response().Header().Set("Retry-After", "1")
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking contention, retry"})
    case errors.Is(err, booking.ErrInvariantViolation):
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat accounting error"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

package middleware

// identity.go holds helpers shared across middleware files for pulling the
// authenticated passenger or operator out of the Echo context.  JWTAuth
// stores the raw "sub" claim under "user_id"; depending on how the token
// was issued that value may be a string or a JSON number, so both shapes
// are handled here.  When nobody is authenticated the caller gets "anon",
// which keeps rate-limit keys stable for unauthenticated traffic.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user's ID, or
// "anon" when the request carries no identity.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t != "" {
            return t
        }
    case float64:
        return strconv.FormatInt(int64(t), 10)
    case int64:
        return strconv.FormatInt(t, 10)
    case uint64:
        return strconv.FormatUint(t, 10)
    }
    return "anon"
}

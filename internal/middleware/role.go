package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin aborts with 403 unless the authenticated caller carries the
// is_admin claim.  It must run after JWTAuth; a request without identity is
// answered with 401.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			if !id.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Admin privileges required"})
			}
			return next(c)
		}
	}
}

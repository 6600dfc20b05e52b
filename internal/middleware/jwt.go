package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"   // errors distinguishes a missing header from a bad token
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/hbnb/internal/utils" // token parsing and verification
)

var errNoBearer = errors.New("missing bearer token")

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the caller's identity (id and admin flag) into the request context.
// The provided secret must match the one used when issuing tokens.  Handlers
// read the caller with IdentityFrom.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := IdentityFrom(c); ok {
				return next(c) // already resolved by IdentifyBearer
			}
			id, err := bearerIdentity(c, secret)
			if errors.Is(err, errNoBearer) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

// IdentifyBearer stores the caller identity when the request carries a
// valid token and never rejects.  Mounted ahead of the rate limiter it lets
// the user-based key strategies see the caller; JWTAuth still guards the
// protected routes.
func IdentifyBearer(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, err := bearerIdentity(c, secret); err == nil {
				SetIdentity(c, id)
			}
			return next(c)
		}
	}
}

// bearerIdentity parses "Bearer <jwt>".  Signature, algorithm (HS256 only)
// and expiry are all checked by ParseAccessToken.
func bearerIdentity(c echo.Context, secret string) (Identity, error) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return Identity{}, errNoBearer
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	claims, err := utils.ParseAccessToken(secret, raw)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: claims.ID, IsAdmin: claims.IsAdmin}, nil
}

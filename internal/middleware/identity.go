package middleware

// identity.go defines the caller identity that JWTAuth stores in the Echo
// context, and the helpers handlers and other middleware use to read it.

import "github.com/labstack/echo/v4"

const identityKey = "identity"

// Identity is the authenticated caller taken from the bearer token.
type Identity struct {
	ID      string
	IsAdmin bool
}

// SetIdentity stores id in the request context.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.ID)
}

// IdentityFrom returns the caller and whether one was authenticated.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok && id.ID != ""
}

// userID returns the caller id for cache and rate limit keys, or "guest".
func userID(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return id.ID
	}
	return "guest"
}

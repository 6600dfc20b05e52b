package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/service"
	"github.com/iliyamo/hbnb/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Facade    *service.Facade
	JWTSecret string
	AccessTTL time.Duration
}

func NewAuthHandler(f *service.Facade, secret string, ttl time.Duration) *AuthHandler {
	if f == nil {
		panic("nil facade passed to NewAuthHandler")
	}
	return &AuthHandler{Facade: f, JWTSecret: secret, AccessTTL: ttl}
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies the credentials and returns a signed access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Facade.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	access, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.IsAdmin, h.AccessTTL)
	if err != nil {
		return respondError(c, apperr.Internal("issue access failed", err))
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": access.Token})
}

// Me echoes the identity carried by the bearer token.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id.ID, "is_admin": id.IsAdmin})
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hbnb/internal/service"
)

// AdminHandler serves /admin/users. Every route is behind RequireAdmin, so
// unlike the public routes it may set is_admin and change email or password.
type AdminHandler struct {
	Facade *service.Facade
}

func NewAdminHandler(f *service.Facade) *AdminHandler {
	if f == nil {
		panic("nil facade passed to NewAdminHandler")
	}
	return &AdminHandler{Facade: f}
}

type adminUpdateUserReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	IsAdmin   *bool   `json:"is_admin"`
}

func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Facade.CreateUser(ctx, service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": u.ID, "message": "User successfully created"})
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req adminUpdateUserReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Facade.UpdateUser(ctx, c.Param("id"), service.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": u.ID, "message": "User successfully updated"})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Facade.DeleteUser(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, message("User deleted successfully"))
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/service"
)

// UserHandler serves the public /users routes.
type UserHandler struct {
	Facade *service.Facade
}

func NewUserHandler(f *service.Facade) *UserHandler {
	if f == nil {
		panic("nil facade passed to NewUserHandler")
	}
	return &UserHandler{Facade: f}
}

// ----- DTOs -----

type createUserReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IsAdmin   bool   `json:"is_admin"`
}

// updateUserReq uses pointers so that the presence of email or password
// can be detected.
type updateUserReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

// Create registers a user. is_admin is ignored on this public route.
func (h *UserHandler) Create(c echo.Context) error {
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
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": u.ID, "message": "User successfully created"})
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Facade.ListUsers(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Facade.GetUser(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update lets a user change their own names. Email and password changes go
// through the admin route.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	target := c.Param("id")
	if id.ID != target {
		return respondError(c, apperr.Forbidden(msgUnauthorized))
	}

	var req updateUserReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.Email != nil || req.Password != nil {
		return respondError(c, apperr.Validation("You cannot modify email or password."))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Facade.UpdateUser(ctx, target, service.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, message("User details updated successfully"))
}

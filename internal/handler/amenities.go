package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/service"
)

// AmenityHandler serves /amenities. Writes are mounted behind RequireAdmin.
type AmenityHandler struct {
	Facade *service.Facade
}

func NewAmenityHandler(f *service.Facade) *AmenityHandler {
	if f == nil {
		panic("nil facade passed to NewAmenityHandler")
	}
	return &AmenityHandler{Facade: f}
}

type amenityReq struct {
	Name string `json:"name" validate:"required"`
}

func (h *AmenityHandler) Create(c echo.Context) error {
	var req amenityReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Facade.CreateAmenity(ctx, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": a.ID, "name": a.Name})
}

func (h *AmenityHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	amenities, err := h.Facade.ListAmenities(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, amenities)
}

func (h *AmenityHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Facade.GetAmenity(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AmenityHandler) Update(c echo.Context) error {
	var req amenityReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Facade.UpdateAmenity(ctx, c.Param("id"), model.AmenityPatch{Name: &req.Name}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, message("Amenity updated successfully"))
}

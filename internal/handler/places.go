package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hbnb/internal/middleware"
	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/service"
)

// PlaceHandler serves /places and its nested amenity and review routes.
type PlaceHandler struct {
	Facade *service.Facade
}

func NewPlaceHandler(f *service.Facade) *PlaceHandler {
	if f == nil {
		panic("nil facade passed to NewPlaceHandler")
	}
	return &PlaceHandler{Facade: f}
}

// createPlaceReq ignores any owner_id in the body: the owner is the caller.
type createPlaceReq struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"required"`
	Longitude   *float64 `json:"longitude" validate:"required"`
	Amenities   []string `json:"amenities" validate:"dive,required"`
}

type updatePlaceReq struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type amenityRef struct {
	ID string `json:"id" validate:"required"`
}

func (h *PlaceHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createPlaceReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Facade.CreatePlace(ctx, service.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		OwnerID:     id.ID,
		AmenityIDs:  req.Amenities,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlaceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	places, err := h.Facade.ListPlaces(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, places)
}

// Get returns the place with its owner, amenities and reviews.
func (h *PlaceHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Facade.GetPlaceDetails(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *PlaceHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updatePlaceReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.authorize(ctx, id, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	if _, err := h.Facade.UpdatePlace(ctx, c.Param("id"), model.PlacePatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, message("Place updated successfully"))
}

func (h *PlaceHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.authorize(ctx, id, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	if err := h.Facade.DeletePlace(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, message("Place deleted successfully"))
}

// AddAmenities attaches amenities given as [{"id": ...}, ...].
func (h *PlaceHandler) AddAmenities(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	var refs []amenityRef
	if err := c.Bind(&refs); err != nil {
		return respondError(c, errInvalidBody)
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if err := c.Validate(ref); err != nil {
			return respondError(c, err)
		}
		ids = append(ids, ref.ID)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.authorize(ctx, id, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	if err := h.Facade.AddPlaceAmenities(ctx, c.Param("id"), ids); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, message("Amenities added successfully"))
}

func (h *PlaceHandler) Reviews(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	reviews, err := h.Facade.ListPlaceReviews(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// authorize loads the place (404 when absent) and checks ownership.
func (h *PlaceHandler) authorize(ctx context.Context, id middleware.Identity, placeID string) error {
	p, err := h.Facade.GetPlace(ctx, placeID)
	if err != nil {
		return err
	}
	return authorizeOwner(id, p.OwnerID)
}

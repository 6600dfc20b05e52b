package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hbnb/internal/middleware"
	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/service"
)

type ReviewHandler struct {
	Facade *service.Facade
}

func NewReviewHandler(f *service.Facade) *ReviewHandler {
	if f == nil {
		panic("nil facade passed to NewReviewHandler")
	}
	return &ReviewHandler{Facade: f}
}

// createReviewReq carries no user_id: the author is the caller.
type createReviewReq struct {
	Text    string `json:"text" validate:"required"`
	Rating  *int   `json:"rating" validate:"required"`
	PlaceID string `json:"place_id" validate:"required"`
}

type updateReviewReq struct {
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (h *ReviewHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createReviewReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Facade.CreateReview(ctx, service.CreateReviewInput{
		Text:    req.Text,
		Rating:  *req.Rating,
		PlaceID: req.PlaceID,
		UserID:  id.ID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	reviews, err := h.Facade.ListReviews(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Facade.GetReview(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateReviewReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.authorize(ctx, id, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	if _, err := h.Facade.UpdateReview(ctx, c.Param("id"), model.ReviewPatch{
		Text:   req.Text,
		Rating: req.Rating,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, message("Review updated successfully"))
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.authorize(ctx, id, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	if err := h.Facade.DeleteReview(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, message("Review deleted successfully"))
}

// authorize allows the author of the review and admins.
func (h *ReviewHandler) authorize(ctx context.Context, id middleware.Identity, reviewID string) error {
	r, err := h.Facade.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	return authorizeOwner(id, r.UserID)
}

package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/queue"
	"github.com/iliyamo/hbnb/internal/repository"
)

const msgReviewNotFound = "Review not found"

var errAlreadyReviewed = apperr.Conflict("You have already reviewed this place")

type CreateReviewInput struct {
	Text    string
	Rating  int
	PlaceID string
	UserID  string
}

// CreateReview stores a review after checking that the author and the place
// exist, that the author does not own the place and has not reviewed it yet.
func (f *Facade) CreateReview(ctx context.Context, in CreateReviewInput) (*model.Review, error) {
	_, err := f.users.Get(ctx, in.UserID)
	found, err := exists(err)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.Validation(msgUserNotFound)
	}

	place, err := f.places.Get(ctx, in.PlaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Validation(msgPlaceNotFound)
	}
	if err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	if place.OwnerID == in.UserID {
		return nil, apperr.Conflict("You cannot review your own place")
	}

	_, err = f.reviews.GetByPlaceAndUser(ctx, in.PlaceID, in.UserID)
	reviewed, err := exists(err)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, errAlreadyReviewed
	}

	r, err := model.NewReview(in.Text, in.Rating, in.PlaceID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := f.reviews.Add(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errAlreadyReviewed
		}
		return nil, storeErr(err, msgReviewNotFound)
	}

	f.publish(ctx, queue.ReviewCreated, r.ID, map[string]string{
		"place_id": r.PlaceID,
		"user_id":  r.UserID,
		"rating":   strconv.Itoa(r.Rating),
	})
	return r, nil
}

func (f *Facade) GetReview(ctx context.Context, id string) (*model.Review, error) {
	r, err := f.reviews.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgReviewNotFound)
	}
	return r, nil
}

func (f *Facade) ListReviews(ctx context.Context) ([]model.Review, error) {
	reviews, err := f.reviews.GetAll(ctx)
	if err != nil {
		return nil, storeErr(err, msgReviewNotFound)
	}
	return reviews, nil
}

func (f *Facade) UpdateReview(ctx context.Context, id string, patch model.ReviewPatch) (*model.Review, error) {
	r, err := f.reviews.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, msgReviewNotFound)
	}
	f.publish(ctx, queue.ReviewUpdated, r.ID, map[string]string{"rating": strconv.Itoa(r.Rating)})
	return r, nil
}

func (f *Facade) DeleteReview(ctx context.Context, id string) error {
	if err := f.reviews.Delete(ctx, id); err != nil {
		return storeErr(err, msgReviewNotFound)
	}
	f.publish(ctx, queue.ReviewDeleted, id, nil)
	return nil
}

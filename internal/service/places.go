package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/queue"
	"github.com/iliyamo/hbnb/internal/repository"
)

const msgPlaceNotFound = "Place not found"

type CreatePlaceInput struct {
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	OwnerID     string
	AmenityIDs  []string
}

// PlaceDetails is a place with its owner, amenities and reviews resolved.
type PlaceDetails struct {
	model.Place
	Owner     *model.User     `json:"owner"`
	Amenities []model.Amenity `json:"amenities"`
	Reviews   []model.Review  `json:"reviews"`
}

// CreatePlace stores a place for an existing owner and links the given
// amenities.
func (f *Facade) CreatePlace(ctx context.Context, in CreatePlaceInput) (*model.Place, error) {
	_, err := f.users.Get(ctx, in.OwnerID)
	found, err := exists(err)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.Validation("Owner not found")
	}

	amenities, err := f.resolveAmenities(ctx, in.AmenityIDs)
	if err != nil {
		return nil, err
	}
	p, err := model.NewPlace(in.Title, in.Description, in.Price, in.Latitude, in.Longitude, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := f.places.Add(ctx, p); err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	if err := f.places.AddAmenities(ctx, p.ID, amenities); err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	p.Amenities = amenities

	f.publish(ctx, queue.PlaceCreated, p.ID, map[string]string{
		"owner_id": p.OwnerID,
		"title":    p.Title,
		"price":    strconv.FormatFloat(p.Price, 'f', 2, 64),
	})
	return p, nil
}

func (f *Facade) GetPlace(ctx context.Context, id string) (*model.Place, error) {
	p, err := f.places.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	return p, nil
}

// GetPlaceDetails resolves the owner, amenities and reviews of a place. A
// missing owner row is reported as a nil owner.
func (f *Facade) GetPlaceDetails(ctx context.Context, id string) (*PlaceDetails, error) {
	p, err := f.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &PlaceDetails{Place: *p}

	owner, err := f.users.Get(ctx, p.OwnerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, msgUserNotFound)
	}
	d.Owner = owner

	if d.Amenities, err = f.places.Amenities(ctx, id); err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	if d.Reviews, err = f.reviews.ListByPlace(ctx, id); err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	if d.Amenities == nil {
		d.Amenities = []model.Amenity{}
	}
	if d.Reviews == nil {
		d.Reviews = []model.Review{}
	}
	return d, nil
}

func (f *Facade) ListPlaces(ctx context.Context) ([]model.Place, error) {
	places, err := f.places.GetAll(ctx)
	if err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	return places, nil
}

func (f *Facade) UpdatePlace(ctx context.Context, id string, patch model.PlacePatch) (*model.Place, error) {
	p, err := f.places.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	f.publish(ctx, queue.PlaceUpdated, p.ID, nil)
	return p, nil
}

// DeletePlace removes the place together with its reviews and amenity links.
func (f *Facade) DeletePlace(ctx context.Context, id string) error {
	if _, err := f.places.Get(ctx, id); err != nil {
		return storeErr(err, msgPlaceNotFound)
	}
	return f.deletePlace(ctx, id)
}

func (f *Facade) deletePlace(ctx context.Context, id string) error {
	reviews, err := f.reviews.ListByPlace(ctx, id)
	if err != nil {
		return storeErr(err, msgPlaceNotFound)
	}
	for _, r := range reviews {
		if err := f.reviews.Delete(ctx, r.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storeErr(err, msgReviewNotFound)
		}
	}
	if err := f.places.ClearAmenities(ctx, id); err != nil {
		return storeErr(err, msgPlaceNotFound)
	}
	if err := f.places.Delete(ctx, id); err != nil {
		return storeErr(err, msgPlaceNotFound)
	}
	f.publish(ctx, queue.PlaceDeleted, id, map[string]string{"reviews_removed": strconv.Itoa(len(reviews))})
	return nil
}

// AddPlaceAmenities links existing amenities to a place. Linking an
// amenity twice keeps a single association.
func (f *Facade) AddPlaceAmenities(ctx context.Context, placeID string, amenityIDs []string) error {
	if _, err := f.places.Get(ctx, placeID); err != nil {
		return storeErr(err, msgPlaceNotFound)
	}
	amenities, err := f.resolveAmenities(ctx, amenityIDs)
	if err != nil {
		return err
	}
	if err := f.places.AddAmenities(ctx, placeID, amenities); err != nil {
		return storeErr(err, msgPlaceNotFound)
	}
	f.publish(ctx, queue.PlaceAmenitiesAdded, placeID, map[string]string{"count": strconv.Itoa(len(amenities))})
	return nil
}

// ListPlaceReviews returns the reviews of an existing place.
func (f *Facade) ListPlaceReviews(ctx context.Context, placeID string) ([]model.Review, error) {
	if _, err := f.places.Get(ctx, placeID); err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	reviews, err := f.reviews.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, storeErr(err, msgPlaceNotFound)
	}
	return reviews, nil
}

// resolveAmenities loads every id; an unknown id is a validation error.
// Duplicate ids are collapsed.
func (f *Facade) resolveAmenities(ctx context.Context, ids []string) ([]model.Amenity, error) {
	out := make([]model.Amenity, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		a, err := f.amenities.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation(fmt.Sprintf("Amenity %s not found", id))
		}
		if err != nil {
			return nil, storeErr(err, msgAmenityNotFound)
		}
		out = append(out, *a)
	}
	return out, nil
}

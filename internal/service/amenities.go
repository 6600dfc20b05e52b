package service

import (
	"context"
	"errors"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/queue"
	"github.com/iliyamo/hbnb/internal/repository"
)

const msgAmenityNotFound = "Amenity not found"

var errAmenityExists = apperr.Conflict("Amenity with this name already exists")

func (f *Facade) CreateAmenity(ctx context.Context, name string) (*model.Amenity, error) {
	a, err := model.NewAmenity(name)
	if err != nil {
		return nil, err
	}
	_, err = f.amenities.GetByName(ctx, a.Name)
	taken, err := exists(err)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errAmenityExists
	}
	if err := f.amenities.Add(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errAmenityExists
		}
		return nil, storeErr(err, msgAmenityNotFound)
	}
	f.publish(ctx, queue.AmenityCreated, a.ID, map[string]string{"name": a.Name})
	return a, nil
}

// UpdateAmenity re-checks name uniqueness against the other amenities.
func (f *Facade) UpdateAmenity(ctx context.Context, id string, patch model.AmenityPatch) (*model.Amenity, error) {
	if _, err := f.amenities.Get(ctx, id); err != nil {
		return nil, storeErr(err, msgAmenityNotFound)
	}
	if patch.Name != nil {
		other, err := f.amenities.GetByName(ctx, *patch.Name)
		taken, err := exists(err)
		if err != nil {
			return nil, err
		}
		if taken && other.ID != id {
			return nil, errAmenityExists
		}
	}
	a, err := f.amenities.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errAmenityExists
		}
		return nil, storeErr(err, msgAmenityNotFound)
	}
	f.publish(ctx, queue.AmenityUpdated, a.ID, map[string]string{"name": a.Name})
	return a, nil
}

func (f *Facade) GetAmenity(ctx context.Context, id string) (*model.Amenity, error) {
	a, err := f.amenities.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgAmenityNotFound)
	}
	return a, nil
}

func (f *Facade) ListAmenities(ctx context.Context) ([]model.Amenity, error) {
	amenities, err := f.amenities.GetAll(ctx)
	if err != nil {
		return nil, storeErr(err, msgAmenityNotFound)
	}
	return amenities, nil
}

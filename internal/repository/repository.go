package repository

import (
	"context"
	"time"

	"github.com/iliyamo/hbnb/internal/model"
)

// Entity is the behaviour the generic repositories need from a model.
type Entity interface {
	EntityID() string
	Created() time.Time
	Touch(t time.Time)
	Validate() error
	Attribute(field string) (any, bool)
}

// Record ties a model type T to its pointer, which carries the methods.
type Record[T any] interface {
	*T
	Entity
}

// Patch mutates recognized fields of a T in place.
type Patch[T any] interface {
	Apply(*T)
}

// Repository is the CRUD contract shared by every entity store.
type Repository[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	GetByAttribute(ctx context.Context, field string, value any) (*T, error)
	Add(ctx context.Context, e *T) error
	Update(ctx context.Context, id string, patch Patch[T]) (*T, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Repository[model.User]
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type PlaceRepository interface {
	Repository[model.Place]
	ListByOwner(ctx context.Context, ownerID string) ([]model.Place, error)
	// AddAmenities links the amenities to the place. Already linked
	// amenities are left as they are.
	AddAmenities(ctx context.Context, placeID string, amenities []model.Amenity) error
	Amenities(ctx context.Context, placeID string) ([]model.Amenity, error)
	ClearAmenities(ctx context.Context, placeID string) error
}

type ReviewRepository interface {
	Repository[model.Review]
	ListByPlace(ctx context.Context, placeID string) ([]model.Review, error)
	ListByUser(ctx context.Context, userID string) ([]model.Review, error)
	GetByPlaceAndUser(ctx context.Context, placeID, userID string) (*model.Review, error)
}

type AmenityRepository interface {
	Repository[model.Amenity]
	GetByName(ctx context.Context, name string) (*model.Amenity, error)
}

// Store bundles the four entity repositories of one backend.
type Store struct {
	Users     UserRepository
	Places    PlaceRepository
	Reviews   ReviewRepository
	Amenities AmenityRepository
}

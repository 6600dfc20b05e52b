package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/iliyamo/hbnb/internal/model"
)

// NewGormStore wires the four entity repositories to one gorm handle.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:     NewGormUserRepo(db),
		Places:    NewGormPlaceRepo(db),
		Reviews:   NewGormReviewRepo(db),
		Amenities: NewGormAmenityRepo(db),
	}
}

type GormUserRepo struct {
	*GormRepository[model.User, *model.User]
}

func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{NewGormRepository[model.User](db)}
}

// GetByEmail looks the user up by normalized email.
func (r *GormUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.GetByAttribute(ctx, "email", model.NormalizeEmail(email))
}

type GormPlaceRepo struct {
	*GormRepository[model.Place, *model.Place]
}

func NewGormPlaceRepo(db *gorm.DB) *GormPlaceRepo {
	return &GormPlaceRepo{NewGormRepository[model.Place](db)}
}

func (r *GormPlaceRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Place, error) {
	return r.find(ctx, "owner_id = ?", ownerID)
}

// AddAmenities inserts join rows only; the amenity rows themselves are not
// upserted. The join table's composite key keeps repeated links single.
func (r *GormPlaceRepo) AddAmenities(ctx context.Context, placeID string, amenities []model.Amenity) error {
	if len(amenities) == 0 {
		return nil
	}
	place := &model.Place{Base: model.Base{ID: placeID}}
	assoc := r.db.WithContext(ctx).Model(place).Omit("Amenities.*").Association("Amenities")
	if assoc.Error != nil {
		return assoc.Error
	}
	return translate(assoc.Append(amenities))
}

func (r *GormPlaceRepo) Amenities(ctx context.Context, placeID string) ([]model.Amenity, error) {
	var out []model.Amenity
	place := &model.Place{Base: model.Base{ID: placeID}}
	assoc := r.db.WithContext(ctx).Model(place).Association("Amenities")
	if assoc.Error != nil {
		return nil, assoc.Error
	}
	if err := assoc.Find(&out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *GormPlaceRepo) ClearAmenities(ctx context.Context, placeID string) error {
	place := &model.Place{Base: model.Base{ID: placeID}}
	assoc := r.db.WithContext(ctx).Model(place).Association("Amenities")
	if assoc.Error != nil {
		return assoc.Error
	}
	return translate(assoc.Clear())
}

type GormReviewRepo struct {
	*GormRepository[model.Review, *model.Review]
}

func NewGormReviewRepo(db *gorm.DB) *GormReviewRepo {
	return &GormReviewRepo{NewGormRepository[model.Review](db)}
}

func (r *GormReviewRepo) ListByPlace(ctx context.Context, placeID string) ([]model.Review, error) {
	return r.find(ctx, "place_id = ?", placeID)
}

func (r *GormReviewRepo) ListByUser(ctx context.Context, userID string) ([]model.Review, error) {
	return r.find(ctx, "user_id = ?", userID)
}

func (r *GormReviewRepo) GetByPlaceAndUser(ctx context.Context, placeID, userID string) (*model.Review, error) {
	var out model.Review
	err := r.db.WithContext(ctx).
		Where("place_id = ? AND user_id = ?", placeID, userID).
		First(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

type GormAmenityRepo struct {
	*GormRepository[model.Amenity, *model.Amenity]
}

func NewGormAmenityRepo(db *gorm.DB) *GormAmenityRepo {
	return &GormAmenityRepo{NewGormRepository[model.Amenity](db)}
}

func (r *GormAmenityRepo) GetByName(ctx context.Context, name string) (*model.Amenity, error) {
	return r.GetByAttribute(ctx, "name", strings.TrimSpace(name))
}

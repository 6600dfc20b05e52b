package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/iliyamo/hbnb/internal/model"
)

// NewMemoryStore returns an empty in-process store with the same unique
// keys as the SQL schema.
func NewMemoryStore() *Store {
	amenities := NewMemoryAmenityRepo()
	return &Store{
		Users:     NewMemoryUserRepo(),
		Places:    NewMemoryPlaceRepo(amenities),
		Reviews:   NewMemoryReviewRepo(),
		Amenities: amenities,
	}
}

type MemoryUserRepo struct {
	*MemoryRepository[model.User, *model.User]
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{NewMemoryRepository[model.User]().WithUnique("email")}
}

func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.GetByAttribute(ctx, "email", model.NormalizeEmail(email))
}

// MemoryPlaceRepo keeps amenity links as ids and resolves them against the
// amenity repository on read.
type MemoryPlaceRepo struct {
	*MemoryRepository[model.Place, *model.Place]
	amenities *MemoryAmenityRepo

	linkMu sync.RWMutex
	links  map[string][]string
}

func NewMemoryPlaceRepo(amenities *MemoryAmenityRepo) *MemoryPlaceRepo {
	if amenities == nil {
		panic("repository: nil amenity repository")
	}
	return &MemoryPlaceRepo{
		MemoryRepository: NewMemoryRepository[model.Place](),
		amenities:        amenities,
		links:            make(map[string][]string),
	}
}

func (r *MemoryPlaceRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Place, error) {
	return r.filter(func(p *model.Place) bool { return p.OwnerID == ownerID }), nil
}

// Delete also drops the place's amenity links.
func (r *MemoryPlaceRepo) Delete(ctx context.Context, id string) error {
	if err := r.MemoryRepository.Delete(ctx, id); err != nil {
		return err
	}
	return r.ClearAmenities(ctx, id)
}

func (r *MemoryPlaceRepo) AddAmenities(ctx context.Context, placeID string, amenities []model.Amenity) error {
	if _, err := r.Get(ctx, placeID); err != nil {
		return err
	}
	r.linkMu.Lock()
	defer r.linkMu.Unlock()
	ids := r.links[placeID]
	for _, a := range amenities {
		if !slices.Contains(ids, a.ID) {
			ids = append(ids, a.ID)
		}
	}
	r.links[placeID] = ids
	return nil
}

func (r *MemoryPlaceRepo) Amenities(ctx context.Context, placeID string) ([]model.Amenity, error) {
	r.linkMu.RLock()
	ids := slices.Clone(r.links[placeID])
	r.linkMu.RUnlock()

	out := make([]model.Amenity, 0, len(ids))
	for _, id := range ids {
		a, err := r.amenities.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *MemoryPlaceRepo) ClearAmenities(_ context.Context, placeID string) error {
	r.linkMu.Lock()
	defer r.linkMu.Unlock()
	delete(r.links, placeID)
	return nil
}

type MemoryReviewRepo struct {
	*MemoryRepository[model.Review, *model.Review]
}

func NewMemoryReviewRepo() *MemoryReviewRepo {
	return &MemoryReviewRepo{NewMemoryRepository[model.Review]().WithUnique("user_id", "place_id")}
}

func (r *MemoryReviewRepo) ListByPlace(_ context.Context, placeID string) ([]model.Review, error) {
	return r.filter(func(rv *model.Review) bool { return rv.PlaceID == placeID }), nil
}

func (r *MemoryReviewRepo) ListByUser(_ context.Context, userID string) ([]model.Review, error) {
	return r.filter(func(rv *model.Review) bool { return rv.UserID == userID }), nil
}

func (r *MemoryReviewRepo) GetByPlaceAndUser(_ context.Context, placeID, userID string) (*model.Review, error) {
	found := r.filter(func(rv *model.Review) bool { return rv.PlaceID == placeID && rv.UserID == userID })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

type MemoryAmenityRepo struct {
	*MemoryRepository[model.Amenity, *model.Amenity]
}

func NewMemoryAmenityRepo() *MemoryAmenityRepo {
	return &MemoryAmenityRepo{NewMemoryRepository[model.Amenity]().WithUnique("name")}
}

// GetByName matches case-insensitively, like the MySQL collation.
func (r *MemoryAmenityRepo) GetByName(_ context.Context, name string) (*model.Amenity, error) {
	name = strings.TrimSpace(name)
	found := r.filter(func(a *model.Amenity) bool { return strings.EqualFold(a.Name, name) })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/queue"
	"github.com/iliyamo/hbnb/internal/repository"
)

type recorder struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev queue.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func newFacade(t *testing.T) (*Facade, *recorder) {
	t.Helper()
	rec := &recorder{}
	f := NewFacade(repository.NewMemoryStore(), Options{
		Events:     rec,
		BcryptCost: bcrypt.MinCost,
		Logger:     zerolog.Nop(),
	})
	return f, rec
}

func mustUser(t *testing.T, f *Facade, email string) *model.User {
	t.Helper()
	u, err := f.CreateUser(context.Background(), CreateUserInput{
		FirstName: "Test", LastName: "User", Email: email, Password: "pw",
	})
	require.NoError(t, err)
	return u
}

func mustPlace(t *testing.T, f *Facade, ownerID string, amenityIDs ...string) *model.Place {
	t.Helper()
	p, err := f.CreatePlace(context.Background(), CreatePlaceInput{
		Title: "Loft", Price: 100, Latitude: 10, Longitude: 20, OwnerID: ownerID, AmenityIDs: amenityIDs,
	})
	require.NoError(t, err)
	return p
}

func assertKind(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err))
	if msg != "" {
		assert.Equal(t, msg, apperr.MessageOf(err))
	}
}

func TestNewFacadePanicsOnIncompleteStore(t *testing.T) {
	assert.Panics(t, func() { NewFacade(nil, Options{}) })
	assert.Panics(t, func() { NewFacade(&repository.Store{}, Options{}) })
}

func TestCreateUser(t *testing.T) {
	f, rec := newFacade(t)
	ctx := context.Background()

	u := mustUser(t, f, "Ada@Example.com")
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "pw", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw")))
	assert.Equal(t, []string{queue.UserCreated}, rec.types())

	_, err := f.CreateUser(ctx, CreateUserInput{FirstName: "A", LastName: "B", Email: "ada@example.com", Password: "x"})
	assertKind(t, err, apperr.KindConflict, "Email already registered")

	_, err = f.CreateUser(ctx, CreateUserInput{FirstName: "A", LastName: "B", Email: "new@example.com"})
	assertKind(t, err, apperr.KindValidation, "Password is required")

	_, err = f.CreateUser(ctx, CreateUserInput{FirstName: "A", LastName: "B", Email: "bad", Password: "x"})
	assertKind(t, err, apperr.KindValidation, "Invalid email format")
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f, rec := newFacade(t)
	rec.err = errors.New("broker down")
	u := mustUser(t, f, "a@b.io")
	assert.NotEmpty(t, u.ID)
}

func TestGetUserNotFound(t *testing.T) {
	f, _ := newFacade(t)
	_, err := f.GetUser(context.Background(), "missing")
	assertKind(t, err, apperr.KindNotFound, "User not found")
}

func TestUpdateUser(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	a := mustUser(t, f, "a@b.io")
	mustUser(t, f, "taken@b.io")

	name := "Grace"
	u, err := f.UpdateUser(ctx, a.ID, UserUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grace", u.FirstName)
	assert.Equal(t, a.PasswordHash, u.PasswordHash)

	taken := "TAKEN@b.io"
	_, err = f.UpdateUser(ctx, a.ID, UserUpdate{Email: &taken})
	assertKind(t, err, apperr.KindConflict, "Email already in use")

	same := "a@b.io"
	_, err = f.UpdateUser(ctx, a.ID, UserUpdate{Email: &same})
	require.NoError(t, err)

	pw := "new-password"
	u, err = f.UpdateUser(ctx, a.ID, UserUpdate{Password: &pw})
	require.NoError(t, err)
	assert.NotEqual(t, a.PasswordHash, u.PasswordHash)
	_, err = f.Authenticate(ctx, "a@b.io", "new-password")
	assert.NoError(t, err)

	empty := ""
	_, err = f.UpdateUser(ctx, a.ID, UserUpdate{LastName: &empty})
	assertKind(t, err, apperr.KindValidation, "Last name is required")

	_, err = f.UpdateUser(ctx, "missing", UserUpdate{FirstName: &name})
	assertKind(t, err, apperr.KindNotFound, "User not found")
}

func TestAuthenticate(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	u := mustUser(t, f, "a@b.io")

	got, err := f.Authenticate(ctx, " A@B.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, wrongPw := f.Authenticate(ctx, "a@b.io", "nope")
	_, unknown := f.Authenticate(ctx, "x@b.io", "pw")
	assertKind(t, wrongPw, apperr.KindAuth, "Invalid credentials")
	assertKind(t, unknown, apperr.KindAuth, "Invalid credentials")
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestEnsureAdmin(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()

	admin, err := f.EnsureAdmin(ctx, "root@hbnb.io", "pw", "Admin", "HBnB")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	again, err := f.EnsureAdmin(ctx, "root@hbnb.io", "other", "Admin", "HBnB")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	plain := mustUser(t, f, "plain@hbnb.io")
	promoted, err := f.EnsureAdmin(ctx, "plain@hbnb.io", "pw", "x", "y")
	require.NoError(t, err)
	assert.Equal(t, plain.ID, promoted.ID)
	assert.True(t, promoted.IsAdmin)
}

func TestCreatePlace(t *testing.T) {
	f, rec := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	wifi, err := f.CreateAmenity(ctx, "Wifi")
	require.NoError(t, err)

	p := mustPlace(t, f, owner.ID, wifi.ID, wifi.ID)
	assert.Equal(t, owner.ID, p.OwnerID)
	require.Len(t, p.Amenities, 1)
	assert.Contains(t, rec.types(), queue.PlaceCreated)

	_, err = f.CreatePlace(ctx, CreatePlaceInput{Title: "x", OwnerID: "ghost"})
	assertKind(t, err, apperr.KindValidation, "Owner not found")

	_, err = f.CreatePlace(ctx, CreatePlaceInput{Title: "x", OwnerID: owner.ID, AmenityIDs: []string{"nope"}})
	assertKind(t, err, apperr.KindValidation, "Amenity nope not found")

	_, err = f.CreatePlace(ctx, CreatePlaceInput{Title: "x", Price: -1, OwnerID: owner.ID})
	assertKind(t, err, apperr.KindValidation, "Price must be a non-negative number")

	_, err = f.CreatePlace(ctx, CreatePlaceInput{Title: "x", Latitude: 91, OwnerID: owner.ID})
	assertKind(t, err, apperr.KindValidation, "Latitude must be between -90 and 90")
}

func TestPlaceDetails(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	guest := mustUser(t, f, "g@b.io")
	pool, err := f.CreateAmenity(ctx, "Pool")
	require.NoError(t, err)
	p := mustPlace(t, f, owner.ID, pool.ID)
	_, err = f.CreateReview(ctx, CreateReviewInput{Text: "great", Rating: 5, PlaceID: p.ID, UserID: guest.ID})
	require.NoError(t, err)

	d, err := f.GetPlaceDetails(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, d.Owner)
	assert.Equal(t, owner.ID, d.Owner.ID)
	require.Len(t, d.Amenities, 1)
	assert.Equal(t, "Pool", d.Amenities[0].Name)
	require.Len(t, d.Reviews, 1)
	assert.Equal(t, guest.ID, d.Reviews[0].UserID)

	_, err = f.GetPlaceDetails(ctx, "missing")
	assertKind(t, err, apperr.KindNotFound, "Place not found")
}

func TestUpdatePlace(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	p := mustPlace(t, f, owner.ID)

	price := 250.0
	got, err := f.UpdatePlace(ctx, p.ID, model.PlacePatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.Price)
	assert.Equal(t, "Loft", got.Title)

	lng := 200.0
	_, err = f.UpdatePlace(ctx, p.ID, model.PlacePatch{Longitude: &lng})
	assertKind(t, err, apperr.KindValidation, "Longitude must be between -180 and 180")

	_, err = f.UpdatePlace(ctx, "missing", model.PlacePatch{Price: &price})
	assertKind(t, err, apperr.KindNotFound, "Place not found")
}

func TestAddPlaceAmenitiesIdempotent(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	p := mustPlace(t, f, owner.ID)
	wifi, err := f.CreateAmenity(ctx, "Wifi")
	require.NoError(t, err)

	require.NoError(t, f.AddPlaceAmenities(ctx, p.ID, []string{wifi.ID}))
	require.NoError(t, f.AddPlaceAmenities(ctx, p.ID, []string{wifi.ID}))

	d, err := f.GetPlaceDetails(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, d.Amenities, 1)

	err = f.AddPlaceAmenities(ctx, p.ID, []string{"ghost"})
	assertKind(t, err, apperr.KindValidation, "Amenity ghost not found")

	err = f.AddPlaceAmenities(ctx, "missing", []string{wifi.ID})
	assertKind(t, err, apperr.KindNotFound, "Place not found")
}

func TestCreateReviewRules(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	guest := mustUser(t, f, "g@b.io")
	p := mustPlace(t, f, owner.ID)

	r, err := f.CreateReview(ctx, CreateReviewInput{Text: "nice", Rating: 4, PlaceID: p.ID, UserID: guest.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating)

	_, err = f.CreateReview(ctx, CreateReviewInput{Text: "again", Rating: 2, PlaceID: p.ID, UserID: guest.ID})
	assertKind(t, err, apperr.KindConflict, "You have already reviewed this place")

	_, err = f.CreateReview(ctx, CreateReviewInput{Text: "mine", Rating: 5, PlaceID: p.ID, UserID: owner.ID})
	assertKind(t, err, apperr.KindConflict, "You cannot review your own place")

	_, err = f.CreateReview(ctx, CreateReviewInput{Text: "x", Rating: 5, PlaceID: "ghost", UserID: guest.ID})
	assertKind(t, err, apperr.KindValidation, "Place not found")

	_, err = f.CreateReview(ctx, CreateReviewInput{Text: "x", Rating: 5, PlaceID: p.ID, UserID: "ghost"})
	assertKind(t, err, apperr.KindValidation, "User not found")

	other := mustUser(t, f, "x@b.io")
	_, err = f.CreateReview(ctx, CreateReviewInput{Text: "x", Rating: 6, PlaceID: p.ID, UserID: other.ID})
	assertKind(t, err, apperr.KindValidation, "Rating must be an integer between 1 and 5")
}

func TestUpdateAndDeleteReview(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	guest := mustUser(t, f, "g@b.io")
	p := mustPlace(t, f, owner.ID)
	r, err := f.CreateReview(ctx, CreateReviewInput{Text: "nice", Rating: 4, PlaceID: p.ID, UserID: guest.ID})
	require.NoError(t, err)

	text := "even nicer"
	got, err := f.UpdateReview(ctx, r.ID, model.ReviewPatch{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "even nicer", got.Text)
	assert.Equal(t, 4, got.Rating)

	require.NoError(t, f.DeleteReview(ctx, r.ID))
	_, err = f.GetReview(ctx, r.ID)
	assertKind(t, err, apperr.KindNotFound, "Review not found")
	assertKind(t, f.DeleteReview(ctx, r.ID), apperr.KindNotFound, "Review not found")
}

func TestDeletePlaceCascades(t *testing.T) {
	f, rec := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	guest := mustUser(t, f, "g@b.io")
	wifi, err := f.CreateAmenity(ctx, "Wifi")
	require.NoError(t, err)
	p := mustPlace(t, f, owner.ID, wifi.ID)
	r, err := f.CreateReview(ctx, CreateReviewInput{Text: "nice", Rating: 4, PlaceID: p.ID, UserID: guest.ID})
	require.NoError(t, err)

	require.NoError(t, f.DeletePlace(ctx, p.ID))

	_, err = f.GetPlace(ctx, p.ID)
	assertKind(t, err, apperr.KindNotFound, "")
	_, err = f.GetReview(ctx, r.ID)
	assertKind(t, err, apperr.KindNotFound, "")
	// amenity itself survives
	_, err = f.GetAmenity(ctx, wifi.ID)
	assert.NoError(t, err)
	assert.Contains(t, rec.types(), queue.PlaceDeleted)

	assertKind(t, f.DeletePlace(ctx, p.ID), apperr.KindNotFound, "Place not found")
}

func TestDeleteUserCascades(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	guest := mustUser(t, f, "g@b.io")
	ownersPlace := mustPlace(t, f, owner.ID)
	guestsPlace := mustPlace(t, f, guest.ID)

	onOwners, err := f.CreateReview(ctx, CreateReviewInput{Text: "a", Rating: 3, PlaceID: ownersPlace.ID, UserID: guest.ID})
	require.NoError(t, err)
	byOwner, err := f.CreateReview(ctx, CreateReviewInput{Text: "b", Rating: 3, PlaceID: guestsPlace.ID, UserID: owner.ID})
	require.NoError(t, err)

	require.NoError(t, f.DeleteUser(ctx, owner.ID))

	_, err = f.GetUser(ctx, owner.ID)
	assertKind(t, err, apperr.KindNotFound, "")
	_, err = f.GetPlace(ctx, ownersPlace.ID)
	assertKind(t, err, apperr.KindNotFound, "")
	_, err = f.GetReview(ctx, onOwners.ID)
	assertKind(t, err, apperr.KindNotFound, "")
	_, err = f.GetReview(ctx, byOwner.ID)
	assertKind(t, err, apperr.KindNotFound, "")

	_, err = f.GetPlace(ctx, guestsPlace.ID)
	assert.NoError(t, err)
	_, err = f.GetUser(ctx, guest.ID)
	assert.NoError(t, err)
}

func TestAmenities(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()

	wifi, err := f.CreateAmenity(ctx, "Wifi")
	require.NoError(t, err)
	_, err = f.CreateAmenity(ctx, "wifi")
	assertKind(t, err, apperr.KindConflict, "Amenity with this name already exists")
	_, err = f.CreateAmenity(ctx, "")
	assertKind(t, err, apperr.KindValidation, "Name is required")

	pool, err := f.CreateAmenity(ctx, "Pool")
	require.NoError(t, err)

	name := "Pool"
	_, err = f.UpdateAmenity(ctx, wifi.ID, model.AmenityPatch{Name: &name})
	assertKind(t, err, apperr.KindConflict, "Amenity with this name already exists")

	// renaming to its own name is fine
	got, err := f.UpdateAmenity(ctx, pool.ID, model.AmenityPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Pool", got.Name)

	fast := "Fast Wifi"
	got, err = f.UpdateAmenity(ctx, wifi.ID, model.AmenityPatch{Name: &fast})
	require.NoError(t, err)
	assert.Equal(t, "Fast Wifi", got.Name)

	_, err = f.UpdateAmenity(ctx, "missing", model.AmenityPatch{Name: &fast})
	assertKind(t, err, apperr.KindNotFound, "Amenity not found")

	all, err := f.ListAmenities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListPlaceReviews(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	owner := mustUser(t, f, "o@b.io")
	p := mustPlace(t, f, owner.ID)
	for _, email := range []string{"1@b.io", "2@b.io"} {
		u := mustUser(t, f, email)
		_, err := f.CreateReview(ctx, CreateReviewInput{Text: "t", Rating: 5, PlaceID: p.ID, UserID: u.ID})
		require.NoError(t, err)
	}
	reviews, err := f.ListPlaceReviews(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	_, err = f.ListPlaceReviews(ctx, "missing")
	assertKind(t, err, apperr.KindNotFound, "Place not found")
}

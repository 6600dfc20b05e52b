package service

import (
	"context"
	"errors"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/queue"
	"github.com/iliyamo/hbnb/internal/repository"
	"github.com/iliyamo/hbnb/internal/utils"
)

const msgUserNotFound = "User not found"

type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// UserUpdate lists the fields a caller may change; nil leaves a field as is.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

// CreateUser hashes the password and stores a new user.
func (f *Facade) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if in.Password == "" {
		return nil, apperr.Validation("Password is required")
	}
	_, err := f.users.GetByEmail(ctx, in.Email)
	found, err := exists(err)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, apperr.Conflict("Email already registered")
	}

	hash, err := utils.HashPassword(in.Password, f.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("password hashing failed", err)
	}
	u, err := model.NewUser(in.FirstName, in.LastName, in.Email, hash, in.IsAdmin)
	if err != nil {
		return nil, err
	}
	if err := f.users.Add(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, storeErr(err, msgUserNotFound)
	}

	f.log.Info().Str("user_id", u.ID).Bool("is_admin", u.IsAdmin).Msg("user created")
	f.publish(ctx, queue.UserCreated, u.ID, map[string]string{"email": u.Email})
	return u, nil
}

func (f *Facade) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := f.users.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	return u, nil
}

func (f *Facade) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := f.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	return u, nil
}

func (f *Facade) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := f.users.GetAll(ctx)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	return users, nil
}

// UpdateUser re-checks email uniqueness when the email changes and
// rehashes a new password.
func (f *Facade) UpdateUser(ctx context.Context, id string, in UserUpdate) (*model.User, error) {
	current, err := f.users.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}

	patch := model.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsAdmin:   in.IsAdmin,
	}
	if in.Email != nil && model.NormalizeEmail(*in.Email) != current.Email {
		other, err := f.users.GetByEmail(ctx, *in.Email)
		taken, err := exists(err)
		if err != nil {
			return nil, err
		}
		if taken && other.ID != id {
			return nil, apperr.Conflict("Email already in use")
		}
		patch.Email = in.Email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, apperr.Validation("Password is required")
		}
		hash, err := utils.HashPassword(*in.Password, f.bcryptCost)
		if err != nil {
			return nil, apperr.Internal("password hashing failed", err)
		}
		patch.PasswordHash = &hash
	}

	u, err := f.users.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Email already in use")
		}
		return nil, storeErr(err, msgUserNotFound)
	}
	f.publish(ctx, queue.UserUpdated, u.ID, nil)
	return u, nil
}

// DeleteUser removes the user's reviews, then the user's places (each with
// its own reviews and amenity links), then the user.
func (f *Facade) DeleteUser(ctx context.Context, id string) error {
	if _, err := f.users.Get(ctx, id); err != nil {
		return storeErr(err, msgUserNotFound)
	}

	reviews, err := f.reviews.ListByUser(ctx, id)
	if err != nil {
		return storeErr(err, msgUserNotFound)
	}
	for _, r := range reviews {
		if err := f.reviews.Delete(ctx, r.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storeErr(err, msgReviewNotFound)
		}
	}

	places, err := f.places.ListByOwner(ctx, id)
	if err != nil {
		return storeErr(err, msgUserNotFound)
	}
	for _, p := range places {
		if err := f.deletePlace(ctx, p.ID); err != nil {
			return err
		}
	}

	if err := f.users.Delete(ctx, id); err != nil {
		return storeErr(err, msgUserNotFound)
	}
	f.log.Info().Str("user_id", id).Int("places", len(places)).Int("reviews", len(reviews)).Msg("user deleted")
	f.publish(ctx, queue.UserDeleted, id, nil)
	return nil
}

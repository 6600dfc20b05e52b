package service

import (
	"context"
	"errors"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/model"
	"github.com/iliyamo/hbnb/internal/repository"
	"github.com/iliyamo/hbnb/internal/utils"
)

var errInvalidCredentials = apperr.Auth("Invalid credentials")

// Authenticate returns the user whose email and password match. An unknown
// email and a wrong password produce the same error.
func (f *Facade) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := f.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, errInvalidCredentials
	}
	return u, nil
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// non-admin account is promoted; its password is left untouched.
func (f *Facade) EnsureAdmin(ctx context.Context, email, password, firstName, lastName string) (*model.User, error) {
	u, err := f.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.IsAdmin {
			return u, nil
		}
		admin := true
		u, err = f.users.Update(ctx, u.ID, model.UserPatch{IsAdmin: &admin})
		if err != nil {
			return nil, storeErr(err, msgUserNotFound)
		}
		f.log.Info().Str("user_id", u.ID).Msg("existing user promoted to admin")
		return u, nil
	case errors.Is(err, repository.ErrNotFound):
		return f.CreateUser(ctx, CreateUserInput{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Password:  password,
			IsAdmin:   true,
		})
	default:
		return nil, storeErr(err, msgUserNotFound)
	}
}

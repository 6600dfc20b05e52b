// Package service contains the Facade, the single entry point the HTTP
// layer uses to reach the repositories. It owns the cross-entity rules
// (owner existence, one review per user and place, cascading deletes),
// password hashing and domain event publication.
package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/queue"
	"github.com/iliyamo/hbnb/internal/repository"
)

// Options carries the optional collaborators of a Facade. A nil Events
// publisher discards events; a zero BcryptCost uses the bcrypt default.
type Options struct {
	Events     queue.Publisher
	BcryptCost int
	Logger     zerolog.Logger
}

type Facade struct {
	users     repository.UserRepository
	places    repository.PlaceRepository
	reviews   repository.ReviewRepository
	amenities repository.AmenityRepository

	events     queue.Publisher
	bcryptCost int
	log        zerolog.Logger
}

// NewFacade panics when store or any of its repositories is nil.
func NewFacade(store *repository.Store, opts Options) *Facade {
	if store == nil || store.Users == nil || store.Places == nil || store.Reviews == nil || store.Amenities == nil {
		panic("service: incomplete repository store")
	}
	events := opts.Events
	if events == nil {
		events = queue.Discard{}
	}
	return &Facade{
		users:      store.Users,
		places:     store.Places,
		reviews:    store.Reviews,
		amenities:  store.Amenities,
		events:     events,
		bcryptCost: opts.BcryptCost,
		log:        opts.Logger,
	}
}

// publish never fails the caller; broker errors are only logged.
func (f *Facade) publish(ctx context.Context, typ, entityID string, attrs map[string]string) {
	if err := f.events.Publish(ctx, queue.NewEvent(typ, entityID, attrs)); err != nil {
		f.log.Warn().Err(err).Str("event", typ).Str("entity_id", entityID).Msg("event publish failed")
	}
}

// storeErr translates repository failures. notFound is the message used
// for ErrNotFound; typed application errors (validation raised while a
// patch is applied) pass through.
func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal("storage failure", err)
}

// exists reports whether err is nil, false on ErrNotFound, and
// returns any other failure.
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, apperr.Internal("storage failure", err)
	}
}

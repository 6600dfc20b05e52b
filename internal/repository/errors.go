// Package repository persists the HBnB entities. The sentinel values below
// are shared by every implementation so that the service layer can tell a
// missing row from a uniqueness violation without knowing which store is in
// use. For example, ErrDuplicate is returned both when MySQL rejects an
// insert with error 1062 and when the in-memory store finds a clashing
// unique key.
package repository

import "errors"

// ErrNotFound is returned when no row matches the requested id or
// attribute. The service layer translates it into a 404 or, for
// references such as a review's place, into a validation error.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write would violate a unique key
// (users.email, amenities.name, reviews(user_id, place_id)).
var ErrDuplicate = errors.New("duplicate record")

// ErrUnknownAttribute is returned by GetByAttribute when the field is not a
// lookup column of the entity.
var ErrUnknownAttribute = errors.New("unknown attribute")

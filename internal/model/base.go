package model

import (
	"time"

	"github.com/google/uuid"
)

// Base holds the identity and timestamps shared by every persisted entity.
// It is embedded by value in User, Place, Review and Amenity; gorm flattens
// its columns into each entity's table.
//
// Fields:
//  ID        – UUID string primary key.
//  CreatedAt – set once when the entity is built.
//  UpdatedAt – refreshed on every mutation.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase returns a Base with a fresh UUID and both timestamps set to now.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
}

// EntityID returns the primary key.
func (b *Base) EntityID() string { return b.ID }

// Created returns the creation timestamp.
func (b *Base) Created() time.Time { return b.CreatedAt }

// Touch refreshes the modification timestamp.
func (b *Base) Touch(t time.Time) {
	t = t.UTC()
	if !t.After(b.UpdatedAt) {
		// keep UpdatedAt strictly increasing even on coarse clocks
		t = b.UpdatedAt.Add(time.Microsecond)
	}
	b.UpdatedAt = t
}

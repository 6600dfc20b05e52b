// Package queue defines the domain events published to the message broker
// and the background consumer that records them.
package queue

import (
	"context"
	"time"
)

// QueueName is the durable queue that carries every domain event.
const QueueName = "hbnb.events"

// Event types.
const (
	UserCreated         = "user.created"
	UserUpdated         = "user.updated"
	UserDeleted         = "user.deleted"
	PlaceCreated        = "place.created"
	PlaceUpdated        = "place.updated"
	PlaceDeleted        = "place.deleted"
	PlaceAmenitiesAdded = "place.amenities_added"
	ReviewCreated       = "review.created"
	ReviewUpdated       = "review.updated"
	ReviewDeleted       = "review.deleted"
	AmenityCreated      = "amenity.created"
	AmenityUpdated      = "amenity.updated"
)

// Event is published after a successful mutation. It carries enough
// information for downstream consumers to log or notify without querying
// the primary database. Attributes never contain credentials.
type Event struct {
	Type       string            `json:"type"`
	EntityID   string            `json:"entity_id"`
	OccurredAt string            `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(typ, entityID string, attrs map[string]string) Event {
	return Event{
		Type:       typ,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Attributes: attrs,
	}
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Discard is the Publisher used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }

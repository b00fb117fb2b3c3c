package ports

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Audience names a notification room. Every order event is fanned out to the
// buyer, the seller, and the admin room; agent-facing events additionally go
// to the assigned agent's room.
type Audience string

const (
	AudienceBuyer  Audience = "buyer"
	AudienceSeller Audience = "seller"
	AudienceAdmin  Audience = "admin"
	AudienceAgent  Audience = "agent"
)

// Event is a real-time order notification. Delivery is at-most-once: a
// subscriber that is absent or slow at emit time misses the event, and the
// tracking history in storage remains the source of truth.
type Event struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	Actor       string    `json:"actor,omitempty"`
	Message     string    `json:"message,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Recipient addresses one party's room for an order event.
type Recipient struct {
	Audience Audience
	UserID   kernel.UUID
}

// EventPublisher fans an event out to the given recipients' rooms.
// Implementations must never block the caller on a slow subscriber.
type EventPublisher interface {
	Publish(event Event, recipients []Recipient)
}

// ConnectionRegistry tracks live subscriber connections per room.
type ConnectionRegistry interface {
	// Register opens a subscription for a user in an audience room and
	// returns the channel events arrive on plus a deregister func the
	// caller must invoke when the connection closes.
	Register(audience Audience, userID kernel.UUID) (<-chan Event, func())
}

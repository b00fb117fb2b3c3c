package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// EventType names a tracking timeline entry. Event types are part of the wire
// contract consumed by the notification fan-out and the tracking read model.
type EventType string

const (
	EventOrderPlaced       EventType = "order_placed"
	EventPaymentConfirmed  EventType = "payment_confirmed"
	EventReadyToShip       EventType = "ready_to_ship"
	EventAgentAssigned     EventType = "agent_assigned"
	EventAgentAccepted     EventType = "agent_accepted"
	EventAgentRejected     EventType = "agent_rejected"
	EventPickupCompleted   EventType = "pickup_completed"
	EventLocationReached   EventType = "location_reached"
	EventDeliveryCompleted EventType = "delivery_completed"
	EventCODCollected      EventType = "cod_collected"
	EventOrderCancelled    EventType = "order_cancelled"
)

// TrackingEvent is one append-only entry in an order's public timeline.
type TrackingEvent struct {
	Type     EventType
	Message  string
	Location kernel.GeoPoint
	At       time.Time
}

// StatusChange is one append-only entry in the order's audit trail. Payment
// confirmations append an entry whose Status equals the previous entry's:
// payment and fulfillment are orthogonal axes.
type StatusChange struct {
	Status Status
	Actor  kernel.UUID
	Note   string
	At     time.Time
}

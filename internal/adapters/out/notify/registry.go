// Package notify implements the in-process notification fan-out. Subscribers
// register a channel per room; publishers push order events to every channel
// in the addressed rooms. Delivery is at-most-once: a full or absent
// subscriber misses the event and catches up from the tracking history.
package notify

import (
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// subscriberBuffer is the per-connection channel depth. A subscriber that
// falls this far behind starts losing events rather than blocking publishers.
const subscriberBuffer = 16

// Registry is the live connection table. It implements both
// ports.ConnectionRegistry for the transport layer and ports.EventPublisher
// for command handlers.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[int]chan ports.Event
	nextID int
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[int]chan ports.Event),
	}
}

// roomKey addresses a room. The admin room is shared among all admin
// subscribers; every other audience gets one room per user.
func roomKey(audience ports.Audience, userID kernel.UUID) string {
	if audience == ports.AudienceAdmin {
		return string(ports.AudienceAdmin)
	}
	return string(audience) + ":" + userID.String()
}

// Register opens a subscription for a user in an audience room. The returned
// func closes the subscription; it is safe to call more than once.
func (r *Registry) Register(audience ports.Audience, userID kernel.UUID) (<-chan ports.Event, func()) {
	ch := make(chan ports.Event, subscriberBuffer)
	key := roomKey(audience, userID)

	r.mu.Lock()
	room, ok := r.rooms[key]
	if !ok {
		room = make(map[int]chan ports.Event)
		r.rooms[key] = room
	}
	id := r.nextID
	r.nextID++
	room[id] = ch
	r.mu.Unlock()

	var once sync.Once
	deregister := func() {
		once.Do(func() {
			r.mu.Lock()
			if room, ok := r.rooms[key]; ok {
				delete(room, id)
				if len(room) == 0 {
					delete(r.rooms, key)
				}
			}
			r.mu.Unlock()
			close(ch)
		})
	}

	return ch, deregister
}

// Publish fans the event out to every subscriber in the recipients' rooms.
// A subscriber whose buffer is full is skipped silently.
func (r *Registry) Publish(event ports.Event, recipients []ports.Recipient) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rcpt := range recipients {
		for _, ch := range r.rooms[roomKey(rcpt.Audience, rcpt.UserID)] {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// SubscriberCount reports live connections in one room. Used by the
// operational status endpoint.
func (r *Registry) SubscriberCount(audience ports.Audience, userID kernel.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomKey(audience, userID)])
}

// Package stream mirrors order events onto a Kafka topic for downstream
// consumers (analytics, seller dashboards). The live fan-out stays in-process;
// the stream is a best-effort mirror fed from an in-memory outbox that a
// background job drains, so a broker outage never slows a command handler.
package stream

import (
	"sync"

	"dispatch/internal/core/ports"
)

// defaultCapacity bounds the outbox. When the ring is full the oldest
// undrained event is dropped; the tracking history in storage remains the
// source of truth.
const defaultCapacity = 1024

// Outbox is a bounded in-memory event buffer. It implements
// ports.EventPublisher so the composition root can chain it behind the live
// registry, and the stream job drains it toward Kafka.
type Outbox struct {
	mu       sync.Mutex
	events   []ports.Event
	capacity int
	dropped  uint64
}

// NewOutbox creates an outbox holding at most capacity undrained events.
// A non-positive capacity falls back to the default.
func NewOutbox(capacity int) *Outbox {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Outbox{
		events:   make([]ports.Event, 0, capacity),
		capacity: capacity,
	}
}

// Publish appends the event to the buffer. Recipients are ignored: the topic
// carries every event and consumers filter on their side.
func (o *Outbox) Publish(event ports.Event, _ []ports.Recipient) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.events) >= o.capacity {
		o.events = o.events[1:]
		o.dropped++
	}
	o.events = append(o.events, event)
}

// Drain removes and returns every buffered event, oldest first.
func (o *Outbox) Drain() []ports.Event {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.events) == 0 {
		return nil
	}

	drained := o.events
	o.events = make([]ports.Event, 0, o.capacity)
	return drained
}

// Requeue puts events back at the front of the buffer after a failed flush.
// Events that no longer fit are dropped.
func (o *Outbox) Requeue(events []ports.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	room := o.capacity - len(o.events)
	if room <= 0 {
		o.dropped += uint64(len(events))
		return
	}
	if len(events) > room {
		o.dropped += uint64(len(events) - room)
		events = events[len(events)-room:]
	}

	o.events = append(events, o.events...)
}

// Dropped reports how many events were lost to overflow since startup.
func (o *Outbox) Dropped() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}

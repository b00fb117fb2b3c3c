package stream_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/stream"
	"dispatch/internal/core/ports"
)

func streamEvent(orderID string) ports.Event {
	return ports.Event{
		Type:      "order_placed",
		OrderID:   orderID,
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestOutboxDrainsInPublishOrder(t *testing.T) {
	outbox := stream.NewOutbox(10)

	outbox.Publish(streamEvent("a"), nil)
	outbox.Publish(streamEvent("b"), nil)
	outbox.Publish(streamEvent("c"), nil)

	drained := outbox.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, "a", drained[0].OrderID)
	assert.Equal(t, "c", drained[2].OrderID)

	assert.Nil(t, outbox.Drain())
}

func TestOutboxDropsOldestOnOverflow(t *testing.T) {
	outbox := stream.NewOutbox(3)

	for i := 0; i < 5; i++ {
		outbox.Publish(streamEvent(fmt.Sprintf("order-%d", i)), nil)
	}

	drained := outbox.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, "order-2", drained[0].OrderID)
	assert.Equal(t, "order-4", drained[2].OrderID)
	assert.Equal(t, uint64(2), outbox.Dropped())
}

func TestRequeuePutsFailedBatchBackInFront(t *testing.T) {
	outbox := stream.NewOutbox(10)

	outbox.Publish(streamEvent("first"), nil)
	batch := outbox.Drain()
	require.Len(t, batch, 1)

	// New events arrive while the flush is failing.
	outbox.Publish(streamEvent("second"), nil)
	outbox.Requeue(batch)

	drained := outbox.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, "first", drained[0].OrderID)
	assert.Equal(t, "second", drained[1].OrderID)
}

package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"dispatch/internal/core/ports"
)

type fakeBuffer struct {
	pending  []ports.Event
	requeued []ports.Event
}

func (b *fakeBuffer) Drain() []ports.Event {
	events := b.pending
	b.pending = nil
	return events
}

func (b *fakeBuffer) Requeue(events []ports.Event) {
	b.requeued = append(b.requeued, events...)
}

type fakeSink struct {
	written [][]ports.Event
	err     error
}

func (s *fakeSink) Write(_ context.Context, events []ports.Event) error {
	if s.err != nil {
		return s.err
	}
	s.written = append(s.written, events)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFlushWritesDrainedBatch(t *testing.T) {
	buffer := &fakeBuffer{pending: []ports.Event{
		{Type: "order_placed", OrderID: "order-1"},
		{Type: "agent_assigned", OrderID: "order-1"},
	}}
	sink := &fakeSink{}
	job := NewTrackingStreamJob(buffer, sink, discardLogger())

	job.Flush(context.Background())

	assert.Len(t, sink.written, 1)
	assert.Len(t, sink.written[0], 2)
	assert.Empty(t, buffer.requeued)
}

func TestFlushSkipsEmptyBuffer(t *testing.T) {
	buffer := &fakeBuffer{}
	sink := &fakeSink{err: errors.New("sink must not be touched")}
	job := NewTrackingStreamJob(buffer, sink, discardLogger())

	job.Flush(context.Background())

	assert.Empty(t, sink.written)
	assert.Empty(t, buffer.requeued)
}

func TestFlushRequeuesFailedBatch(t *testing.T) {
	buffer := &fakeBuffer{pending: []ports.Event{
		{Type: "order_placed", OrderID: "order-1"},
	}}
	sink := &fakeSink{err: errors.New("broker unreachable")}
	job := NewTrackingStreamJob(buffer, sink, discardLogger())

	job.Flush(context.Background())

	assert.Len(t, buffer.requeued, 1)
	assert.Equal(t, "order-1", buffer.requeued[0].OrderID)
}

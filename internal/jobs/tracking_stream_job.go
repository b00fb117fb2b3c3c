package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// EventBuffer is the staging buffer the stream job drains. Failed batches go
// back to the front so ordering survives a broker outage.
type EventBuffer interface {
	Drain() []ports.Event
	Requeue(events []ports.Event)
}

// EventSink receives drained event batches, typically a Kafka topic.
type EventSink interface {
	Write(ctx context.Context, events []ports.Event) error
}

// TrackingStreamJob mirrors order events onto the external tracking stream.
// Runs every five seconds, draining the in-memory buffer into the sink in
// one batch per tick.
type TrackingStreamJob struct {
	buffer EventBuffer
	sink   EventSink
	cron   *cron.Cron
	logger *slog.Logger
}

// NewTrackingStreamJob creates the stream mirroring job.
func NewTrackingStreamJob(buffer EventBuffer, sink EventSink, logger *slog.Logger) *TrackingStreamJob {
	return &TrackingStreamJob{
		buffer: buffer,
		sink:   sink,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "tracking_stream_job"),
	}
}

// Start schedules the drain to run every five seconds.
func (j *TrackingStreamJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		j.Flush(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking stream job started (running every five seconds)")
	return nil
}

// Flush drains the buffer and writes the batch to the sink. On failure the
// batch is requeued and retried on the next tick.
func (j *TrackingStreamJob) Flush(ctx context.Context) {
	events := j.buffer.Drain()
	if len(events) == 0 {
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := j.sink.Write(writeCtx, events); err != nil {
		j.buffer.Requeue(events)
		j.logger.ErrorContext(ctx, "Tracking stream write failed, batch requeued",
			"error", err, "batch_size", len(events))
		return
	}

	j.logger.DebugContext(ctx, "Tracking stream batch written", "batch_size", len(events))
}

// Stop stops the stream job and flushes whatever is still buffered.
func (j *TrackingStreamJob) Stop() {
	j.cron.Stop()
	j.Flush(context.Background())
	j.logger.InfoContext(context.Background(), "Tracking stream job stopped")
}

package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"dispatch/internal/core/ports"
)

// KafkaWriter publishes order events to the stream topic, keyed by order ID
// so each order's events stay in one partition, in order.
type KafkaWriter struct {
	writer *kafka.Writer
}

// NewKafkaWriter creates a writer for the given brokers and topic.
func NewKafkaWriter(brokers []string, topic string) *KafkaWriter {
	return &KafkaWriter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Write publishes a batch of events in one broker round trip.
func (w *KafkaWriter) Write(ctx context.Context, events []ports.Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return err
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.OrderID),
			Value: value,
			Time:  event.Timestamp,
		})
	}

	return w.writer.WriteMessages(ctx, messages...)
}

// Close flushes and closes the underlying writer.
func (w *KafkaWriter) Close() error {
	return w.writer.Close()
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/events"

	"github.com/segmentio/kafka-go"
)

// Producer writes events to a single topic, keyed by correlation id so all
// events of one order land on the same partition.
type Producer struct {
	w *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

// Publish writes event synchronously and returns the broker's verdict.
func (p *Producer) Publish(ctx context.Context, event events.Envelope) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s to kafka: %w", event.EventType, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.w.Close()
}

func newMessage(event events.Envelope) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}
	key := event.CorrelationID
	if key == "" {
		key = event.EventID
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}, nil
}

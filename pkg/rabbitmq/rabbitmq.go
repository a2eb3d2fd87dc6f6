package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/events"
	"storefront/internal/logging"

	amqp "github.com/streadway/amqp"
)

const (
	// ExchangeName is the topic exchange every storefront event goes through.
	ExchangeName = "storefront.events"
	// OrderQueue receives order and payment events.
	OrderQueue = "order_queue"
)

// bindings are the routing keys OrderQueue listens to.
var bindings = []string{"order.#", "payment.#"}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
	log     *slog.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, declares the exchange and the order queue
// and binds them together.
func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("rabbitmq client connected", "exchange", ExchangeName, "queue", OrderQueue)

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		ExchangeName,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", ExchangeName, err)
	}

	if _, err := ch.QueueDeclare(
		OrderQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderQueue, err)
	}

	for _, key := range bindings {
		if err := ch.QueueBind(OrderQueue, key, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", OrderQueue, key, err)
		}
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends event to the exchange using its type as the routing key.
func (c *Client) Publish(ctx context.Context, event events.Envelope) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	err = c.channel.Publish(
		ExchangeName,
		event.EventType,
		false, // mandatory
		false, // immediate
		msg,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventType, err)
	}

	logging.FromContext(ctx).Debug("event published", "event_type", event.EventType, "event_id", event.EventID)
	return nil
}

func newPublishing(event events.Envelope) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", event.EventType, err)
	}
	return amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now(),
		MessageId:     event.EventID,
		Type:          event.EventType,
		CorrelationId: event.CorrelationID,
	}, nil
}

// ConsumeOrderEvents delivers every message of OrderQueue to handler until
// ctx is cancelled or the channel closes. Messages the handler rejects are
// nacked without requeue so a poison message cannot loop forever.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler func(ctx context.Context, body []byte) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		OrderQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("waiting for order events", "queue", OrderQueue)

	go func() {
		hctx := logging.IntoContext(ctx, c.log)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				c.handle(hctx, msg, handler)
			}
		}
	}()

	return nil
}

func (c *Client) handle(ctx context.Context, msg amqp.Delivery, handler func(ctx context.Context, body []byte) error) {
	if err := handler(ctx, msg.Body); err != nil {
		c.log.Error("error processing message", "delivery_tag", msg.DeliveryTag, "error", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.log.Error("error nacking message", "delivery_tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.Error("error acking message", "delivery_tag", msg.DeliveryTag, "error", ackErr)
	}
}

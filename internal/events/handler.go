package events

import (
	"context"
	"strings"

	"storefront/internal/logging"
)

// LogHandler consumes events by writing them to the context logger. It is
// the default sink for the order queue consumer.
func LogHandler(ctx context.Context, body []byte) error {
	log := logging.FromContext(ctx)

	env, err := Decode(body)
	if err != nil {
		return err
	}

	switch {
	case env.EventType == TypeOrderCreated:
		p, err := UnwrapPayload[OrderCreatedPayload](env)
		if err != nil {
			return err
		}
		log.Info("order created",
			"event_id", env.EventID,
			"order_id", p.OrderID,
			"user_id", p.UserID,
			"items", len(p.Items),
			"grand_total", p.GrandTotal.StringFixed(2))
	case strings.HasPrefix(env.EventType, TypePaymentPrefix):
		p, err := UnwrapPayload[PaymentPayload](env)
		if err != nil {
			return err
		}
		log.Info("payment event",
			"event_id", env.EventID,
			"event_type", env.EventType,
			"session_id", p.SessionID,
			"order_id", p.OrderID,
			"payment_status", p.PaymentStatus)
	default:
		log.Warn("unhandled event", "event_id", env.EventID, "event_type", env.EventType)
	}
	return nil
}

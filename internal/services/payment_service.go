package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/apperror"
	"storefront/internal/dto"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/pkg/payments"
)

// PaymentService opens checkout sessions for orders and relays provider
// notifications. It never changes an order.
type PaymentService struct {
	orders    *OrderService
	gateway   PaymentGateway
	publisher events.Publisher
	returnURL string
}

// NewPaymentService creates a new PaymentService. frontendURL is where the
// embedded checkout returns to.
func NewPaymentService(orders *OrderService, gateway PaymentGateway, publisher events.Publisher, frontendURL string) *PaymentService {
	return &PaymentService{
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
		returnURL: frontendURL + "/shop/complete?session_id={CHECKOUT_SESSION_ID}",
	}
}

// CreateCheckoutSession opens a checkout for one of userID's orders, using
// the price ids captured when the order was placed.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, userID, orderID string) (*dto.CheckoutSessionResponse, error) {
	order, err := s.orders.GetOrder(ctx, orderID, userID, false)
	if err != nil {
		return nil, err
	}

	lines := make([]payments.CheckoutLine, 0, len(order.Items))
	for _, item := range order.Items {
		if item.StripePriceID == "" {
			return nil, apperror.Validation("Product %s cannot be paid online", item.Name)
		}
		lines = append(lines, payments.CheckoutLine{PriceID: item.StripePriceID, Quantity: item.Quantity})
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		OrderID:   order.ID,
		Lines:     lines,
		Discount:  order.Discount,
		ReturnURL: s.returnURL,
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("checkout session created", "order_id", order.ID, "session_id", session.ID)
	return &dto.CheckoutSessionResponse{ClientSecret: session.ClientSecret, SessionID: session.ID}, nil
}

func (s *PaymentService) SessionStatus(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error) {
	st, err := s.gateway.SessionStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.SessionStatusResponse{
		Status:        st.Status,
		PaymentStatus: st.PaymentStatus,
		CustomerEmail: st.CustomerEmail,
		OrderID:       st.OrderID,
	}, nil
}

// HandleWebhook verifies a provider notification, logs it and forwards it
// as a payment.* event.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	log := logging.FromContext(ctx)

	ev, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			log.Warn("rejected webhook", "error", err)
			return apperror.Validation("Invalid webhook signature")
		}
		return fmt.Errorf("verify webhook: %w", err)
	}

	p := events.PaymentPayload{SessionID: ev.SessionID}
	if ev.Session != nil {
		p.OrderID = ev.Session.OrderID
		p.Status = ev.Session.Status
		p.PaymentStatus = ev.Session.PaymentStatus
		p.CustomerEmail = ev.Session.CustomerEmail
	}
	log.Info("webhook received", "event_id", ev.ID, "event_type", ev.Type, "session_id", p.SessionID, "order_id", p.OrderID)

	if s.publisher == nil {
		return nil
	}
	env, err := events.New(events.TypePaymentPrefix+ev.Type, p.OrderID, p)
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		log.Warn("failed to publish payment event", "event_type", env.EventType, "error", err)
	}
	return nil
}

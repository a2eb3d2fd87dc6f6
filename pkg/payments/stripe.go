package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// ErrInvalidSignature is returned by VerifyWebhook when the payload does not
// carry a valid signature for the configured secret.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// CheckoutLine is one priced line of a checkout session.
type CheckoutLine struct {
	PriceID  string
	Quantity int
}

// CheckoutRequest describes the session to open for an order.
type CheckoutRequest struct {
	OrderID   string
	Lines     []CheckoutLine
	Discount  decimal.Decimal
	ReturnURL string
}

// CheckoutSession is what the storefront needs to mount the embedded checkout.
type CheckoutSession struct {
	ID           string
	ClientSecret string
}

// SessionStatus is the state of a checkout session.
type SessionStatus struct {
	Status        string
	PaymentStatus string
	CustomerEmail string
	OrderID       string
}

// WebhookEvent is a verified provider notification.
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
	Session   *SessionStatus
}

// StripeConfig holds the Stripe credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

// StripeGateway talks to the Stripe API.
type StripeGateway struct {
	sc            *client.API
	webhookSecret string
	currency      string
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{
		sc:            client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
	}
}

// ToMinorUnits converts an amount to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateProductPrice registers a product with a default price and returns
// the price id.
func (g *StripeGateway) CreateProductPrice(ctx context.Context, name, description string, unitAmount decimal.Decimal) (string, error) {
	params := &stripe.ProductParams{
		Name: stripe.String(name),
		DefaultPriceData: &stripe.ProductDefaultPriceDataParams{
			Currency:   stripe.String(g.currency),
			UnitAmount: stripe.Int64(ToMinorUnits(unitAmount)),
		},
	}
	if description != "" {
		params.Description = stripe.String(description)
	}
	params.Context = ctx

	p, err := g.sc.Products.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe product %q: %w", name, err)
	}
	if p.DefaultPrice == nil || p.DefaultPrice.ID == "" {
		return "", fmt.Errorf("create stripe product %q: no default price returned", name)
	}
	return p.DefaultPrice.ID, nil
}

// CreateCheckoutSession opens an embedded checkout session for an order. A
// non-zero discount is applied as a single-use amount-off coupon.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		UIMode:    stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		ReturnURL: stripe.String(req.ReturnURL),
	}
	for _, l := range req.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(l.PriceID),
			Quantity: stripe.Int64(int64(l.Quantity)),
		})
	}

	if req.Discount.IsPositive() {
		couponParams := &stripe.CouponParams{
			AmountOff: stripe.Int64(ToMinorUnits(req.Discount)),
			Currency:  stripe.String(g.currency),
			Duration:  stripe.String(string(stripe.CouponDurationOnce)),
			Name:      stripe.String("Order " + req.OrderID),
		}
		couponParams.Context = ctx
		coupon, err := g.sc.Coupons.New(couponParams)
		if err != nil {
			return nil, fmt.Errorf("create stripe coupon for order %s: %w", req.OrderID, err)
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{{Coupon: stripe.String(coupon.ID)}}
	}

	params.AddMetadata("orderId", req.OrderID)
	params.Context = ctx

	s, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session for order %s: %w", req.OrderID, err)
	}
	return &CheckoutSession{ID: s.ID, ClientSecret: s.ClientSecret}, nil
}

// SessionStatus fetches the current state of a checkout session.
func (g *StripeGateway) SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}
	return statusOf(s), nil
}

// VerifyWebhook checks the signature of a webhook payload and decodes it.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return decodeEvent(event)
}

func decodeEvent(event stripe.Event) (*WebhookEvent, error) {
	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if !strings.HasPrefix(out.Type, "checkout.session.") || event.Data == nil {
		return out, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", out.Type, err)
	}
	out.SessionID = s.ID
	out.Session = statusOf(&s)
	return out, nil
}

func statusOf(s *stripe.CheckoutSession) *SessionStatus {
	st := &SessionStatus{
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		OrderID:       s.Metadata["orderId"],
	}
	if s.CustomerDetails != nil {
		st.CustomerEmail = s.CustomerDetails.Email
	}
	return st
}

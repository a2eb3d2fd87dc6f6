package services

import (
	"context"

	"storefront/pkg/payments"

	"github.com/shopspring/decimal"
)

// PaymentGateway is the payment provider as seen by the services.
// payments.StripeGateway implements it.
type PaymentGateway interface {
	CreateProductPrice(ctx context.Context, name, description string, unitAmount decimal.Decimal) (string, error)
	CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error)
	SessionStatus(ctx context.Context, sessionID string) (*payments.SessionStatus, error)
	VerifyWebhook(payload []byte, signature string) (*payments.WebhookEvent, error)
}

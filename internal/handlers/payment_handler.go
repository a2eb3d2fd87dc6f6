package handlers

import (
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

const headerStripeSignature = "Stripe-Signature"

// PaymentHandler handles checkout and the payment provider webhook.
type PaymentHandler struct {
	service *services.PaymentService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers the payment routes. The webhook is authenticated
// by its signature instead of a token.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/create-checkout-session", auth, h.HandleCreateCheckoutSession)
	paymentRoutes.Get("/session-status", auth, h.HandleSessionStatus)
	paymentRoutes.Post("/webhook", h.HandleWebhook)
}

func (h *PaymentHandler) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req dto.CheckoutSessionRequest
	if err := parseBody(c, &req, "checkout data"); err != nil {
		return err
	}
	res, err := h.service.CreateCheckoutSession(c.UserContext(), middleware.UserID(c), req.OrderID)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *PaymentHandler) HandleSessionStatus(c *fiber.Ctx) error {
	var q dto.SessionStatusQuery
	if err := parseQuery(c, &q, "session query"); err != nil {
		return err
	}
	res, err := h.service.SessionStatus(c.UserContext(), q.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// HandleWebhook verifies the raw body against the signature header. The body
// must not be re-encoded before verification.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)
	if err := h.service.HandleWebhook(c.UserContext(), payload, c.Get(headerStripeSignature)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"received": true})
}

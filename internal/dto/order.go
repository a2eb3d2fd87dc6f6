package dto

import (
	"strings"

	"storefront/internal/models"
)

type OrderItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type ShippingAddress struct {
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2" validate:"max=255"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,max=30"`
}

// CreateOrderRequest is the body of POST /orders. Item prices are never
// accepted from the client.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" validate:"required"`
	PromoCode       string             `json:"promoCode" validate:"max=32"`
}

func (r *CreateOrderRequest) Normalize() {
	for i := range r.Items {
		r.Items[i].Product = strings.TrimSpace(r.Items[i].Product)
	}
	a := &r.ShippingAddress
	for _, f := range []*string{&a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.Country, &a.Phone} {
		*f = strings.TrimSpace(*f)
	}
	r.PromoCode = NormalizeCode(r.PromoCode)
}

// ToModel converts the shipping address into a new Address record.
func (a ShippingAddress) ToModel() *models.Address {
	return &models.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

type CheckoutSessionRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

func (r *CheckoutSessionRequest) Normalize() {
	r.OrderID = strings.TrimSpace(r.OrderID)
}

type CheckoutSessionResponse struct {
	ClientSecret string `json:"clientSecret"`
	SessionID    string `json:"sessionId"`
}

type SessionStatusQuery struct {
	SessionID string `query:"session_id" validate:"required"`
}

type SessionStatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	CustomerEmail string `json:"customerEmail"`
	OrderID       string `json:"orderId,omitempty"`
}

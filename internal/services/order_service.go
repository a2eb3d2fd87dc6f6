package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/dto"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OrderService handles business logic related to orders.
type OrderService struct {
	store     repositories.Store
	publisher events.Publisher
}

// NewOrderService creates a new OrderService. publisher may be nil, in
// which case no events are emitted.
func NewOrderService(store repositories.Store, publisher events.Publisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
	}
}

// CreateOrder validates stock, applies the promo code, decrements inventory
// and stores the address and the order in a single transaction. Nothing is
// persisted when any step fails.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req dto.CreateOrderRequest) (*models.Order, error) {
	var order *models.Order
	err := s.store.Transaction(ctx, func(tx repositories.Tx) error {
		o, err := placeOrder(ctx, tx, userID, req, time.Now())
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order created",
		"order_id", order.ID,
		"user_id", userID,
		"items", len(order.Items),
		"grand_total", order.GrandTotal.StringFixed(2))

	s.publishOrderCreated(ctx, order)
	return order, nil
}

func placeOrder(ctx context.Context, tx repositories.Tx, userID string, req dto.CreateOrderRequest, now time.Time) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Items))
	subTotal := decimal.Zero

	for _, line := range req.Items {
		product, err := tx.Products().GetByID(ctx, line.Product)
		if err != nil {
			return nil, notFound(err, "Product %s not found", line.Product)
		}
		if line.Quantity > product.StockQuantity {
			return nil, apperror.Validation("Insufficient stock for product %s. Available: %d", product.Name, product.StockQuantity)
		}

		// Prices come from the stored product, never from the request.
		item := models.OrderItem{
			ProductID:     product.ID,
			Name:          product.Name,
			Image:         product.Image,
			UnitPrice:     product.Price,
			StripePriceID: product.StripePriceID,
			Quantity:      line.Quantity,
		}
		items = append(items, item)
		subTotal = subTotal.Add(item.LineTotal())
	}

	discount := decimal.Zero
	appliedCode := ""
	if req.PromoCode != "" {
		promo, err := evaluatePromoCode(ctx, tx.PromoCodes(), tx.Orders(), req.PromoCode, userID, now)
		if err != nil {
			return nil, err
		}
		discount = Discount(subTotal, promo.DiscountPercentage)
		appliedCode = promo.Code
	}

	grandTotal := subTotal.Sub(discount)
	if grandTotal.IsNegative() {
		return nil, apperror.Validation("Grand total cannot be negative")
	}

	for _, item := range items {
		if _, err := tx.Products().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, repositories.ErrInsufficientStock) {
				return nil, apperror.Validation("Insufficient stock for product %s", item.Name)
			}
			return nil, notFound(err, "Product %s not found", item.ProductID)
		}
	}

	address := req.ShippingAddress.ToModel()
	if err := tx.Addresses().Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create shipping address: %w", err)
	}

	order := &models.Order{
		UserID:     userID,
		Items:      items,
		AddressID:  address.ID,
		PromoCode:  appliedCode,
		SubTotal:   subTotal,
		Discount:   discount,
		GrandTotal: grandTotal,
	}
	if err := tx.Orders().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order.Address = address
	return order, nil
}

// Discount is pct percent of subTotal, rounded to cents.
func Discount(subTotal decimal.Decimal, pct float64) decimal.Decimal {
	return subTotal.Mul(decimal.NewFromFloat(pct)).Div(hundred).Round(2)
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	log := logging.FromContext(ctx)

	lines := make([]events.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, events.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	env, err := events.New(events.TypeOrderCreated, order.ID, events.OrderCreatedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Items:      lines,
		PromoCode:  order.PromoCode,
		SubTotal:   order.SubTotal,
		Discount:   order.Discount,
		GrandTotal: order.GrandTotal,
	})
	if err != nil {
		log.Error("failed to build order created event", "order_id", order.ID, "error", err)
		return
	}
	// The order is already committed; a broker outage must not fail the request.
	if err := s.publisher.Publish(ctx, env); err != nil {
		log.Warn("failed to publish order created event", "order_id", order.ID, "error", err)
	}
}

// GetOrder returns an order with its items and address. Orders of other
// users are reported as missing unless isAdmin is set.
func (s *OrderService) GetOrder(ctx context.Context, id, userID string, isAdmin bool) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	if order.UserID != userID && !isAdmin {
		return nil, apperror.NotFound("Order not found")
	}
	return order, nil
}

// GetOrdersByUser lists the orders of userID, newest first.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

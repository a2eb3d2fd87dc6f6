package handlers

import (
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes. Every route needs a token.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/user", h.HandleGetUserOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleCreateOrder places an order for the authenticated user. Prices are
// taken from the catalog, the body only names products and quantities.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := parseBody(c, &req, "order data"); err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateOrderResponse{OrderID: order.ID})
}

// HandleGetUserOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order. Admins may read any order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

package handlers

import (
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PromoCodeHandler handles HTTP requests for promo codes.
type PromoCodeHandler struct {
	service *services.PromoCodeService
}

func NewPromoCodeHandler(service *services.PromoCodeService) *PromoCodeHandler {
	return &PromoCodeHandler{service: service}
}

func (h *PromoCodeHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	promoRoutes := router.Group("/promocodes")
	promoRoutes.Get("/", h.HandleList)
	promoRoutes.Get("/validate", auth, h.HandleValidate)

	admin := []fiber.Handler{auth, middleware.AdminOnly()}
	promoRoutes.Post("/", append(admin, h.HandleCreate)...)
	promoRoutes.Put("/:id", append(admin, h.HandleUpdate)...)
	promoRoutes.Put("/:id/status", append(admin, h.HandleSetStatus)...)
}

func (h *PromoCodeHandler) HandleList(c *fiber.Ctx) error {
	var filter dto.StatusFilter
	if err := parseQuery(c, &filter, "promo code filter"); err != nil {
		return err
	}
	promos, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(promos)
}

// HandleValidate previews a promo code for the calling user. It applies the
// same rules as order creation.
func (h *PromoCodeHandler) HandleValidate(c *fiber.Ctx) error {
	var q dto.ValidatePromoCodeQuery
	if err := parseQuery(c, &q, "promo code"); err != nil {
		return err
	}
	res, err := h.service.Validate(c.UserContext(), q.Code, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *PromoCodeHandler) HandleCreate(c *fiber.Ctx) error {
	var req dto.CreatePromoCodeRequest
	if err := parseBody(c, &req, "promo code data"); err != nil {
		return err
	}
	promo, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(promo)
}

func (h *PromoCodeHandler) HandleUpdate(c *fiber.Ctx) error {
	var req dto.UpdatePromoCodeRequest
	if err := parseBody(c, &req, "promo code data"); err != nil {
		return err
	}
	promo, err := h.service.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(promo)
}

func (h *PromoCodeHandler) HandleSetStatus(c *fiber.Ctx) error {
	var q dto.StatusToggle
	if err := parseQuery(c, &q, "status"); err != nil {
		return err
	}
	promo, msg, err := h.service.SetStatus(c.UserContext(), c.Params("id"), q.Value())
	if err != nil {
		return err
	}
	return statusResponse(c, msg, "promoCode", promo)
}

package handlers

import (
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleList)

	admin := []fiber.Handler{auth, middleware.AdminOnly()}
	categoryRoutes.Post("/", append(admin, h.HandleCreate)...)
	categoryRoutes.Put("/:id", append(admin, h.HandleUpdate)...)
	categoryRoutes.Put("/:id/status", append(admin, h.HandleSetStatus)...)
}

func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	var filter dto.StatusFilter
	if err := parseQuery(c, &filter, "category filter"); err != nil {
		return err
	}
	categories, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := parseBody(c, &req, "category data"); err != nil {
		return err
	}
	category, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := parseBody(c, &req, "category data"); err != nil {
		return err
	}
	category, err := h.service.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleSetStatus(c *fiber.Ctx) error {
	var q dto.StatusToggle
	if err := parseQuery(c, &q, "status"); err != nil {
		return err
	}
	category, msg, err := h.service.SetStatus(c.UserContext(), c.Params("id"), q.Value())
	if err != nil {
		return err
	}
	return statusResponse(c, msg, "category", category)
}

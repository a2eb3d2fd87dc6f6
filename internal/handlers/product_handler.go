package handlers

import (
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Reads are public, writes need
// an admin token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/product-tags", h.HandleGetTags)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/featured", h.HandleGetFeatured)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	admin := []fiber.Handler{auth, middleware.AdminOnly()}
	productRoutes.Post("/", append(admin, h.HandleCreateProduct)...)
	productRoutes.Patch("/:id", append(admin, h.HandleUpdateProduct)...)
	productRoutes.Delete("/:id", append(admin, h.HandleDeleteProduct)...)
	productRoutes.Put("/:id/status", append(admin, h.HandleSetStatus)...)
}

func (h *ProductHandler) HandleGetTags(c *fiber.Ctx) error {
	return c.JSON(h.service.Tags())
}

// HandleGetProducts lists products filtered by category, tags and status.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var filter dto.ProductFilter
	if err := parseQuery(c, &filter, "product filter"); err != nil {
		return err
	}
	products, err := h.service.GetProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleGetFeatured(c *fiber.Ctx) error {
	products, err := h.service.GetFeaturedProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product and registers it with the payment
// provider.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := parseBody(c, &req, "product data"); err != nil {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := parseBody(c, &req, "product data"); err != nil {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleSetStatus(c *fiber.Ctx) error {
	var q dto.StatusToggle
	if err := parseQuery(c, &q, "status"); err != nil {
		return err
	}
	product, msg, err := h.service.SetStatus(c.UserContext(), c.Params("id"), q.Value())
	if err != nil {
		return err
	}
	return statusResponse(c, msg, "product", product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// Package server assembles the Fiber application: middleware, handlers and
// the health endpoints.
package server

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Services is the set of business services the HTTP layer exposes.
// Payments is nil when no payment provider is configured.
type Services struct {
	Auth       *services.AuthService
	Products   *services.ProductService
	Categories *services.CategoryService
	PromoCodes *services.PromoCodeService
	Orders     *services.OrderService
	Payments   *services.PaymentService
}

// NewServices wires the repositories of db into the services. gateway and
// publisher may be nil.
func NewServices(db *gorm.DB, jwtSecret, frontendURL string, gateway services.PaymentGateway, publisher events.Publisher) Services {
	store := repositories.NewGORMStore(db)
	orders := services.NewOrderService(store, publisher)

	s := Services{
		Auth:       services.NewAuthService(repositories.NewGORMUserRepository(db), jwtSecret),
		Products:   services.NewProductService(store.Products(), store.Categories(), gateway),
		Categories: services.NewCategoryService(store.Categories()),
		PromoCodes: services.NewPromoCodeService(store.PromoCodes(), store.Orders()),
		Orders:     orders,
	}
	if gateway != nil {
		s.Payments = services.NewPaymentService(orders, gateway, publisher, frontendURL)
	}
	return s
}

// Options tune the application around the services.
type Options struct {
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	// DB backs the /health check. Optional.
	DB *gorm.DB
}

// NewApp builds the Fiber application with every route mounted.
func NewApp(svc Services, opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(opts.CORSAllowedOrigins)))

	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Server is running!"})
	})
	app.Get("/health", healthHandler(opts.DB))

	apiV1 := app.Group("/api/v1")
	auth := middleware.AuthRequired(svc.Auth)

	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(apiV1)
	handlers.NewProductHandler(svc.Products).RegisterRoutes(apiV1, auth)
	handlers.NewCategoryHandler(svc.Categories).RegisterRoutes(apiV1, auth)
	handlers.NewPromoCodeHandler(svc.PromoCodes).RegisterRoutes(apiV1, auth)
	handlers.NewOrderHandler(svc.Orders).RegisterRoutes(apiV1, auth)
	if svc.Payments != nil {
		handlers.NewPaymentHandler(svc.Payments).RegisterRoutes(apiV1, auth)
	} else {
		log.Warn("payment provider not configured, payment routes disabled")
	}

	return app
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		// Credentials cannot be combined with a wildcard origin.
		AllowCredentials: !slices.Contains(origins, "*"),
	}
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		if db == nil {
			return c.JSON(body)
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			body["status"] = "unhealthy"
			body["database"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		body["database"] = "connected"
		return c.JSON(body)
	}
}

// Package app assembles the HTTP application from its repositories, services
// and handlers.
package app

import (
	"fmt"
	"time"

	"sweetshop/internal/authz"
	"sweetshop/internal/config"
	"sweetshop/internal/events"
	"sweetshop/internal/handlers"
	"sweetshop/internal/middleware"
	"sweetshop/internal/repositories"
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Option customizes the services before routes are registered.
type Option func(*Services)

// Services exposes the constructed services so callers (tests, mostly) can
// swap collaborators such as the payment gateway factory.
type Services struct {
	Auth       *services.AuthService
	Products   *services.ProductService
	Coupons    *services.CouponService
	Cart       *services.CartService
	Addresses  *services.AddressService
	Payments   *services.PaymentService
	Orders     *services.OrderService
	Support    *services.SupportService
	Newsletter *services.NewsletterService
	Settings   *services.SettingsService
	Admin      *services.AdminService
}

// New builds the fiber application. publisher may be nil when no broker is configured.
func New(db *gorm.DB, cfg *config.Config, publisher events.Publisher, opts ...Option) (*fiber.App, error) {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	couponRepo := repositories.NewGORMCouponRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	webhookRepo := repositories.NewGORMWebhookEventRepository(db)
	settingsRepo := repositories.NewGORMSettingsRepository(db)
	ticketRepo := repositories.NewGORMTicketRepository(db)
	newsletterRepo := repositories.NewGORMNewsletterRepository(db)

	// --- Services ---
	svc := &Services{
		Auth:       services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL),
		Products:   services.NewProductService(productRepo, categoryRepo),
		Coupons:    services.NewCouponService(couponRepo),
		Cart:       services.NewCartService(cartRepo, productRepo),
		Addresses:  services.NewAddressService(addressRepo),
		Payments:   services.NewPaymentService(orderRepo, webhookRepo, settingsRepo, cfg.Payment, cfg.Currency, publisher),
		Support:    services.NewSupportService(ticketRepo, orderRepo),
		Newsletter: services.NewNewsletterService(newsletterRepo),
		Settings:   services.NewSettingsService(settingsRepo),
		Admin:      services.NewAdminService(orderRepo, productRepo, userRepo, newsletterRepo),
	}
	svc.Orders = services.NewOrderService(orderRepo, cartRepo, svc.Addresses, svc.Coupons, svc.Payments, settingsRepo, cfg.Pricing, publisher)
	for _, opt := range opts {
		opt(svc)
	}

	enforcer, err := authz.NewEnforcer(authz.Policies)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization rules: %w", err)
	}

	// --- Fiber ---
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"publisher": publisher != nil,
		})
	})

	auth := middleware.AuthRequired(svc.Auth)
	apiV1 := app.Group("/api/v1")

	// Public routes (handlers attach auth to their own protected endpoints)
	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(apiV1, auth)
	handlers.NewProductHandler(svc.Products, svc.Auth).RegisterRoutes(apiV1, auth)
	handlers.NewStorefrontHandler(svc.Coupons, svc.Newsletter, svc.Settings).RegisterRoutes(apiV1)
	handlers.NewPaymentHandler(svc.Payments).RegisterRoutes(apiV1, auth)

	// Back-office routes; registered before the customer group so that its
	// middleware does not run for /admin paths.
	handlers.NewAdminHandler(svc.Admin, svc.Orders, svc.Products, svc.Coupons, svc.Support, svc.Newsletter, svc.Settings).
		RegisterRoutes(apiV1, auth, middleware.RoleRequired(enforcer))

	// Customer routes
	protected := apiV1.Group("", auth)
	handlers.NewCartHandler(svc.Cart).RegisterRoutes(protected)
	handlers.NewOrderHandler(svc.Orders).RegisterRoutes(protected)
	handlers.NewAddressHandler(svc.Addresses).RegisterRoutes(protected)
	handlers.NewTicketHandler(svc.Support).RegisterRoutes(protected)

	return app, nil
}

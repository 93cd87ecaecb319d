package handlers

import (
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// StorefrontHandler serves the public coupon, newsletter and settings routes.
type StorefrontHandler struct {
	coupons    *services.CouponService
	newsletter *services.NewsletterService
	settings   *services.SettingsService
}

func NewStorefrontHandler(coupons *services.CouponService, newsletter *services.NewsletterService, settings *services.SettingsService) *StorefrontHandler {
	return &StorefrontHandler{coupons: coupons, newsletter: newsletter, settings: settings}
}

func (h *StorefrontHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/coupons/validate", h.HandleValidateCoupon)
	router.Post("/newsletter/subscribe", h.HandleSubscribe)
	router.Post("/newsletter/unsubscribe", h.HandleUnsubscribe)
	router.Get("/settings/public", h.HandlePublicSettings)
}

// ValidateCouponRequest checks a code against a cart subtotal.
type ValidateCouponRequest struct {
	Code     string          `json:"code" validate:"required,max=50"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func (h *StorefrontHandler) HandleValidateCoupon(c *fiber.Ctx) error {
	var req ValidateCouponRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	coupon, discount, err := h.coupons.Validate(req.Code, req.Subtotal)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"valid":       true,
		"code":        coupon.Code,
		"description": coupon.Description,
		"discount":    discount,
	})
}

// SubscribeRequest adds an email to the newsletter.
type SubscribeRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Preferences []string `json:"preferences" validate:"dive,alphanum,max=30"`
}

func (h *StorefrontHandler) HandleSubscribe(c *fiber.Ctx) error {
	var req SubscribeRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	sub, err := h.newsletter.Subscribe(req.Email, req.Preferences)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// UnsubscribeRequest removes an email from the newsletter.
type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *StorefrontHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	var req UnsubscribeRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.newsletter.Unsubscribe(req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unsubscribed"})
}

func (h *StorefrontHandler) HandlePublicSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Public()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(settings)
}

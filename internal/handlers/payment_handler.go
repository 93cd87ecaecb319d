package handlers

import (
	"errors"
	"log"

	"sweetshop/internal/middleware"
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler receives payment confirmations from the storefront and the gateway.
type PaymentHandler struct {
	service *services.PaymentService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers the payment routes. auth guards verification; the
// webhook is authenticated by its signature.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/payments/verify", auth, h.HandleVerify)
	router.Post("/payments/webhook", h.HandleWebhook)
}

// HandleVerify checks the payment the customer completed in the gateway widget.
func (h *PaymentHandler) HandleVerify(c *fiber.Ctx) error {
	var req services.VerifyRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	order, err := h.service.Verify(c.UserContext(), middleware.UserID(c), req)
	if errors.Is(err, services.ErrPaymentFailed) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":    err.Error(),
			"order_id": order.ID,
			"hint":     "cod",
		})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

// HandleWebhook applies a gateway webhook.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	err := h.service.HandleWebhook(c.Get("X-Razorpay-Event-Id"), c.Body(), c.Get("X-Razorpay-Signature"))
	if err != nil {
		log.Printf("Webhook rejected: %v", err)
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

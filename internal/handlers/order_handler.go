package handlers

import (
	"log"

	"sweetshop/internal/middleware"
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles checkout and the customer's orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the checkout and order routes; router must already require auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout/quote", h.HandleQuote)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// QuoteRequest prices the cart with an optional coupon.
type QuoteRequest struct {
	CouponCode string `json:"coupon_code" validate:"max=50"`
}

func (h *OrderHandler) HandleQuote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	quote, err := h.service.Quote(middleware.UserID(c), req.CouponCode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(quote)
}

// HandlePlaceOrder turns the cart into an order.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req services.PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	checkout, err := h.service.PlaceOrder(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		log.Printf("Error placing order for user %s: %v", middleware.UserID(c), err)
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(checkout)
}

// HandleListOrders returns the customer's own orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListUserOrders(middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetUserOrder(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.CancelOrder(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

package handlers

import (
	"sweetshop/internal/middleware"
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TicketHandler lets customers raise and follow support tickets.
type TicketHandler struct {
	service *services.SupportService
}

func NewTicketHandler(service *services.SupportService) *TicketHandler {
	return &TicketHandler{service: service}
}

// RegisterRoutes registers the customer ticket routes; router must already require auth.
func (h *TicketHandler) RegisterRoutes(router fiber.Router) {
	tickets := router.Group("/tickets")
	tickets.Get("/", h.HandleList)
	tickets.Post("/", h.HandleOpen)
	tickets.Get("/:id", h.HandleGet)
	tickets.Post("/:id/messages", h.HandleReply)
}

func (h *TicketHandler) HandleList(c *fiber.Ctx) error {
	tickets, err := h.service.ListUserTickets(middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tickets)
}

func (h *TicketHandler) HandleOpen(c *fiber.Ctx) error {
	var req services.OpenTicketRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	ticket, err := h.service.OpenTicket(middleware.UserID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func (h *TicketHandler) HandleGet(c *fiber.Ctx) error {
	ticket, err := h.service.GetUserTicket(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ticket)
}

// MessageRequest is a reply on a ticket. Status is only honoured for staff.
type MessageRequest struct {
	Body   string `json:"body" validate:"required,max=5000"`
	Status string `json:"status" validate:"omitempty,oneof=open resolved closed"`
}

func (h *TicketHandler) HandleReply(c *fiber.Ctx) error {
	var req MessageRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	ticket, err := h.service.CustomerReply(middleware.UserID(c), c.Params("id"), req.Body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

package handlers

import (
	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler manages the customer's saved addresses.
type AddressHandler struct {
	service *services.AddressService
}

func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// RegisterRoutes registers the address routes; router must already require auth.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addresses := router.Group("/addresses")
	addresses.Get("/", h.HandleList)
	addresses.Post("/", h.HandleCreate)
	addresses.Put("/:id", h.HandleUpdate)
	addresses.Delete("/:id", h.HandleDelete)
	addresses.Post("/:id/default", h.HandleSetDefault)
}

// AddressRequest is the address form.
type AddressRequest struct {
	FullName   string `json:"full_name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,max=20"`
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=12"`
	IsDefault  bool   `json:"is_default"`
}

func (r AddressRequest) toModel(userID, id string) *models.Address {
	return &models.Address{
		ID:         id,
		UserID:     userID,
		FullName:   r.FullName,
		Phone:      r.Phone,
		Line1:      r.Line1,
		Line2:      r.Line2,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		IsDefault:  r.IsDefault,
	}
}

func (h *AddressHandler) HandleList(c *fiber.Ctx) error {
	addresses, err := h.service.List(middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(addresses)
}

func (h *AddressHandler) HandleCreate(c *fiber.Ctx) error {
	var req AddressRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	address := req.toModel(middleware.UserID(c), "")
	if err := h.service.Create(address); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

func (h *AddressHandler) HandleUpdate(c *fiber.Ctx) error {
	var req AddressRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	address := req.toModel(middleware.UserID(c), c.Params("id"))
	if err := h.service.Update(address); err != nil {
		return writeError(c, err)
	}
	return c.JSON(address)
}

func (h *AddressHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.UserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AddressHandler) HandleSetDefault(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if err := h.service.SetDefault(userID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	addresses, err := h.service.List(userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(addresses)
}

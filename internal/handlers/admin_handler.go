package handlers

import (
	"bytes"
	"time"

	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AdminHandler serves the back-office API.
type AdminHandler struct {
	admin      *services.AdminService
	orders     *services.OrderService
	products   *services.ProductService
	coupons    *services.CouponService
	support    *services.SupportService
	newsletter *services.NewsletterService
	settings   *services.SettingsService
}

func NewAdminHandler(
	admin *services.AdminService,
	orders *services.OrderService,
	products *services.ProductService,
	coupons *services.CouponService,
	support *services.SupportService,
	newsletter *services.NewsletterService,
	settings *services.SettingsService,
) *AdminHandler {
	return &AdminHandler{
		admin:      admin,
		orders:     orders,
		products:   products,
		coupons:    coupons,
		support:    support,
		newsletter: newsletter,
		settings:   settings,
	}
}

// RegisterRoutes registers the /admin routes behind the given guards.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	admin := router.Group("/admin", guards...)

	admin.Get("/dashboard", h.HandleDashboard)

	admin.Get("/orders", h.HandleListOrders)
	admin.Get("/orders/export", h.HandleExportOrders)
	admin.Get("/orders/:id", h.HandleGetOrder)
	admin.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)

	admin.Get("/products", h.HandleListProducts)
	admin.Post("/products", h.HandleCreateProduct)
	admin.Put("/products/:id", h.HandleUpdateProduct)
	admin.Delete("/products/:id", h.HandleDeleteProduct)

	admin.Get("/categories", h.HandleListCategories)
	admin.Post("/categories", h.HandleCreateCategory)
	admin.Put("/categories/:id", h.HandleUpdateCategory)
	admin.Delete("/categories/:id", h.HandleDeleteCategory)

	admin.Get("/coupons", h.HandleListCoupons)
	admin.Post("/coupons", h.HandleCreateCoupon)
	admin.Get("/coupons/:id", h.HandleGetCoupon)
	admin.Put("/coupons/:id", h.HandleUpdateCoupon)
	admin.Delete("/coupons/:id", h.HandleDeleteCoupon)

	admin.Get("/customers", h.HandleListCustomers)

	admin.Get("/tickets", h.HandleListTickets)
	admin.Get("/tickets/:id", h.HandleGetTicket)
	admin.Post("/tickets/:id/messages", h.HandleReplyTicket)
	admin.Patch("/tickets/:id", h.HandleUpdateTicket)

	admin.Get("/newsletter", h.HandleListSubscribers)
	admin.Get("/newsletter/export", h.HandleExportSubscribers)
	admin.Delete("/newsletter/:id", h.HandleDeleteSubscriber)

	admin.Get("/settings", h.HandleGetSettings)
	admin.Put("/settings", h.HandleUpdateSettings)
}

func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	dash, err := h.admin.Dashboard()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dash)
}

// Orders

func orderFilter(c *fiber.Ctx) models.OrderFilter {
	p, l := pagination(c)
	return models.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		UserID:        c.Query("user_id"),
		Page:          p,
		Limit:         l,
	}
}

func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	filter := orderFilter(c)
	orders, total, err := h.orders.ListOrders(filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page{Data: orders, Total: total, Page: filter.Page, Limit: filter.Limit})
}

func (h *AdminHandler) HandleExportOrders(c *fiber.Ctx) error {
	filter := orderFilter(c)
	if filter.Status != "" && !services.ValidOrderStatus(filter.Status) {
		return writeError(c, services.ErrInvalidStatus)
	}
	var buf bytes.Buffer
	if err := h.admin.ExportOrdersCSV(&buf, filter); err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "orders.csv", buf.Bytes())
}

func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

// StatusRequest moves an order to a new status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	order, err := h.orders.UpdateOrderStatus(c.Params("id"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

// Products and categories

func (h *AdminHandler) HandleListProducts(c *fiber.Ctx) error {
	p, l := pagination(c)
	products, total, err := h.products.ListProducts(models.ProductFilter{
		CategoryID: c.Query("category"),
		InStock:    queryBool(c, "in_stock"),
		Featured:   queryBool(c, "featured"),
		Query:      c.Query("q"),
		Page:       p,
		Limit:      l,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page{Data: products, Total: total, Page: p, Limit: l})
}

func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	product := req.toModel("")
	if err := h.products.CreateProduct(product); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	product := req.toModel(c.Params("id"))
	if err := h.products.UpdateProduct(product); err != nil {
		return writeError(c, err)
	}
	updated, err := h.products.GetProductByID(product.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.DeleteProduct(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.products.ListCategories()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(categories)
}

// CategoryRequest is the category form.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"max=100"`
	Description string `json:"description"`
}

func (h *AdminHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	category := &models.Category{Name: req.Name, Slug: req.Slug, Description: req.Description}
	if err := h.products.CreateCategory(category); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *AdminHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	category := &models.Category{ID: c.Params("id"), Name: req.Name, Slug: req.Slug, Description: req.Description}
	if err := h.products.UpdateCategory(category); err != nil {
		return writeError(c, err)
	}
	return c.JSON(category)
}

func (h *AdminHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.products.DeleteCategory(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Coupons

// CouponRequest is the coupon form. Empty optional limits are unlimited.
type CouponRequest struct {
	Code          string           `json:"code" validate:"required,max=50"`
	Description   string           `json:"description"`
	DiscountType  string           `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	UsageLimit    *int             `json:"usage_limit"`
	ValidFrom     time.Time        `json:"valid_from" validate:"required"`
	ValidTo       time.Time        `json:"valid_to" validate:"required"`
	Active        *bool            `json:"active"`
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func (r CouponRequest) toModel(id string) *models.Coupon {
	return &models.Coupon{
		ID:            id,
		Code:          r.Code,
		Description:   r.Description,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		MinOrderValue: nullDecimal(r.MinOrderValue),
		MaxDiscount:   nullDecimal(r.MaxDiscount),
		UsageLimit:    r.UsageLimit,
		ValidFrom:     r.ValidFrom,
		ValidTo:       r.ValidTo,
		Active:        r.Active == nil || *r.Active,
	}
}

func (h *AdminHandler) HandleListCoupons(c *fiber.Ctx) error {
	coupons, err := h.coupons.ListCoupons()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(coupons)
}

func (h *AdminHandler) HandleGetCoupon(c *fiber.Ctx) error {
	coupon, err := h.coupons.GetCoupon(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(coupon)
}

func (h *AdminHandler) HandleCreateCoupon(c *fiber.Ctx) error {
	var req CouponRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	coupon := req.toModel("")
	if err := h.coupons.CreateCoupon(coupon); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

func (h *AdminHandler) HandleUpdateCoupon(c *fiber.Ctx) error {
	var req CouponRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	coupon := req.toModel(c.Params("id"))
	if err := h.coupons.UpdateCoupon(coupon); err != nil {
		return writeError(c, err)
	}
	updated, err := h.coupons.GetCoupon(coupon.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *AdminHandler) HandleDeleteCoupon(c *fiber.Ctx) error {
	if err := h.coupons.DeleteCoupon(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) HandleListCustomers(c *fiber.Ctx) error {
	p, l := pagination(c)
	customers, total, err := h.admin.ListCustomers(p, l)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page{Data: customers, Total: total, Page: p, Limit: l})
}

// Tickets

func (h *AdminHandler) HandleListTickets(c *fiber.Ctx) error {
	tickets, err := h.support.ListTickets(c.Query("status"), c.Query("priority"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tickets)
}

func (h *AdminHandler) HandleGetTicket(c *fiber.Ctx) error {
	ticket, err := h.support.GetTicket(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ticket)
}

func (h *AdminHandler) HandleReplyTicket(c *fiber.Ctx) error {
	var req MessageRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	ticket, err := h.support.StaffReply(middleware.UserID(c), c.Params("id"), req.Body, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// TicketUpdateRequest changes a ticket's status and/or priority.
type TicketUpdateRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=open resolved closed"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

func (h *AdminHandler) HandleUpdateTicket(c *fiber.Ctx) error {
	var req TicketUpdateRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	ticket, err := h.support.UpdateTicket(c.Params("id"), req.Status, req.Priority)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ticket)
}

// Newsletter

func (h *AdminHandler) HandleListSubscribers(c *fiber.Ctx) error {
	subs, err := h.newsletter.List(c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(subs)
}

func (h *AdminHandler) HandleExportSubscribers(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.newsletter.ExportCSV(&buf, c.QueryBool("active", true)); err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "subscribers.csv", buf.Bytes())
}

func (h *AdminHandler) HandleDeleteSubscriber(c *fiber.Ctx) error {
	if err := h.newsletter.Delete(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Settings

func (h *AdminHandler) HandleGetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Get()
	if err != nil {
		return writeError(c, err)
	}
	// Secrets are write-only.
	public := settings.Public()
	return c.JSON(public)
}

func (h *AdminHandler) HandleUpdateSettings(c *fiber.Ctx) error {
	var req models.SiteSettings
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	settings, err := h.settings.Update(&req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(settings.Public())
}

func sendCSV(c *fiber.Ctx, filename string, body []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(body)
}

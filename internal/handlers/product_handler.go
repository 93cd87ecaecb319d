package handlers

import (
	"strconv"

	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler serves the storefront catalog.
type ProductHandler struct {
	service *services.ProductService
	auth    *services.AuthService
}

func NewProductHandler(service *services.ProductService, auth *services.AuthService) *ProductHandler {
	return &ProductHandler{service: service, auth: auth}
}

// RegisterRoutes registers the public catalog routes. auth guards reviews.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/:id", h.HandleGetProduct)
	router.Post("/products/:id/reviews", auth, h.HandleAddReview)
	router.Get("/categories", h.HandleListCategories)
}

func queryBool(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// HandleListProducts lists products with optional category, featured,
// in_stock and q filters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	p, l := pagination(c)
	filter := models.ProductFilter{
		CategoryID: c.Query("category"),
		Featured:   queryBool(c, "featured"),
		InStock:    queryBool(c, "in_stock"),
		Query:      c.Query("q"),
		Page:       p,
		Limit:      l,
	}
	products, total, err := h.service.ListProducts(filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page{Data: products, Total: total, Page: p, Limit: l})
}

func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// ReviewRequest is a star rating with an optional comment.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ProductHandler) HandleAddReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	user, err := h.auth.GetUser(middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	review, err := h.service.AddReview(c.Params("id"), user, req.Rating, req.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ProductHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(categories)
}

// ProductRequest is the back-office product form.
type ProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	CategoryID    *string         `json:"category_id"`
	InStock       *bool           `json:"in_stock"`
	Featured      bool            `json:"featured"`
	Images        []string        `json:"images" validate:"dive,required,url"`
}

func (r ProductRequest) toModel(id string) *models.Product {
	product := &models.Product{
		ID:            id,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		CategoryID:    r.CategoryID,
		InStock:       r.InStock == nil || *r.InStock,
		Featured:      r.Featured,
	}
	for i, url := range r.Images {
		product.Images = append(product.Images, models.ProductImage{URL: url, Position: i})
	}
	return product
}

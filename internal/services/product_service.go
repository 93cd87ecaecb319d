package services

import (
	"fmt"
	"strings"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
	}
}

// ListProducts retrieves a filtered page of products and the total match count.
func (s *ProductService) ListProducts(filter models.ProductFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.checkProduct(product); err != nil {
		return err
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.checkProduct(product); err != nil {
		return err
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

func (s *ProductService) checkProduct(product *models.Product) error {
	if !product.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidInput)
	}
	if product.OriginalPrice.IsZero() {
		product.OriginalPrice = product.Price
	}
	if product.OriginalPrice.LessThan(product.Price) {
		return fmt.Errorf("%w: original price cannot be below price", ErrInvalidInput)
	}
	if product.CategoryID != nil && *product.CategoryID != "" {
		if _, err := s.categories.GetByID(*product.CategoryID); err != nil {
			return err
		}
	} else {
		product.CategoryID = nil
	}
	return nil
}

// AddReview records a 1–5 star rating for an existing product.
func (s *ProductService) AddReview(productID string, user *models.User, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if _, err := s.repo.GetByID(productID); err != nil {
		return nil, err
	}
	review := &models.Review{
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.repo.AddReview(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListCategories returns every category by name.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.categories.GetAll()
}

func (s *ProductService) CreateCategory(category *models.Category) error {
	category.Slug = slugify(category.Slug, category.Name)
	return s.categories.Create(category)
}

func (s *ProductService) UpdateCategory(category *models.Category) error {
	category.Slug = slugify(category.Slug, category.Name)
	return s.categories.Update(category)
}

func (s *ProductService) DeleteCategory(id string) error {
	return s.categories.Delete(id)
}

func slugify(slug, name string) string {
	if strings.TrimSpace(slug) == "" {
		slug = name
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	return strings.Join(strings.FieldsFunc(slug, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), "-")
}

package services

import (
	"fmt"

	"sweetshop/internal/models"
	"sweetshop/internal/pricing"
	"sweetshop/internal/repositories"
)

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 50

// CartService manages the per-user shopping cart.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart lines and their subtotal.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	items, err := s.cartRepo.GetItems(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return &models.Cart{Items: items, Subtotal: pricing.Subtotal(items)}, nil
}

// AddItem adds quantity of a product, merging with an existing line.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, MaxLineQuantity)
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		return nil, fmt.Errorf("%s: %w", product.Name, ErrProductUnavailable)
	}
	items, err := s.cartRepo.GetItems(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	for _, it := range items {
		if it.ProductID == productID && it.Quantity+quantity > MaxLineQuantity {
			return nil, fmt.Errorf("%w: at most %d of %s per order, %d already in the cart",
				ErrInvalidInput, MaxLineQuantity, product.Name, it.Quantity)
		}
	}
	if err := s.cartRepo.AddItem(userID, productID, quantity); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	return s.GetCart(userID)
}

// SetQuantity changes a line's quantity; zero removes the line.
func (s *CartService) SetQuantity(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 0 || quantity > MaxLineQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 0 and %d", ErrInvalidInput, MaxLineQuantity)
	}
	var err error
	if quantity == 0 {
		err = s.cartRepo.RemoveItem(userID, productID)
	} else {
		err = s.cartRepo.SetQuantity(userID, productID, quantity)
	}
	if err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

func (s *CartService) RemoveItem(userID, productID string) (*models.Cart, error) {
	if err := s.cartRepo.RemoveItem(userID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

func (s *CartService) Clear(userID string) error {
	return s.cartRepo.Clear(userID)
}

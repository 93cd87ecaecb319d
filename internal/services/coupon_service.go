package services

import (
	"errors"
	"fmt"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/pricing"
	"sweetshop/internal/repositories"

	"github.com/shopspring/decimal"
)

// CouponService validates discount codes and manages them for the back-office.
type CouponService struct {
	repo repositories.CouponRepository
	now  func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repositories.CouponRepository) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// SetClock replaces the time source used for validity windows.
func (s *CouponService) SetClock(now func() time.Time) {
	s.now = now
}

// Validate looks code up and returns the coupon with the discount it gives on subtotal.
func (s *CouponService) Validate(code string, subtotal decimal.Decimal) (*models.Coupon, decimal.Decimal, error) {
	coupon, err := s.repo.GetByCode(pricing.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, decimal.Zero, pricing.ErrCouponNotFound
		}
		return nil, decimal.Zero, err
	}
	discount, err := pricing.ApplyCoupon(coupon, subtotal, s.now())
	if err != nil {
		return nil, decimal.Zero, err
	}
	return coupon, discount, nil
}

func (s *CouponService) ListCoupons() ([]models.Coupon, error) {
	return s.repo.GetAll()
}

func (s *CouponService) GetCoupon(id string) (*models.Coupon, error) {
	return s.repo.GetByID(id)
}

// CreateCoupon stores a new coupon; codes are unique case-insensitively.
func (s *CouponService) CreateCoupon(coupon *models.Coupon) error {
	if err := checkCoupon(coupon); err != nil {
		return err
	}
	if _, err := s.repo.GetByCode(coupon.Code); err == nil {
		return fmt.Errorf("coupon %s: %w", coupon.Code, ErrConflict)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	coupon.UsedCount = 0
	return s.repo.Create(coupon)
}

func (s *CouponService) UpdateCoupon(coupon *models.Coupon) error {
	if err := checkCoupon(coupon); err != nil {
		return err
	}
	if existing, err := s.repo.GetByCode(coupon.Code); err == nil && existing.ID != coupon.ID {
		return fmt.Errorf("coupon %s: %w", coupon.Code, ErrConflict)
	}
	return s.repo.Update(coupon)
}

func (s *CouponService) DeleteCoupon(id string) error {
	return s.repo.Delete(id)
}

func checkCoupon(c *models.Coupon) error {
	c.Code = pricing.NormalizeCode(c.Code)
	if c.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	switch c.DiscountType {
	case models.DiscountFixed:
		if !c.DiscountValue.IsPositive() {
			return fmt.Errorf("%w: discount value must be positive", ErrInvalidInput)
		}
	case models.DiscountPercentage:
		if !c.DiscountValue.IsPositive() || c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: discount type must be percentage or fixed", ErrInvalidInput)
	}
	if c.UsageLimit != nil && *c.UsageLimit < 0 {
		return fmt.Errorf("%w: usage limit cannot be negative", ErrInvalidInput)
	}
	if !c.ValidTo.After(c.ValidFrom) {
		return fmt.Errorf("%w: valid_to must be after valid_from", ErrInvalidInput)
	}
	return nil
}

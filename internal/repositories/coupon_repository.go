package repositories

import (
	"errors"
	"fmt"

	"sweetshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	GetAll() ([]models.Coupon, error)
	GetByID(id string) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id string) error
}

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{db: db}
}

func (r *GORMCouponRepository) GetAll() ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to get coupons: %w", err)
	}
	return coupons, nil
}

func (r *GORMCouponRepository) GetByID(id string) (*models.Coupon, error) {
	return r.first("id = ?", id)
}

// GetByCode looks a coupon up by its normalized code.
func (r *GORMCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	return r.first("code = ?", code)
}

func (r *GORMCouponRepository) first(cond string, arg string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("coupon %s %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon %s: %w", arg, err)
	}
	return &coupon, nil
}

func (r *GORMCouponRepository) Create(coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	if err := r.db.Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// Update saves every editable field; UsedCount is only ever changed by order placement.
func (r *GORMCouponRepository) Update(coupon *models.Coupon) error {
	res := r.db.Model(&models.Coupon{}).Where("id = ?", coupon.ID).Select(
		"code", "description", "discount_type", "discount_value", "min_order_value",
		"max_discount", "usage_limit", "valid_from", "valid_to", "active",
	).Updates(coupon)
	if res.Error != nil {
		return fmt.Errorf("failed to update coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("coupon %s %w", coupon.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMCouponRepository) Delete(id string) error {
	res := r.db.Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("coupon %s %w", id, ErrNotFound)
	}
	return nil
}

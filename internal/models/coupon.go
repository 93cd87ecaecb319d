package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a discount code with usage and validity constraints.
type Coupon struct {
	ID            string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code          string              `json:"code" gorm:"uniqueIndex;type:varchar(50)"` // stored uppercase
	Description   string              `json:"description"`
	DiscountType  string              `json:"discount_type" gorm:"type:varchar(20)"`
	DiscountValue decimal.Decimal     `json:"discount_value" gorm:"type:decimal(10,2)"`
	MinOrderValue decimal.NullDecimal `json:"min_order_value" gorm:"type:decimal(10,2)"`
	MaxDiscount   decimal.NullDecimal `json:"max_discount" gorm:"type:decimal(10,2)"`
	UsageLimit    *int                `json:"usage_limit"`
	UsedCount     int                 `json:"used_count" gorm:"default:0"`
	ValidFrom     time.Time           `json:"valid_from"`
	ValidTo       time.Time           `json:"valid_to"`
	Active        bool                `json:"active"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

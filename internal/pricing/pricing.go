// Package pricing holds the checkout arithmetic: coupon eligibility, discount
// amounts, delivery charges and order totals.
package pricing

import (
	"errors"
	"strings"
	"time"

	"sweetshop/internal/models"

	"github.com/shopspring/decimal"
)

// Coupon rejection reasons.
var (
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponExpired        = errors.New("coupon expired")
	ErrCouponLimitReached   = errors.New("coupon usage limit reached")
	ErrCouponMinOrderNotMet = errors.New("order subtotal below coupon minimum")
)

var hundred = decimal.NewFromInt(100)

// Rules are the delivery charge parameters.
type Rules struct {
	FreeDeliveryThreshold decimal.Decimal
	DeliveryCharge        decimal.Decimal
}

// DefaultRules charges 50 on orders under 500.
func DefaultRules() Rules {
	return Rules{
		FreeDeliveryThreshold: decimal.NewFromInt(500),
		DeliveryCharge:        decimal.NewFromInt(50),
	}
}

// Totals is the price breakdown of a cart or an order.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`
}

// NormalizeCode is the canonical form coupons are stored and looked up under.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckCoupon reports why a coupon cannot be applied to subtotal at now, or nil.
// A nil coupon is treated as not found.
func CheckCoupon(c *models.Coupon, subtotal decimal.Decimal, now time.Time) error {
	if c == nil || !c.Active {
		return ErrCouponNotFound
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ErrCouponLimitReached
	}
	if c.MinOrderValue.Valid && subtotal.LessThan(c.MinOrderValue.Decimal) {
		return ErrCouponMinOrderNotMet
	}
	return nil
}

// Discount computes the amount c takes off subtotal. It never exceeds subtotal.
func Discount(c *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.DiscountType {
	case models.DiscountFixed:
		d = c.DiscountValue
	case models.DiscountPercentage:
		d = subtotal.Mul(c.DiscountValue).Div(hundred).Round(2)
		if c.MaxDiscount.Valid && d.GreaterThan(c.MaxDiscount.Decimal) {
			d = c.MaxDiscount.Decimal
		}
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(d, subtotal)
}

// ApplyCoupon validates c and returns its discount on subtotal.
func ApplyCoupon(c *models.Coupon, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if err := CheckCoupon(c, subtotal, now); err != nil {
		return decimal.Zero, err
	}
	return Discount(c, subtotal), nil
}

// DeliveryChargeFor is the charge applied when subtotal is below the free delivery threshold.
func (r Rules) DeliveryChargeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(r.FreeDeliveryThreshold) {
		return r.DeliveryCharge
	}
	return decimal.Zero
}

// Compute builds the totals: total = subtotal - discount + delivery.
func (r Rules) Compute(subtotal, discount decimal.Decimal) Totals {
	delivery := r.DeliveryChargeFor(subtotal)
	return Totals{
		Subtotal:       subtotal,
		Discount:       discount,
		DeliveryCharge: delivery,
		Total:          subtotal.Sub(discount).Add(delivery),
	}
}

// Subtotal sums price * quantity over the cart lines.
func Subtotal(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

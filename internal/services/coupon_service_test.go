package services_test

import (
	"testing"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/pricing"
	"sweetshop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var couponNow = time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)

func festival50() *models.Coupon {
	return &models.Coupon{
		ID:            "c-1",
		Code:          "FESTIVAL50",
		DiscountType:  models.DiscountFixed,
		DiscountValue: decimal.NewFromInt(50),
		MinOrderValue: decimal.NewNullDecimal(decimal.NewFromInt(300)),
		ValidFrom:     couponNow.AddDate(0, -1, 0),
		ValidTo:       couponNow.AddDate(0, 1, 0),
		Active:        true,
	}
}

func newCouponService() (*services.CouponService, *MockCouponRepository) {
	repo := new(MockCouponRepository)
	service := services.NewCouponService(repo)
	service.SetClock(func() time.Time { return couponNow })
	return service, repo
}

func TestCouponService_Validate(t *testing.T) {
	service, repo := newCouponService()

	repo.On("GetByCode", "FESTIVAL50").Return(festival50(), nil).Once()
	coupon, discount, err := service.Validate("  festival50 ", decimal.NewFromInt(450))
	require.NoError(t, err)
	assert.Equal(t, "FESTIVAL50", coupon.Code)
	assert.True(t, discount.Equal(decimal.NewFromInt(50)))

	repo.On("GetByCode", "NOPE").Return(nil, notFound("coupon NOPE")).Once()
	_, _, err = service.Validate("nope", decimal.NewFromInt(450))
	assert.ErrorIs(t, err, pricing.ErrCouponNotFound)

	expired := festival50()
	expired.ValidTo = couponNow.Add(-time.Minute)
	repo.On("GetByCode", "FESTIVAL50").Return(expired, nil).Once()
	_, _, err = service.Validate("FESTIVAL50", decimal.NewFromInt(450))
	assert.ErrorIs(t, err, pricing.ErrCouponExpired)

	repo.On("GetByCode", "FESTIVAL50").Return(festival50(), nil).Once()
	_, _, err = service.Validate("FESTIVAL50", decimal.NewFromInt(299))
	assert.ErrorIs(t, err, pricing.ErrCouponMinOrderNotMet)

	repo.AssertExpectations(t)
}

func TestCouponService_CreateCoupon(t *testing.T) {
	service, repo := newCouponService()

	coupon := festival50()
	coupon.ID = ""
	coupon.Code = " diwali10 "
	coupon.UsedCount = 7
	repo.On("GetByCode", "DIWALI10").Return(nil, notFound("coupon DIWALI10")).Once()
	repo.On("Create", mock.AnythingOfType("*models.Coupon")).Return(nil).Once()
	require.NoError(t, service.CreateCoupon(coupon))
	assert.Equal(t, "DIWALI10", coupon.Code)
	assert.Zero(t, coupon.UsedCount)

	repo.On("GetByCode", "FESTIVAL50").Return(festival50(), nil).Once()
	err := service.CreateCoupon(festival50())
	assert.ErrorIs(t, err, services.ErrConflict)

	repo.AssertExpectations(t)
}

func TestCouponService_CreateCouponRejectsBadInput(t *testing.T) {
	service, repo := newCouponService()

	cases := map[string]func(c *models.Coupon){
		"empty code":          func(c *models.Coupon) { c.Code = "  " },
		"unknown type":        func(c *models.Coupon) { c.DiscountType = "bogo" },
		"zero fixed value":    func(c *models.Coupon) { c.DiscountValue = decimal.Zero },
		"percentage over 100": func(c *models.Coupon) { c.DiscountType = models.DiscountPercentage; c.DiscountValue = decimal.NewFromInt(101) },
		"negative limit":      func(c *models.Coupon) { n := -1; c.UsageLimit = &n },
		"window reversed":     func(c *models.Coupon) { c.ValidTo = c.ValidFrom.Add(-time.Hour) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := festival50()
			mutate(c)
			assert.ErrorIs(t, service.CreateCoupon(c), services.ErrInvalidInput)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCouponService_UpdateCoupon(t *testing.T) {
	service, repo := newCouponService()

	// Same code on the same coupon is fine
	c := festival50()
	repo.On("GetByCode", "FESTIVAL50").Return(festival50(), nil).Once()
	repo.On("Update", c).Return(nil).Once()
	assert.NoError(t, service.UpdateCoupon(c))

	// Renaming onto another coupon's code conflicts
	other := festival50()
	other.ID = "c-2"
	repo.On("GetByCode", "FESTIVAL50").Return(festival50(), nil).Once()
	assert.ErrorIs(t, service.UpdateCoupon(other), services.ErrConflict)

	repo.AssertExpectations(t)
}

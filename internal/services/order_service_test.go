package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sweetshop/internal/config"
	"sweetshop/internal/events"
	"sweetshop/internal/models"
	"sweetshop/internal/pricing"
	"sweetshop/internal/repositories"
	"sweetshop/internal/services"
	"sweetshop/pkg/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders    *MockOrderRepository
	carts     *MockCartRepository
	addresses *MockAddressRepository
	coupons   *MockCouponRepository
	settings  *MockSettingsRepository
	gateway   *MockGateway
	publisher *recordingPublisher
	service   *services.OrderService
}

func newOrderFixture(settings *models.SiteSettings) *orderFixture {
	f := &orderFixture{
		orders:    new(MockOrderRepository),
		carts:     new(MockCartRepository),
		addresses: new(MockAddressRepository),
		coupons:   new(MockCouponRepository),
		settings:  new(MockSettingsRepository),
		gateway:   new(MockGateway),
		publisher: &recordingPublisher{},
	}
	f.settings.On("Get").Return(settings, nil).Maybe()

	couponService := services.NewCouponService(f.coupons)
	couponService.SetClock(func() time.Time { return couponNow })
	payments := services.NewPaymentService(f.orders, new(MockWebhookEventRepository), f.settings,
		config.Payment{Provider: payment.ProviderRazorpay}, "INR", f.publisher)
	payments.SetGatewayFactory(func(payment.Credentials) (payment.Gateway, error) { return f.gateway, nil })

	f.service = services.NewOrderService(f.orders, f.carts, services.NewAddressService(f.addresses),
		couponService, payments, f.settings, pricing.DefaultRules(), f.publisher)
	return f
}

func homeAddress() *models.Address {
	return &models.Address{ID: "a1", UserID: "u1", FullName: "Meera", Phone: "9876543210", Line1: "12 MG Road", City: "Pune", PostalCode: "411001", IsDefault: true}
}

func TestOrderService_Quote(t *testing.T) {
	f := newOrderFixture(&models.SiteSettings{CODEnabled: true})
	f.carts.On("GetItems", "u1").Return([]models.CartItem{cartLine("p1", 150, 3)}, nil)
	f.coupons.On("GetByCode", "FESTIVAL50").Return(festival50(), nil).Once()

	quote, err := f.service.Quote("u1", "festival50")
	require.NoError(t, err)
	assert.Equal(t, "FESTIVAL50", quote.CouponCode)
	assert.Equal(t, "450", quote.Subtotal.String())
	assert.Equal(t, "50", quote.Discount.String())
	assert.Equal(t, "50", quote.DeliveryCharge.String())
	assert.Equal(t, "450", quote.Total.String())

	// Without a coupon the totals still add up
	quote, err = f.service.Quote("u1", "")
	require.NoError(t, err)
	assert.True(t, quote.Total.Equal(quote.Subtotal.Sub(quote.Discount).Add(quote.DeliveryCharge)))
	assert.Equal(t, "500", quote.Total.String())
}

func TestOrderService_PlaceOrderCOD(t *testing.T) {
	f := newOrderFixture(&models.SiteSettings{CODEnabled: true})
	f.carts.On("GetItems", "u1").Return([]models.CartItem{cartLine("p1", 150, 3)}, nil).Once()
	f.addresses.On("GetDefault", "u1").Return(homeAddress(), nil).Once()
	f.coupons.On("GetByCode", "FESTIVAL50").Return(festival50(), nil).Once()
	f.orders.On("Place", mock.MatchedBy(func(o *models.Order) bool {
		return o.ID != "" && o.UserID == "u1" &&
			o.Status == models.OrderStatusPending &&
			o.PaymentStatus == models.PaymentStatusPending &&
			o.Address.City == "Pune" &&
			len(o.Items) == 1 && o.Items[0].Price.Equal(decimal.NewFromInt(150))
	}), "c-1").Return(nil).Once()

	checkout, err := f.service.PlaceOrder(context.Background(), "u1", services.PlaceOrderRequest{
		CouponCode:    "FESTIVAL50",
		PaymentMethod: models.PaymentMethodCOD,
	})
	require.NoError(t, err)
	assert.Nil(t, checkout.Payment)
	assert.Equal(t, "50", checkout.Order.Discount.String())
	assert.Equal(t, "50", checkout.Order.DeliveryCharge.String())
	assert.Equal(t, "450", checkout.Order.Total.String())
	assert.Equal(t, []string{events.OrderCreated}, f.publisher.Keys())

	f.orders.AssertExpectations(t)
	f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything)
}

func TestOrderService_PlaceOrderRejections(t *testing.T) {
	ctx := context.Background()
	cod := services.PlaceOrderRequest{PaymentMethod: models.PaymentMethodCOD}

	t.Run("empty cart", func(t *testing.T) {
		f := newOrderFixture(&models.SiteSettings{CODEnabled: true})
		f.carts.On("GetItems", "u1").Return([]models.CartItem{}, nil)
		_, err := f.service.PlaceOrder(ctx, "u1", cod)
		assert.ErrorIs(t, err, services.ErrEmptyCart)
	})

	t.Run("out of stock", func(t *testing.T) {
		f := newOrderFixture(&models.SiteSettings{CODEnabled: true})
		line := cartLine("p1", 100, 1)
		line.Product.InStock = false
		f.carts.On("GetItems", "u1").Return([]models.CartItem{line}, nil)
		_, err := f.service.PlaceOrder(ctx, "u1", cod)
		assert.ErrorIs(t, err, services.ErrProductUnavailable)
	})

	t.Run("no address", func(t *testing.T) {
		f := newOrderFixture(&models.SiteSettings{CODEnabled: true})
		f.carts.On("GetItems", "u1").Return([]models.CartItem{cartLine("p1", 100, 1)}, nil)
		f.addresses.On("GetDefault", "u1").Return(nil, notFound("default address"))
		_, err := f.service.PlaceOrder(ctx, "u1", cod)
		assert.ErrorIs(t, err, services.ErrAddressRequired)
	})

	t.Run("cod disabled", func(t *testing.T) {
		f := newOrderFixture(&models.SiteSettings{CODEnabled: false})
		f.carts.On("GetItems", "u1").Return([]models.CartItem{cartLine("p1", 100, 1)}, nil)
		f.addresses.On("GetDefault", "u1").Return(homeAddress(), nil)
		_, err := f.service.PlaceOrder(ctx, "u1", cod)
		assert.ErrorIs(t, err, services.ErrPaymentMethodDisabled)
	})

	t.Run("coupon used up during placement", func(t *testing.T) {
		f := newOrderFixture(&models.SiteSettings{CODEnabled: true})
		f.carts.On("GetItems", "u1").Return([]models.CartItem{cartLine("p1", 150, 3)}, nil)
		f.addresses.On("GetDefault", "u1").Return(homeAddress(), nil)
		f.coupons.On("GetByCode", "FESTIVAL50").Return(festival50(), nil)
		f.orders.On("Place", mock.Anything, "c-1").Return(pricing.ErrCouponLimitReached)
		_, err := f.service.PlaceOrder(ctx, "u1", services.PlaceOrderRequest{CouponCode: "FESTIVAL50", PaymentMethod: models.PaymentMethodCOD})
		assert.ErrorIs(t, err, pricing.ErrCouponLimitReached)
		assert.Empty(t, f.publisher.Keys())
	})
}

func TestOrderService_PlaceOrderOnline(t *testing.T) {
	settings := &models.SiteSettings{OnlinePaymentEnabled: true}
	f := newOrderFixture(settings)
	f.carts.On("GetItems", "u1").Return([]models.CartItem{cartLine("p1", 250, 2)}, nil).Once()
	f.addresses.On("GetByID", "u1", "a1").Return(homeAddress(), nil).Once()
	f.gateway.On("CreateOrder", mock.MatchedBy(func(req payment.OrderRequest) bool {
		return req.Amount.Equal(decimal.NewFromInt(500)) && req.Currency == "INR" && req.Receipt != ""
	})).Return(&payment.GatewayOrder{Provider: payment.ProviderRazorpay, ID: "order_gw1", Amount: 50000, Currency: "INR"}, nil).Once()
	f.orders.On("Place", mock.MatchedBy(func(o *models.Order) bool {
		return o.GatewayOrderID == "order_gw1" && o.PaymentGateway == payment.ProviderRazorpay &&
			o.PaymentMethod == models.PaymentMethodOnline
	}), "").Return(nil).Once()

	checkout, err := f.service.PlaceOrder(context.Background(), "u1", services.PlaceOrderRequest{
		AddressID:     "a1",
		PaymentMethod: models.PaymentMethodOnline,
	})
	require.NoError(t, err)
	require.NotNil(t, checkout.Payment)
	assert.Equal(t, int64(50000), checkout.Payment.Amount)
	assert.Equal(t, "0", checkout.Order.DeliveryCharge.String())
	f.gateway.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestOrderService_PlaceOrderOnlineGatewayDown(t *testing.T) {
	f := newOrderFixture(&models.SiteSettings{OnlinePaymentEnabled: true, CODEnabled: true})
	f.carts.On("GetItems", "u1").Return([]models.CartItem{cartLine("p1", 250, 2)}, nil).Once()
	f.addresses.On("GetDefault", "u1").Return(homeAddress(), nil).Once()
	f.gateway.On("CreateOrder", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := f.service.PlaceOrder(context.Background(), "u1", services.PlaceOrderRequest{PaymentMethod: models.PaymentMethodOnline})
	assert.ErrorIs(t, err, services.ErrPaymentGatewayUnavailable)
	f.orders.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(&models.SiteSettings{CODEnabled: true})

	_, err := f.service.UpdateOrderStatus("o1", "returned")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	// Delivering a COD order records the cash as paid
	f.orders.On("GetByID", "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusShipped, PaymentMethod: models.PaymentMethodCOD, PaymentStatus: models.PaymentStatusPending}, nil).Once()
	f.orders.On("UpdateStatus", "o1", models.OrderStatusShipped, models.OrderStatusDelivered).Return(nil).Once()
	f.orders.On("SetPaymentStatus", "o1", models.PaymentStatusPaid, "").Return(nil).Once()
	order, err := f.service.UpdateOrderStatus("o1", " Delivered ")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, []string{events.OrderStatusChanged}, f.publisher.Keys())

	// Backwards moves are rejected
	f.orders.On("GetByID", "o2").Return(&models.Order{ID: "o2", Status: models.OrderStatusShipped}, nil).Once()
	_, err = f.service.UpdateOrderStatus("o2", models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	// A concurrent change surfaces as a conflict
	f.orders.On("GetByID", "o3").Return(&models.Order{ID: "o3", Status: models.OrderStatusPending}, nil).Once()
	f.orders.On("UpdateStatus", "o3", models.OrderStatusPending, models.OrderStatusConfirmed).
		Return(notFound("order with ID o3 in status pending")).Once()
	_, err = f.service.UpdateOrderStatus("o3", models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, services.ErrConflict)

	f.orders.AssertExpectations(t)
}

func TestOrderService_CancelOrder(t *testing.T) {
	f := newOrderFixture(&models.SiteSettings{CODEnabled: true})

	f.orders.On("GetByID", "o1").Return(&models.Order{ID: "o1", UserID: "u1", Status: models.OrderStatusConfirmed}, nil).Once()
	f.orders.On("Cancel", "o1", models.OrderStatusConfirmed, "").Return(nil).Once()
	order, err := f.service.CancelOrder("u1", "o1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	// The coupon use goes back with the order
	f.orders.On("GetByID", "o4").Return(&models.Order{ID: "o4", UserID: "u1", Status: models.OrderStatusPending, CouponCode: "FESTIVAL50"}, nil).Once()
	f.orders.On("Cancel", "o4", models.OrderStatusPending, "FESTIVAL50").Return(nil).Once()
	_, err = f.service.CancelOrder("u1", "o4")
	require.NoError(t, err)

	// Someone else's order does not exist for this customer
	f.orders.On("GetByID", "o2").Return(&models.Order{ID: "o2", UserID: "u2", Status: models.OrderStatusPending}, nil).Once()
	_, err = f.service.CancelOrder("u1", "o2")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Shipped orders can no longer be cancelled
	f.orders.On("GetByID", "o3").Return(&models.Order{ID: "o3", UserID: "u1", Status: models.OrderStatusShipped}, nil).Once()
	_, err = f.service.CancelOrder("u1", "o3")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	f.orders.AssertExpectations(t)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_ListOrdersRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture(&models.SiteSettings{})
	_, _, err := f.service.ListOrders(models.OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

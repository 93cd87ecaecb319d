package services_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
	"sweetshop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Dashboard(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	users := new(MockUserRepository)
	newsletter := new(MockNewsletterRepository)
	service := services.NewAdminService(orders, products, users, newsletter)

	orders.On("Stats").Return(&repositories.OrderStats{TotalOrders: 12, PendingOrders: 3, Revenue: decimal.RequireFromString("4520.50")}, nil).Once()
	products.On("Count").Return(int64(8), nil).Once()
	users.On("CountByRole", models.RoleCustomer).Return(int64(40), nil).Once()
	newsletter.On("CountActive").Return(int64(25), nil).Once()

	dash, err := service.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(12), dash.TotalOrders)
	assert.Equal(t, int64(3), dash.PendingOrders)
	assert.Equal(t, "4520.5", dash.Revenue.String())
	assert.Equal(t, int64(8), dash.Products)
	assert.Equal(t, int64(40), dash.Customers)
	assert.Equal(t, int64(25), dash.NewsletterSubscribers)
}

func TestAdminService_ExportOrdersCSV(t *testing.T) {
	orders := new(MockOrderRepository)
	service := services.NewAdminService(orders, nil, nil, nil)

	orders.On("List", mock.MatchedBy(func(f models.OrderFilter) bool {
		return f.Limit < 0 && f.Status == models.OrderStatusDelivered
	})).Return([]models.Order{{
		ID:             "o1",
		Address:        models.AddressSnapshot{FullName: "Meera", Phone: "98765", City: "Pune"},
		Items:          []models.OrderItem{{Quantity: 2}, {Quantity: 1}},
		Subtotal:       decimal.NewFromInt(450),
		Discount:       decimal.NewFromInt(50),
		DeliveryCharge: decimal.NewFromInt(50),
		Total:          decimal.NewFromInt(450),
		CouponCode:     "FESTIVAL50",
		Status:         models.OrderStatusDelivered,
		PaymentMethod:  models.PaymentMethodCOD,
		PaymentStatus:  models.PaymentStatusPaid,
	}}, int64(1), nil).Once()

	var buf bytes.Buffer
	require.NoError(t, service.ExportOrdersCSV(&buf, models.OrderFilter{Status: models.OrderStatusDelivered, Page: 3, Limit: 10}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "order_id", records[0][0])
	row := records[1]
	assert.Equal(t, "o1", row[0])
	assert.Equal(t, "Meera", row[2])
	assert.Equal(t, "3", row[5])
	assert.Equal(t, []string{"450.00", "50.00", "50.00", "450.00", "FESTIVAL50", "delivered", "cod", "paid"}, row[6:])
	orders.AssertExpectations(t)
}

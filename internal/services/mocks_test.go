package services_test

import (
	"context"
	"sync"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
	"sweetshop/pkg/payment"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListCustomers(page, limit int) ([]repositories.CustomerSummary, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]repositories.CustomerSummary), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CountByRole(role string) (int64, error) {
	args := m.Called(role)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(filter models.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) AddReview(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockProductRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	return m.Called(category).Error(0)
}

func (m *MockCategoryRepository) Update(category *models.Category) error {
	return m.Called(category).Error(0)
}

func (m *MockCategoryRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

// MockCouponRepository is a mock implementation of repositories.CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) GetAll() ([]models.Coupon, error) {
	args := m.Called()
	return args.Get(0).([]models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByID(id string) (*models.Coupon, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Create(coupon *models.Coupon) error {
	return m.Called(coupon).Error(0)
}

func (m *MockCouponRepository) Update(coupon *models.Coupon) error {
	return m.Called(coupon).Error(0)
}

func (m *MockCouponRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetItems(userID string) ([]models.CartItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartRepository) AddItem(userID, productID string, quantity int) error {
	return m.Called(userID, productID, quantity).Error(0)
}

func (m *MockCartRepository) SetQuantity(userID, productID string, quantity int) error {
	return m.Called(userID, productID, quantity).Error(0)
}

func (m *MockCartRepository) RemoveItem(userID, productID string) error {
	return m.Called(userID, productID).Error(0)
}

func (m *MockCartRepository) Clear(userID string) error {
	return m.Called(userID).Error(0)
}

// MockAddressRepository is a mock implementation of repositories.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Address), args.Error(1)
}

func (m *MockAddressRepository) GetByID(userID, id string) (*models.Address, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *MockAddressRepository) GetDefault(userID string) (*models.Address, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *MockAddressRepository) Create(address *models.Address) error {
	return m.Called(address).Error(0)
}

func (m *MockAddressRepository) Update(address *models.Address) error {
	return m.Called(address).Error(0)
}

func (m *MockAddressRepository) Delete(userID, id string) error {
	return m.Called(userID, id).Error(0)
}

func (m *MockAddressRepository) SetDefault(userID, id string) error {
	return m.Called(userID, id).Error(0)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Place(order *models.Order, couponID string) error {
	return m.Called(order, couponID).Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	args := m.Called(gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(filter models.OrderFilter) ([]models.Order, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(id, from, to string) error {
	return m.Called(id, from, to).Error(0)
}

func (m *MockOrderRepository) Cancel(id, from, couponCode string) error {
	return m.Called(id, from, couponCode).Error(0)
}

func (m *MockOrderRepository) SetGatewayOrder(id, gateway, gatewayOrderID string) error {
	return m.Called(id, gateway, gatewayOrderID).Error(0)
}

func (m *MockOrderRepository) SetPaymentStatus(id, status, paymentID string) error {
	return m.Called(id, status, paymentID).Error(0)
}

func (m *MockOrderRepository) Stats() (*repositories.OrderStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.OrderStats), args.Error(1)
}

// MockWebhookEventRepository is a mock implementation of repositories.WebhookEventRepository.
// A newly recorded event runs apply against Orders.
type MockWebhookEventRepository struct {
	mock.Mock
	Orders repositories.OrderRepository
}

func (m *MockWebhookEventRepository) Process(eventID, eventType string, apply func(orders repositories.OrderRepository) error) (bool, error) {
	args := m.Called(eventID, eventType)
	if !args.Bool(0) || args.Error(1) != nil {
		return false, args.Error(1)
	}
	return true, apply(m.Orders)
}

// MockSettingsRepository is a mock implementation of repositories.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get() (*models.SiteSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(settings *models.SiteSettings) error {
	return m.Called(settings).Error(0)
}

// MockTicketRepository is a mock implementation of repositories.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ticket *models.SupportTicket) error {
	return m.Called(ticket).Error(0)
}

func (m *MockTicketRepository) GetByID(id string) (*models.SupportTicket, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) ListByUser(userID string) ([]models.SupportTicket, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) List(status, priority string) ([]models.SupportTicket, error) {
	args := m.Called(status, priority)
	return args.Get(0).([]models.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) AddMessage(msg *models.TicketMessage, status string) error {
	return m.Called(msg, status).Error(0)
}

func (m *MockTicketRepository) Update(id, status, priority string) error {
	return m.Called(id, status, priority).Error(0)
}

// MockNewsletterRepository is a mock implementation of repositories.NewsletterRepository
type MockNewsletterRepository struct {
	mock.Mock
}

func (m *MockNewsletterRepository) GetByEmail(email string) (*models.NewsletterSubscriber, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsletterSubscriber), args.Error(1)
}

func (m *MockNewsletterRepository) Create(sub *models.NewsletterSubscriber) error {
	return m.Called(sub).Error(0)
}

func (m *MockNewsletterRepository) Save(sub *models.NewsletterSubscriber) error {
	return m.Called(sub).Error(0)
}

func (m *MockNewsletterRepository) List(activeOnly bool) ([]models.NewsletterSubscriber, error) {
	args := m.Called(activeOnly)
	return args.Get(0).([]models.NewsletterSubscriber), args.Error(1)
}

func (m *MockNewsletterRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockNewsletterRepository) CountActive() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Provider() string { return payment.ProviderRazorpay }

func (m *MockGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.GatewayOrder, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayOrder), args.Error(1)
}

func (m *MockGateway) Verify(ctx context.Context, v payment.Verification) (string, error) {
	args := m.Called(v)
	return args.String(0), args.Error(1)
}

// recordingPublisher keeps the routing keys it was asked to publish.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

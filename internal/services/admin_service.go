package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"

	"github.com/shopspring/decimal"
)

// Dashboard holds the back-office summary counters.
type Dashboard struct {
	TotalOrders           int64           `json:"total_orders"`
	PendingOrders         int64           `json:"pending_orders"`
	Revenue               decimal.Decimal `json:"revenue"`
	Products              int64           `json:"products"`
	Customers             int64           `json:"customers"`
	NewsletterSubscribers int64           `json:"newsletter_subscribers"`
}

// AdminService aggregates back-office reporting.
type AdminService struct {
	orderRepo      repositories.OrderRepository
	productRepo    repositories.ProductRepository
	userRepo       repositories.UserRepository
	newsletterRepo repositories.NewsletterRepository
}

func NewAdminService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	newsletterRepo repositories.NewsletterRepository,
) *AdminService {
	return &AdminService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		newsletterRepo: newsletterRepo,
	}
}

// Dashboard collects the summary counters. Revenue counts paid, non-cancelled orders.
func (s *AdminService) Dashboard() (*Dashboard, error) {
	stats, err := s.orderRepo.Stats()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	customers, err := s.userRepo.CountByRole(models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.newsletterRepo.CountActive()
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		TotalOrders:           stats.TotalOrders,
		PendingOrders:         stats.PendingOrders,
		Revenue:               stats.Revenue,
		Products:              products,
		Customers:             customers,
		NewsletterSubscribers: subscribers,
	}, nil
}

func (s *AdminService) ListCustomers(page, limit int) ([]repositories.CustomerSummary, int64, error) {
	return s.userRepo.ListCustomers(page, limit)
}

// ExportOrdersCSV writes every order matching filter, one row per order.
func (s *AdminService) ExportOrdersCSV(w io.Writer, filter models.OrderFilter) error {
	filter.Limit = -1
	orders, _, err := s.orderRepo.List(filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{
		"order_id", "created_at", "customer", "phone", "city", "items",
		"subtotal", "discount", "delivery_charge", "total",
		"coupon", "status", "payment_method", "payment_status",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, o := range orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		record := []string{
			o.ID,
			o.CreatedAt.UTC().Format(time.RFC3339),
			o.Address.FullName,
			o.Address.Phone,
			o.Address.City,
			strconv.Itoa(items),
			o.Subtotal.StringFixed(2),
			o.Discount.StringFixed(2),
			o.DeliveryCharge.StringFixed(2),
			o.Total.StringFixed(2),
			o.CouponCode,
			o.Status,
			o.PaymentMethod,
			o.PaymentStatus,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

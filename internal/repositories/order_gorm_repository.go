package repositories

import (
	"errors"
	"fmt"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) Place(order *models.Order, couponID string) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if couponID != "" {
			res := tx.Model(&models.Coupon{}).
				Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", couponID).
				UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
			if res.Error != nil {
				return fmt.Errorf("failed to consume coupon: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return pricing.ErrCouponLimitReached
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}

func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	return r.first("id = ?", id)
}

func (r *GORMOrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	return r.first("gateway_order_id = ?", gatewayOrderID)
}

func (r *GORMOrderRepository) first(cond string, arg string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", arg, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) List(filter models.OrderFilter) ([]models.Order, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.PaymentStatus != "" {
			q = q.Where("payment_status = ?", filter.PaymentStatus)
		}
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		return q
	}

	var total int64
	if err := r.db.Model(&models.Order{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	q := r.db.Scopes(scope).Preload("Items").Order("created_at DESC")
	if filter.Limit >= 0 {
		offset, size := paginate(filter.Page, filter.Limit)
		q = q.Offset(offset).Limit(size)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (r *GORMOrderRepository) UpdateStatus(id, from, to string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s in status %s %w", id, from, ErrNotFound)
	}
	return nil
}

func (r *GORMOrderRepository) Cancel(id, from, couponCode string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := NewGORMOrderRepository(tx).UpdateStatus(id, from, models.OrderStatusCancelled); err != nil {
			return err
		}
		if couponCode == "" {
			return nil
		}
		err := tx.Model(&models.Coupon{}).
			Where("code = ? AND used_count > 0", couponCode).
			UpdateColumn("used_count", gorm.Expr("used_count - ?", 1)).Error
		if err != nil {
			return fmt.Errorf("failed to release coupon %s: %w", couponCode, err)
		}
		return nil
	})
}

func (r *GORMOrderRepository) SetGatewayOrder(id, gateway, gatewayOrderID string) error {
	return r.update(id, map[string]interface{}{
		"payment_gateway":  gateway,
		"gateway_order_id": gatewayOrderID,
	})
}

func (r *GORMOrderRepository) SetPaymentStatus(id, status, paymentID string) error {
	fields := map[string]interface{}{"payment_status": status}
	if paymentID != "" {
		fields["payment_id"] = paymentID
	}
	return r.update(id, fields)
}

func (r *GORMOrderRepository) update(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s %w", id, ErrNotFound)
	}
	return nil
}

// Stats counts orders and sums the revenue of paid, non-cancelled orders.
func (r *GORMOrderRepository) Stats() (*OrderStats, error) {
	var stats OrderStats
	if err := r.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := r.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	var revenue decimal.NullDecimal
	err := r.db.Model(&models.Order{}).
		Where("payment_status = ? AND status <> ?", models.PaymentStatusPaid, models.OrderStatusCancelled).
		Select("SUM(total)").Row().Scan(&revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.Revenue = revenue.Decimal
	return &stats, nil
}

// GORMWebhookEventRepository is a GORM implementation of WebhookEventRepository.
type GORMWebhookEventRepository struct {
	db *gorm.DB
}

// NewGORMWebhookEventRepository creates a new instance of GORMWebhookEventRepository.
func NewGORMWebhookEventRepository(db *gorm.DB) *GORMWebhookEventRepository {
	return &GORMWebhookEventRepository{db: db}
}

func (r *GORMWebhookEventRepository) Process(eventID, eventType string, apply func(orders OrderRepository) error) (bool, error) {
	processed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.WebhookEvent{
			EventID:     eventID,
			EventType:   eventType,
			ProcessedAt: time.Now(),
		})
		if res.Error != nil {
			return fmt.Errorf("failed to record webhook event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		processed = true
		return apply(NewGORMOrderRepository(tx))
	})
	if err != nil {
		return false, err
	}
	return processed, nil
}

package repositories

import (
	"errors"
	"fmt"
	"time"

	"sweetshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketRepository defines the interface for support ticket data access.
type TicketRepository interface {
	Create(ticket *models.SupportTicket) error
	GetByID(id string) (*models.SupportTicket, error)
	ListByUser(userID string) ([]models.SupportTicket, error)
	List(status, priority string) ([]models.SupportTicket, error)
	// AddMessage appends msg and, when status is not empty, moves the ticket to it.
	AddMessage(msg *models.TicketMessage, status string) error
	Update(id, status, priority string) error
}

// GORMTicketRepository is a GORM implementation of TicketRepository.
type GORMTicketRepository struct {
	db *gorm.DB
}

// NewGORMTicketRepository creates a new instance of GORMTicketRepository.
func NewGORMTicketRepository(db *gorm.DB) *GORMTicketRepository {
	return &GORMTicketRepository{db: db}
}

func orderedMessages(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

// Create stores a ticket together with its opening messages.
func (r *GORMTicketRepository) Create(ticket *models.SupportTicket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	if err := r.db.Create(ticket).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *GORMTicketRepository) GetByID(id string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.Preload("Messages", orderedMessages).First(&ticket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ticket %s: %w", id, err)
	}
	return &ticket, nil
}

func (r *GORMTicketRepository) ListByUser(userID string) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	if err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (r *GORMTicketRepository) List(status, priority string) ([]models.SupportTicket, error) {
	q := r.db.Model(&models.SupportTicket{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if priority != "" {
		q = q.Where("priority = ?", priority)
	}
	var tickets []models.SupportTicket
	if err := q.Order("updated_at DESC").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (r *GORMTicketRepository) AddMessage(msg *models.TicketMessage, status string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("failed to add ticket message: %w", err)
		}
		fields := map[string]interface{}{"updated_at": time.Now()}
		if status != "" {
			fields["status"] = status
		}
		res := tx.Model(&models.SupportTicket{}).Where("id = ?", msg.TicketID).Updates(fields)
		if res.Error != nil {
			return fmt.Errorf("failed to touch ticket: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("ticket %s %w", msg.TicketID, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMTicketRepository) Update(id, status, priority string) error {
	fields := map[string]interface{}{"updated_at": time.Now()}
	if status != "" {
		fields["status"] = status
	}
	if priority != "" {
		fields["priority"] = priority
	}
	res := r.db.Model(&models.SupportTicket{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ticket %s %w", id, ErrNotFound)
	}
	return nil
}

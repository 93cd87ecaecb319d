package repositories

import (
	"errors"
	"fmt"

	"sweetshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsletterRepository defines the interface for subscriber data access.
type NewsletterRepository interface {
	GetByEmail(email string) (*models.NewsletterSubscriber, error)
	Create(sub *models.NewsletterSubscriber) error
	Save(sub *models.NewsletterSubscriber) error
	List(activeOnly bool) ([]models.NewsletterSubscriber, error)
	Delete(id string) error
	CountActive() (int64, error)
}

// GORMNewsletterRepository is a GORM implementation of NewsletterRepository.
type GORMNewsletterRepository struct {
	db *gorm.DB
}

// NewGORMNewsletterRepository creates a new instance of GORMNewsletterRepository.
func NewGORMNewsletterRepository(db *gorm.DB) *GORMNewsletterRepository {
	return &GORMNewsletterRepository{db: db}
}

func (r *GORMNewsletterRepository) GetByEmail(email string) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	if err := r.db.First(&sub, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subscriber %s %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscriber %s: %w", email, err)
	}
	return &sub, nil
}

func (r *GORMNewsletterRepository) Create(sub *models.NewsletterSubscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if err := r.db.Create(sub).Error; err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

func (r *GORMNewsletterRepository) Save(sub *models.NewsletterSubscriber) error {
	if err := r.db.Save(sub).Error; err != nil {
		return fmt.Errorf("failed to save subscriber: %w", err)
	}
	return nil
}

func (r *GORMNewsletterRepository) List(activeOnly bool) ([]models.NewsletterSubscriber, error) {
	q := r.db.Order("created_at DESC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var subs []models.NewsletterSubscriber
	if err := q.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subs, nil
}

func (r *GORMNewsletterRepository) Delete(id string) error {
	res := r.db.Delete(&models.NewsletterSubscriber{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscriber: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("subscriber %s %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMNewsletterRepository) CountActive() (int64, error) {
	var n int64
	if err := r.db.Model(&models.NewsletterSubscriber{}).Where("active = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return n, nil
}

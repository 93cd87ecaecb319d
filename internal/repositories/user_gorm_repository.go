package repositories

import (
	"errors"
	"fmt"
	"strings"

	"sweetshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(user.Email)
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// ListCustomers returns customers with their order counts, newest first.
func (r *GORMUserRepository) ListCustomers(page, limit int) ([]CustomerSummary, int64, error) {
	var total int64
	if err := r.db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	offset, size := paginate(page, limit)
	var users []models.User
	err := r.db.Where("role = ?", models.RoleCustomer).
		Order("created_at DESC").
		Offset(offset).Limit(size).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	out := make([]CustomerSummary, len(users))
	for i, u := range users {
		out[i].User = u
		if err := r.db.Model(&models.Order{}).Where("user_id = ?", u.ID).Count(&out[i].OrderCount).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to count orders of %s: %w", u.ID, err)
		}
	}
	return out, total, nil
}

// CountByRole counts the users holding role.
func (r *GORMUserRepository) CountByRole(role string) (int64, error) {
	var n int64
	if err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

package repositories

import "sweetshop/internal/models"

// CustomerSummary is a customer row of the back-office customer list.
type CustomerSummary struct {
	models.User
	OrderCount int64 `json:"order_count"`
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	ListCustomers(page, limit int) ([]CustomerSummary, int64, error)
	CountByRole(role string) (int64, error)
}

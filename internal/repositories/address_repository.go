package repositories

import (
	"errors"
	"fmt"

	"sweetshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressRepository defines the interface for address data access.
// Every method is scoped to the owning user.
type AddressRepository interface {
	ListByUser(userID string) ([]models.Address, error)
	GetByID(userID, id string) (*models.Address, error)
	GetDefault(userID string) (*models.Address, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(userID, id string) error
	SetDefault(userID, id string) error
}

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

func (r *GORMAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

func (r *GORMAddressRepository) GetByID(userID, id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get address %s: %w", id, err)
	}
	return &address, nil
}

func (r *GORMAddressRepository) GetDefault(userID string) (*models.Address, error) {
	var address models.Address
	if err := r.db.First(&address, "user_id = ? AND is_default = ?", userID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("default address %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get default address: %w", err)
	}
	return &address, nil
}

// Create stores a new address. A user's first address becomes the default, and a
// new default address clears the flag on the others.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", address.UserID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count addresses: %w", err)
		}
		if count == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID); err != nil {
				return err
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

// Update saves the address fields; the default flag is managed by SetDefault.
func (r *GORMAddressRepository) Update(address *models.Address) error {
	res := r.db.Model(&models.Address{}).
		Where("id = ? AND user_id = ?", address.ID, address.UserID).
		Select("full_name", "phone", "line1", "line2", "city", "state", "postal_code").
		Updates(address)
	if res.Error != nil {
		return fmt.Errorf("failed to update address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address %s %w", address.ID, ErrNotFound)
	}
	return nil
}

// Delete removes an address; when it was the default the newest remaining one is promoted.
func (r *GORMAddressRepository) Delete(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("address %s %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to get address %s: %w", id, err)
		}
		if err := tx.Delete(&address).Error; err != nil {
			return fmt.Errorf("failed to delete address: %w", err)
		}
		if !address.IsDefault {
			return nil
		}

		var next models.Address
		err := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find replacement default: %w", err)
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
}

func (r *GORMAddressRepository) SetDefault(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := clearDefault(tx, userID); err != nil {
			return err
		}
		res := tx.Model(&models.Address{}).Where("id = ? AND user_id = ?", id, userID).Update("is_default", true)
		if res.Error != nil {
			return fmt.Errorf("failed to set default address: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("address %s %w", id, ErrNotFound)
		}
		return nil
	})
}

func clearDefault(tx *gorm.DB, userID string) error {
	err := tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

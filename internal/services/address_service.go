package services

import (
	"fmt"
	"strings"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
)

// AddressService manages a customer's saved shipping addresses.
type AddressService struct {
	repo repositories.AddressRepository
}

func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

func (s *AddressService) List(userID string) ([]models.Address, error) {
	return s.repo.ListByUser(userID)
}

// Create saves a new address. The first address of a user becomes the default.
func (s *AddressService) Create(address *models.Address) error {
	if err := checkAddress(address); err != nil {
		return err
	}
	return s.repo.Create(address)
}

// Update overwrites the address fields; the default flag is changed through SetDefault.
func (s *AddressService) Update(address *models.Address) error {
	if err := checkAddress(address); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(address.UserID, address.ID); err != nil {
		return err
	}
	return s.repo.Update(address)
}

func (s *AddressService) Delete(userID, id string) error {
	return s.repo.Delete(userID, id)
}

func (s *AddressService) SetDefault(userID, id string) error {
	return s.repo.SetDefault(userID, id)
}

// Resolve returns the address with id, or the user's default when id is empty.
func (s *AddressService) Resolve(userID, id string) (*models.Address, error) {
	if id == "" {
		return s.repo.GetDefault(userID)
	}
	return s.repo.GetByID(userID, id)
}

func checkAddress(a *models.Address) error {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Line1 = strings.TrimSpace(a.Line1)
	a.City = strings.TrimSpace(a.City)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	if a.FullName == "" || a.Line1 == "" || a.City == "" || a.PostalCode == "" {
		return fmt.Errorf("%w: name, line1, city and postal code are required", ErrInvalidInput)
	}
	return nil
}

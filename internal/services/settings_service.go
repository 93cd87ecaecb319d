package services

import (
	"fmt"
	"strings"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
	"sweetshop/pkg/payment"
)

// SettingsService reads and updates the site settings.
type SettingsService struct {
	repo repositories.SettingsRepository
}

func NewSettingsService(repo repositories.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get() (*models.SiteSettings, error) {
	return s.repo.Get()
}

// Public returns the settings without payment secrets.
func (s *SettingsService) Public() (*models.SiteSettings, error) {
	settings, err := s.repo.Get()
	if err != nil {
		return nil, err
	}
	public := settings.Public()
	return &public, nil
}

// Update stores settings. Empty secrets keep the stored values so the
// back-office form never has to echo them.
func (s *SettingsService) Update(settings *models.SiteSettings) (*models.SiteSettings, error) {
	settings.PaymentProvider = strings.ToLower(strings.TrimSpace(settings.PaymentProvider))
	switch settings.PaymentProvider {
	case "", payment.ProviderRazorpay, payment.ProviderBraintree:
	default:
		return nil, fmt.Errorf("%w: unsupported payment provider %q", ErrInvalidInput, settings.PaymentProvider)
	}

	current, err := s.repo.Get()
	if err != nil {
		return nil, err
	}
	if settings.PaymentKeySecret == "" {
		settings.PaymentKeySecret = current.PaymentKeySecret
	}
	if settings.PaymentWebhookSecret == "" {
		settings.PaymentWebhookSecret = current.PaymentWebhookSecret
	}
	if err := s.repo.Save(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

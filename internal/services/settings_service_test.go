package services_test

import (
	"testing"

	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_UpdateKeepsSecrets(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := services.NewSettingsService(repo)

	repo.On("Get").Return(&models.SiteSettings{PaymentKeySecret: "old-secret", PaymentWebhookSecret: "old-hook"}, nil)
	repo.On("Save", mock.AnythingOfType("*models.SiteSettings")).Return(nil)

	saved, err := service.Update(&models.SiteSettings{StoreName: "Mithai Ghar", PaymentProvider: " Razorpay ", PaymentKeyID: "rzp_live"})
	require.NoError(t, err)
	assert.Equal(t, "razorpay", saved.PaymentProvider)
	assert.Equal(t, "old-secret", saved.PaymentKeySecret)
	assert.Equal(t, "old-hook", saved.PaymentWebhookSecret)

	saved, err = service.Update(&models.SiteSettings{PaymentKeySecret: "new-secret"})
	require.NoError(t, err)
	assert.Equal(t, "new-secret", saved.PaymentKeySecret)

	_, err = service.Update(&models.SiteSettings{PaymentProvider: "paytm"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestSettingsService_PublicHidesSecrets(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := services.NewSettingsService(repo)
	repo.On("Get").Return(&models.SiteSettings{StoreName: "Mithai Ghar", PaymentKeyID: "rzp_live", PaymentKeySecret: "s", PaymentWebhookSecret: "w"}, nil).Once()

	public, err := service.Public()
	require.NoError(t, err)
	assert.Equal(t, "rzp_live", public.PaymentKeyID)
	assert.Empty(t, public.PaymentKeySecret)
	assert.Empty(t, public.PaymentWebhookSecret)
}

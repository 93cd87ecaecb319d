package services_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewsletterService_Subscribe(t *testing.T) {
	repo := new(MockNewsletterRepository)
	service := services.NewNewsletterService(repo)

	repo.On("GetByEmail", "new@example.com").Return(nil, notFound("subscriber")).Once()
	repo.On("Create", mock.MatchedBy(func(s *models.NewsletterSubscriber) bool {
		return s.Email == "new@example.com" && s.Active && s.Preferences == "offers,festivals"
	})).Return(nil).Once()
	sub, err := service.Subscribe(" NEW@example.com ", []string{"offers", "festivals"})
	require.NoError(t, err)
	assert.True(t, sub.Active)

	// Already active
	repo.On("GetByEmail", "on@example.com").Return(&models.NewsletterSubscriber{Email: "on@example.com", Active: true}, nil).Once()
	_, err = service.Subscribe("on@example.com", nil)
	assert.ErrorIs(t, err, services.ErrAlreadySubscribed)

	// Previously unsubscribed addresses are reactivated
	inactive := &models.NewsletterSubscriber{ID: "s1", Email: "off@example.com", Preferences: "offers"}
	repo.On("GetByEmail", "off@example.com").Return(inactive, nil).Once()
	repo.On("Save", inactive).Return(nil).Once()
	sub, err = service.Subscribe("off@example.com", nil)
	require.NoError(t, err)
	assert.True(t, sub.Active)
	assert.Equal(t, "offers", sub.Preferences)

	_, err = service.Subscribe("not-an-email", nil)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	repo.AssertExpectations(t)
}

func TestNewsletterService_Unsubscribe(t *testing.T) {
	repo := new(MockNewsletterRepository)
	service := services.NewNewsletterService(repo)

	sub := &models.NewsletterSubscriber{ID: "s1", Email: "a@example.com", Active: true}
	repo.On("GetByEmail", "a@example.com").Return(sub, nil).Once()
	repo.On("Save", sub).Return(nil).Once()
	require.NoError(t, service.Unsubscribe("a@example.com"))
	assert.False(t, sub.Active)

	repo.On("GetByEmail", "ghost@example.com").Return(nil, notFound("subscriber")).Once()
	assert.Error(t, service.Unsubscribe("ghost@example.com"))
	repo.AssertExpectations(t)
}

func TestNewsletterService_ExportCSV(t *testing.T) {
	repo := new(MockNewsletterRepository)
	service := services.NewNewsletterService(repo)

	joined := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	repo.On("List", true).Return([]models.NewsletterSubscriber{
		{Email: "a@example.com", Active: true, Preferences: "offers,festivals", CreatedAt: joined},
	}, nil).Once()

	var buf bytes.Buffer
	require.NoError(t, service.ExportCSV(&buf, true))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"email", "active", "preferences", "subscribed_at"}, records[0])
	assert.Equal(t, []string{"a@example.com", "true", "offers,festivals", "2024-09-01T10:00:00Z"}, records[1])
}

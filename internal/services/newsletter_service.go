package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
)

// NewsletterService manages the mailing list.
type NewsletterService struct {
	repo repositories.NewsletterRepository
}

func NewNewsletterService(repo repositories.NewsletterRepository) *NewsletterService {
	return &NewsletterService{repo: repo}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return email, nil
}

// Subscribe adds email to the list, reactivating it if it had unsubscribed.
func (s *NewsletterService) Subscribe(email string, preferences []string) (*models.NewsletterSubscriber, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	prefs := strings.Join(preferences, ",")

	sub, err := s.repo.GetByEmail(email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		sub = &models.NewsletterSubscriber{Email: email, Active: true, Preferences: prefs}
		if err := s.repo.Create(sub); err != nil {
			return nil, err
		}
		return sub, nil
	case err != nil:
		return nil, err
	case sub.Active:
		return nil, ErrAlreadySubscribed
	}

	sub.Active = true
	if prefs != "" {
		sub.Preferences = prefs
	}
	if err := s.repo.Save(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe deactivates email. Unknown addresses are reported as not found.
func (s *NewsletterService) Unsubscribe(email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	sub, err := s.repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if !sub.Active {
		return nil
	}
	sub.Active = false
	return s.repo.Save(sub)
}

func (s *NewsletterService) List(activeOnly bool) ([]models.NewsletterSubscriber, error) {
	return s.repo.List(activeOnly)
}

func (s *NewsletterService) Delete(id string) error {
	return s.repo.Delete(id)
}

// ExportCSV writes subscribers as CSV with a header row.
func (s *NewsletterService) ExportCSV(w io.Writer, activeOnly bool) error {
	subs, err := s.repo.List(activeOnly)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "active", "preferences", "subscribed_at"}); err != nil {
		return err
	}
	for _, sub := range subs {
		record := []string{
			sub.Email,
			fmt.Sprintf("%t", sub.Active),
			sub.Preferences,
			sub.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

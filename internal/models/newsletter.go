package models

import "time"

// NewsletterSubscriber is an email address on the mailing list.
type NewsletterSubscriber struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Active      bool      `json:"active"`
	Preferences string    `json:"preferences"` // comma separated tags
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package models

import "time"

// SiteSettingsID is the primary key of the single settings row.
const SiteSettingsID = 1

// SiteSettings holds store-wide configuration editable from the back-office.
type SiteSettings struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	StoreName    string `json:"store_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	CODEnabled   bool   `json:"cod_enabled"`

	// Payment gateway configuration. Empty credentials fall back to the
	// process configuration.
	PaymentProvider      string `json:"payment_provider"`
	PaymentKeyID         string `json:"payment_key_id"`
	PaymentKeySecret     string `json:"payment_key_secret,omitempty"`
	PaymentWebhookSecret string `json:"payment_webhook_secret,omitempty"`
	OnlinePaymentEnabled bool   `json:"online_payment_enabled"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Public strips secrets so the settings can be served to the storefront.
func (s SiteSettings) Public() SiteSettings {
	s.PaymentKeySecret = ""
	s.PaymentWebhookSecret = ""
	return s
}

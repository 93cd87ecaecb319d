package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Storefront clients expect JSON numbers for prices and totals.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category groups products on the storefront.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"uniqueIndex;type:varchar(100)"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product represents a sweet sold in the store.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string          `json:"name" gorm:"type:varchar(150);index"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	OriginalPrice decimal.Decimal `json:"original_price" gorm:"type:decimal(10,2)"`
	CategoryID    *string         `json:"category_id" gorm:"type:varchar(36);index"`
	Category      *Category       `json:"category,omitempty"`
	InStock       bool            `json:"in_stock"`
	Featured      bool            `json:"featured" gorm:"index"`
	Images        []ProductImage  `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	Reviews       []Review        `json:"reviews,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	AverageRating float64         `json:"average_rating" gorm:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// ProductImage is one picture of a product; Position orders the gallery.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);index"`
	URL       string `json:"url"`
	Position  int    `json:"position"`
}

// Review is a customer's rating of a product.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);index"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductFilter narrows a storefront product listing.
type ProductFilter struct {
	CategoryID string
	Featured   *bool
	InStock    *bool
	Query      string
	Page       int
	Limit      int
}

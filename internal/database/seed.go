package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"sweetshop/internal/config"
	"sweetshop/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed inserts the admin account, default settings and a starter catalog.
// Existing rows are left untouched so it can be run repeatedly.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := seedAdmin(db, cfg.Admin); err != nil {
		return err
	}
	if err := seedSettings(db, cfg.Payment.Provider); err != nil {
		return err
	}
	if err := seedCatalog(db); err != nil {
		return err
	}
	return seedCoupons(db)
}

func seedAdmin(db *gorm.DB, admin config.Admin) error {
	if admin.Password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}
	var existing models.User
	err := db.First(&existing, "email = ?", admin.Email).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	user := models.User{
		ID:       uuid.New().String(),
		Name:     "Administrator",
		Email:    admin.Email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("Seeded admin account %s", admin.Email)
	return nil
}

func seedSettings(db *gorm.DB, provider string) error {
	settings := models.SiteSettings{
		ID:              models.SiteSettingsID,
		StoreName:       "Sweet Shop",
		CODEnabled:      true,
		PaymentProvider: provider,
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{ID: uuid.New().String(), Name: "Barfi", Slug: "barfi"},
		{ID: uuid.New().String(), Name: "Laddoo", Slug: "laddoo"},
		{ID: uuid.New().String(), Name: "Namkeen", Slug: "namkeen"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	products := []models.Product{
		{Name: "Kaju Katli (500g)", Price: decimal.NewFromInt(450), OriginalPrice: decimal.NewFromInt(520), CategoryID: &categories[0].ID, InStock: true, Featured: true},
		{Name: "Motichoor Laddoo (500g)", Price: decimal.NewFromInt(280), OriginalPrice: decimal.NewFromInt(300), CategoryID: &categories[1].ID, InStock: true, Featured: true},
		{Name: "Besan Laddoo (1kg)", Price: decimal.NewFromInt(520), OriginalPrice: decimal.NewFromInt(520), CategoryID: &categories[1].ID, InStock: true},
		{Name: "Aloo Bhujia (400g)", Price: decimal.NewFromInt(120), OriginalPrice: decimal.NewFromInt(140), CategoryID: &categories[2].ID, InStock: true},
	}
	for i := range products {
		products[i].ID = uuid.New().String()
		if err := db.Create(&products[i]).Error; err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
			continue
		}
		log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
	}
	return nil
}

func seedCoupons(db *gorm.DB) error {
	now := time.Now()
	coupon := models.Coupon{
		ID:            uuid.New().String(),
		Code:          "FESTIVAL50",
		Description:   "Flat 50 off on orders above 300",
		DiscountType:  models.DiscountFixed,
		DiscountValue: decimal.NewFromInt(50),
		MinOrderValue: decimal.NewNullDecimal(decimal.NewFromInt(300)),
		ValidFrom:     now,
		ValidTo:       now.AddDate(0, 3, 0),
		Active:        true,
	}
	return db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).Create(&coupon).Error
}

package models

import "time"

// Product is one catalog item. The unit price is stored in cents to keep
// the arithmetic exact, e.g. 12.34 = 1234 cents.
type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:128;not null" json:"name"`
	Quantity       int       `gorm:"not null;default:0" json:"quantity"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	CategoryID     uint      `gorm:"index;not null" json:"category_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// CategoryName is the joined category name, read-only, never stored.
	CategoryName string `gorm:"-" json:"category_name,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
}

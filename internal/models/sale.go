package models

import "time"

// SaleRecord is one sold line item in the sales ledger. Rows are append-only:
// written exactly once per successful checkout line, never updated or deleted.
type SaleRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      uint      `gorm:"index;not null" json:"product_id"`
	ProductName    string    `gorm:"size:128;not null" json:"product_name"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	LineTotalCents int64     `gorm:"not null" json:"line_total_cents"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

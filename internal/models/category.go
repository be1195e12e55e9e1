package models

import "time"

// Category groups products in the catalog. Deleting a category that still
// has products attached fails at the store level (foreign key), never here.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

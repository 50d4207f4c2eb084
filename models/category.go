package models

import "time"

// DefaultCategoryName is the permanent fallback category. It is seeded first
// so it takes id 1; it can never be renamed or deleted.
const DefaultCategoryName = "default"

// DefaultCategoryID is where expenses of a deleted category are reassigned.
const DefaultCategoryID uint = 1

// Category is a shared expense category.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}

// SeedCategories returns the catalog seeded into an empty database,
// default first.
func SeedCategories() []string {
	return []string{
		DefaultCategoryName,
		"Food",
		"Utilities",
		"Transport",
		"Entertainment",
		"Health",
	}
}

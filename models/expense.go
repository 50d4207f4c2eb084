package models

import "time"

// DateFormat is the wire format for expense dates.
const DateFormat = "2006-01-02"

// Expense is a dated monetary record owned by exactly one user.
// Amount is never negative and CategoryID always resolves to a category.
type Expense struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:50;not null"`
	Amount     float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date       time.Time `json:"date" gorm:"type:date;not null"`
	CategoryID uint      `json:"category_id" gorm:"index;not null"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Category   Category  `json:"-" gorm:"foreignKey:CategoryID"`
	User       User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Expense) TableName() string {
	return "expenses"
}

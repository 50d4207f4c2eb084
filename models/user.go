package models

import "time"

// Role is a closed enumeration of user roles. Gates switch on it
// exhaustively instead of comparing raw strings.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the identity store. An admin never holds a team
// membership or expenses; those invariants are enforced in the service layer.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:50;not null"`
	Surname      string    `json:"surname" gorm:"size:50;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         Role      `json:"role" gorm:"size:50;default:user;index"`
	TeamID       *uint     `json:"team_id" gorm:"index"` // NULL means no team
	IsApproved   bool      `json:"is_approved" gorm:"default:false;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

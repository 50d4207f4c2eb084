package models

import "time"

// Team has at most one manager. Members are users whose TeamID points here;
// the manager is referenced from the team side, not via TeamID.
type Team struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	ManagerID *uint     `json:"manager_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Team) TableName() string {
	return "teams"
}

package service

import (
	"strings"

	"teamspend/models"

	"gorm.io/gorm"
)

// UserService is the admin side of the identity store: listing, approval,
// role assignment and deletion.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates the user management service.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserFilter narrows the admin user listing. Zero values are ignored.
type UserFilter struct {
	Status        string // "approved" / "unapproved"
	Email         string
	NameOrSurname string
	Role          string
}

// Filtered lists non-admin users matching the filter. Admins only.
func (s *UserService) Filtered(u *models.User, f UserFilter) ([]models.User, error) {
	if err := RequireAdmin(u); err != nil {
		return nil, err
	}
	if err := RequireApproved(u); err != nil {
		return nil, err
	}

	query := s.db.Where("role != ?", models.RoleAdmin)
	if f.Status != "" {
		query = query.Where("is_approved = ?", strings.EqualFold(f.Status, "approved"))
	}
	if f.Email != "" {
		query = query.Where("email LIKE ?", "%"+f.Email+"%")
	}
	if f.NameOrSurname != "" {
		pattern := "%" + f.NameOrSurname + "%"
		query = query.Where("name LIKE ? OR surname LIKE ?", pattern, pattern)
	}
	if f.Role != "" {
		query = query.Where("role LIKE ?", "%"+f.Role+"%")
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Approve sets the approval flag on a user. Admins only.
func (s *UserService) Approve(u *models.User, userID uint) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return NotFound("User not found")
	}
	return s.db.Model(&user).Update("is_approved", true).Error
}

// ChangeRole toggles a user between manager and user. Demotion is
// unconditional; promotion fails while the user's team already has a manager.
func (s *UserService) ChangeRole(u *models.User, userID uint) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return NotFound("User not found")
	}

	if user.Role == models.RoleManager {
		return s.db.Model(&user).Update("role", models.RoleUser).Error
	}

	if user.TeamID != nil {
		var team models.Team
		if err := s.db.First(&team, *user.TeamID).Error; err == nil && team.ManagerID != nil {
			return Conflict("Team already has a manager")
		}
	}
	return s.db.Model(&user).Update("role", models.RoleManager).Error
}

// Delete removes a user together with their expenses, clearing the manager
// reference of any team they manage, all in one transaction.
func (s *UserService) Delete(u *models.User, userID uint) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return NotFound("User not found")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Team{}).
			Where("manager_id = ?", user.ID).
			Update("manager_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

package service

import (
	"teamspend/models"

	"gorm.io/gorm"
)

// TeamService enforces the roster invariants: one manager per team, a user
// belongs to at most one team, and admins stay teamless.
type TeamService struct {
	db *gorm.DB
}

// NewTeamService creates the roster service.
func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// UserDisplay is the member info exposed in roster listings.
type UserDisplay struct {
	ID      uint        `json:"id"`
	Name    string      `json:"name"`
	Surname string      `json:"surname"`
	Email   string      `json:"email"`
	Role    models.Role `json:"role,omitempty"`
}

// TeamInfo is a team with its manager and members resolved.
type TeamInfo struct {
	Team    models.Team   `json:"team"`
	Manager *UserDisplay  `json:"manager"`
	Users   []UserDisplay `json:"users"`
}

// MemberExpenses aggregates one member's spending for the manager view.
type MemberExpenses struct {
	Name                string             `json:"name"`
	Surname             string             `json:"surname"`
	TotalSpendings      float64            `json:"total_spendings"`
	SpendingsByCategory map[string]float64 `json:"spendings_by_category"`
}

func display(u models.User) UserDisplay {
	return UserDisplay{ID: u.ID, Name: u.Name, Surname: u.Surname, Email: u.Email, Role: u.Role}
}

// managedTeam resolves the team the manager is responsible for.
func (s *TeamService) managedTeam(u *models.User) (*models.Team, error) {
	var team models.Team
	if err := s.db.Where("manager_id = ?", u.ID).First(&team).Error; err != nil {
		return nil, NotFound("No team found for the manager")
	}
	return &team, nil
}

// MyTeam returns the members of the caller's team. Managers only.
func (s *TeamService) MyTeam(u *models.User) ([]UserDisplay, error) {
	if err := RequireManager(u); err != nil {
		return nil, err
	}
	team, err := s.managedTeam(u)
	if err != nil {
		return nil, err
	}

	var members []models.User
	if err := s.db.Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
		return nil, err
	}
	out := make([]UserDisplay, 0, len(members))
	for _, m := range members {
		out = append(out, display(m))
	}
	return out, nil
}

// AllTeams lists every team with its manager and members. Admins only.
func (s *TeamService) AllTeams(u *models.User) ([]TeamInfo, error) {
	if err := RequireAdmin(u); err != nil {
		return nil, err
	}

	var teams []models.Team
	if err := s.db.Find(&teams).Error; err != nil {
		return nil, err
	}

	result := make([]TeamInfo, 0, len(teams))
	for _, team := range teams {
		info := TeamInfo{Team: team, Users: []UserDisplay{}}

		var members []models.User
		if err := s.db.Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
			return nil, err
		}
		for _, m := range members {
			info.Users = append(info.Users, display(m))
		}

		if team.ManagerID != nil {
			var manager models.User
			if err := s.db.First(&manager, *team.ManagerID).Error; err == nil {
				d := display(manager)
				info.Manager = &d
			}
		}
		result = append(result, info)
	}
	return result, nil
}

// UsersWithoutTeam lists approved non-admin users who neither belong to a
// team nor manage one, optionally filtered by name or surname. Admins only.
func (s *TeamService) UsersWithoutTeam(u *models.User, nameOrSurname string) ([]UserDisplay, error) {
	if err := RequireAdmin(u); err != nil {
		return nil, err
	}

	query := s.db.Where("team_id IS NULL AND role != ? AND is_approved = ?", models.RoleAdmin, true)
	if nameOrSurname != "" {
		pattern := "%" + nameOrSurname + "%"
		query = query.Where("name LIKE ? OR surname LIKE ?", pattern, pattern)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]UserDisplay, 0, len(users))
	for _, candidate := range users {
		var managed models.Team
		if err := s.db.Where("manager_id = ?", candidate.ID).First(&managed).Error; err == nil {
			continue
		}
		out = append(out, UserDisplay{
			ID:      candidate.ID,
			Name:    candidate.Name,
			Surname: candidate.Surname,
			Email:   candidate.Email,
		})
	}
	return out, nil
}

// Create adds an empty team. Admins only.
func (s *TeamService) Create(u *models.User, name string) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}
	return s.db.Create(&models.Team{Name: name}).Error
}

// Delete removes a team, clearing every member's team reference first.
// Members are orphaned, never deleted.
func (s *TeamService) Delete(u *models.User, teamID uint) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return NotFound("Team not found")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("team_id = ?", team.ID).
			Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
}

// AddMember puts a user on a team. A manager becomes the team's manager
// reference; anyone else gets their team reference set. Conflicts: the user
// already has a team, the user is an admin, or a manager joins a team that
// already has one.
func (s *TeamService) AddMember(u *models.User, userID, teamID uint) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return NotFound("Team not found")
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return NotFound("User not found")
	}
	if user.Role == models.RoleAdmin {
		return Conflict("Admins cannot join teams")
	}
	if user.TeamID != nil {
		return Conflict("User is already in a team")
	}
	if user.Role == models.RoleManager && team.ManagerID != nil {
		return Conflict("Team already has a manager")
	}

	if user.Role == models.RoleManager {
		return s.db.Model(&team).Update("manager_id", user.ID).Error
	}
	return s.db.Model(&user).Update("team_id", team.ID).Error
}

// RemoveMember takes a user off a team. Not-found unless the user is either
// a member of that team or its manager; the matching reference is cleared.
func (s *TeamService) RemoveMember(u *models.User, userID, teamID uint) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return NotFound("Team not found")
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return NotFound("User not found")
	}

	isManager := team.ManagerID != nil && *team.ManagerID == user.ID
	isMember := user.TeamID != nil && *user.TeamID == team.ID
	if !isManager && !isMember {
		return NotFound("User is not in a team")
	}

	if isManager {
		return s.db.Model(&team).Update("manager_id", nil).Error
	}
	return s.db.Model(&user).Update("team_id", nil).Error
}

// TeamExpenses aggregates each team member's spending, total and per
// category, for the caller's team. Managers only.
func (s *TeamService) TeamExpenses(u *models.User) (map[uint]*MemberExpenses, error) {
	if err := RequireManager(u); err != nil {
		return nil, err
	}
	team, err := s.managedTeam(u)
	if err != nil {
		return nil, err
	}

	type row struct {
		UserID       uint
		UserName     string
		UserSurname  string
		CategoryName string
		Total        float64
	}
	var rows []row
	if err := s.db.Model(&models.Expense{}).
		Select("users.id AS user_id, users.name AS user_name, users.surname AS user_surname, categories.name AS category_name, SUM(expenses.amount) AS total").
		Joins("JOIN users ON users.id = expenses.user_id").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("users.team_id = ?", team.ID).
		Group("users.id, users.name, users.surname, categories.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[uint]*MemberExpenses)
	for _, r := range rows {
		member, ok := result[r.UserID]
		if !ok {
			member = &MemberExpenses{
				Name:                r.UserName,
				Surname:             r.UserSurname,
				SpendingsByCategory: make(map[string]float64),
			}
			result[r.UserID] = member
		}
		member.TotalSpendings += r.Total
		member.SpendingsByCategory[r.CategoryName] = r.Total
	}
	return result, nil
}

// TeamExpensesByCategory aggregates the whole team's spending per category.
// Managers only.
func (s *TeamService) TeamExpensesByCategory(u *models.User) (map[string]float64, error) {
	if err := RequireManager(u); err != nil {
		return nil, err
	}
	team, err := s.managedTeam(u)
	if err != nil {
		return nil, err
	}

	type row struct {
		Name  string
		Total float64
	}
	var rows []row
	if err := s.db.Model(&models.Expense{}).
		Select("categories.name AS name, SUM(expenses.amount) AS total").
		Joins("JOIN users ON users.id = expenses.user_id").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("users.team_id = ?", team.ID).
		Group("categories.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]float64, len(rows))
	for _, r := range rows {
		result[r.Name] = r.Total
	}
	return result, nil
}

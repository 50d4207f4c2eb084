package api

import (
	"strings"

	"teamspend/middleware"
	"teamspend/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TeamHandler serves roster management and the manager's team views.
type TeamHandler struct {
	teams *service.TeamService
}

// NewTeamHandler creates the roster handler.
func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{teams: service.NewTeamService(db)}
}

// CreateTeamRequest names a new team.
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50" example:"Platform"`
}

// TeamMemberRequest identifies a user/team pair for roster changes.
type TeamMemberRequest struct {
	UserID uint `json:"user_id" binding:"required" example:"3"`
	TeamID uint `json:"team_id" binding:"required" example:"1"`
}

// TeamIDRequest identifies a team.
type TeamIDRequest struct {
	TeamID uint `json:"team_id" binding:"required" example:"1"`
}

// MyTeam lists the caller's team members, managers only.
// @Summary My team
// @Tags team
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 403 {object} Response "not a manager"
// @Router /api/team [get]
func (h *TeamHandler) MyTeam(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	members, err := h.teams.MyTeam(user)
	if err != nil {
		FromError(c, err, "Failed to load team")
		return
	}
	Success(c, members)
}

// All lists every team with manager and members, admin only.
// @Summary All teams
// @Tags team
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 403 {object} Response "not an admin"
// @Router /api/team/all [get]
func (h *TeamHandler) All(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	teams, err := h.teams.AllTeams(user)
	if err != nil {
		FromError(c, err, "Failed to list teams")
		return
	}
	Success(c, teams)
}

// UsersWithoutTeam lists teamless candidates, admin only.
// @Summary Users without a team
// @Tags team
// @Produce json
// @Security BearerAuth
// @Param name_or_surname query string false "search by name or surname"
// @Success 200 {object} Response
// @Failure 403 {object} Response "not an admin"
// @Router /api/team/users [get]
func (h *TeamHandler) UsersWithoutTeam(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	users, err := h.teams.UsersWithoutTeam(user, c.Query("name_or_surname"))
	if err != nil {
		FromError(c, err, "Failed to list users")
		return
	}
	Success(c, users)
}

// Create adds an empty team, admin only.
// @Summary Create team
// @Tags team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTeamRequest true "team"
// @Success 200 {object} Response "team created"
// @Failure 403 {object} Response "not an admin"
// @Router /api/team/create [post]
func (h *TeamHandler) Create(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		BadRequest(c, "Name cannot be empty")
		return
	}

	if err := h.teams.Create(user, name); err != nil {
		FromError(c, err, "Failed to create team")
		return
	}
	SuccessWithMessage(c, "Team created", nil)
}

// Delete removes a team, orphaning its members, admin only.
// @Summary Delete team
// @Tags team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TeamIDRequest true "team id"
// @Success 200 {object} Response "team deleted"
// @Failure 403 {object} Response "not an admin"
// @Failure 404 {object} Response "team not found"
// @Router /api/team/delete [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req TeamIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	if err := h.teams.Delete(user, req.TeamID); err != nil {
		FromError(c, err, "Failed to delete team")
		return
	}
	SuccessWithMessage(c, "Team deleted", nil)
}

// AddMember adds a user to a team, admin only.
// @Summary Add team member
// @Tags team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TeamMemberRequest true "user and team"
// @Success 200 {object} Response "user added"
// @Failure 403 {object} Response "not an admin"
// @Failure 404 {object} Response "team or user not found"
// @Failure 409 {object} Response "roster conflict"
// @Router /api/team [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	if err := h.teams.AddMember(user, req.UserID, req.TeamID); err != nil {
		FromError(c, err, "Failed to add team member")
		return
	}
	SuccessWithMessage(c, "User added to the team", nil)
}

// RemoveMember removes a user from a team, admin only.
// @Summary Remove team member
// @Tags team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TeamMemberRequest true "user and team"
// @Success 200 {object} Response "user removed"
// @Failure 403 {object} Response "not an admin"
// @Failure 404 {object} Response "team, user or affiliation not found"
// @Router /api/team [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	if err := h.teams.RemoveMember(user, req.UserID, req.TeamID); err != nil {
		FromError(c, err, "Failed to remove team member")
		return
	}
	SuccessWithMessage(c, "User removed from the team", nil)
}

// Expenses aggregates each member's spending for the manager.
// @Summary Team expenses
// @Tags team
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 403 {object} Response "not a manager"
// @Failure 404 {object} Response "no team found for the manager"
// @Router /api/team/expenses [get]
func (h *TeamHandler) Expenses(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	expenses, err := h.teams.TeamExpenses(user)
	if err != nil {
		FromError(c, err, "Failed to load team expenses")
		return
	}
	c.JSON(200, expenses)
}

// ExpensesByCategory aggregates the team's spending per category.
// @Summary Team expenses by category
// @Tags team
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 403 {object} Response "not a manager"
// @Router /api/team/expenses/by-category [get]
func (h *TeamHandler) ExpensesByCategory(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	expenses, err := h.teams.TeamExpensesByCategory(user)
	if err != nil {
		FromError(c, err, "Failed to load team expenses")
		return
	}
	c.JSON(200, expenses)
}

package api

import (
	"strconv"

	"teamspend/middleware"
	"teamspend/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler serves admin user management.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates the user management handler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{users: service.NewUserService(db)}
}

// List returns non-admin users matching the filters, admin only.
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param status query string false "approved or unapproved"
// @Param email query string false "search by email"
// @Param name_or_surname query string false "search by name or surname"
// @Param role query string false "filter by role"
// @Success 200 {object} Response
// @Failure 403 {object} Response "not an admin"
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	users, err := h.users.Filtered(user, service.UserFilter{
		Status:        c.Query("status"),
		Email:         c.Query("email"),
		NameOrSurname: c.Query("name_or_surname"),
		Role:          c.Query("role"),
	})
	if err != nil {
		FromError(c, err, "Failed to list users")
		return
	}
	Success(c, users)
}

// Approve sets the approval flag, admin only.
// @Summary Approve user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} Response "user approved"
// @Failure 403 {object} Response "not an admin"
// @Failure 404 {object} Response "user not found"
// @Router /api/users/approve/{id} [put]
func (h *UserHandler) Approve(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	if err := h.users.Approve(user, uint(id)); err != nil {
		FromError(c, err, "Failed to approve user")
		return
	}
	SuccessWithMessage(c, "User approved successfully", nil)
}

// ChangeRole toggles a user between manager and user, admin only.
// @Summary Change user role
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} Response "role changed"
// @Failure 403 {object} Response "not an admin"
// @Failure 404 {object} Response "user not found"
// @Failure 409 {object} Response "team already has a manager"
// @Router /api/users/change-role/{id} [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	if err := h.users.ChangeRole(user, uint(id)); err != nil {
		FromError(c, err, "Failed to change user role")
		return
	}
	SuccessWithMessage(c, "User role changed successfully", nil)
}

// Delete removes a user, admin only.
// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} Response "user deleted"
// @Failure 403 {object} Response "not an admin"
// @Failure 404 {object} Response "user not found"
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	if err := h.users.Delete(user, uint(id)); err != nil {
		FromError(c, err, "Failed to delete user")
		return
	}
	SuccessWithMessage(c, "User deleted successfully", nil)
}

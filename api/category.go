package api

import (
	"strconv"
	"strings"

	"teamspend/middleware"
	"teamspend/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler serves the category catalog.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates the catalog handler.
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{categories: service.NewCategoryService(db)}
}

// CategoryRequest names a category on create or rename.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50" example:"Groceries"`
}

// List returns all categories for any approved account.
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 403 {object} Response "not approved"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	categories, err := h.categories.List(user)
	if err != nil {
		FromError(c, err, "Failed to list categories")
		return
	}
	Success(c, categories)
}

// AdminList returns categories with expense counts, admin only.
// @Summary List categories with usage counts
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param ascending query bool false "sort by count ascending (default true)"
// @Param name query string false "search by name"
// @Success 200 {object} Response
// @Failure 403 {object} Response "not an admin"
// @Router /api/admin/categories [get]
func (h *CategoryHandler) AdminList(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	ascending := true
	if v := c.Query("ascending"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			BadRequest(c, "Invalid ascending flag")
			return
		}
		ascending = parsed
	}

	info, err := h.categories.AdminList(user, ascending, c.Query("name"))
	if err != nil {
		FromError(c, err, "Failed to list categories")
		return
	}
	Success(c, info)
}

// Create adds a category, admin only.
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "category"
// @Success 200 {object} Response "category created"
// @Failure 403 {object} Response "not an admin"
// @Failure 409 {object} Response "category already exists"
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		BadRequest(c, "Name cannot be empty")
		return
	}

	if err := h.categories.Create(user, name); err != nil {
		FromError(c, err, "Failed to create category")
		return
	}
	SuccessWithMessage(c, "Category created", nil)
}

// Update renames a category, admin only. The default category is immutable.
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body CategoryRequest true "new name"
// @Success 200 {object} Response "category updated"
// @Failure 403 {object} Response "not an admin"
// @Failure 404 {object} Response "category not found or default"
// @Failure 409 {object} Response "name already exists"
// @Router /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		BadRequest(c, "Name cannot be empty")
		return
	}

	if err := h.categories.Update(user, uint(id), name); err != nil {
		FromError(c, err, "Failed to update category")
		return
	}
	SuccessWithMessage(c, "Category updated", nil)
}

// Delete removes a category, admin only; its expenses move to the default
// category.
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "category deleted"
// @Failure 403 {object} Response "not an admin"
// @Failure 404 {object} Response "category not found or default"
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	if err := h.categories.Delete(user, uint(id)); err != nil {
		FromError(c, err, "Failed to delete category")
		return
	}
	SuccessWithMessage(c, "Category deleted", nil)
}

package api

import (
	"strconv"
	"time"

	"teamspend/middleware"
	"teamspend/models"
	"teamspend/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ExpenseHandler serves the caller's own ledger.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler creates the ledger handler.
func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{expenses: service.NewExpenseService(db)}
}

// CreateExpenseRequest creates a ledger entry. category_id may be omitted to
// use the default category.
type CreateExpenseRequest struct {
	Name       string  `json:"name" binding:"required,max=50" example:"Groceries"`
	Amount     float64 `json:"amount" example:"42.50"`
	Date       string  `json:"date" binding:"required" example:"2024-10-17"`
	CategoryID *uint   `json:"category_id" example:"2"`
}

// UpdateExpenseRequest carries partial changes to a ledger entry.
type UpdateExpenseRequest struct {
	Name       *string  `json:"name" binding:"omitempty,max=50"`
	Amount     *float64 `json:"amount"`
	Date       *string  `json:"date"`
	CategoryID *uint    `json:"category_id"`
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(models.DateFormat, value, time.Local)
}

// List returns the caller's expenses with optional filters.
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param expense_name query string false "search by name"
// @Param expense_amount query number false "search by amount"
// @Param expense_category query int false "search by category id"
// @Param expense_date query string false "search by date (2024-10-17)"
// @Success 200 {object} Response
// @Failure 403 {object} Response "permission denied"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var filter service.ExpenseFilter
	filter.Name = c.Query("expense_name")
	if v := c.Query("expense_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			BadRequest(c, "Invalid amount")
			return
		}
		filter.Amount = amount
	}
	if v := c.Query("expense_category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			BadRequest(c, "Invalid category id")
			return
		}
		filter.CategoryID = uint(id)
	}
	if v := c.Query("expense_date"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			BadRequest(c, "Invalid date, expected format: 2006-01-02")
			return
		}
		filter.Date = &date
	}

	rows, err := h.expenses.List(user, filter)
	if err != nil {
		FromError(c, err, "Failed to list expenses")
		return
	}
	Success(c, rows)
}

// Get returns one of the caller's expenses.
// @Summary View expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} Response
// @Failure 403 {object} Response "permission denied"
// @Failure 404 {object} Response "expense not found"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	row, err := h.expenses.View(user, uint(id))
	if err != nil {
		FromError(c, err, "Failed to load expense")
		return
	}
	Success(c, row)
}

// Create inserts a new expense for the caller.
// @Summary Create expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "expense"
// @Success 200 {object} Response "expense created"
// @Failure 403 {object} Response "permission denied"
// @Failure 404 {object} Response "negative amount or unknown category"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		BadRequest(c, "Invalid date, expected format: 2006-01-02")
		return
	}

	if _, err := h.expenses.Create(user, service.ExpenseInput{
		Name:       req.Name,
		Amount:     req.Amount,
		Date:       date,
		CategoryID: req.CategoryID,
	}); err != nil {
		FromError(c, err, "Failed to create expense")
		return
	}

	SuccessWithMessage(c, "Expense created successfully", nil)
}

// Update applies partial changes to one of the caller's expenses.
// @Summary Update expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Param request body UpdateExpenseRequest true "changes"
// @Success 200 {object} Response
// @Failure 403 {object} Response "permission denied"
// @Failure 404 {object} Response "expense not found"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	update := service.ExpenseUpdate{
		Name:       req.Name,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			BadRequest(c, "Invalid date, expected format: 2006-01-02")
			return
		}
		update.Date = &date
	}

	row, err := h.expenses.Update(user, uint(id), update)
	if err != nil {
		FromError(c, err, "Failed to update expense")
		return
	}
	Success(c, row)
}

// Delete removes one of the caller's expenses.
// @Summary Delete expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} Response "expense deleted"
// @Failure 403 {object} Response "permission denied"
// @Failure 404 {object} Response "expense not found"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	if err := h.expenses.Delete(user, uint(id)); err != nil {
		FromError(c, err, "Failed to delete expense")
		return
	}
	SuccessWithMessage(c, "Expense deleted successfully", nil)
}

package api

import (
	"strconv"

	"teamspend/middleware"
	"teamspend/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StatisticsHandler serves the aggregation endpoints over the caller's ledger.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

// NewStatisticsHandler creates the statistics handler.
func NewStatisticsHandler(db *gorm.DB) *StatisticsHandler {
	return &StatisticsHandler{stats: service.NewStatisticsService(db)}
}

// TotalSpendings returns trailing 7/30/365-day sums and the all-time total.
// @Summary Total spendings
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TotalSpendings
// @Failure 403 {object} Response "permission denied"
// @Router /api/expenses/statistics/total-spendings [get]
func (h *StatisticsHandler) TotalSpendings(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	totals, err := h.stats.TotalSpendings(user)
	if err != nil {
		FromError(c, err, "Failed to compute spendings")
		return
	}
	c.JSON(200, totals)
}

// CategoryPeriod sums one category over a trailing period window.
// @Summary Category spendings for a period
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param period query string true "week, month or year"
// @Success 200 {object} Response
// @Failure 403 {object} Response "permission denied"
// @Failure 404 {object} Response "invalid period"
// @Router /api/expenses/statistics/category/{id} [get]
func (h *StatisticsHandler) CategoryPeriod(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return
	}

	total, err := h.stats.TotalSpendingsByCategory(user, uint(id), c.Query("period"))
	if err != nil {
		FromError(c, err, "Failed to compute spendings")
		return
	}
	c.JSON(200, gin.H{"total": total})
}

// MonthlyComparison compares the current and previous calendar month,
// optionally scoped to one category via ?category_id.
// @Summary Monthly comparison
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "category id"
// @Success 200 {object} service.MonthlyComparison
// @Failure 403 {object} Response "permission denied"
// @Router /api/expenses/statistics/monthly-comparison [get]
func (h *StatisticsHandler) MonthlyComparison(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var categoryID *uint
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			BadRequest(c, "Invalid category id")
			return
		}
		u := uint(id)
		categoryID = &u
	}

	comparison, err := h.stats.MonthlyComparison(user, categoryID)
	if err != nil {
		FromError(c, err, "Failed to compute comparison")
		return
	}
	c.JSON(200, comparison)
}

// YearlyComparison returns per-month sums for the current and previous year,
// or whole-year totals for one category when ?category_id is given.
// @Summary Yearly comparison
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "category id"
// @Success 200 {object} service.YearlyComparison
// @Failure 403 {object} Response "permission denied"
// @Router /api/expenses/statistics/yearly-comparison [get]
func (h *StatisticsHandler) YearlyComparison(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			BadRequest(c, "Invalid category id")
			return
		}
		totals, err := h.stats.YearlyComparisonByCategory(user, uint(id))
		if err != nil {
			FromError(c, err, "Failed to compute comparison")
			return
		}
		c.JSON(200, totals)
		return
	}

	comparison, err := h.stats.YearlyComparison(user)
	if err != nil {
		FromError(c, err, "Failed to compute comparison")
		return
	}
	c.JSON(200, comparison)
}

// CategorySpendings returns the all-time sum per category.
// @Summary Per-category spendings
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 403 {object} Response "permission denied"
// @Router /api/expenses/statistics/category-spendings [get]
func (h *StatisticsHandler) CategorySpendings(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	spendings, err := h.stats.CategorySpendings(user)
	if err != nil {
		FromError(c, err, "Failed to compute spendings")
		return
	}
	c.JSON(200, spendings)
}

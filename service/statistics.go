package service

import (
	"time"

	"teamspend/models"

	"gorm.io/gorm"
)

// StatisticsService computes time-windowed sums over the caller's ledger.
// Everything is computed at query time; there is no cached aggregate state.
//
// TotalSpendings uses trailing windows (now minus N days) while the
// monthly/yearly comparisons use fixed calendar boundaries. The mismatch is
// intentional and part of the API contract.
type StatisticsService struct {
	db *gorm.DB
}

// NewStatisticsService creates the aggregation service.
func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{db: db}
}

// TotalSpendings holds trailing-window sums plus the all-time total.
type TotalSpendings struct {
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Year  float64 `json:"year"`
	Total float64 `json:"total"`
}

// MonthlyComparison compares the current calendar month with the previous one.
type MonthlyComparison struct {
	CurrentMonth float64 `json:"current_month"`
	LastMonth    float64 `json:"last_month"`
}

// YearlyComparison holds per-month sums, keyed 1..12, for the current and
// previous calendar year. Months without expenses are 0.
type YearlyComparison struct {
	CurrentYear map[int]float64 `json:"current_year"`
	LastYear    map[int]float64 `json:"last_year"`
}

// YearlyTotals compares whole-year sums for one category.
type YearlyTotals struct {
	CurrentYear float64 `json:"current_year"`
	LastYear    float64 `json:"last_year"`
}

// sum runs the aggregate, resolving an empty window to 0 rather than NULL.
func (s *StatisticsService) sum(query *gorm.DB) (float64, error) {
	var total float64
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

func (s *StatisticsService) userExpenses(u *models.User) *gorm.DB {
	return s.db.Model(&models.Expense{}).Where("user_id = ?", u.ID)
}

// TotalSpendings returns sums over the trailing 7/30/365 days and all time.
func (s *StatisticsService) TotalSpendings(u *models.User) (*TotalSpendings, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}

	now := time.Now()
	out := &TotalSpendings{}

	var err error
	if out.Week, err = s.sum(s.userExpenses(u).Where("date >= ?", now.AddDate(0, 0, -7))); err != nil {
		return nil, err
	}
	if out.Month, err = s.sum(s.userExpenses(u).Where("date >= ?", now.AddDate(0, 0, -30))); err != nil {
		return nil, err
	}
	if out.Year, err = s.sum(s.userExpenses(u).Where("date >= ?", now.AddDate(0, 0, -365))); err != nil {
		return nil, err
	}
	if out.Total, err = s.sum(s.userExpenses(u)); err != nil {
		return nil, err
	}
	return out, nil
}

// periodDays maps a period name to its trailing-window length.
func periodDays(period string) (int, error) {
	switch period {
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	case "year":
		return 365, nil
	default:
		return 0, Invalid("Invalid period")
	}
}

// TotalSpendingsByCategory sums one category over a trailing period window.
func (s *StatisticsService) TotalSpendingsByCategory(u *models.User, categoryID uint, period string) (float64, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return 0, err
	}
	days, err := periodDays(period)
	if err != nil {
		return 0, err
	}
	return s.sum(s.userExpenses(u).
		Where("category_id = ?", categoryID).
		Where("date >= ?", time.Now().AddDate(0, 0, -days)))
}

// monthStart is the first instant of the month containing (year, month).
// time.Date normalizes month 13 to January of the next year, which is what
// the rollover arithmetic below relies on.
func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
}

// MonthlyComparison sums the current and previous calendar month, optionally
// scoped to one category.
func (s *StatisticsService) MonthlyComparison(u *models.User, categoryID *uint) (*MonthlyComparison, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}

	now := time.Now()
	curStart := monthStart(now.Year(), now.Month())
	curEnd := monthStart(now.Year(), now.Month()+1)
	lastStart := monthStart(now.Year(), now.Month()-1)

	scoped := func(from, to time.Time) *gorm.DB {
		q := s.userExpenses(u).Where("date >= ? AND date < ?", from, to)
		if categoryID != nil {
			q = q.Where("category_id = ?", *categoryID)
		}
		return q
	}

	out := &MonthlyComparison{}
	var err error
	if out.CurrentMonth, err = s.sum(scoped(curStart, curEnd)); err != nil {
		return nil, err
	}
	if out.LastMonth, err = s.sum(scoped(lastStart, curStart)); err != nil {
		return nil, err
	}
	return out, nil
}

// YearlyComparison returns per-month sums for the current and previous year.
func (s *StatisticsService) YearlyComparison(u *models.User) (*YearlyComparison, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}

	currentYear := time.Now().Year()

	perMonth := func(year int) (map[int]float64, error) {
		months := make(map[int]float64, 12)
		for m := time.January; m <= time.December; m++ {
			total, err := s.sum(s.userExpenses(u).
				Where("date >= ? AND date < ?", monthStart(year, m), monthStart(year, m+1)))
			if err != nil {
				return nil, err
			}
			months[int(m)] = total
		}
		return months, nil
	}

	current, err := perMonth(currentYear)
	if err != nil {
		return nil, err
	}
	last, err := perMonth(currentYear - 1)
	if err != nil {
		return nil, err
	}
	return &YearlyComparison{CurrentYear: current, LastYear: last}, nil
}

// YearlyComparisonByCategory compares whole-year sums for one category.
func (s *StatisticsService) YearlyComparisonByCategory(u *models.User, categoryID uint) (*YearlyTotals, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}

	currentYear := time.Now().Year()

	yearSum := func(year int) (float64, error) {
		return s.sum(s.userExpenses(u).
			Where("category_id = ?", categoryID).
			Where("date >= ? AND date < ?", monthStart(year, time.January), monthStart(year+1, time.January)))
	}

	out := &YearlyTotals{}
	var err error
	if out.CurrentYear, err = yearSum(currentYear); err != nil {
		return nil, err
	}
	if out.LastYear, err = yearSum(currentYear - 1); err != nil {
		return nil, err
	}
	return out, nil
}

// CategorySpendings returns the caller's all-time sum for every category.
func (s *StatisticsService) CategorySpendings(u *models.User) (map[string]float64, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, err
	}

	spendings := make(map[string]float64, len(categories))
	for _, category := range categories {
		total, err := s.sum(s.userExpenses(u).Where("category_id = ?", category.ID))
		if err != nil {
			return nil, err
		}
		spendings[category.Name] = total
	}
	return spendings, nil
}

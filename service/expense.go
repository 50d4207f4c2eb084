package service

import (
	"time"

	"teamspend/models"

	"gorm.io/gorm"
)

// ExpenseService is the ledger: owner-scoped CRUD behind the access gate.
type ExpenseService struct {
	db *gorm.DB
}

// NewExpenseService creates the ledger service.
func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

// ExpenseFilter narrows the owner's expense listing. Zero values are ignored.
type ExpenseFilter struct {
	Name       string
	Amount     float64
	CategoryID uint
	Date       *time.Time
}

// ExpenseRow is a ledger row joined with its category name.
type ExpenseRow struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	Date         time.Time `json:"date"`
	CategoryName string    `json:"category_name"`
	CategoryID   uint      `json:"category_id"`
}

// ExpenseInput creates or updates a ledger row. A nil CategoryID on create
// falls back to the default category.
type ExpenseInput struct {
	Name       string
	Amount     float64
	Date       time.Time
	CategoryID *uint
}

// ExpenseUpdate carries partial changes; nil fields stay untouched.
type ExpenseUpdate struct {
	Name       *string
	Amount     *float64
	Date       *time.Time
	CategoryID *uint
}

// List returns the caller's expenses with optional filters.
func (s *ExpenseService) List(u *models.User, f ExpenseFilter) ([]ExpenseRow, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}

	query := s.db.Model(&models.Expense{}).
		Select("expenses.id, expenses.name, expenses.amount, expenses.date, categories.name AS category_name, categories.id AS category_id").
		Joins("JOIN categories ON expenses.category_id = categories.id").
		Where("expenses.user_id = ?", u.ID)

	if f.Name != "" {
		query = query.Where("expenses.name LIKE ?", "%"+f.Name+"%")
	}
	if f.Amount != 0 {
		query = query.Where("expenses.amount = ?", f.Amount)
	}
	if f.CategoryID != 0 {
		query = query.Where("categories.id = ?", f.CategoryID)
	}
	if f.Date != nil {
		query = query.Where("expenses.date = ?", *f.Date)
	}

	var rows []ExpenseRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRange returns the caller's expenses within [start, end], newest first.
func (s *ExpenseService) ListRange(u *models.User, start, end time.Time) ([]ExpenseRow, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}

	var rows []ExpenseRow
	err := s.db.Model(&models.Expense{}).
		Select("expenses.id, expenses.name, expenses.amount, expenses.date, categories.name AS category_name, categories.id AS category_id").
		Joins("JOIN categories ON expenses.category_id = categories.id").
		Where("expenses.user_id = ? AND expenses.date >= ? AND expenses.date <= ?", u.ID, start, end).
		Order("expenses.date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// OwnedExpenseRow is a ledger row joined with its owner, for admin exports.
type OwnedExpenseRow struct {
	ExpenseRow
	OwnerName    string `json:"owner_name"`
	OwnerSurname string `json:"owner_surname"`
	OwnerEmail   string `json:"owner_email"`
}

// AllInRange returns every user's expenses within [start, end], admin only.
func (s *ExpenseService) AllInRange(u *models.User, start, end time.Time) ([]OwnedExpenseRow, error) {
	if err := RequireAdmin(u); err != nil {
		return nil, err
	}

	var rows []OwnedExpenseRow
	err := s.db.Model(&models.Expense{}).
		Select("expenses.id, expenses.name, expenses.amount, expenses.date, categories.name AS category_name, categories.id AS category_id, users.name AS owner_name, users.surname AS owner_surname, users.email AS owner_email").
		Joins("JOIN categories ON expenses.category_id = categories.id").
		Joins("JOIN users ON expenses.user_id = users.id").
		Where("expenses.date >= ? AND expenses.date <= ?", start, end).
		Order("expenses.date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// View returns one of the caller's expenses with its category name.
func (s *ExpenseService) View(u *models.User, expenseID uint) (*ExpenseRow, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}

	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, u.ID).First(&expense).Error; err != nil {
		return nil, NotFound("Expense not found")
	}

	var category models.Category
	if err := s.db.First(&category, expense.CategoryID).Error; err != nil {
		return nil, err
	}

	return &ExpenseRow{
		ID:           expense.ID,
		Name:         expense.Name,
		Amount:       expense.Amount,
		Date:         expense.Date,
		CategoryName: category.Name,
		CategoryID:   category.ID,
	}, nil
}

// Create inserts an expense for the caller. A missing category falls back to
// the default category; an unknown one is not-found; a negative amount never
// reaches the store.
func (s *ExpenseService) Create(u *models.User, in ExpenseInput) (*models.Expense, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}
	if in.Amount < 0 {
		return nil, Invalid("Amount cannot be negative")
	}

	categoryID := models.DefaultCategoryID
	if in.CategoryID != nil && *in.CategoryID != 0 {
		categoryID = *in.CategoryID
	}
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return nil, NotFound("Category not found")
	}

	expense := models.Expense{
		Name:       in.Name,
		Amount:     in.Amount,
		Date:       in.Date,
		CategoryID: category.ID,
		UserID:     u.ID,
	}
	if err := s.db.Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// Update applies partial changes to one of the caller's expenses.
func (s *ExpenseService) Update(u *models.User, expenseID uint, in ExpenseUpdate) (*ExpenseRow, error) {
	if err := RequireLedgerAccess(u); err != nil {
		return nil, err
	}
	if in.Amount != nil && *in.Amount < 0 {
		return nil, Invalid("Amount cannot be negative")
	}

	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, u.ID).First(&expense).Error; err != nil {
		return nil, NotFound("Expense not found")
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Amount != nil {
		updates["amount"] = *in.Amount
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	if in.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, *in.CategoryID).Error; err != nil {
			return nil, NotFound("Category not found")
		}
		updates["category_id"] = *in.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&expense).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.View(u, expense.ID)
}

// Delete removes one of the caller's expenses.
func (s *ExpenseService) Delete(u *models.User, expenseID uint) error {
	if err := RequireLedgerAccess(u); err != nil {
		return err
	}

	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, u.ID).First(&expense).Error; err != nil {
		return NotFound("Expense not found")
	}
	return s.db.Delete(&expense).Error
}

package service

import (
	"testing"
	"time"

	"teamspend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedUser(id uint) *models.User {
	return &models.User{ID: id, Role: models.RoleUser, IsApproved: true}
}

func categoryRow(id uint, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name"}).AddRow(id, name)
}

func TestExpenseService_Create(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(uint(2)).
		WillReturnRows(categoryRow(2, "Food"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	categoryID := uint(2)
	expense, err := NewExpenseService(db).Create(approvedUser(1), ExpenseInput{
		Name:       "Lunch",
		Amount:     12.50,
		Date:       time.Now(),
		CategoryID: &categoryID,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(2), expense.CategoryID)
	assert.Equal(t, uint(1), expense.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_Create_DefaultCategoryFallback(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(models.DefaultCategoryID).
		WillReturnRows(categoryRow(models.DefaultCategoryID, models.DefaultCategoryName))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	expense, err := NewExpenseService(db).Create(approvedUser(1), ExpenseInput{
		Name:   "Misc",
		Amount: 3,
		Date:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategoryID, expense.CategoryID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_Create_NegativeAmount(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	_, err := NewExpenseService(db).Create(approvedUser(1), ExpenseInput{
		Name:   "Refund",
		Amount: -5,
		Date:   time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))
	assert.Equal(t, "Amount cannot be negative", err.Error())
	// Validation failed before any statement was issued.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_Create_UnknownCategory(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(uint(99)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	categoryID := uint(99)
	_, err := NewExpenseService(db).Create(approvedUser(1), ExpenseInput{
		Name:       "Lunch",
		Amount:     12.50,
		Date:       time.Now(),
		CategoryID: &categoryID,
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "Category not found", err.Error())
}

func TestExpenseService_Create_AdminBlocked(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsApproved: true}
	_, err := NewExpenseService(db).Create(admin, ExpenseInput{Name: "x", Amount: 1, Date: time.Now()})
	require.Error(t, err)
	assert.Equal(t, KindPermission, KindOf(err))
	assert.Equal(t, "Admins cannot have expenses", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_Create_UnapprovedBlocked(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	unapproved := &models.User{ID: 1, Role: models.RoleUser}
	_, err := NewExpenseService(db).Create(unapproved, ExpenseInput{Name: "x", Amount: 1, Date: time.Now()})
	require.Error(t, err)
	assert.Equal(t, "User is not approved yet", err.Error())
}

func TestExpenseService_List(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses` JOIN categories").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "amount", "date", "category_name", "category_id"}).
			AddRow(1, "Lunch", 12.5, time.Now(), "Food", 2).
			AddRow(2, "Bus", 2.75, time.Now(), "Transport", 4))

	rows, err := NewExpenseService(db).List(approvedUser(1), ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Food", rows[0].CategoryName)
	assert.Equal(t, 2.75, rows[1].Amount)
}

func TestExpenseService_ListRange(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses` JOIN categories").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "amount", "date", "category_name", "category_id"}).
			AddRow(1, "Lunch", 12.5, time.Now(), "Food", 2))

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 12, 31, 23, 59, 59, 0, time.Local)
	rows, err := NewExpenseService(db).ListRange(approvedUser(1), start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Lunch", rows[0].Name)
}

func TestExpenseService_AllInRange_NonAdminBlocked(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	_, err := NewExpenseService(db).AllInRange(approvedUser(1), time.Now(), time.Now())
	require.Error(t, err)
	assert.Equal(t, "You are not an admin", err.Error())
}

func TestExpenseService_View_NotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{}))

	_, err := NewExpenseService(db).View(approvedUser(1), 42)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "Expense not found", err.Error())
}

func TestExpenseService_Update_PartialFields(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	expenseRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "name", "amount", "date", "category_id", "user_id"}).
			AddRow(5, "Lunch", 12.5, now, 2, 1)
	}

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(expenseRows())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Re-read after the update.
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(expenseRows())
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(categoryRow(2, "Food"))

	amount := 20.0
	row, err := NewExpenseService(db).Update(approvedUser(1), 5, ExpenseUpdate{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "Food", row.CategoryName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_Update_NegativeAmount(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	amount := -1.0
	_, err := NewExpenseService(db).Update(approvedUser(1), 5, ExpenseUpdate{Amount: &amount})
	require.Error(t, err)
	assert.Equal(t, "Amount cannot be negative", err.Error())
}

func TestExpenseService_Delete(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "amount", "date", "category_id", "user_id"}).
			AddRow(5, "Lunch", 12.5, time.Now(), 2, 1))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewExpenseService(db).Delete(approvedUser(1), 5)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_Delete_NotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{}))

	err := NewExpenseService(db).Delete(approvedUser(1), 42)
	require.Error(t, err)
	assert.Equal(t, "Expense not found", err.Error())
}

package api

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func mockExpenseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "amount", "date", "category_name", "category_id"}).
		AddRow(1, "Lunch", 12.5, time.Date(2026, 8, 15, 0, 0, 0, 0, time.Local), "Food", 2).
		AddRow(2, "Bus", 2.75, time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local), "Transport", 4)
}

func TestExportHandler_CSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses` JOIN categories").
		WillReturnRows(mockExpenseRows())

	router := gin.New()
	router.Use(setCurrentUser(approvedUser(1)))
	router.GET("/api/export/csv", NewExportHandler(db).CSV)

	req := httptest.NewRequest("GET", "/api/export/csv?start_time=2026-08-01&end_time=2026-08-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses_2026-08-01_2026-08-31.csv")

	body := w.Body.String()
	// BOM prefix for Excel, then the header row.
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\xEF\xBB\xBF")))
	assert.Contains(t, body, "ID,Name,Amount,Category,Date")
	assert.Contains(t, body, "Lunch,12.50,Food,2026-08-15")
	assert.Contains(t, body, "Bus,2.75,Transport,2026-08-10")
}

func TestExportHandler_CSV_MissingRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setCurrentUser(approvedUser(1)))
	router.GET("/api/export/csv", NewExportHandler(db).CSV)

	req := httptest.NewRequest("GET", "/api/export/csv?start_time=2026-08-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "start_time and end_time are required")
}

func TestExportHandler_CSV_BadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setCurrentUser(approvedUser(1)))
	router.GET("/api/export/csv", NewExportHandler(db).CSV)

	req := httptest.NewRequest("GET", "/api/export/csv?start_time=08-01-2026&end_time=2026-08-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestExportHandler_JSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses` JOIN categories").
		WillReturnRows(mockExpenseRows())

	router := gin.New()
	router.Use(setCurrentUser(approvedUser(1)))
	router.GET("/api/export/json", NewExportHandler(db).JSON)

	req := httptest.NewRequest("GET", "/api/export/json?start_time=2026-08-01&end_time=2026-08-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"total_count":2`)
	assert.Contains(t, w.Body.String(), `"total_amount":15.25`)
}

func TestExportHandler_Excel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses` JOIN categories").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "amount", "date", "category_name", "category_id", "owner_name", "owner_surname", "owner_email"}).
			AddRow(1, "Lunch", 12.5, time.Date(2026, 8, 15, 0, 0, 0, 0, time.Local), "Food", 2, "Alice", "Smith", "alice@example.com"))

	router := gin.New()
	router.Use(setCurrentUser(adminUser()))
	router.GET("/api/admin/export/excel", NewExportHandler(db).Excel)

	req := httptest.NewRequest("GET", "/api/admin/export/excel?start_time=2026-08-01&end_time=2026-08-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "alice@example.com", rows[1][3])
	assert.Equal(t, "Total", rows[2][0])
}

func TestExportHandler_Excel_NonAdminForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setCurrentUser(approvedUser(1)))
	router.GET("/api/admin/export/excel", NewExportHandler(db).Excel)

	req := httptest.NewRequest("GET", "/api/admin/export/excel?start_time=2026-08-01&end_time=2026-08-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	assert.Contains(t, w.Body.String(), "You are not an admin")
}

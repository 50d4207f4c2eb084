package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"teamspend/middleware"
	"teamspend/models"
	"teamspend/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler serves ledger exports.
type ExportHandler struct {
	expenses *service.ExpenseService
}

// NewExportHandler creates the export handler.
func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{expenses: service.NewExpenseService(db)}
}

// parseRange reads start_time/end_time query params. The end bound is pushed
// to the last second of its day so date-typed rows on that day are included.
func parseRange(c *gin.Context) (start, end time.Time, ok bool) {
	startStr := c.Query("start_time")
	endStr := c.Query("end_time")

	if startStr == "" || endStr == "" {
		BadRequest(c, "start_time and end_time are required")
		return
	}

	start, err := time.ParseInLocation(models.DateFormat, startStr, time.Local)
	if err != nil {
		BadRequest(c, "Invalid start_time, expected format: 2006-01-02")
		return
	}
	end, err = time.ParseInLocation(models.DateFormat, endStr, time.Local)
	if err != nil {
		BadRequest(c, "Invalid end_time, expected format: 2006-01-02")
		return
	}
	end = end.Add(24*time.Hour - time.Second)
	return start, end, true
}

// CSV streams the caller's expenses in a date range as a CSV attachment.
// @Summary Export own expenses as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string true "start date (2006-01-02)"
// @Param end_time query string true "end date (2006-01-02)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "invalid range"
// @Failure 403 {object} Response "no ledger access"
// @Router /api/export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	rows, err := h.expenses.ListRange(user, start, end)
	if err != nil {
		FromError(c, err, "Failed to export expenses")
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel detects UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"ID", "Name", "Amount", "Category", "Date"}); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}
	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%d", row.ID),
			row.Name,
			fmt.Sprintf("%.2f", row.Amount),
			row.CategoryName,
			row.Date.Format(models.DateFormat),
		}
		if err := writer.Write(record); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("expenses_%s_%s.csv", c.Query("start_time"), c.Query("end_time"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// JSON returns the caller's expenses in a date range with summary totals.
// @Summary Export own expenses as JSON
// @Tags export
// @Produce json
// @Security BearerAuth
// @Param start_time query string true "start date (2006-01-02)"
// @Param end_time query string true "end date (2006-01-02)"
// @Success 200 {object} Response
// @Failure 400 {object} Response "invalid range"
// @Failure 403 {object} Response "no ledger access"
// @Router /api/export/json [get]
func (h *ExportHandler) JSON(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	rows, err := h.expenses.ListRange(user, start, end)
	if err != nil {
		FromError(c, err, "Failed to export expenses")
		return
	}

	var totalAmount float64
	for _, row := range rows {
		totalAmount += row.Amount
	}

	Success(c, gin.H{
		"start_time":   c.Query("start_time"),
		"end_time":     c.Query("end_time"),
		"total_count":  len(rows),
		"total_amount": totalAmount,
		"expenses":     rows,
	})
}

// Excel streams every user's expenses in a date range as a styled
// spreadsheet, admin only.
// @Summary Export all expenses as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string true "start date (2006-01-02)"
// @Param end_time query string true "end date (2006-01-02)"
// @Success 200 {file} file "Excel file"
// @Failure 400 {object} Response "invalid range"
// @Failure 403 {object} Response "not an admin"
// @Router /api/admin/export/excel [get]
func (h *ExportHandler) Excel(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	rows, err := h.expenses.AllInRange(user, start, end)
	if err != nil {
		FromError(c, err, "Failed to export expenses")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Expenses"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "C", 18)
	f.SetColWidth(sheetName, "D", "D", 28)
	f.SetColWidth(sheetName, "E", "E", 25)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 15)
	f.SetColWidth(sheetName, "H", "H", 14)

	headers := []string{"ID", "Name", "Surname", "Email", "Expense", "Amount", "Category", "Date"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalAmount float64
	for i, row := range rows {
		line := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", line), row.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", line), row.OwnerName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", line), row.OwnerSurname)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", line), row.OwnerEmail)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", line), row.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", line), row.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", line), row.CategoryName)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", line), row.Date.Format(models.DateFormat))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", line), fmt.Sprintf("H%d", line), dataStyle)
		totalAmount += row.Amount
	}

	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), totalAmount)
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("%d records", len(rows)))
	f.MergeCell(sheetName, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("H%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("expenses_%s_%s.xlsx", c.Query("start_time"), c.Query("end_time"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Failed to generate Excel file")
		return
	}
}

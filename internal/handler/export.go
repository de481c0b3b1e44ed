package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/util"
)

// ExportHandler exports the expense and investment ledgers.
type ExportHandler struct {
	Svc *ledger.Service
}

func NewExportHandler(svc *ledger.Service) *ExportHandler {
	return &ExportHandler{Svc: svc}
}

// ExportCSV streams both ledgers as one CSV document.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	led, err := h.Svc.View(user.ID)
	if err != nil {
		ledgerError(c, err, http.StatusBadRequest)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so Excel renders the Vietnamese labels correctly
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write([]string{"record", "amount", "category/type", "purpose", "location", "date"})

	for _, e := range led.Expenses() {
		label := e.Category
		if cat, ok := ledger.CategoryFromKey(e.Category); ok {
			label = cat.Label()
		}
		writer.Write([]string{
			"expense",
			e.Amount.String(),
			label,
			e.Purpose,
			e.Location,
			e.Date.Format("2006-01-02"),
		})
	}
	for _, inv := range led.Investments() {
		writer.Write([]string{
			"investment",
			inv.Amount.String(),
			inv.Type,
			"",
			"",
			inv.Date.Format("2006-01-02"),
		})
	}
}

// ExportXLSX writes both ledgers to a workbook, one sheet each.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	led, err := h.Svc.View(user.ID)
	if err != nil {
		ledgerError(c, err, http.StatusBadRequest)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const expenseSheet = "Expenses"
	f.SetSheetName(f.GetSheetName(0), expenseSheet)
	f.SetSheetRow(expenseSheet, "A1", &[]interface{}{"Amount", "Category", "Purpose", "Location", "Date"})
	for i, e := range led.Expenses() {
		label := e.Category
		if cat, ok := ledger.CategoryFromKey(e.Category); ok {
			label = cat.Label()
		}
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(expenseSheet, cell, &[]interface{}{
			e.Amount.String(), label, e.Purpose, e.Location, e.Date.Format("2006-01-02"),
		})
	}

	const investmentSheet = "Investments"
	f.NewSheet(investmentSheet)
	f.SetSheetRow(investmentSheet, "A1", &[]interface{}{"Amount", "Price", "Type", "Date"})
	for i, inv := range led.Investments() {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(investmentSheet, cell, &[]interface{}{
			inv.Amount.String(), inv.Price.String(), inv.Type, inv.Date.Format("2006-01-02"),
		})
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write workbook")
		return
	}
}

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/util"
)

// ExpenseHandler serves the expense ledger.
type ExpenseHandler struct {
	Svc *ledger.Service
}

func NewExpenseHandler(svc *ledger.Service) *ExpenseHandler {
	return &ExpenseHandler{Svc: svc}
}

type createExpenseReq struct {
	Amount   float64 `json:"amount" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Purpose  string  `json:"purpose" binding:"required,max=255"`
	Location string  `json:"location" binding:"required,max=255"`
	Date     string  `json:"date"`
}

// ListExpenses returns the expense list in insertion order. The index of
// each item is the handle for DELETE; clients must re-fetch after a
// delete before issuing another index-based delete.
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	led, err := h.Svc.View(user.ID)
	if err != nil {
		ledgerError(c, err, http.StatusBadRequest)
		return
	}

	util.Success(c, util.Response{
		"expenses": expensesPayload(led),
	})
}

// CreateExpense records a spend against the labeled envelope.
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	req.Purpose = strings.TrimSpace(req.Purpose)
	req.Location = strings.TrimSpace(req.Location)

	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateText("purpose", req.Purpose, 255); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateText("location", req.Location, 255); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	// date defaults to today at the operation boundary
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	led, expense, err := h.Svc.RecordExpense(user.ID,
		decimal.NewFromFloat(req.Amount), req.Category, req.Purpose, req.Location, date)
	if err != nil {
		ledgerError(c, err, http.StatusBadRequest)
		return
	}

	util.Success(c, util.Response{
		"expense": expenseResp{
			Index:    len(led.Expenses()) - 1,
			Amount:   expense.Amount,
			Category: req.Category,
			Purpose:  expense.Purpose,
			Location: expense.Location,
			Date:     expense.Date.Format("2006-01-02"),
		},
		"initial_budget": led.Budget(),
		"allocations":    allocationsPayload(led),
	})
}

// DeleteExpense reverses and removes the expense at :index.
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid index")
		return
	}

	led, err := h.Svc.DeleteExpense(user.ID, index)
	if err != nil {
		ledgerError(c, err, http.StatusBadRequest)
		return
	}

	util.Success(c, util.Response{
		"message":        "expense deleted",
		"initial_budget": led.Budget(),
		"expenses":       expensesPayload(led),
	})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/models"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/util"
)

// currentUser pulls the authenticated user set by AuthMiddleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

// ledgerError maps ledger errors to HTTP responses. Business-rule
// rejections carry the detail verbatim so the caller can correct the
// request; everything else stays generic.
func ledgerError(c *gin.Context, err error, indexStatus int) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnknownCategory),
		errors.Is(err, ledger.ErrUnknownType),
		errors.Is(err, ledger.ErrInsufficientAllocation),
		errors.Is(err, ledger.ErrInsufficientBudget):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		code := util.CodeInvalidParam
		if indexStatus == http.StatusNotFound {
			code = util.CodeNotFound
		}
		util.Error(c, indexStatus, code, err.Error())
	case errors.Is(err, ledger.ErrConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, "concurrent update detected, please retry")
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed, please retry")
	}
}

// allocationsPayload renders envelope balances keyed by display label.
func allocationsPayload(led *ledger.Ledger) gin.H {
	out := gin.H{}
	for cat, v := range led.Allocations() {
		out[cat.Label()] = v
	}
	return out
}

type expenseResp struct {
	Index    int             `json:"index"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Purpose  string          `json:"purpose"`
	Location string          `json:"location"`
	Date     string          `json:"date"`
}

func expensesPayload(led *ledger.Ledger) []expenseResp {
	items := make([]expenseResp, 0, len(led.Expenses()))
	for i, e := range led.Expenses() {
		label := e.Category
		if cat, ok := ledger.CategoryFromKey(e.Category); ok {
			label = cat.Label()
		}
		items = append(items, expenseResp{
			Index:    i,
			Amount:   e.Amount,
			Category: label,
			Purpose:  e.Purpose,
			Location: e.Location,
			Date:     e.Date.Format("2006-01-02"),
		})
	}
	return items
}

type investmentResp struct {
	Index  int             `json:"index"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Type   string          `json:"type"`
	Date   string          `json:"date"`
}

func investmentsPayload(led *ledger.Ledger) []investmentResp {
	items := make([]investmentResp, 0, len(led.Investments()))
	for i, inv := range led.Investments() {
		items = append(items, investmentResp{
			Index:  i,
			Amount: inv.Amount,
			Price:  inv.Price,
			Type:   inv.Type,
			Date:   inv.Date.Format("2006-01-02"),
		})
	}
	return items
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/util"
)

// BudgetHandler serves budget injection, allocation overrides and reset.
type BudgetHandler struct {
	Svc *ledger.Service
}

func NewBudgetHandler(svc *ledger.Service) *BudgetHandler {
	return &BudgetHandler{Svc: svc}
}

type injectBudgetReq struct {
	Amount float64 `json:"amount" binding:"required"`
}

// InjectBudget adds to the budget and splits it across the envelopes.
func (h *BudgetHandler) InjectBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req injectBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	led, err := h.Svc.InjectBudget(user.ID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		ledgerError(c, err, http.StatusBadRequest)
		return
	}

	util.Success(c, util.Response{
		"initial_budget": led.Budget(),
		"allocations":    allocationsPayload(led),
	})
}

// GetBudget returns the current budget total.
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"initial_budget": user.InitialBudget,
	})
}

// GetAllocations returns every envelope balance keyed by display label.
func (h *BudgetHandler) GetAllocations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	led := ledger.New(user, nil, nil)
	util.Success(c, util.Response{
		"allocations": allocationsPayload(led),
	})
}

// SetAllocations replaces the envelope balances wholesale. This is an
// administrative override: the budget total is not reconciled, so the
// envelope sum may diverge from it afterwards.
func (h *BudgetHandler) SetAllocations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req map[string]float64
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	values := make(map[ledger.Category]decimal.Decimal, len(req))
	for label, v := range req {
		cat, ok := ledger.CategoryFromLabel(label)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown category: "+label)
			return
		}
		values[cat] = decimal.NewFromFloat(v)
	}

	led, err := h.Svc.SetAllocations(user.ID, values)
	if err != nil {
		ledgerError(c, err, http.StatusBadRequest)
		return
	}

	util.Success(c, util.Response{
		"allocations": allocationsPayload(led),
	})
}

// ResetBudget zeroes everything. Idempotent.
func (h *BudgetHandler) ResetBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if _, err := h.Svc.ResetBudget(user.ID); err != nil {
		ledgerError(c, err, http.StatusBadRequest)
		return
	}

	util.Success(c, util.Response{
		"message": "budget reset",
	})
}

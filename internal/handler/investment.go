package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/analysis"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/pricing"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/util"
)

// InvestmentHandler serves the investment ledger and its analysis.
type InvestmentHandler struct {
	Svc      *ledger.Service
	Provider *pricing.Provider
	Engine   *analysis.Engine
}

func NewInvestmentHandler(svc *ledger.Service, provider *pricing.Provider, engine *analysis.Engine) *InvestmentHandler {
	return &InvestmentHandler{Svc: svc, Provider: provider, Engine: engine}
}

type createInvestmentReq struct {
	Amount float64 `json:"amount" binding:"required"`
	Price  float64 `json:"price" binding:"required"`
	Type   string  `json:"type" binding:"required"`
}

// ListInvestments returns the investment list in insertion order.
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	led, err := h.Svc.View(user.ID)
	if err != nil {
		ledgerError(c, err, http.StatusNotFound)
		return
	}

	util.Success(c, util.Response{
		"investments": investmentsPayload(led),
	})
}

// CreateInvestment draws from the self-investment envelope. A position
// above 10% of the portfolio still commits but returns a warning.
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createInvestmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	req.Type = strings.TrimSpace(req.Type)

	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateAmount(req.Price); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	led, investment, warning, err := h.Svc.RecordInvestment(user.ID,
		decimal.NewFromFloat(req.Amount), decimal.NewFromFloat(req.Price), req.Type)
	if err != nil {
		ledgerError(c, err, http.StatusNotFound)
		return
	}

	resp := util.Response{
		"investment": investmentResp{
			Index:  len(led.Investments()) - 1,
			Amount: investment.Amount,
			Price:  investment.Price,
			Type:   investment.Type,
			Date:   investment.Date.Format("2006-01-02"),
		},
		"allocations": allocationsPayload(led),
	}
	if warning != "" {
		resp["warning"] = warning
	}
	util.Success(c, resp)
}

// DeleteInvestment reverses and removes the investment at :index.
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid index")
		return
	}

	led, err := h.Svc.DeleteInvestment(user.ID, index)
	if err != nil {
		ledgerError(c, err, http.StatusNotFound)
		return
	}

	util.Success(c, util.Response{
		"message":     "investment deleted",
		"investments": investmentsPayload(led),
		"allocations": allocationsPayload(led),
	})
}

// Analyze values the portfolio against the current Bitcoin price.
func (h *InvestmentHandler) Analyze(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	led, err := h.Svc.View(user.ID)
	if err != nil {
		ledgerError(c, err, http.StatusNotFound)
		return
	}

	quote := h.Provider.CurrentPrice(c.Request.Context())
	report := h.Engine.Analyze(led, quote)

	util.Success(c, util.Response{
		"total_invested":  report.TotalInvested,
		"current_value":   report.CurrentValue,
		"roi":             report.ROI,
		"degraded":        report.Degraded,
		"recommendations": report.Recommendations,
	})
}

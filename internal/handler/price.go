package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/pricing"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/util"
)

// PriceHandler serves the public price endpoints and the health check.
// Neither price endpoint ever hard-fails: the provider degrades to a
// fallback value instead.
type PriceHandler struct {
	Provider *pricing.Provider
	DB       *gorm.DB
}

func NewPriceHandler(provider *pricing.Provider, db *gorm.DB) *PriceHandler {
	return &PriceHandler{Provider: provider, DB: db}
}

// BitcoinPrice returns the current price; warning is set when the value
// is the degraded fallback rather than a live quote.
func (h *PriceHandler) BitcoinPrice(c *gin.Context) {
	quote := h.Provider.CurrentPrice(c.Request.Context())

	resp := util.Response{
		"price": quote.Price,
	}
	if quote.Degraded {
		resp["warning"] = "price sources unavailable, returning fallback value"
	}
	util.Success(c, resp)
}

// BitcoinHistory returns 7 daily price points. On upstream failure the
// series is synthetic and flagged as such.
func (h *PriceHandler) BitcoinHistory(c *gin.Context) {
	points, degraded := h.Provider.History(c.Request.Context())

	resp := util.Response{
		"history": points,
	}
	if degraded {
		resp["warning"] = "history source unavailable, returning synthetic series"
	}
	util.Success(c, resp)
}

// Ping reports service and dependency status.
func (h *PriceHandler) Ping(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	util.Success(c, util.Response{
		"status": "ok",
		"dependencies": gin.H{
			"database": dbStatus,
		},
	})
}

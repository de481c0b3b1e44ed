package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/analysis"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/config"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/handler"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/middleware"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/pricing"
)

// SetupRouter configures the Gin engine and the API surface.
func SetupRouter(cfg *config.Config, db *gorm.DB, svc *ledger.Service, provider *pricing.Provider) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// public price endpoints: they never hard-fail, only degrade
	priceHandler := handler.NewPriceHandler(provider, db)
	api.GET("/bitcoin-price", priceHandler.BitcoinPrice)
	api.GET("/bitcoin-history", priceHandler.BitcoinHistory)
	api.GET("/ping", priceHandler.Ping)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile/password", handler.ChangePassword(db))
	protected.DELETE("/account", handler.DeleteAccount(svc))

	budgetHandler := handler.NewBudgetHandler(svc)
	protected.POST("/initial-budget", budgetHandler.InjectBudget)
	protected.GET("/initial-budget", budgetHandler.GetBudget)
	protected.GET("/allocations", budgetHandler.GetAllocations)
	protected.POST("/allocations", budgetHandler.SetAllocations)
	protected.DELETE("/budget", budgetHandler.ResetBudget)

	expenseHandler := handler.NewExpenseHandler(svc)
	protected.GET("/expenses", expenseHandler.ListExpenses)
	protected.POST("/expenses", expenseHandler.CreateExpense)
	protected.DELETE("/expenses/:index", expenseHandler.DeleteExpense)

	engine := analysis.NewEngine(cfg.Investment.PriceLinkedTypes)
	investmentHandler := handler.NewInvestmentHandler(svc, provider, engine)
	protected.GET("/investments", investmentHandler.ListInvestments)
	protected.POST("/investments", investmentHandler.CreateInvestment)
	protected.DELETE("/investments/:index", investmentHandler.DeleteInvestment)
	protected.GET("/investment-analysis", investmentHandler.Analyze)

	exportHandler := handler.NewExportHandler(svc)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}

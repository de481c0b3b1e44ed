package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/config"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/database"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/jobs"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/pricing"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/router"
)

func main() {
	// optional .env for local development; real deployments use the
	// environment directly
	_ = godotenv.Load()

	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		zlog.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// amounts marshal as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// price pipeline: in-memory cache, chained sources, cron warmer
	cache := pricing.NewMemoryCache()
	provider := pricing.NewProvider(cfg.Pricing, cache, log)

	warmer := jobs.NewWarmer(provider, log)
	if err := warmer.Start(cfg.Pricing.WarmInterval); err != nil {
		log.Fatal().Err(err).Msg("start cache warmer")
	}
	defer warmer.Stop()

	svc := ledger.NewService(db, log, cfg.Investment.Types)

	// setup router
	r := router.SetupRouter(cfg, db, svc, provider)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("run server")
	}
}
